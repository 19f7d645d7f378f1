package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	apperr "github.com/matzehuels/colortrade/pkg/errors"
)

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code apperr.Code) int {
	switch {
	case code == apperr.ErrCodeNotFound,
		code == apperr.ErrCodeFileNotFound,
		code == apperr.ErrCodeSolutionNotFound:
		return http.StatusNotFound
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case code == apperr.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == apperr.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	case code == apperr.ErrCodeUnsupported:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	status := StatusFor(code)
	msg := apperr.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
		msg = "internal error"
	}

	hooksOnError(r, string(code))
	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: code, Message: msg},
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// validationError flattens validator errors into one INVALID_INPUT error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid request")
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fe.Namespace()+" failed "+fe.Tag()+"="+fe.Param())
		} else {
			parts = append(parts, fe.Namespace()+" failed "+fe.Tag())
		}
	}
	return apperr.New(apperr.ErrCodeInvalidInput, "invalid request: %s", strings.Join(parts, "; "))
}

func errNotFound(path string) error {
	return apperr.New(apperr.ErrCodeNotFound, "no route for %s", path)
}

func errMethodNotAllowed(method, path string) error {
	return apperr.New(apperr.ErrCodeUnsupported, "method %s not allowed on %s", method, path)
}
