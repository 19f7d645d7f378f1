package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/colortrade/pkg/buildinfo"
	apperr "github.com/matzehuels/colortrade/pkg/errors"
	"github.com/matzehuels/colortrade/pkg/instance"
	"github.com/matzehuels/colortrade/pkg/observability"
	"github.com/matzehuels/colortrade/pkg/pipeline"
)

// SolveRequest is the body of POST /v1/solve. Exactly one of Instance and
// Builtin must be set.
type SolveRequest struct {
	Instance  *instance.Instance `json:"instance,omitempty" validate:"required_without=Builtin,excluded_with=Builtin"`
	Builtin   string             `json:"builtin,omitempty" validate:"omitempty,max=64"`
	Options   pipeline.Options   `json:"options"`
	Solutions bool               `json:"solutions,omitempty"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, apperr.New(apperr.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	in := req.Instance
	if req.Builtin != "" {
		b, ok := instance.Builtin(req.Builtin)
		if !ok {
			s.writeError(w, r, apperr.New(apperr.ErrCodeNotFound, "unknown built-in instance %q", req.Builtin))
			return
		}
		in = b
	} else if err := in.CheckSections(); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.SolveTimeout)
	defer cancel()

	opts := req.Options
	opts.Logger = s.cfg.Logger.With("request", RequestID(r.Context()))
	res, err := s.cfg.Runner.Execute(ctx, in, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Report(pipeline.ReportOptions{Solutions: req.Solutions}))
}

func (s *Server) handleBuiltins(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"builtins": instance.BuiltinNames()})
}

func (s *Server) handleBuiltin(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	in, ok := instance.Builtin(name)
	if !ok {
		s.writeError(w, r, apperr.New(apperr.ErrCodeNotFound, "unknown built-in instance %q", name))
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func hooksOnError(r *http.Request, code string) {
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), code)
}
