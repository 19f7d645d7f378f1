package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/matzehuels/colortrade/pkg/errors"
	"github.com/matzehuels/colortrade/pkg/observability"
	"github.com/matzehuels/colortrade/pkg/pipeline"
)

const hexagonJSON = `{
  "name": "hex",
  "vertices": {"0": ["a", "b"], "1": ["a", "b"], "2": ["a", "b"], "3": ["a", "b"], "4": ["a", "b"], "5": ["a", "b"]},
  "edges": [["0","1"],["1","2"],["2","3"],["3","4"],["4","5"],["5","0"]]
}`

const starJSON = `{
  "vertices": {"0": ["x", "y"], "1": ["x"], "2": ["y"], "3": ["x"]},
  "edges": [["0","1"],["0","2"],["0","3"]]
}`

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHealthAndVersion(t *testing.T) {
	h := New(Config{}).Handler()

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version"`)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestSolveInline(t *testing.T) {
	h := New(Config{}).Handler()

	rec := do(t, h, http.MethodPost, "/v1/solve", `{"instance": `+hexagonJSON+`, "solutions": true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rep pipeline.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rep))
	assert.Equal(t, "hex", rep.Instance)
	assert.Equal(t, 2, rep.Stats.Colorings)
	assert.Equal(t, 1, rep.Stats.Trades)
	assert.Equal(t, []int{2}, rep.Stats.ComponentSizes)
	require.Len(t, rep.Solutions, 2)
	assert.Equal(t, pipeline.EdgeColor{U: "0", V: "1", Color: "a"}, rep.Solutions[0].Edges[0])
	assert.Equal(t, []int{1}, rep.Solutions[0].Partners)
	_, err := uuid.Parse(rep.RunID)
	assert.NoError(t, err)
}

func TestSolveBuiltin(t *testing.T) {
	h := New(Config{}).Handler()

	rec := do(t, h, http.MethodPost, "/v1/solve", `{"builtin": "k4", "options": {"workers": 2}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rep pipeline.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rep))
	assert.Equal(t, 6, rep.Stats.Colorings)
	assert.Equal(t, 6, rep.Stats.Trades)
	assert.Equal(t, []int{3, 3}, rep.Stats.ComponentSizes)
	assert.Empty(t, rep.Solutions)
}

func TestSolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   apperr.Code
	}{
		{"degree mismatch", `{"instance": ` + starJSON + `}`, http.StatusBadRequest, apperr.ErrCodeInvalidConstraint},
		{"malformed json", `{"instance": `, http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"unknown field", `{"builtin": "k4", "colour": 1}`, http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"neither instance nor builtin", `{}`, http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"both instance and builtin", `{"builtin": "k4", "instance": ` + hexagonJSON + `}`, http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"negative workers", `{"builtin": "k4", "options": {"workers": -1}}`, http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"unknown builtin", `{"builtin": "petersen"}`, http.StatusNotFound, apperr.ErrCodeNotFound},
		{"bad edge", `{"instance": {"vertices": {"a": []}, "edges": [["a"]]}}`, http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"empty instance", `{"instance": {}}`, http.StatusBadRequest, apperr.ErrCodeInvalidInstance},
		{"instance without edges", `{"instance": {"vertices": {"a": []}}}`, http.StatusBadRequest, apperr.ErrCodeInvalidInstance},
		{"self loop", `{"instance": {"vertices": {"a": ["x", "y"]}, "edges": [["a", "a"]]}}`, http.StatusBadRequest, apperr.ErrCodeInvalidInstance},
	}

	h := New(Config{}).Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/solve", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.Equal(t, rec.Header().Get(RequestIDHeader), body.RequestID)
		})
	}
}

func TestSolveDegreeMismatchMessage(t *testing.T) {
	rec := do(t, New(Config{}).Handler(), http.MethodPost, "/v1/solve", `{"instance": `+starJSON+`}`)
	body := decodeError(t, rec)
	assert.Contains(t, body.Error.Message, "degree 3 but 2 colors")
}

func TestSolveMissingSection(t *testing.T) {
	h := New(Config{}).Handler()

	rec := do(t, h, http.MethodPost, "/v1/solve", `{"instance": {}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Message, `missing required section "vertices"`)

	rec = do(t, h, http.MethodPost, "/v1/solve", `{"instance": {"vertices": {}, "edges": []}}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestBodyLimit(t *testing.T) {
	h := New(Config{MaxBodyBytes: 32}).Handler()
	rec := do(t, h, http.MethodPost, "/v1/solve", `{"instance": `+hexagonJSON+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Message, "exceeds 32 bytes")
}

func TestSolveTimeout(t *testing.T) {
	h := New(Config{SolveTimeout: time.Nanosecond}).Handler()
	rec := do(t, h, http.MethodPost, "/v1/solve", `{"builtin": "k4"}`)
	// The deadline may pass before or during the search.
	if rec.Code != http.StatusOK {
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		assert.Equal(t, apperr.ErrCodeTimeout, decodeError(t, rec).Error.Code)
	}
}

func TestBuiltins(t *testing.T) {
	h := New(Config{}).Handler()

	rec := do(t, h, http.MethodGet, "/v1/builtins", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list map[string][]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Contains(t, list["builtins"], "hexagon")

	rec = do(t, h, http.MethodGet, "/v1/builtins/triangle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orange"`)

	rec = do(t, h, http.MethodGet, "/v1/builtins/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutingErrors(t *testing.T) {
	h := New(Config{}).Handler()

	rec := do(t, h, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperr.ErrCodeNotFound, decodeError(t, rec).Error.Code)

	rec = do(t, h, http.MethodGet, "/v1/solve", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, apperr.ErrCodeUnsupported, decodeError(t, rec).Error.Code)
}

func TestRequestID(t *testing.T) {
	h := New(Config{}).Handler()

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	got := rec.Header().Get(RequestIDHeader)
	assert.NotEqual(t, "not-a-uuid", got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestMetricsEndpoint(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	m := observability.NewMetrics()
	m.Register()

	h := New(Config{Metrics: m}).Handler()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/v1/solve", `{"builtin": "square"}`).Code)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/v1/solve", `{"instance": `+starJSON+`}`).Code)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `colortrade_http_requests_total{code="200",method="POST",route="/v1/solve"} 1`)
	assert.Contains(t, out, `colortrade_http_errors_total{code="INVALID_CONSTRAINT",route="/v1/solve"} 1`)
	assert.Contains(t, out, `colortrade_solve_solutions_total 2`)

	// Without metrics the route does not exist.
	rec = do(t, New(Config{}).Handler(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code apperr.Code
		want int
	}{
		{apperr.ErrCodeInvalidInput, http.StatusBadRequest},
		{apperr.ErrCodeInvalidConstraint, http.StatusBadRequest},
		{apperr.ErrCodeInvalidInstance, http.StatusBadRequest},
		{apperr.ErrCodeNotFound, http.StatusNotFound},
		{apperr.ErrCodeSolutionNotFound, http.StatusNotFound},
		{apperr.ErrCodeTimeout, http.StatusGatewayTimeout},
		{apperr.ErrCodeCanceled, http.StatusServiceUnavailable},
		{apperr.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.code), "code %q", tt.code)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(Config{Addr: "127.0.0.1:0"})

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
