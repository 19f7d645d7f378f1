// Package server exposes the colortrade pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/solve            solve an inline instance or a built-in
//	GET  /v1/builtins         list built-in instance names
//	GET  /v1/builtins/{name}  fetch a built-in instance
//	GET  /healthz             liveness probe
//	GET  /version             build information
//	GET  /metrics             Prometheus metrics (when configured)
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/colortrade/pkg/observability"
	"github.com/matzehuels/colortrade/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address used when Config.Addr is empty.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultMaxBodyBytes limits the size of a request body.
	DefaultMaxBodyBytes = 4 << 20

	// DefaultSolveTimeout bounds a single solve request.
	DefaultSolveTimeout = 2 * time.Minute

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr         string
	Runner       *pipeline.Runner
	Logger       *log.Logger
	Metrics      *observability.Metrics
	MaxBodyBytes int64
	SolveTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	cfg      Config
	router   chi.Router
	validate *validator.Validate
}

// New creates a server. A nil Runner gets an uncached one.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.SolveTimeout <= 0 {
		cfg.SolveTimeout = DefaultSolveTimeout
	}

	s := &Server{cfg: cfg, validate: validator.New()}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/builtins", s.handleBuiltins)
		r.Get("/builtins/{name}", s.handleBuiltin)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errMethodNotAllowed(r.Method, r.URL.Path))
	})
	return r
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
