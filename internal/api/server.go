// Package api serves the wellpos pipeline over HTTP.
//
// Routes:
//
//	POST /v1/solve     reconstruct every constellation of a survey
//	POST /v1/validate  check a survey against the triangle inequality
//	POST /v1/render    solve and draw a survey as svg, png, pdf or dot
//	GET  /healthz      liveness and build information
//	GET  /metrics      Prometheus metrics, when a registry is attached
//
// Request bodies are JSON. The survey field holds either a survey object, as
// accepted by the CLI in JSON form, or a bare N×N matrix with null for
// unknown entries. Every response carries an X-Request-ID header; failures
// return an [ErrorResponse] whose code matches the pkg/errors codes.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/wellpos/pkg/metrics"
	"github.com/matzehuels/wellpos/pkg/pipeline"
)

const (
	// DefaultTimeout bounds the work done for a single /v1 request.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxBodyBytes limits request bodies.
	DefaultMaxBodyBytes = 4 << 20

	shutdownTimeout = 5 * time.Second
)

// Server handles API requests with a shared pipeline runner.
type Server struct {
	Runner  *pipeline.Runner
	Logger  *log.Logger
	Metrics *metrics.Metrics // optional; serves /metrics when set

	Timeout      time.Duration
	MaxBodyBytes int64
}

// New creates a server. A nil runner caches nothing; a nil logger uses the
// default logger.
func New(runner *pipeline.Runner, logger *log.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		Runner:       runner,
		Logger:       logger,
		Metrics:      m,
		Timeout:      DefaultTimeout,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.instrument)
	r.Use(s.recoverer)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errMethodNotAllowed)
	})

	r.Get("/healthz", s.handleHealth)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		if s.Timeout > 0 {
			r.Use(middleware.Timeout(s.Timeout))
		}
		r.Post("/solve", s.handleSolve)
		r.Post("/validate", s.handleValidate)
		r.Post("/render", s.handleRender)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
