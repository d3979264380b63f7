// Package api serves porenet runs over HTTP.
//
// # Endpoints
//
//	POST /sweeps                   run the pipeline with JSON options (201)
//	GET  /sweeps                   list recent runs, ?limit=N
//	GET  /sweeps/{id}              fetch a run, ?format=csv for the series table
//	GET  /sweeps/{id}/snapshot     draw one variant, ?variant=&level=&format=svg
//	GET  /healthz                  liveness and version
//
// Errors are returned as {"error": {"code": "...", "message": "..."}} with an
// HTTP status derived from the code.
//
// # Usage
//
//	srv := api.New(runner, store.NewMemoryStore(0), logger)
//	err := srv.ListenAndServe(ctx, ":8080")
package api

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/porenet/pkg/pipeline"
	"github.com/matzehuels/porenet/pkg/store"
)

// Server timeouts. Sweeps run inside the request, so the write timeout is
// generous.
const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Minute
	shutdownTimeout = 15 * time.Second
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server is the porenet HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	logger  *log.Logger
	started time.Time

	// AllowedOrigin is sent as Access-Control-Allow-Origin. Empty disables
	// CORS headers.
	AllowedOrigin string
}

// New creates a server. A nil store means an in-memory store; a nil logger
// discards output.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if st == nil {
		st = store.NewMemoryStore(0)
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		runner:  runner,
		store:   st,
		logger:  logger,
		started: time.Now(),
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	if s.AllowedOrigin != "" {
		r.Use(cors(s.AllowedOrigin))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/sweeps", func(r chi.Router) {
		r.Post("/", s.handleCreateSweep)
		r.Get("/", s.handleListSweeps)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(validRunID)
			r.Get("/", s.handleGetSweep)
			r.Get("/snapshot", s.handleSnapshot)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the store.
func (s *Server) Close() error {
	return s.store.Close()
}
