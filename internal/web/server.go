// Package web serves reconciliation over HTTP: upload a base and a search
// file, get the three output tables back. Each request is an independent
// batch; nothing is shared between requests except the optional history.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/resolutions/internal/config"
	"github.com/JonMunkholm/resolutions/internal/reconcile"
	"github.com/JonMunkholm/resolutions/internal/store"
	mw "github.com/JonMunkholm/resolutions/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// History is the run history the server records to and reads from.
type History interface {
	reconcile.Recorder
	ListRuns(ctx context.Context, limit int) ([]reconcile.Summary, error)
	GetRun(ctx context.Context, id uuid.UUID) (*store.RunDetail, error)
}

// Server is the HTTP server for reconciliation uploads.
type Server struct {
	cfg     config.ServerConfig
	opts    reconcile.Options
	history History
	limiter *runLimiter
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server. history may be nil, in which case runs are
// not recorded and the history endpoints answer 503.
func NewServer(cfg config.ServerConfig, opts reconcile.Options, history History) *Server {
	s := &Server{
		cfg:     cfg,
		opts:    opts,
		history: history,
		limiter: newRunLimiter(cfg.MaxConcurrentRuns, cfg.RunWait),
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}
	s.router.Use(mw.SecurityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/reconcile", s.handleReconcile)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{runID}", s.handleGetRun)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr, "history", s.history != nil)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for running
// reconciliations to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	if n := s.limiter.running(); n > 0 {
		slog.Info("waiting for reconciliations to complete", "running", n)
	}
	return s.limiter.drain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

