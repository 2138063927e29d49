// Package httpapi exposes the knowledge base and assistant over a small JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
	"github.com/custodia-labs/askdocs-cli/internal/metrics"
)

// ErrMissingKnowledgeBase is returned when the knowledge base is not provided.
var ErrMissingKnowledgeBase = errors.New("httpapi: knowledge base is required")

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 5 * time.Minute
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Config holds the server dependencies.
type Config struct {
	Knowledge driving.KnowledgeBase

	// Assistant is optional; without it /ask answers 503.
	Assistant driving.Assistant

	// Metrics is optional; without it /metrics is not served.
	Metrics *metrics.Recorder

	Settings domain.ServerSettings
}

// Server routes HTTP requests to the driving ports.
type Server struct {
	knowledge driving.KnowledgeBase
	assistant driving.Assistant
	metrics   *metrics.Recorder
	limiter   *IPRateLimiter
	settings  domain.ServerSettings
	router    chi.Router
	log       *logger.Logger
}

// NewServer builds the router.
func NewServer(cfg Config, log *logger.Logger) (*Server, error) {
	if cfg.Knowledge == nil {
		return nil, ErrMissingKnowledgeBase
	}

	defaults := domain.DefaultAppSettings().Server
	if cfg.Settings.Addr == "" {
		cfg.Settings.Addr = defaults.Addr
	}

	s := &Server{
		knowledge: cfg.Knowledge,
		assistant: cfg.Assistant,
		metrics:   cfg.Metrics,
		settings:  cfg.Settings,
		log:       log.Component("http"),
	}
	if cfg.Settings.RatePerSecond > 0 {
		s.limiter = NewIPRateLimiter(cfg.Settings.RatePerSecond, cfg.Settings.Burst)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware(routePattern))
		r.Handle("/metrics", s.metrics.Handler())
	}
	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.rateLimit)
		}
		r.Post("/documents", s.handleProcess)
		r.Get("/search", s.handleSearch)
		r.Post("/ask", s.handleAsk)
		r.Get("/stats", s.handleStats)
		r.Get("/documents", s.handleListDocuments)
		r.Delete("/knowledge", s.handleClear)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.settings.Addr
}

// Run listens on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.settings.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP API listening on %s", s.settings.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("HTTP API shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// routePattern labels metrics with the matched chi route.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return rc.RoutePattern()
	}
	return ""
}
