// Package server provides the HTTP API for moyu.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hyperjump/moyu/internal/chat"
	"github.com/hyperjump/moyu/internal/config"
	"github.com/hyperjump/moyu/internal/metrics"
	"github.com/hyperjump/moyu/internal/middleware"
	"github.com/hyperjump/moyu/internal/search"
)

// SeedWatcher is the subset of the seed watcher the status endpoint reports on.
type SeedWatcher interface {
	Roots() []string
}

// Server is the HTTP server for the moyu API.
type Server struct {
	engine   *search.Engine
	chat     *chat.Service
	config   *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	watch    SeedWatcher
	version  string
	server   *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes reg on the configured metrics path and records HTTP
// metrics into m.
func WithMetrics(m *metrics.Metrics, reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.metrics = m
		s.registry = reg
	}
}

// WithSeedWatcher reports the watched seed directories in /api/status.
func WithSeedWatcher(w SeedWatcher) Option {
	return func(s *Server) { s.watch = w }
}

// WithVersion sets the version reported by /api/status.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates a server with the given dependencies.
func NewServer(engine *search.Engine, chatSvc *chat.Service, cfg *config.Config, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		chat:   chatSvc,
		config: cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with every route and middleware.
func (s *Server) Router() http.Handler {
	timeout := time.Duration(s.config.Server.RequestTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(s.logger))
	r.Use(chimw.Recoverer)
	if s.metrics != nil {
		r.Use(middleware.HTTPMetrics(s.metrics))
	}
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(chimw.Timeout(timeout))
	r.Use(chimw.Compress(5))

	r.MethodNotAllowed(s.handleMethodNotAllowed)
	r.NotFound(s.handleNotFound)

	r.Post("/api/search", s.handleSearch)
	r.Post("/api/chat", s.handleChat)
	r.Get("/api/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	if s.registry != nil && s.config.Metrics.EnabledOrDefault() {
		r.Method(http.MethodGet, s.config.Metrics.Path, metrics.Handler(s.registry))
	}
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr), zap.String("store", s.engine.Source().Kind()))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
