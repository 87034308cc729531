package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/shopfind/internal/version"
)

// RouteRegistrar is implemented by handlers that mount their own routes.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Server is the ShopFind HTTP server.
type Server struct {
	httpServer  *http.Server
	logger      *zap.Logger
	mux         *http.ServeMux
	limiter     *clientLimiter
	metrics     http.Handler
	catalogSize func() int
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits each client address to rps requests per second with
// the given burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = newClientLimiter(rps, burst)
		}
	}
}

// WithMetrics serves h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithCatalogSize reports the catalog size in health responses.
func WithCatalogSize(fn func() int) Option {
	return func(s *Server) { s.catalogSize = fn }
}

// New creates a new Server instance serving the given route registrars.
func New(addr string, logger *zap.Logger, registrars []RouteRegistrar, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	s := &Server{
		logger: logger,
		mux:    mux,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.registerCoreRoutes()
	for _, r := range registrars {
		r.RegisterRoutes(mux)
	}

	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	if s.limiter != nil {
		h = s.limiter.middleware(h)
	}
	return h
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status":  "ok",
		"service": "shopfind",
		"version": version.Map(),
	}
	if s.catalogSize != nil {
		body["products"] = s.catalogSize()
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-ShopFind-Version", version.Short())
	_ = json.NewEncoder(w).Encode(body)
}
