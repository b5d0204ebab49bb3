// Package httpapi is the inbound HTTP adapter: chi router, middleware chain,
// and the JSON handlers that translate requests into commands and queries.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr           string
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server wraps the chi router and the http.Server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	stopRate   chan struct{}
}

// HealthChecker reports readiness of a named dependency.
type HealthChecker func(ctx context.Context) error

// NewServer builds the router with the full middleware chain and mounts the
// auth routes.
func NewServer(cfg ServerConfig, auth *AuthHandler, ready map[string]HealthChecker, logger *slog.Logger) *Server {
	stopRate := make(chan struct{})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(Recovery(logger))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, stopRate))
	r.Use(chimw.CleanPath)

	r.Get("/health", handleHealth)
	r.Get("/ready", handleReady(ready))

	r.Route("/v1/auth", func(api chi.Router) {
		api.Mount("/", auth.Routes())
	})

	return &Server{
		logger:   logger,
		stopRate: stopRate,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// ListenAndServe starts the server and blocks until it is shut down.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops background middleware work.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stopRate)
	return s.httpServer.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady probes every dependency; a single failure flips readiness.
func handleReady(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		deps := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}
		respondJSON(w, status, deps)
	}
}
