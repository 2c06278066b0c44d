// Package server exposes the operator API: health, status, stored deals,
// scan diagnostics, preferences and a live websocket feed.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/cardarb/internal/domain"
	"github.com/alanyoungcy/cardarb/internal/server/handler"
	"github.com/alanyoungcy/cardarb/internal/server/middleware"
	"github.com/alanyoungcy/cardarb/internal/server/ws"
)

const healthPath = "/api/health"

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	// APIKey guards every route except the health check. Empty disables
	// authentication.
	APIKey string
	// RateLimit caps requests per client per minute when a limiter is set.
	RateLimit int
}

// Handlers aggregates the route handlers. Nil handlers leave their routes
// unregistered.
type Handlers struct {
	Health      *handler.HealthHandler
	Status      *handler.StatusHandler
	Deals       *handler.DealHandler
	Diagnostics *handler.DiagnosticsHandler
	Preferences *handler.PreferenceHandler
	Scan        *handler.ScanHandler
}

// Server is the headless operator API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer registers the routes and wraps them in the middleware chain.
// hub and limiter may be nil.
func NewServer(cfg Config, handlers Handlers, hub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	logger = logger.With(slog.String("component", "server"))
	mux := http.NewServeMux()

	if handlers.Health != nil {
		mux.HandleFunc("GET "+healthPath, handlers.Health.HealthCheck)
	}
	if handlers.Status != nil {
		mux.HandleFunc("GET /api/status", handlers.Status.GetStatus)
	}
	if handlers.Deals != nil {
		mux.HandleFunc("GET /api/deals", handlers.Deals.ListDeals)
		mux.HandleFunc("GET /api/deals/{id}", handlers.Deals.GetDeal)
	}
	if handlers.Diagnostics != nil {
		mux.HandleFunc("GET /api/diagnostics", handlers.Diagnostics.GetDiagnostics)
	}
	if handlers.Preferences != nil {
		mux.HandleFunc("GET /api/preferences", handlers.Preferences.GetPreferences)
		mux.HandleFunc("PUT /api/preferences", handlers.Preferences.UpdatePreferences)
	}
	if handlers.Scan != nil {
		mux.HandleFunc("POST /api/scan/trigger", handlers.Scan.TriggerScan)
	}
	if hub != nil {
		mux.HandleFunc("GET /ws", hub.HandleWS)
	}

	var h http.Handler = mux
	h = middleware.Auth(cfg.APIKey, healthPath)(h)
	h = middleware.RateLimit(limiter, cfg.RateLimit, time.Minute)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server: listen: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return ctx.Err()
}
