package app

import (
	"time"

	"github.com/alanyoungcy/cardarb/internal/arbitrage"
	"github.com/alanyoungcy/cardarb/internal/server"
	"github.com/alanyoungcy/cardarb/internal/server/handler"
	"github.com/alanyoungcy/cardarb/internal/server/ws"
	"github.com/alanyoungcy/cardarb/internal/service"
)

// newServer builds the operator API around a running scan loop.
func (a *App) newServer(deps *Dependencies, scanner *service.ScanService, orch *arbitrage.Orchestrator) (*server.Server, *ws.Hub) {
	hub := ws.NewHub(deps.SignalBus, a.cfg.Mode, a.logger)

	handlers := a.serverHandlers(deps, scanner, orch)

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
		RateLimit:   a.cfg.Server.RateLimitPerMinute,
	}, handlers, hub, deps.RateLimiter, a.logger)

	return srv, hub
}

func (a *App) serverHandlers(deps *Dependencies, scanner *service.ScanService, orch *arbitrage.Orchestrator) server.Handlers {
	h := server.Handlers{
		Health:      handler.NewHealthHandler(deps.HealthChecks, a.logger),
		Status:      handler.NewStatusHandler(a.cfg.Mode, time.Now().UTC(), deps.Matcher),
		Preferences: handler.NewPreferenceHandler(deps.PreferenceStore, preferenceWriter(deps), a.logger),
	}
	if deps.DealStore != nil {
		h.Deals = handler.NewDealHandler(deps.DealStore, a.logger)
	}
	if orch != nil {
		h.Diagnostics = handler.NewDiagnosticsHandler(orch)
	}
	if scanner != nil {
		h.Scan = handler.NewScanHandler(scanner, a.logger)
	}
	return h
}

// preferenceWriter returns the preference store when it accepts updates.
// Static preferences from the config file are read-only.
func preferenceWriter(deps *Dependencies) handler.PreferenceWriter {
	if w, ok := deps.PreferenceStore.(handler.PreferenceWriter); ok {
		return w
	}
	return nil
}
