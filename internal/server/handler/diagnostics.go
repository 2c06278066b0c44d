package handler

import (
	"net/http"

	"github.com/alanyoungcy/cardarb/internal/arbitrage"
)

// DiagnosticsSource exposes the orchestrator counters.
type DiagnosticsSource interface {
	Snapshot() arbitrage.DiagnosticsSnapshot
}

// DiagnosticsHandler serves the session and last-scan counters.
type DiagnosticsHandler struct {
	source DiagnosticsSource
}

// NewDiagnosticsHandler creates a DiagnosticsHandler.
func NewDiagnosticsHandler(source DiagnosticsSource) *DiagnosticsHandler {
	return &DiagnosticsHandler{source: source}
}

type diagnosticsResponse struct {
	arbitrage.DiagnosticsSnapshot
	EligibilityRate float64 `json:"eligibility_rate"`
	DealRate        float64 `json:"deal_rate"`
}

// GetDiagnostics returns the current snapshot.
// GET /api/diagnostics
func (h *DiagnosticsHandler) GetDiagnostics(w http.ResponseWriter, _ *http.Request) {
	snap := h.source.Snapshot()
	writeJSON(w, http.StatusOK, diagnosticsResponse{
		DiagnosticsSnapshot: snap,
		EligibilityRate:     snap.Session.EligibilityRate(),
		DealRate:            snap.Session.DealRate(),
	})
}
