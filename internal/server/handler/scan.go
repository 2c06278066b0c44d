package handler

import (
	"log/slog"
	"net/http"
	"time"
)

// ScanTrigger starts an out-of-schedule scan.
type ScanTrigger interface {
	Trigger() bool
}

// ScanHandler serves the scan trigger endpoint.
type ScanHandler struct {
	scanner ScanTrigger
	logger  *slog.Logger
}

// NewScanHandler creates a ScanHandler.
func NewScanHandler(scanner ScanTrigger, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{scanner: scanner, logger: handlerLogger(logger, "scan")}
}

// TriggerScan enqueues one scan. A second request before the first is
// picked up is accepted but not queued twice.
// POST /api/scan/trigger
func (h *ScanHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	queued := h.scanner.Trigger()
	h.logger.InfoContext(r.Context(), "scan trigger requested", slog.Bool("queued", queued))

	msg := "scan trigger enqueued"
	if !queued {
		msg = "a triggered scan is already pending"
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":       "accepted",
		"queued":       queued,
		"message":      msg,
		"requested_at": time.Now().UTC().Format(time.RFC3339),
	})
}
