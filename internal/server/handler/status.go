package handler

import (
	"net/http"
	"time"
)

// ReconcileState reports expansion id reconciliation progress.
type ReconcileState interface {
	Reconciled() bool
	Unreconciled() []string
}

// StatusHandler serves process metadata for operators.
type StatusHandler struct {
	mode      string
	startedAt time.Time
	matcher   ReconcileState
}

// NewStatusHandler creates a StatusHandler. matcher may be nil.
func NewStatusHandler(mode string, startedAt time.Time, matcher ReconcileState) *StatusHandler {
	return &StatusHandler{mode: mode, startedAt: startedAt, matcher: matcher}
}

// GetStatus responds with the mode, uptime and reconciliation state.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"mode":           h.mode,
		"started_at":     h.startedAt.UTC().Format(time.RFC3339),
		"uptime_seconds": int64(max(time.Since(h.startedAt), 0).Seconds()),
	}
	if h.matcher != nil {
		unmatched := h.matcher.Unreconciled()
		if unmatched == nil {
			unmatched = []string{}
		}
		body["expansions_reconciled"] = h.matcher.Reconciled()
		body["unreconciled_expansions"] = unmatched
	}
	writeJSON(w, http.StatusOK, body)
}
