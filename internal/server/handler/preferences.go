package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// PreferenceWriter replaces the stored preferences.
type PreferenceWriter interface {
	Write(ctx context.Context, p domain.Preferences) error
}

// PreferenceHandler serves and updates the deal filters.
type PreferenceHandler struct {
	reader domain.PreferenceStore
	writer PreferenceWriter
	logger *slog.Logger
}

// NewPreferenceHandler creates a PreferenceHandler. writer is nil when
// preferences come from the config file; updates are then rejected.
func NewPreferenceHandler(reader domain.PreferenceStore, writer PreferenceWriter, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{reader: reader, writer: writer, logger: handlerLogger(logger, "preferences")}
}

// GetPreferences returns the stored preferences.
// GET /api/preferences
func (h *PreferenceHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := h.reader.Read(r.Context())
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "preferences not set")
	case err != nil:
		h.logger.ErrorContext(r.Context(), "read preferences failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to read preferences")
	default:
		writeJSON(w, http.StatusOK, p)
	}
}

// UpdatePreferences validates and stores new preferences. Running scans
// pick them up on their next reload.
// PUT /api/preferences
func (h *PreferenceHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	if h.writer == nil {
		writeError(w, http.StatusMethodNotAllowed, "preferences are read from the config file")
		return
	}

	var p domain.Preferences
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.writer.Write(r.Context(), p); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "write preferences failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to update preferences")
		return
	}

	h.logger.InfoContext(r.Context(), "preferences updated",
		slog.Float64("min_profit_gbp", p.MinProfitGBP),
		slog.Any("allowed_conditions", p.AllowedConditions),
	)
	writeJSON(w, http.StatusOK, p)
}
