package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// DealReader is the read side of the deal store.
type DealReader interface {
	GetByID(ctx context.Context, id string) (domain.Deal, error)
	ListRecent(ctx context.Context, opts domain.ListOpts) ([]domain.Deal, error)
}

// DealHandler serves stored deals.
type DealHandler struct {
	deals  DealReader
	logger *slog.Logger
}

// NewDealHandler creates a DealHandler.
func NewDealHandler(deals DealReader, logger *slog.Logger) *DealHandler {
	return &DealHandler{deals: deals, logger: handlerLogger(logger, "deals")}
}

type listDealsResponse struct {
	Deals  []domain.Deal `json:"deals"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// ListDeals returns the newest deals first.
// GET /api/deals?limit=50&offset=0
func (h *DealHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)
	deals, err := h.deals.ListRecent(r.Context(), opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list deals failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list deals")
		return
	}
	if deals == nil {
		deals = []domain.Deal{}
	}
	writeJSON(w, http.StatusOK, listDealsResponse{Deals: deals, Limit: opts.Limit, Offset: opts.Offset})
}

// GetDeal returns one deal.
// GET /api/deals/{id}
func (h *DealHandler) GetDeal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deal, err := h.deals.GetByID(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "deal not found")
	case err != nil:
		h.logger.ErrorContext(r.Context(), "get deal failed",
			slog.String("deal_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get deal")
	default:
		writeJSON(w, http.StatusOK, deal)
	}
}
