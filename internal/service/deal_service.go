package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// AuditDealStored is the audit event written for every newly stored deal.
const AuditDealStored = "deal.stored"

// DealNotifier delivers an operator alert for a stored deal.
type DealNotifier interface {
	NotifyDeal(ctx context.Context, deal domain.Deal) error
}

// DealService is the deal sink. It stores each deal, then fans a newly
// stored deal out to the signal bus, the notifier and the audit log. Only
// the store is required; fan-out failures are logged and never surface to
// the caller.
type DealService struct {
	deals    domain.DealStore
	bus      domain.SignalBus
	notifier DealNotifier
	audit    domain.AuditStore
	logger   *slog.Logger
}

// NewDealService creates a DealService. bus, notifier and audit may be nil.
func NewDealService(
	deals domain.DealStore,
	bus domain.SignalBus,
	notifier DealNotifier,
	audit domain.AuditStore,
	logger *slog.Logger,
) *DealService {
	return &DealService{
		deals:    deals,
		bus:      bus,
		notifier: notifier,
		audit:    audit,
		logger:   logger.With(slog.String("component", "deal_service")),
	}
}

// dealEvent is the bus payload for a stored deal.
type dealEvent struct {
	Event           string  `json:"event"`
	DealID          string  `json:"deal_id"`
	ListingID       string  `json:"listing_id"`
	CardID          string  `json:"card_id"`
	CardName        string  `json:"card_name"`
	Tier            string  `json:"tier"`
	ProfitGBP       float64 `json:"profit_gbp"`
	DiscountPercent float64 `json:"discount_percent"`
	URL             string  `json:"url,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// AddAsync stores the deal and reports false, with no error, when the
// listing already has a deal. Fan-out only happens for new deals.
func (s *DealService) AddAsync(ctx context.Context, d domain.Deal) (bool, error) {
	added, err := s.deals.Insert(ctx, d)
	if err != nil {
		return false, fmt.Errorf("deal_service: insert %s: %w", d.ID, err)
	}
	if !added {
		s.logger.DebugContext(ctx, "deal already stored",
			slog.String("listing_id", d.Listing.ID),
		)
		return false, nil
	}

	s.publish(ctx, d)
	s.notify(ctx, d)
	s.record(ctx, d)
	return true, nil
}

func (s *DealService) publish(ctx context.Context, d domain.Deal) {
	if s.bus == nil {
		return
	}
	evt, err := json.Marshal(dealEvent{
		Event:           "deal_stored",
		DealID:          d.ID,
		ListingID:       d.Listing.ID,
		CardID:          d.CardID,
		CardName:        d.CardName,
		Tier:            string(d.Tier),
		ProfitGBP:       d.ProfitGBP,
		DiscountPercent: d.DiscountPercent,
		URL:             d.Listing.URL,
		CreatedAt:       d.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "marshal deal event failed", slog.String("error", err.Error()))
		return
	}
	if err := s.bus.Publish(ctx, domain.ChannelDeals, evt); err != nil {
		s.logger.WarnContext(ctx, "publish deal event failed",
			slog.String("deal_id", d.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *DealService) notify(ctx context.Context, d domain.Deal) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyDeal(ctx, d); err != nil {
		s.logger.WarnContext(ctx, "deal alert failed",
			slog.String("deal_id", d.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *DealService) record(ctx context.Context, d domain.Deal) {
	if s.audit == nil {
		return
	}
	err := s.audit.Log(ctx, AuditDealStored, map[string]any{
		"deal_id":    d.ID,
		"listing_id": d.Listing.ID,
		"card_id":    d.CardID,
		"tier":       string(d.Tier),
		"profit_gbp": d.ProfitGBP,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit log failed", slog.String("error", err.Error()))
	}
}

// ListRecent returns the most recently stored deals.
func (s *DealService) ListRecent(ctx context.Context, limit int) ([]domain.Deal, error) {
	deals, err := s.deals.ListRecent(ctx, domain.ListOpts{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("deal_service: list recent: %w", err)
	}
	return deals, nil
}

// Compile-time interface check.
var _ domain.DealSink = (*DealService)(nil)
