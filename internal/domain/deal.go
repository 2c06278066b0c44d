package domain

import (
	"context"
	"time"
)

// Tier is the discrete classification of a deal.
type Tier string

const (
	TierNone     Tier = ""
	TierPremium  Tier = "PREMIUM"
	TierHigh     Tier = "HIGH"
	TierStandard Tier = "STANDARD"
)

// Rank orders tiers; higher is better.
func (t Tier) Rank() int {
	switch t {
	case TierPremium:
		return 3
	case TierHigh:
		return 2
	case TierStandard:
		return 1
	default:
		return 0
	}
}

// MatchRationale is a frozen snapshot of why a listing matched a card.
type MatchRationale struct {
	Parsed           ParsedTitle `json:"parsed"`
	ExpansionID      string      `json:"expansion_id"`
	ExpansionScore   float64     `json:"expansion_score"`
	Rung             string      `json:"rung"`
	Query            string      `json:"query,omitempty"`
	NameSimilarity   float64     `json:"name_similarity"`
	PrintedTotalNote string      `json:"printed_total_note,omitempty"`
	VariantReason    string      `json:"variant_reason"`
	FromCache        bool        `json:"from_cache"`
}

// Deal is a listing plus its matched card plus a threshold-cleared profit
// calculation. Deals are immutable once built.
type Deal struct {
	ID              string         `json:"id"`
	Listing         Listing        `json:"listing"`
	CardID          string         `json:"card_id"`
	CardName        string         `json:"card_name"`
	CardNumber      string         `json:"card_number"`
	ExpansionID     string         `json:"expansion_id"`
	ExpansionName   string         `json:"expansion_name"`
	Variant         string         `json:"variant"`
	PricePoint      PricePoint     `json:"price_point"`
	MarketValueGBP  float64        `json:"market_value_gbp"`
	CostGBP         float64        `json:"cost_gbp"`
	ProfitGBP       float64        `json:"profit_gbp"`
	DiscountPercent float64        `json:"discount_percent"`
	Tier            Tier           `json:"tier"`
	MatchConfidence float64        `json:"match_confidence"`
	MatchType       string         `json:"match_type"`
	Rationale       MatchRationale `json:"rationale"`
	CreatedAt       time.Time      `json:"created_at"`
	ExpiresAt       time.Time      `json:"expires_at"`
}

// Expired reports whether the deal is past its expiry at t.
func (d Deal) Expired(t time.Time) bool {
	return !d.ExpiresAt.IsZero() && !t.Before(d.ExpiresAt)
}

// DealSink persists deals. AddAsync returns false when the deal was already
// stored; callers must not retry in that case.
type DealSink interface {
	AddAsync(ctx context.Context, deal Deal) (bool, error)
}
