package domain

import "context"

// TierThreshold is the minimum discount and reference value for one tier.
type TierThreshold struct {
	MinDiscountPercent float64 `json:"min_discount_percent" toml:"min_discount_percent" validate:"gte=0,lte=100"`
	MinValueGBP        float64 `json:"min_value_gbp" toml:"min_value_gbp" validate:"gte=0"`
}

// TierThresholds holds one threshold per tier.
type TierThresholds struct {
	Premium  TierThreshold `json:"premium" toml:"premium"`
	High     TierThreshold `json:"high" toml:"high"`
	Standard TierThreshold `json:"standard" toml:"standard"`
}

// GradeRange bounds acceptable numeric grades, inclusive. A zero Max
// leaves grades unconstrained.
type GradeRange struct {
	Min float64 `json:"min" toml:"min" validate:"gte=0,lte=10"`
	Max float64 `json:"max" toml:"max" validate:"gte=0,lte=10"`
}

// Contains reports whether grade is inside the range.
func (r GradeRange) Contains(grade float64) bool {
	return grade >= r.Min && grade <= r.Max
}

// Preferences are the operator's deal filters.
type Preferences struct {
	AllowedConditions         []string       `json:"allowed_conditions" validate:"dive,oneof=NM LP MP HP DMG"`
	MinProfitGBP              float64        `json:"min_profit_gbp" validate:"gte=0"`
	PreferredGradingCompanies []string       `json:"preferred_grading_companies"`
	GradeRange                GradeRange     `json:"grade_range"`
	TierThresholds            TierThresholds `json:"tier_thresholds"`
}

// PreferenceStore reads the current preferences. Writes happen elsewhere.
type PreferenceStore interface {
	Read(ctx context.Context) (Preferences, error)
}
