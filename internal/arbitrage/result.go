package arbitrage

import "github.com/alanyoungcy/cardarb/internal/domain"

// Stage names the terminal stage a listing reached.
type Stage string

// Stages in pipeline order.
const (
	StageAlreadyProcessed      Stage = "already_processed"
	StageParseRejected         Stage = "parse_rejected"
	StageInternationalSeller   Stage = "international_seller"
	StageBlockedCondition      Stage = "blocked_condition"
	StageNonEnglish            Stage = "non_english"
	StageLowConfidence         Stage = "low_confidence"
	StageNoExpansion           Stage = "no_expansion"
	StageNonEnglishExpansion   Stage = "non_english_expansion"
	StageNoCardNumber          Stage = "no_card_number"
	StagePrintedTotalPrecheck  Stage = "printed_total_precheck"
	StageNotFound              Stage = "not_found"
	StagePrintedTotalMismatch  Stage = "printed_total_mismatch"
	StageNameMismatch          Stage = "name_mismatch"
	StageNoPrice               Stage = "no_price"
	StageBelowMinProfit        Stage = "below_min_profit"
	StageBelowTier             Stage = "below_tier"
	StageConditionNotPreferred Stage = "condition_not_preferred"
	StageGradingNotPreferred   Stage = "grading_not_preferred"
	StageDeal                  Stage = "deal"
)

// Stages lists every terminal stage in pipeline order.
var Stages = []Stage{
	StageAlreadyProcessed,
	StageParseRejected,
	StageInternationalSeller,
	StageBlockedCondition,
	StageNonEnglish,
	StageLowConfidence,
	StageNoExpansion,
	StageNonEnglishExpansion,
	StageNoCardNumber,
	StagePrintedTotalPrecheck,
	StageNotFound,
	StagePrintedTotalMismatch,
	StageNameMismatch,
	StageNoPrice,
	StageBelowMinProfit,
	StageBelowTier,
	StageConditionNotPreferred,
	StageGradingNotPreferred,
	StageDeal,
}

// Result is the outcome of processing one listing. Parsed is nil when the
// listing never reached the parser; Card is set once the catalog matched.
type Result struct {
	ListingID string              `json:"listing_id"`
	Stage     Stage               `json:"stage"`
	Reason    string              `json:"reason,omitempty"`
	Matched   bool                `json:"matched"`
	Parsed    *domain.ParsedTitle `json:"parsed,omitempty"`
	Card      *domain.CatalogCard `json:"card,omitempty"`
	Deal      *domain.Deal        `json:"deal,omitempty"`
	Stored    bool                `json:"stored"`
}

// IsDeal reports whether the listing produced a deal.
func (r Result) IsDeal() bool {
	return r.Stage == StageDeal && r.Deal != nil
}
