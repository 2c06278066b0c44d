package pricing

import "github.com/alanyoungcy/cardarb/internal/domain"

// DetermineTier classifies a deal. It is a pure function of its inputs:
// tiers are checked best first and the first whose discount and value
// floors are both met wins. A non-positive discount never earns a tier.
func DetermineTier(marketValueGBP, discountPercent float64, th domain.TierThresholds) domain.Tier {
	if discountPercent <= 0 {
		return domain.TierNone
	}
	for _, t := range []struct {
		tier domain.Tier
		min  domain.TierThreshold
	}{
		{domain.TierPremium, th.Premium},
		{domain.TierHigh, th.High},
		{domain.TierStandard, th.Standard},
	} {
		if discountPercent >= t.min.MinDiscountPercent && marketValueGBP >= t.min.MinValueGBP {
			return t.tier
		}
	}
	return domain.TierNone
}

// DefaultTiers are the thresholds used when preferences carry none.
func DefaultTiers() domain.TierThresholds {
	return domain.TierThresholds{
		Premium:  domain.TierThreshold{MinDiscountPercent: 40, MinValueGBP: 100},
		High:     domain.TierThreshold{MinDiscountPercent: 30, MinValueGBP: 30},
		Standard: domain.TierThreshold{MinDiscountPercent: 20, MinValueGBP: 0},
	}
}
