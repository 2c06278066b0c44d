package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferencesValidate(t *testing.T) {
	valid := Preferences{
		AllowedConditions: []string{"NM", "LP"},
		MinProfitGBP:      5,
		GradeRange:        GradeRange{Min: 9, Max: 10},
		TierThresholds: TierThresholds{
			Premium:  TierThreshold{MinDiscountPercent: 40, MinValueGBP: 100},
			High:     TierThreshold{MinDiscountPercent: 30, MinValueGBP: 30},
			Standard: TierThreshold{MinDiscountPercent: 20},
		},
	}
	require.NoError(t, valid.Validate())

	t.Run("zero value", func(t *testing.T) {
		assert.NoError(t, Preferences{}.Validate())
	})

	t.Run("unbounded max", func(t *testing.T) {
		p := valid
		p.GradeRange = GradeRange{Min: 8}
		assert.NoError(t, p.Validate())
	})

	tests := []struct {
		name   string
		mutate func(p *Preferences)
		want   string
	}{
		{"unknown condition", func(p *Preferences) { p.AllowedConditions = []string{"NM", "Mint"} }, "allowed_conditions[1] must be one of"},
		{"negative profit", func(p *Preferences) { p.MinProfitGBP = -1 }, "min_profit_gbp must be greater than or equal to 0"},
		{"grade above ten", func(p *Preferences) { p.GradeRange.Max = 11 }, "grade_range.max must be less than or equal to 10"},
		{"inverted range", func(p *Preferences) { p.GradeRange = GradeRange{Min: 9, Max: 7} }, "grade_range.max must be greater than or equal to grade_range.min"},
		{"discount over 100", func(p *Preferences) { p.TierThresholds.High.MinDiscountPercent = 120 }, "tier_thresholds.high.min_discount_percent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			p.AllowedConditions = append([]string(nil), valid.AllowedConditions...)
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGradeRangeContains(t *testing.T) {
	r := GradeRange{Min: 9, Max: 10}
	assert.True(t, r.Contains(9))
	assert.True(t, r.Contains(10))
	assert.False(t, r.Contains(8.5))
}

func TestTierRank(t *testing.T) {
	assert.Greater(t, TierPremium.Rank(), TierHigh.Rank())
	assert.Greater(t, TierHigh.Rank(), TierStandard.Rank())
	assert.Greater(t, TierStandard.Rank(), TierNone.Rank())
}
