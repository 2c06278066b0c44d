package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

func TestDetermineTier(t *testing.T) {
	th := DefaultTiers()
	tests := []struct {
		name     string
		value    float64
		discount float64
		want     domain.Tier
	}{
		{"premium", 150, 45, domain.TierPremium},
		{"premium discount but low value", 50, 45, domain.TierHigh},
		{"high", 30, 30, domain.TierHigh},
		{"standard", 20, 40, domain.TierStandard},
		{"below standard", 500, 19.99, domain.TierNone},
		{"zero discount", 500, 0, domain.TierNone},
		{"negative discount", 500, -10, domain.TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineTier(tt.value, tt.discount, th))
		})
	}
}

func TestDetermineTier_ZeroThresholds(t *testing.T) {
	assert.Equal(t, domain.TierPremium, DetermineTier(1, 0.01, domain.TierThresholds{}))
	assert.Equal(t, domain.TierNone, DetermineTier(1, 0, domain.TierThresholds{}))
}

func TestDetermineTier_Pure(t *testing.T) {
	th := DefaultTiers()
	first := DetermineTier(120, 41, th)
	for range 50 {
		assert.Equal(t, first, DetermineTier(120, 41, th))
	}
}
