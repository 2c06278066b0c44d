package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

func raw(cond string, market float64) domain.PricePoint {
	return domain.PricePoint{Kind: domain.PriceKindRaw, Condition: cond, Market: market}
}

func graded(company, grade string, market float64) domain.PricePoint {
	return domain.PricePoint{Kind: domain.PriceKindGraded, Company: company, Grade: grade, Market: market}
}

func card(variants ...domain.PriceVariant) domain.CatalogCard {
	return domain.CatalogCard{ID: "base1-4", Name: "Charizard", Variants: variants}
}

func variant(name string, points ...domain.PricePoint) domain.PriceVariant {
	return domain.PriceVariant{Name: name, Prices: points}
}

func TestCombinedVariant(t *testing.T) {
	tests := []struct {
		attrs Attributes
		want  string
	}{
		{Attributes{}, "normal"},
		{Attributes{IsHolo: true}, "holofoil"},
		{Attributes{IsReverseHolo: true}, "reverseHolofoil"},
		{Attributes{IsFirstEdition: true, IsHolo: true}, "1stEditionHolofoil"},
		{Attributes{IsFirstEdition: true}, "1stEditionNormal"},
		{Attributes{IsShadowless: true, IsHolo: true}, "shadowlessHolofoil"},
		{Attributes{IsFirstEdition: true, IsShadowless: true, IsHolo: true}, "1stEditionShadowlessHolofoil"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, CombinedVariant(tt.attrs))
		})
	}
}

func TestSelectVariant_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		card       domain.CatalogCard
		attrs      Attributes
		wantName   string
		wantReason string
	}{
		{
			name:       "exact combined name",
			card:       card(variant("normal", raw("NM", 1)), variant("holofoil", raw("NM", 5))),
			attrs:      Attributes{IsHolo: true},
			wantName:   "holofoil",
			wantReason: ReasonExact,
		},
		{
			name:       "relaxed first edition tolerates shadowless",
			card:       card(variant("1stEditionShadowlessHolofoil", raw("NM", 900)), variant("unlimitedHolofoil", raw("NM", 300))),
			attrs:      Attributes{IsFirstEdition: true, IsHolo: true},
			wantName:   "1stEditionShadowlessHolofoil",
			wantReason: ReasonFirstEdition,
		},
		{
			name:       "relaxed first edition prefers matching finish",
			card:       card(variant("1stEditionNormal", raw("NM", 10)), variant("1st Edition Holofoil", raw("NM", 90))),
			attrs:      Attributes{IsFirstEdition: true, IsHolo: true, IsShadowless: true},
			wantName:   "1st Edition Holofoil",
			wantReason: ReasonFirstEdition,
		},
		{
			name:       "not first edition forces unlimited",
			card:       card(variant("1stEditionHolofoil", raw("NM", 900)), variant("unlimitedHolofoil", raw("NM", 300))),
			attrs:      Attributes{IsHolo: true},
			wantName:   "unlimitedHolofoil",
			wantReason: ReasonUnlimited,
		},
		{
			name:       "fallback order",
			card:       card(variant("reverseHolofoil", raw("NM", 2)), variant("normal", raw("NM", 1))),
			attrs:      Attributes{IsHolo: true},
			wantName:   "normal",
			wantReason: ReasonFallback,
		},
		{
			name:       "first priced avoids first edition",
			card:       card(variant("1stEditionNormal", raw("NM", 9)), variant("staffStamp", raw("NM", 4))),
			attrs:      Attributes{},
			wantName:   "staffStamp",
			wantReason: ReasonFirstPriced,
		},
		{
			name:       "first edition when it is the only priced variant",
			card:       card(variant("holofoil"), variant("1stEditionNormal", raw("NM", 9))),
			attrs:      Attributes{IsHolo: true},
			wantName:   "1stEditionNormal",
			wantReason: ReasonFirstPriced,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, reason, ok := SelectVariant(tt.card, tt.attrs)
			require.True(t, ok)
			assert.Equal(t, tt.wantName, v.Name)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestSelectVariant_NoPrices(t *testing.T) {
	_, _, ok := SelectVariant(card(variant("holofoil")), Attributes{IsHolo: true})
	assert.False(t, ok)
}

func TestSelectBestPrice_Graded(t *testing.T) {
	c := card(variant("holofoil",
		raw("NM", 300),
		graded("PSA", "9", 700),
		graded("PSA", "10", 2500),
		graded("PSA", "10", 2100),
		domain.PricePoint{Kind: domain.PriceKindGraded, Company: "PSA", Grade: "10", Special: "perfect", Market: 1500},
		graded("BGS", "9.5", 1800),
	))

	t.Run("exact company and grade, lowest standard slab", func(t *testing.T) {
		sel, ok := SelectBestPrice(c, Attributes{IsGraded: true, GradingCompany: "PSA", Grade: "10", IsHolo: true})
		require.True(t, ok)
		assert.Equal(t, 2100.0, sel.Point.Market)
		assert.Empty(t, sel.Point.Special)
	})

	t.Run("company alias and decimal grade", func(t *testing.T) {
		sel, ok := SelectBestPrice(c, Attributes{IsGraded: true, GradingCompany: "Beckett", Grade: "9.50", IsHolo: true})
		require.True(t, ok)
		assert.Equal(t, 1800.0, sel.Point.Market)
	})

	t.Run("never crosses company", func(t *testing.T) {
		_, ok := SelectBestPrice(c, Attributes{IsGraded: true, GradingCompany: "CGC", Grade: "10", IsHolo: true})
		assert.False(t, ok)
	})

	t.Run("missing grade is no price", func(t *testing.T) {
		_, ok := SelectBestPrice(c, Attributes{IsGraded: true, GradingCompany: "PSA", IsHolo: true})
		assert.False(t, ok)
	})
}

func TestSelectBestPrice_Raw(t *testing.T) {
	c := card(variant("normal", raw("LP", 8), raw("NM", 12), raw("MP", 5)))

	sel, ok := SelectBestPrice(c, Attributes{Condition: "MP"})
	require.True(t, ok)
	assert.Equal(t, 5.0, sel.Point.Market)

	sel, ok = SelectBestPrice(c, Attributes{Condition: "DMG"})
	require.True(t, ok)
	assert.Equal(t, 12.0, sel.Point.Market, "falls back to NM")

	noNM := card(variant("normal", raw("LP", 8), raw("MP", 5)))
	sel, ok = SelectBestPrice(noNM, Attributes{})
	require.True(t, ok)
	assert.Equal(t, 8.0, sel.Point.Market, "falls back to first raw point")

	gradedOnly := card(variant("normal", graded("PSA", "10", 100)))
	_, ok = SelectBestPrice(gradedOnly, Attributes{})
	assert.False(t, ok)
}

func TestAttributesFrom(t *testing.T) {
	a := AttributesFrom(domain.ParsedTitle{IsHolo: true}, "Lightly played")
	assert.Equal(t, "LP", a.Condition)
	assert.True(t, a.IsHolo)

	a = AttributesFrom(domain.ParsedTitle{Condition: "NM"}, "Heavily played")
	assert.Equal(t, "NM", a.Condition)

	a = AttributesFrom(domain.ParsedTitle{IsGraded: true, GradingCompany: "PSA", Grade: "9"}, "Near mint")
	assert.Empty(t, a.Condition)
}
