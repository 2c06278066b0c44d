package catalog

import (
	"strings"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// apiCardPage is one page of a card search response.
type apiCardPage struct {
	Data       []apiCard `json:"data"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Count      int       `json:"count"`
	TotalCount int       `json:"totalCount"`
}

type apiCard struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
	Rarity string `json:"rarity"`
	Set    struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		PrintedTotal int    `json:"printedTotal"`
	} `json:"set"`
	Images struct {
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"images"`
	TCGPlayer struct {
		Currency string                     `json:"currency"`
		Prices   map[string]apiVariantPrice `json:"prices"`
	} `json:"tcgplayer"`
	Graded []apiGradedPrice `json:"gradedPrices"`
}

// apiVariantPrice is the raw (ungraded) price block for one variant. The
// catalog quotes near-mint values.
type apiVariantPrice struct {
	Low    float64 `json:"low"`
	Mid    float64 `json:"mid"`
	Market float64 `json:"market"`
}

type apiGradedPrice struct {
	Variant string  `json:"variant"`
	Company string  `json:"company"`
	Grade   string  `json:"grade"`
	Special string  `json:"special"`
	Market  float64 `json:"market"`
	Low     float64 `json:"low"`
}

type apiSetPage struct {
	Data       []domain.CatalogExpansion `json:"data"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"pageSize"`
	TotalCount int                       `json:"totalCount"`
}

// toDomain flattens the raw and graded price blocks into variants. Variant
// order follows first appearance: raw variants sorted by name, then any
// variant that only has graded prices.
func (c apiCard) toDomain() domain.CatalogCard {
	card := domain.CatalogCard{
		ID:            c.ID,
		Name:          c.Name,
		Number:        c.Number,
		ExpansionID:   c.Set.ID,
		ExpansionName: c.Set.Name,
		PrintedTotal:  c.Set.PrintedTotal,
		Rarity:        c.Rarity,
		Currency:      c.TCGPlayer.Currency,
		ImageURL:      c.Images.Small,
	}
	if card.Currency == "" {
		card.Currency = "USD"
	}

	index := make(map[string]int)
	variant := func(name string) *domain.PriceVariant {
		if i, ok := index[name]; ok {
			return &card.Variants[i]
		}
		index[name] = len(card.Variants)
		card.Variants = append(card.Variants, domain.PriceVariant{Name: name})
		return &card.Variants[len(card.Variants)-1]
	}

	for _, name := range sortedKeys(c.TCGPlayer.Prices) {
		p := c.TCGPlayer.Prices[name]
		market := p.Market
		if market <= 0 {
			market = p.Mid
		}
		v := variant(name)
		if market > 0 {
			v.Prices = append(v.Prices, domain.PricePoint{
				Kind:      domain.PriceKindRaw,
				Condition: "NM",
				Market:    market,
				Low:       p.Low,
			})
		}
	}
	for _, g := range c.Graded {
		name := g.Variant
		if name == "" {
			name = "normal"
		}
		if g.Market <= 0 {
			continue
		}
		v := variant(name)
		v.Prices = append(v.Prices, domain.PricePoint{
			Kind:    domain.PriceKindGraded,
			Company: strings.ToUpper(g.Company),
			Grade:   g.Grade,
			Special: g.Special,
			Market:  g.Market,
			Low:     g.Low,
		})
	}
	return card
}
