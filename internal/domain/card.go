package domain

import "context"

// PriceKind separates raw (ungraded) from graded price points.
type PriceKind string

const (
	PriceKindRaw    PriceKind = "raw"
	PriceKindGraded PriceKind = "graded"
)

// PricePoint is one reference price within a printing variant.
type PricePoint struct {
	Kind      PriceKind `json:"kind"`
	Condition string    `json:"condition,omitempty"`
	Grade     string    `json:"grade,omitempty"`
	Company   string    `json:"company,omitempty"`
	// Special marks sub-variants such as "perfect" or "signed" slabs.
	Special string  `json:"special,omitempty"`
	Market  float64 `json:"market"`
	Low     float64 `json:"low,omitempty"`
}

// PriceVariant is a named printing of a card (e.g. "holofoil").
type PriceVariant struct {
	Name   string       `json:"name"`
	Prices []PricePoint `json:"prices"`
}

// CatalogCard is canonical identity plus price data for one card.
type CatalogCard struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Number        string         `json:"number"`
	ExpansionID   string         `json:"expansion_id"`
	ExpansionName string         `json:"expansion_name"`
	PrintedTotal  int            `json:"printed_total"`
	Rarity        string         `json:"rarity,omitempty"`
	Currency      string         `json:"currency"`
	ImageURL      string         `json:"image_url,omitempty"`
	Variants      []PriceVariant `json:"variants"`
}

// HasPrices reports whether any variant carries price data.
func (c CatalogCard) HasPrices() bool {
	for _, v := range c.Variants {
		if len(v.Prices) > 0 {
			return true
		}
	}
	return false
}

// CatalogService is the query surface of the external pricing catalog.
// Queries use a field:value grammar with boolean OR and trailing-* wildcards,
// e.g. `expansion.id:base1 number:4` or `(expansion.id:a OR expansion.id:b) number:12*`.
type CatalogService interface {
	ExpansionLister
	SearchCards(ctx context.Context, query string, include []string, pageSize int) ([]CatalogCard, error)
	SearchCardsInExpansion(ctx context.Context, expansionID, query string, pageSize int) ([]CatalogCard, error)
}
