package domain

import (
	"context"
	"time"
)

// Listing is a marketplace offer for a physical item with a free-text title.
// Monetary fields are expressed in GBP.
type Listing struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	PriceGBP              float64   `json:"price_gbp"`
	ShippingGBP           float64   `json:"shipping_gbp"`
	Currency              string    `json:"currency"`
	URL                   string    `json:"url,omitempty"`
	ImageURL              string    `json:"image_url,omitempty"`
	SellerUsername        string    `json:"seller_username"`
	SellerFeedbackScore   int       `json:"seller_feedback_score"`
	SellerFeedbackPercent float64   `json:"seller_feedback_percent"`
	Country               string    `json:"country"`
	Location              string    `json:"location,omitempty"`
	ConditionHint         string    `json:"condition_hint,omitempty"`
	ListedAt              time.Time `json:"listed_at"`
}

// TotalCostGBP is the all-in cost of buying the listing.
func (l Listing) TotalCostGBP() float64 {
	return l.PriceGBP + l.ShippingGBP
}

// SearchFilters narrows a listing-source search.
type SearchFilters struct {
	MinPriceGBP     float64
	MaxPriceGBP     float64
	BuyItNowOnly    bool
	DeliveryCountry string
	Limit           int
}

// ListingSource searches a marketplace for listings.
type ListingSource interface {
	Search(ctx context.Context, query string, filters SearchFilters) ([]Listing, error)
}
