package ebay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/cardarb/internal/domain"
	"github.com/alanyoungcy/cardarb/internal/pricing"
)

const searchBody = `{
  "total": 3,
  "itemSummaries": [
    {
      "itemId": "v1|111|0",
      "title": "Charizard 4/102 Base Set Holo NM",
      "price": {"value": "12.00", "currency": "GBP"},
      "itemWebUrl": "https://www.ebay.co.uk/itm/111",
      "condition": "Ungraded",
      "itemCreationDate": "2026-03-01T10:00:00.000Z",
      "image": {"imageUrl": "https://i.ebayimg.test/111.jpg"},
      "seller": {"username": "cardshop", "feedbackPercentage": "99.6", "feedbackScore": 1520},
      "itemLocation": {"country": "gb", "city": "Leeds"},
      "shippingOptions": [{"shippingCostType": "FIXED", "shippingCost": {"value": "1.50", "currency": "GBP"}}]
    },
    {
      "itemId": "v1|222|0",
      "title": "Pikachu VMAX 044/185",
      "price": {"value": "10.00", "currency": "USD"},
      "itemLocation": {"country": "US"}
    },
    {
      "itemId": "v1|333|0",
      "title": "Broken price",
      "price": {"value": "", "currency": "GBP"}
    }
  ]
}`

func TestSearch(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "tok"}, pricing.NewConverter(map[string]float64{"USD": 0.8}))
	listings, err := c.Search(context.Background(), "charizard", domain.SearchFilters{
		MaxPriceGBP:     500,
		BuyItNowOnly:    true,
		DeliveryCountry: "gb",
		Limit:           20,
	})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, searchPath, got.URL.Path)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, "EBAY_GB", got.Header.Get("X-EBAY-C-MARKETPLACE-ID"))
	q := got.URL.Query()
	assert.Equal(t, "charizard", q.Get("q"))
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "price:[..500],priceCurrency:GBP,buyingOptions:{FIXED_PRICE},deliveryCountry:GB", q.Get("filter"))

	require.Len(t, listings, 2)
	first := listings[0]
	assert.Equal(t, "v1|111|0", first.ID)
	assert.InDelta(t, 12.0, first.PriceGBP, 1e-9)
	assert.InDelta(t, 1.5, first.ShippingGBP, 1e-9)
	assert.InDelta(t, 13.5, first.TotalCostGBP(), 1e-9)
	assert.Equal(t, "GB", first.Country)
	assert.Equal(t, "Leeds", first.Location)
	assert.Equal(t, "cardshop", first.SellerUsername)
	assert.InDelta(t, 99.6, first.SellerFeedbackPercent, 1e-9)
	assert.Equal(t, "Ungraded", first.ConditionHint)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), first.ListedAt.UTC())

	assert.InDelta(t, 8.0, listings[1].PriceGBP, 1e-9, "USD converted at 0.8")
}

func TestSearch_ForeignCurrencyWithoutConverterIsDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	listings, err := NewClient(Config{BaseURL: srv.URL}, nil).Search(context.Background(), "x", domain.SearchFilters{})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "v1|111|0", listings[0].ID)
}

func TestSearch_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}, nil).Search(context.Background(), "x", domain.SearchFilters{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestFilterParam(t *testing.T) {
	assert.Empty(t, filterParam(domain.SearchFilters{}))
	assert.Equal(t, "price:[5..],priceCurrency:GBP", filterParam(domain.SearchFilters{MinPriceGBP: 5}))
	assert.Equal(t, "price:[2.5..40],priceCurrency:GBP", filterParam(domain.SearchFilters{MinPriceGBP: 2.5, MaxPriceGBP: 40}))
}
