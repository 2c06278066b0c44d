// Package ebay is the marketplace listing source, backed by the eBay Browse
// API item summary search.
package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/cardarb/internal/domain"
	"github.com/alanyoungcy/cardarb/internal/platform"
)

const (
	defaultBaseURL     = "https://api.ebay.com"
	defaultMarketplace = "EBAY_GB"
	defaultCategory    = "183454" // CCG individual cards
	searchPath         = "/buy/browse/v1/item_summary/search"
	maxLimit           = 200
)

// Converter turns a foreign-currency amount into GBP.
type Converter interface {
	ToGBP(amount float64, currency string) (decimal.Decimal, error)
}

// Config configures a Client.
type Config struct {
	BaseURL           string
	Token             string
	MarketplaceID     string
	CategoryID        string
	PageSize          int
	RequestsPerSecond float64
	Timeout           time.Duration
	MaxRetries        int
}

// Client implements domain.ListingSource.
type Client struct {
	baseURL     string
	token       string
	marketplace string
	category    string
	pageSize    int
	fx          Converter
	req         *platform.Requester
}

// NewClient creates an eBay client. fx converts non-GBP prices; when nil,
// such items are dropped.
func NewClient(cfg Config, fx Converter) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MarketplaceID == "" {
		cfg.MarketplaceID = defaultMarketplace
	}
	if cfg.CategoryID == "" {
		cfg.CategoryID = defaultCategory
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		marketplace: cfg.MarketplaceID,
		category:    cfg.CategoryID,
		pageSize:    min(cfg.PageSize, maxLimit),
		fx:          fx,
		req: platform.NewRequester(platform.RequesterConfig{
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			MaxRetries:        cfg.MaxRetries,
		}),
	}
}

// Search returns the newest listings matching query. Items that cannot be
// priced in GBP are skipped.
func (c *Client) Search(ctx context.Context, query string, filters domain.SearchFilters) ([]domain.Listing, error) {
	limit := c.pageSize
	if filters.Limit > 0 {
		limit = min(filters.Limit, maxLimit)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("category_ids", c.category)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "newlyListed")
	if f := filterParam(filters); f != "" {
		params.Set("filter", f)
	}

	body, err := c.req.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("ebay: search %q: %w", query, err)
	}

	var resp apiSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ebay: decode search %q: %w", query, err)
	}

	listings := make([]domain.Listing, 0, len(resp.ItemSummaries))
	for _, item := range resp.ItemSummaries {
		l, ok := c.toListing(item)
		if ok {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

// filterParam renders the Browse API filter expression.
func filterParam(f domain.SearchFilters) string {
	var parts []string
	if f.MinPriceGBP > 0 || f.MaxPriceGBP > 0 {
		lo, hi := "", ""
		if f.MinPriceGBP > 0 {
			lo = strconv.FormatFloat(f.MinPriceGBP, 'f', -1, 64)
		}
		if f.MaxPriceGBP > 0 {
			hi = strconv.FormatFloat(f.MaxPriceGBP, 'f', -1, 64)
		}
		parts = append(parts, "price:["+lo+".."+hi+"]", "priceCurrency:GBP")
	}
	if f.BuyItNowOnly {
		parts = append(parts, "buyingOptions:{FIXED_PRICE}")
	}
	if f.DeliveryCountry != "" {
		parts = append(parts, "deliveryCountry:"+strings.ToUpper(f.DeliveryCountry))
	}
	return strings.Join(parts, ",")
}

func (c *Client) toListing(item apiItemSummary) (domain.Listing, bool) {
	price, ok := c.gbp(item.Price)
	if !ok || item.ItemID == "" {
		return domain.Listing{}, false
	}
	l := domain.Listing{
		ID:                  item.ItemID,
		Title:               item.Title,
		PriceGBP:            price,
		Currency:            "GBP",
		URL:                 item.ItemWebURL,
		ImageURL:            item.Image.ImageURL,
		SellerUsername:      item.Seller.Username,
		SellerFeedbackScore: item.Seller.FeedbackScore,
		Country:             strings.ToUpper(item.ItemLocation.Country),
		Location:            item.ItemLocation.City,
		ConditionHint:       item.Condition,
	}
	if pct, err := strconv.ParseFloat(item.Seller.FeedbackPercentage, 64); err == nil {
		l.SellerFeedbackPercent = pct
	}
	if len(item.ShippingOptions) > 0 {
		if ship, ok := c.gbp(item.ShippingOptions[0].ShippingCost); ok {
			l.ShippingGBP = ship
		}
	}
	if ts, err := time.Parse(time.RFC3339, item.ItemCreatedDate); err == nil {
		l.ListedAt = ts
	}
	return l, true
}

// gbp parses an amount and converts it to GBP. Empty values are not priced.
func (c *Client) gbp(a apiAmount) (float64, bool) {
	if strings.TrimSpace(a.Value) == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(a.Value)
	if err != nil {
		return 0, false
	}
	cur := strings.ToUpper(a.Currency)
	if cur == "" || cur == "GBP" {
		return d.Round(2).InexactFloat64(), true
	}
	if c.fx == nil {
		return 0, false
	}
	v, err := c.fx.ToGBP(d.InexactFloat64(), cur)
	if err != nil {
		return 0, false
	}
	return v.InexactFloat64(), true
}

// Compile-time interface check.
var _ domain.ListingSource = (*Client)(nil)
