// Package catalog is the client for the card pricing catalog. Search
// queries use the catalog's field:value grammar; the client rewrites the
// neutral expansion.id field to the catalog's set.id.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/cardarb/internal/domain"
	"github.com/alanyoungcy/cardarb/internal/platform"
)

const (
	defaultBaseURL  = "https://api.pokemontcg.io/v2"
	defaultPageSize = 50
	maxPageSize     = 250
	budgetKey       = "catalog:daily"
	budgetWindow    = 24 * time.Hour
)

// Config configures a Client.
type Config struct {
	BaseURL           string
	APIKey            string
	PageSize          int
	RequestsPerSecond float64
	// DailyBudget caps catalog calls per rolling 24h across replicas when
	// Budget is set. Zero disables the cap.
	DailyBudget int
	Timeout     time.Duration
	MaxRetries  int
}

// Client implements domain.CatalogService over the catalog's REST API.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	budget   domain.RateLimiter
	limit    int
	req      *platform.Requester
}

// NewClient creates a catalog client. budget may be nil.
func NewClient(cfg Config, budget domain.RateLimiter) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		pageSize: min(cfg.PageSize, maxPageSize),
		budget:   budget,
		limit:    cfg.DailyBudget,
		req: platform.NewRequester(platform.RequesterConfig{
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			MaxRetries:        cfg.MaxRetries,
		}),
	}
}

// SearchCards runs a free-form query. include names extra fields to
// return; the catalog returns prices by default, so include only widens
// the select list.
func (c *Client) SearchCards(ctx context.Context, query string, include []string, pageSize int) ([]domain.CatalogCard, error) {
	cards, err := c.search(ctx, rewriteQuery(query), include, pageSize)
	if err != nil {
		return nil, fmt.Errorf("catalog: search %q: %w", query, err)
	}
	return cards, nil
}

// SearchCardsInExpansion scopes query to one expansion.
func (c *Client) SearchCardsInExpansion(ctx context.Context, expansionID, query string, pageSize int) ([]domain.CatalogCard, error) {
	q := strings.TrimSpace("set.id:" + expansionID + " " + rewriteQuery(query))
	cards, err := c.search(ctx, q, nil, pageSize)
	if err != nil {
		return nil, fmt.Errorf("catalog: search %s %q: %w", expansionID, query, err)
	}
	return cards, nil
}

func (c *Client) search(ctx context.Context, q string, include []string, pageSize int) ([]domain.CatalogCard, error) {
	if pageSize <= 0 {
		pageSize = c.pageSize
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("pageSize", strconv.Itoa(min(pageSize, maxPageSize)))
	if len(include) > 0 {
		params.Set("select", selectFields(include))
	}

	body, err := c.get(ctx, "/cards?"+params.Encode())
	if err != nil {
		return nil, err
	}
	var page apiCardPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	cards := make([]domain.CatalogCard, 0, len(page.Data))
	for _, ac := range page.Data {
		cards = append(cards, ac.toDomain())
	}
	return cards, nil
}

// ListExpansions pages through every expansion the catalog knows.
func (c *Client) ListExpansions(ctx context.Context) ([]domain.CatalogExpansion, error) {
	var out []domain.CatalogExpansion
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("pageSize", strconv.Itoa(maxPageSize))
		params.Set("orderBy", "releaseDate")

		body, err := c.get(ctx, "/sets?"+params.Encode())
		if err != nil {
			return nil, fmt.Errorf("catalog: list expansions page %d: %w", page, err)
		}
		var sp apiSetPage
		if err := json.Unmarshal(body, &sp); err != nil {
			return nil, fmt.Errorf("catalog: decode expansions: %w", err)
		}
		out = append(out, sp.Data...)
		if len(sp.Data) == 0 || len(out) >= sp.TotalCount {
			return out, nil
		}
	}
}

// get spends one unit of the shared daily budget, then issues the request.
// A budget backend failure lets the call through.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if c.budget != nil && c.limit > 0 {
		ok, err := c.budget.Allow(ctx, budgetKey, c.limit, budgetWindow)
		if err == nil && !ok {
			return nil, fmt.Errorf("daily budget of %d calls spent: %w", c.limit, domain.ErrRateLimited)
		}
	}
	return c.req.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}
		return req, nil
	})
}

// rewriteQuery maps the neutral expansion.id field to set.id.
func rewriteQuery(q string) string {
	return strings.ReplaceAll(q, "expansion.id:", "set.id:")
}

// selectFields always includes the fields a card mapping needs.
func selectFields(include []string) string {
	fields := []string{"id", "name", "number", "rarity", "set", "images", "tcgplayer", "gradedPrices"}
	for _, f := range include {
		f = strings.TrimSpace(f)
		if f != "" && !slices.Contains(fields, f) {
			fields = append(fields, f)
		}
	}
	return strings.Join(fields, ",")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Compile-time interface check.
var _ domain.CatalogService = (*Client)(nil)
