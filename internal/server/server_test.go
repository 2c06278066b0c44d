package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/cardarb/internal/arbitrage"
	"github.com/alanyoungcy/cardarb/internal/domain"
	"github.com/alanyoungcy/cardarb/internal/server/handler"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memDeals struct {
	deals []domain.Deal
	err   error
}

func (m *memDeals) GetByID(_ context.Context, id string) (domain.Deal, error) {
	for _, d := range m.deals {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Deal{}, domain.ErrNotFound
}

func (m *memDeals) ListRecent(_ context.Context, opts domain.ListOpts) ([]domain.Deal, error) {
	if m.err != nil {
		return nil, m.err
	}
	end := min(opts.Offset+opts.Limit, len(m.deals))
	if opts.Offset >= end {
		return nil, nil
	}
	return m.deals[opts.Offset:end], nil
}

type memPrefs struct {
	mu    sync.Mutex
	prefs domain.Preferences
}

func (m *memPrefs) Read(context.Context) (domain.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs, nil
}

func (m *memPrefs) Write(_ context.Context, p domain.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs = p
	return nil
}

type staticDiag struct{ snap arbitrage.DiagnosticsSnapshot }

func (s staticDiag) Snapshot() arbitrage.DiagnosticsSnapshot { return s.snap }

type countingTrigger struct{ n int }

func (c *countingTrigger) Trigger() bool {
	c.n++
	return c.n == 1
}

type denyAfter struct {
	mu    sync.Mutex
	calls int
	limit int
}

func (d *denyAfter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return d.calls <= d.limit, nil
}

type fixture struct {
	srv     *Server
	prefs   *memPrefs
	trigger *countingTrigger
}

func newFixture(t *testing.T, cfg Config, limiter domain.RateLimiter, healthErr error) fixture {
	t.Helper()
	logger := discardLogger()
	prefs := &memPrefs{prefs: domain.Preferences{AllowedConditions: []string{"NM"}, MinProfitGBP: 10}}
	trigger := &countingTrigger{}
	deals := &memDeals{deals: []domain.Deal{{ID: "d1", Listing: domain.Listing{ID: "l1"}}, {ID: "d2", Listing: domain.Listing{ID: "l2"}}}}

	handlers := Handlers{
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"postgres": func(context.Context) error { return healthErr },
		}, logger),
		Status:      handler.NewStatusHandler("scan", time.Now().Add(-time.Minute), nil),
		Deals:       handler.NewDealHandler(deals, logger),
		Diagnostics: handler.NewDiagnosticsHandler(staticDiag{snap: arbitrage.DiagnosticsSnapshot{Session: arbitrage.ScanDiagnostics{Scanned: 10, SuccessfulMatches: 4, SuccessfulDeals: 1}}}),
		Preferences: handler.NewPreferenceHandler(prefs, prefs, logger),
		Scan:        handler.NewScanHandler(trigger, logger),
	}
	return fixture{
		srv:     NewServer(cfg, handlers, nil, limiter, logger),
		prefs:   prefs,
		trigger: trigger,
	}
}

func (f fixture) do(t *testing.T, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, Config{}, nil, nil)
	rec := f.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	f = newFixture(t, Config{}, nil, errors.New("connection refused"))
	rec = f.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "connection refused", body["checks"].(map[string]any)["postgres"])
}

func TestAuth(t *testing.T) {
	f := newFixture(t, Config{APIKey: "secret"}, nil, nil)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/health", "", nil).Code, "health is public")
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/deals", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/deals", "", map[string]string{"X-API-Key": "wrong"}).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/deals", "", map[string]string{"X-API-Key": "secret"}).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/deals", "", map[string]string{"Authorization": "Bearer secret"}).Code)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, Config{CORSOrigins: []string{"http://localhost:5173"}, APIKey: "secret"}, nil, nil)

	rec := f.do(t, http.MethodOptions, "/api/deals", "", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = f.do(t, http.MethodOptions, "/api/deals", "", map[string]string{"Origin": "http://evil.example"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDeals(t *testing.T) {
	f := newFixture(t, Config{}, nil, nil)

	rec := f.do(t, http.MethodGet, "/api/deals?limit=1&offset=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	deals := body["deals"].([]any)
	require.Len(t, deals, 1)
	assert.Equal(t, "d2", deals[0].(map[string]any)["id"])
	assert.EqualValues(t, 1, body["limit"])

	rec = f.do(t, http.MethodGet, "/api/deals?offset=10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["deals"])

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/deals/d1", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/deals/nope", "", nil).Code)
}

func TestDiagnostics(t *testing.T) {
	f := newFixture(t, Config{}, nil, nil)
	rec := f.do(t, http.MethodGet, "/api/diagnostics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 10, body["session"].(map[string]any)["scanned"])
	assert.InDelta(t, 0.4, body["eligibility_rate"], 1e-9)
	assert.InDelta(t, 0.1, body["deal_rate"], 1e-9)
}

func TestPreferences(t *testing.T) {
	f := newFixture(t, Config{}, nil, nil)

	rec := f.do(t, http.MethodGet, "/api/preferences", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 10, decode(t, rec)["min_profit_gbp"], 1e-9)

	rec = f.do(t, http.MethodPut, "/api/preferences", `{"allowed_conditions":["NM","LP"],"min_profit_gbp":25}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"NM", "LP"}, f.prefs.prefs.AllowedConditions)

	rec = f.do(t, http.MethodPut, "/api/preferences", `{"allowed_conditions":["MINT"]}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "allowed_conditions")

	rec = f.do(t, http.MethodPut, "/api/preferences", `{"min_profit":5}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")
	assert.InDelta(t, 25, f.prefs.prefs.MinProfitGBP, 1e-9)
}

func TestPreferencesReadOnly(t *testing.T) {
	prefs := &memPrefs{}
	srv := NewServer(Config{}, Handlers{
		Preferences: handler.NewPreferenceHandler(prefs, nil, discardLogger()),
	}, nil, nil, discardLogger())

	req := httptest.NewRequest(http.MethodPut, "/api/preferences", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestScanTrigger(t *testing.T) {
	f := newFixture(t, Config{}, nil, nil)

	rec := f.do(t, http.MethodPost, "/api/scan/trigger", "", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, true, decode(t, rec)["queued"])

	rec = f.do(t, http.MethodPost, "/api/scan/trigger", "", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, false, decode(t, rec)["queued"])
	assert.Equal(t, 2, f.trigger.n)

	assert.Equal(t, http.StatusMethodNotAllowed, f.do(t, http.MethodGet, "/api/scan/trigger", "", nil).Code)
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, Config{RateLimit: 2}, &denyAfter{limit: 2}, nil)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/status", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/status", "", nil).Code)
	rec := f.do(t, http.MethodGet, "/api/status", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestStatus(t *testing.T) {
	f := newFixture(t, Config{}, nil, nil)
	rec := f.do(t, http.MethodGet, "/api/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "scan", body["mode"])
	assert.GreaterOrEqual(t, body["uptime_seconds"].(float64), 59.0)
}
