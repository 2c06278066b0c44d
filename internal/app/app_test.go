package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/cardarb/internal/config"
	"github.com/alanyoungcy/cardarb/internal/domain"
	"github.com/alanyoungcy/cardarb/internal/expansion"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func reconcileConfig(catalogURL string) *config.Config {
	cfg := config.Defaults()
	cfg.Mode = "reconcile"
	cfg.Redis.Enabled = false
	cfg.Catalog.BaseURL = catalogURL
	return &cfg
}

func TestRunReconcileMode(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/sets", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":[{"id":"base1","name":"Base Set","ptcgoCode":"BS"}],"page":1,"pageSize":250,"totalCount":1}`)
	}))
	defer srv.Close()

	a := New(reconcileConfig(srv.URL), discardLogger())
	defer a.Close()

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunReconcileModeCatalogDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	a := New(reconcileConfig(srv.URL), discardLogger())
	defer a.Close()

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunUnsupportedMode(t *testing.T) {
	cfg := reconcileConfig("http://127.0.0.1:1")
	cfg.Mode = "trade"

	a := New(cfg, discardLogger())
	defer a.Close()

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported mode "trade"`)
}

type fakePrefs struct {
	read    domain.Preferences
	readErr error
	written []domain.Preferences
}

func (f *fakePrefs) Read(context.Context) (domain.Preferences, error) { return f.read, f.readErr }

func (f *fakePrefs) Write(_ context.Context, p domain.Preferences) error {
	f.written = append(f.written, p)
	return nil
}

func TestSeedPreferences(t *testing.T) {
	fallback := domain.Preferences{AllowedConditions: []string{"NM"}, MinProfitGBP: 12}

	t.Run("seeds missing row", func(t *testing.T) {
		store := &fakePrefs{readErr: domain.ErrNotFound}
		require.NoError(t, seedPreferences(context.Background(), store, fallback, discardLogger()))
		require.Len(t, store.written, 1)
		assert.Equal(t, fallback, store.written[0])
	})

	t.Run("existing row wins", func(t *testing.T) {
		store := &fakePrefs{read: domain.Preferences{MinProfitGBP: 50}}
		require.NoError(t, seedPreferences(context.Background(), store, fallback, discardLogger()))
		assert.Empty(t, store.written)
	})

	t.Run("unreadable row left alone", func(t *testing.T) {
		store := &fakePrefs{readErr: errors.New("bad json")}
		require.NoError(t, seedPreferences(context.Background(), store, fallback, discardLogger()))
		assert.Empty(t, store.written)
	})
}

func TestScanConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Scan.AllowedCountries = []string{"ie", "GB"}
	cfg.Scan.Concurrency = 6

	sc := scanConfig(&cfg)
	assert.Equal(t, cfg.Ebay.Queries, sc.Queries)
	assert.Equal(t, "IE", sc.Filters.DeliveryCountry)
	assert.True(t, sc.Filters.BuyItNowOnly)
	assert.InDelta(t, 5.0, sc.Filters.MinPriceGBP, 1e-9)
	assert.Equal(t, 50, sc.Filters.Limit)
	assert.Equal(t, 6, sc.Concurrency)
	assert.Equal(t, 10*time.Minute, sc.SweepInterval)

	cfg.Scan.AllowedCountries = nil
	assert.Equal(t, "GB", scanConfig(&cfg).Filters.DeliveryCountry)
}

func TestOrchestratorConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Pricing.FeePercent = 12.8
	cfg.Preferences.MinProfitGBP = 25

	deps := &Dependencies{PreferenceStore: config.NewStaticPreferences(cfg.Preferences)}
	oc := orchestratorConfig(&cfg, deps, nil, discardLogger())

	assert.InDelta(t, 12.8, oc.FeePercent, 1e-9)
	assert.Equal(t, 72*time.Hour, oc.DealTTL)
	assert.Equal(t, time.Minute, oc.PreferenceReload)
	assert.InDelta(t, 25, oc.DefaultPreferences.MinProfitGBP, 1e-9)
	assert.Equal(t, 50000, oc.Cache.ProcessedMax)
	assert.Equal(t, time.Hour, oc.Cache.NegativeTTL)
	assert.Nil(t, oc.Signatures)
	assert.Equal(t, []string{"DMG"}, oc.BlockedConditions)
}

type writablePrefs struct{ fakePrefs }

func TestServerHandlers(t *testing.T) {
	cfg := config.Defaults()
	a := New(&cfg, discardLogger())

	deps := &Dependencies{
		Matcher:         expansion.NewMatcher(nil, discardLogger()),
		PreferenceStore: config.NewStaticPreferences(cfg.Preferences),
	}
	h := a.serverHandlers(deps, nil, nil)
	assert.NotNil(t, h.Health)
	assert.NotNil(t, h.Status)
	assert.NotNil(t, h.Preferences)
	assert.Nil(t, h.Deals, "no deal routes without a store")
	assert.Nil(t, h.Diagnostics)
	assert.Nil(t, h.Scan)
	assert.Nil(t, preferenceWriter(deps), "static preferences are read-only")

	deps.PreferenceStore = &writablePrefs{}
	assert.NotNil(t, preferenceWriter(deps))
}
