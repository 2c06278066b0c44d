package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.Ebay.Token = "token"
	return cfg
}

func TestDefaultsValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	cfg = Defaults()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ebay.token is required")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = "trade"
	cfg.LogLevel = "loud"
	cfg.Scan.Concurrency = 0
	cfg.Pricing.FeePercent = 120
	cfg.Preferences.Source = "file"
	cfg.Pipeline.ArchiveEnabled = true
	cfg.Notify.MinTier = "gold"
	cfg.Notify.TelegramToken = "t"
	cfg.Server.Enabled = true
	cfg.Server.Port = 70000

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		`unknown mode "trade"`,
		`unknown log_level "loud"`,
		"scan.concurrency must be > 0",
		"pricing.fee_percent must be in [0, 100)",
		`unknown preferences.source "file"`,
		"pipeline.archive_enabled requires s3.enabled",
		`unknown notify.min_tier "gold"`,
		"must be set together",
		"server.port 70000 out of range",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidateReconcileNeedsNoToken(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "reconcile"
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.NeedsPostgres())
	assert.False(t, cfg.NeedsS3())
}

func TestValidatePreferences(t *testing.T) {
	cfg := validConfig()
	cfg.Preferences.AllowedConditions = []string{"NM", "MINT"}
	cfg.Preferences.GradeMin = 9
	cfg.Preferences.GradeMax = 8

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allowed_conditions")
	assert.Contains(t, err.Error(), "grade_range.max")
}

func TestNeedsHelpers(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.NeedsPostgres())
	assert.False(t, cfg.NeedsS3())

	cfg.S3.Enabled = true
	cfg.Pipeline.ArchiveEnabled = true
	assert.True(t, cfg.NeedsS3())

	cfg.Mode = "once"
	assert.False(t, cfg.NeedsS3())

	cfg.Mode = "reconcile"
	cfg.Preferences.Source = PreferenceSourcePostgres
	assert.True(t, cfg.NeedsPostgres())
}

func TestNotifyTier(t *testing.T) {
	assert.Equal(t, domain.TierStandard, NotifyConfig{}.Tier())
	assert.Equal(t, domain.TierHigh, NotifyConfig{MinTier: "high"}.Tier())
}

const sampleTOML = `
mode = "once"
log_level = "debug"

[ebay]
token = "from-file"
queries = ["charizard", "pikachu"]

[scan]
interval = "90s"
concurrency = 8

[pricing]
fee_percent = 12.8

[pricing.rates]
USD = 0.8

[preferences]
allowed_conditions = ["NM"]
grade_min = 9.0
grade_max = 10.0

[preferences.tiers.premium]
min_discount_percent = 40
min_value_gbp = 200

[pipeline]
archive_cron = "30 2 * * *"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, "once", cfg.Mode)
	assert.Equal(t, "from-file", cfg.Ebay.Token)
	assert.Equal(t, []string{"charizard", "pikachu"}, cfg.Ebay.Queries)
	assert.Equal(t, 90*time.Second, cfg.Scan.Interval.Duration)
	assert.Equal(t, 8, cfg.Scan.Concurrency)
	assert.InDelta(t, 12.8, cfg.Pricing.FeePercent, 1e-9)
	assert.InDelta(t, 0.8, cfg.Pricing.Rates["USD"], 1e-9)
	assert.Equal(t, "30 2 * * *", cfg.Pipeline.ArchiveCron)
	assert.InDelta(t, 40, cfg.Preferences.Tiers.Premium.MinDiscountPercent, 1e-9)

	// Untouched sections keep their defaults.
	assert.Equal(t, "EBAY_GB", cfg.Ebay.MarketplaceID)
	assert.Equal(t, 72*time.Hour, cfg.Scan.DealTTL.Duration)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CARDARB_EBAY_TOKEN", "from-env")
	t.Setenv("CARDARB_EBAY_QUERIES", " mew , , mewtwo ")
	t.Setenv("CARDARB_SCAN_CONCURRENCY", "not-a-number")
	t.Setenv("CARDARB_SCAN_DEAL_TTL", "12h")
	t.Setenv("CARDARB_REDIS_ENABLED", "false")
	t.Setenv("CARDARB_PRICING_RATES", "usd=0.75,JPY=0.0053,bad")
	t.Setenv("CARDARB_MODE", "scan")

	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Ebay.Token)
	assert.Equal(t, []string{"mew", "mewtwo"}, cfg.Ebay.Queries)
	assert.Equal(t, 8, cfg.Scan.Concurrency, "unparsable values are ignored")
	assert.Equal(t, 12*time.Hour, cfg.Scan.DealTTL.Duration)
	assert.False(t, cfg.Redis.Enabled)
	assert.InDelta(t, 0.75, cfg.Pricing.Rates["USD"], 1e-9)
	assert.InDelta(t, 0.0053, cfg.Pricing.Rates["JPY"], 1e-9)
	assert.Equal(t, "scan", cfg.Mode)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults().Scan, cfg.Scan)
}

func TestLoadBadFile(t *testing.T) {
	_, err := Load(writeConfig(t, "mode = ["))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestRedactedConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Postgres.Password = "pw"
	cfg.S3.SecretKey = "secret"
	cfg.Notify.DiscordWebhookURL = "https://discord.example/hook"
	cfg.Server.APIKey = "api-key"

	out := RedactedConfig(&cfg)
	assert.Equal(t, "***", out.Ebay.Token)
	assert.Equal(t, "***", out.Postgres.Password)
	assert.Equal(t, "***", out.S3.SecretKey)
	assert.Equal(t, "***", out.Notify.DiscordWebhookURL)
	assert.Equal(t, "***", out.Server.APIKey)
	assert.Empty(t, out.Catalog.APIKey, "empty secrets stay empty")

	out.Ebay.Queries[0] = "changed"
	out.Pricing.Rates["USD"] = 9
	assert.Equal(t, "pokemon card", cfg.Ebay.Queries[0])
	assert.InDelta(t, 0.79, cfg.Pricing.Rates["USD"], 1e-9)
	assert.Equal(t, "token", cfg.Ebay.Token)
}

func TestStaticPreferences(t *testing.T) {
	store := NewStaticPreferences(PreferencesConfig{
		AllowedConditions: []string{"NM"},
		MinProfitGBP:      15,
		GradeMin:          8,
		GradeMax:          10,
	})

	p, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"NM"}, p.AllowedConditions)
	assert.Equal(t, domain.GradeRange{Min: 8, Max: 10}, p.GradeRange)

	p.AllowedConditions[0] = "DMG"
	again, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"NM"}, again.AllowedConditions)
}
