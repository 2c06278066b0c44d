package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies CARDARB_* environment variable overrides, and
// returns the final Config. An empty path skips the file. The returned Config
// has NOT been validated; the caller should invoke Config.Validate() after
// Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known CARDARB_* environment variables and
// overwrites the corresponding Config fields when a variable is set.
func applyEnvOverrides(cfg *Config) {
	// ── eBay ──
	setStr(&cfg.Ebay.BaseURL, "CARDARB_EBAY_BASE_URL")
	setStr(&cfg.Ebay.Token, "CARDARB_EBAY_TOKEN")
	setStr(&cfg.Ebay.MarketplaceID, "CARDARB_EBAY_MARKETPLACE_ID")
	setStr(&cfg.Ebay.CategoryID, "CARDARB_EBAY_CATEGORY_ID")
	setStringSlice(&cfg.Ebay.Queries, "CARDARB_EBAY_QUERIES")
	setInt(&cfg.Ebay.PageSize, "CARDARB_EBAY_PAGE_SIZE")
	setFloat64(&cfg.Ebay.RequestsPerSecond, "CARDARB_EBAY_REQUESTS_PER_SECOND")
	setFloat64(&cfg.Ebay.MinPriceGBP, "CARDARB_EBAY_MIN_PRICE_GBP")
	setFloat64(&cfg.Ebay.MaxPriceGBP, "CARDARB_EBAY_MAX_PRICE_GBP")

	// ── Catalog ──
	setStr(&cfg.Catalog.BaseURL, "CARDARB_CATALOG_BASE_URL")
	setStr(&cfg.Catalog.APIKey, "CARDARB_CATALOG_API_KEY")
	setInt(&cfg.Catalog.PageSize, "CARDARB_CATALOG_PAGE_SIZE")
	setFloat64(&cfg.Catalog.RequestsPerSecond, "CARDARB_CATALOG_REQUESTS_PER_SECOND")
	setInt(&cfg.Catalog.DailyBudget, "CARDARB_CATALOG_DAILY_BUDGET")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "CARDARB_POSTGRES_DSN")
	setStr(&cfg.Postgres.DSN, "DATABASE_URL") // platform alias
	setStr(&cfg.Postgres.Host, "CARDARB_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "CARDARB_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "CARDARB_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "CARDARB_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "CARDARB_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "CARDARB_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "CARDARB_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "CARDARB_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "CARDARB_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "CARDARB_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "CARDARB_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "CARDARB_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "CARDARB_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "CARDARB_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "CARDARB_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "CARDARB_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.SignatureTTL, "CARDARB_REDIS_SIGNATURE_TTL")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "CARDARB_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "CARDARB_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "CARDARB_S3_REGION")
	setStr(&cfg.S3.Bucket, "CARDARB_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "CARDARB_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "CARDARB_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "CARDARB_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "CARDARB_S3_FORCE_PATH_STYLE")

	// ── Scan ──
	setDuration(&cfg.Scan.Interval, "CARDARB_SCAN_INTERVAL")
	setInt(&cfg.Scan.Concurrency, "CARDARB_SCAN_CONCURRENCY")
	setStringSlice(&cfg.Scan.AllowedCountries, "CARDARB_SCAN_ALLOWED_COUNTRIES")
	setStringSlice(&cfg.Scan.BlockedConditions, "CARDARB_SCAN_BLOCKED_CONDITIONS")
	setInt(&cfg.Scan.MinConfidence, "CARDARB_SCAN_MIN_CONFIDENCE")
	setDuration(&cfg.Scan.DealTTL, "CARDARB_SCAN_DEAL_TTL")

	// ── Cache ──
	setDuration(&cfg.Cache.ProcessedTTL, "CARDARB_CACHE_PROCESSED_TTL")
	setInt(&cfg.Cache.ProcessedMax, "CARDARB_CACHE_PROCESSED_MAX")
	setDuration(&cfg.Cache.SignatureTTL, "CARDARB_CACHE_SIGNATURE_TTL")
	setInt(&cfg.Cache.SignatureMax, "CARDARB_CACHE_SIGNATURE_MAX")
	setDuration(&cfg.Cache.NegativeTTL, "CARDARB_CACHE_NEGATIVE_TTL")
	setInt(&cfg.Cache.NegativeMax, "CARDARB_CACHE_NEGATIVE_MAX")
	setDuration(&cfg.Cache.SweepInterval, "CARDARB_CACHE_SWEEP_INTERVAL")

	// ── Pricing ──
	setFloat64(&cfg.Pricing.FeePercent, "CARDARB_PRICING_FEE_PERCENT")
	setRates(&cfg.Pricing.Rates, "CARDARB_PRICING_RATES")

	// ── Preferences ──
	setStr(&cfg.Preferences.Source, "CARDARB_PREFERENCES_SOURCE")
	setDuration(&cfg.Preferences.ReloadInterval, "CARDARB_PREFERENCES_RELOAD_INTERVAL")
	setStringSlice(&cfg.Preferences.AllowedConditions, "CARDARB_PREFERENCES_ALLOWED_CONDITIONS")
	setFloat64(&cfg.Preferences.MinProfitGBP, "CARDARB_PREFERENCES_MIN_PROFIT_GBP")
	setStringSlice(&cfg.Preferences.PreferredGradingCompanies, "CARDARB_PREFERENCES_PREFERRED_GRADING_COMPANIES")
	setFloat64(&cfg.Preferences.GradeMin, "CARDARB_PREFERENCES_GRADE_MIN")
	setFloat64(&cfg.Preferences.GradeMax, "CARDARB_PREFERENCES_GRADE_MAX")

	// ── Pipeline ──
	setBool(&cfg.Pipeline.ArchiveEnabled, "CARDARB_PIPELINE_ARCHIVE_ENABLED")
	setStr(&cfg.Pipeline.ArchiveCron, "CARDARB_PIPELINE_ARCHIVE_CRON")
	setInt(&cfg.Pipeline.ArchiveRetentionDays, "CARDARB_PIPELINE_ARCHIVE_RETENTION_DAYS")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "CARDARB_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "CARDARB_SERVER_PORT")
	setStr(&cfg.Server.APIKey, "CARDARB_SERVER_API_KEY")
	setStringSlice(&cfg.Server.CORSOrigins, "CARDARB_SERVER_CORS_ORIGINS")
	setInt(&cfg.Server.RateLimitPerMinute, "CARDARB_SERVER_RATE_LIMIT_PER_MINUTE")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "CARDARB_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "CARDARB_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "CARDARB_NOTIFY_DISCORD_WEBHOOK_URL")
	setStr(&cfg.Notify.MinTier, "CARDARB_NOTIFY_MIN_TIER")

	// ── Top-level ──
	setStr(&cfg.Mode, "CARDARB_MODE")
	setStr(&cfg.LogLevel, "CARDARB_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}

// setRates merges "USD=0.79,EUR=0.85" pairs into dst. Malformed pairs are
// skipped.
func setRates(dst *map[string]float64, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if *dst == nil {
		*dst = make(map[string]float64)
	}
	for _, pair := range strings.Split(v, ",") {
		cur, rate, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(rate), 64)
		if err != nil {
			continue
		}
		(*dst)[strings.ToUpper(strings.TrimSpace(cur))] = f
	}
}
