// Package config defines the top-level configuration for cardarb and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by CARDARB_* environment variables.
type Config struct {
	Ebay        EbayConfig        `toml:"ebay"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Postgres    PostgresConfig    `toml:"postgres"`
	Redis       RedisConfig       `toml:"redis"`
	S3          S3Config          `toml:"s3"`
	Scan        ScanConfig        `toml:"scan"`
	Cache       CacheConfig       `toml:"cache"`
	Pricing     PricingConfig     `toml:"pricing"`
	Preferences PreferencesConfig `toml:"preferences"`
	Pipeline    PipelineConfig    `toml:"pipeline"`
	Server      ServerConfig      `toml:"server"`
	Notify      NotifyConfig      `toml:"notify"`
	Mode        string            `toml:"mode"`
	LogLevel    string            `toml:"log_level"`
}

// EbayConfig holds the listing source credentials and search scope.
type EbayConfig struct {
	BaseURL           string   `toml:"base_url"`
	Token             string   `toml:"token"`
	MarketplaceID     string   `toml:"marketplace_id"`
	CategoryID        string   `toml:"category_id"`
	Queries           []string `toml:"queries"`
	PageSize          int      `toml:"page_size"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	MinPriceGBP       float64  `toml:"min_price_gbp"`
	MaxPriceGBP       float64  `toml:"max_price_gbp"`
}

// CatalogConfig holds the card catalog API settings.
type CatalogConfig struct {
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	PageSize          int     `toml:"page_size"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	DailyBudget       int     `toml:"daily_budget"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters. When Enabled is false the
// process runs on in-memory caches only.
type RedisConfig struct {
	Enabled      bool     `toml:"enabled"`
	Addr         string   `toml:"addr"`
	Password     string   `toml:"password"`
	DB           int      `toml:"db"`
	PoolSize     int      `toml:"pool_size"`
	MaxRetries   int      `toml:"max_retries"`
	TLSEnabled   bool     `toml:"tls_enabled"`
	SignatureTTL duration `toml:"signature_ttl"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ScanConfig holds the scan loop and listing gate parameters.
type ScanConfig struct {
	Interval          duration `toml:"interval"`
	Concurrency       int      `toml:"concurrency"`
	AllowedCountries  []string `toml:"allowed_countries"`
	BlockedConditions []string `toml:"blocked_conditions"`
	MinConfidence     int      `toml:"min_confidence"`
	DealTTL           duration `toml:"deal_ttl"`
}

// CacheConfig sizes the in-process caches.
type CacheConfig struct {
	ProcessedTTL  duration `toml:"processed_ttl"`
	ProcessedMax  int      `toml:"processed_max"`
	SignatureTTL  duration `toml:"signature_ttl"`
	SignatureMax  int      `toml:"signature_max"`
	NegativeTTL   duration `toml:"negative_ttl"`
	NegativeMax   int      `toml:"negative_max"`
	SweepInterval duration `toml:"sweep_interval"`
}

// PricingConfig holds currency rates to GBP and the marketplace fee.
type PricingConfig struct {
	Rates      map[string]float64 `toml:"rates"`
	FeePercent float64            `toml:"fee_percent"`
}

// Preference sources.
const (
	PreferenceSourceStatic   = "static"
	PreferenceSourcePostgres = "postgres"
)

// PreferencesConfig holds the deal filters. With source "postgres" these
// values seed the table and act as the fallback when it is unreadable.
type PreferencesConfig struct {
	Source                    string                `toml:"source"`
	ReloadInterval            duration              `toml:"reload_interval"`
	AllowedConditions         []string              `toml:"allowed_conditions"`
	MinProfitGBP              float64               `toml:"min_profit_gbp"`
	PreferredGradingCompanies []string              `toml:"preferred_grading_companies"`
	GradeMin                  float64               `toml:"grade_min"`
	GradeMax                  float64               `toml:"grade_max"`
	Tiers                     domain.TierThresholds `toml:"tiers"`
}

// Domain converts the section into domain preferences.
func (p PreferencesConfig) Domain() domain.Preferences {
	return domain.Preferences{
		AllowedConditions:         append([]string(nil), p.AllowedConditions...),
		MinProfitGBP:              p.MinProfitGBP,
		PreferredGradingCompanies: append([]string(nil), p.PreferredGradingCompanies...),
		GradeRange:                domain.GradeRange{Min: p.GradeMin, Max: p.GradeMax},
		TierThresholds:            p.Tiers,
	}
}

// PipelineConfig controls the expired-deal archive job.
type PipelineConfig struct {
	ArchiveEnabled       bool   `toml:"archive_enabled"`
	ArchiveCron          string `toml:"archive_cron"`
	ArchiveRetentionDays int    `toml:"archive_retention_days"`
}

// ServerConfig controls the operator API. It only runs in scan mode.
type ServerConfig struct {
	Enabled            bool     `toml:"enabled"`
	Port               int      `toml:"port"`
	APIKey             string   `toml:"api_key"`
	CORSOrigins        []string `toml:"cors_origins"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// NotifyConfig holds deal alert destinations.
type NotifyConfig struct {
	TelegramToken     string `toml:"telegram_token"`
	TelegramChatID    string `toml:"telegram_chat_id"`
	DiscordWebhookURL string `toml:"discord_webhook_url"`
	MinTier           string `toml:"min_tier"`
}

// Tier returns MinTier as a domain tier, defaulting to STANDARD.
func (n NotifyConfig) Tier() domain.Tier {
	if n.MinTier == "" {
		return domain.TierStandard
	}
	return domain.Tier(strings.ToUpper(n.MinTier))
}

// Defaults returns a Config populated with sensible defaults.
func Defaults() Config {
	return Config{
		Ebay: EbayConfig{
			BaseURL:           "https://api.ebay.com",
			MarketplaceID:     "EBAY_GB",
			CategoryID:        "183454",
			Queries:           []string{"pokemon card", "pokemon psa", "pokemon holo"},
			PageSize:          50,
			RequestsPerSecond: 2,
			MinPriceGBP:       5,
			MaxPriceGBP:       2000,
		},
		Catalog: CatalogConfig{
			BaseURL:           "https://api.pokemontcg.io/v2",
			PageSize:          50,
			RequestsPerSecond: 5,
			DailyBudget:       20000,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "cardarb",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Enabled:      true,
			Addr:         "localhost:6379",
			PoolSize:     20,
			MaxRetries:   3,
			SignatureTTL: duration{24 * time.Hour},
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "cardarb-archive",
			ForcePathStyle: true,
		},
		Scan: ScanConfig{
			Interval:          duration{5 * time.Minute},
			Concurrency:       4,
			AllowedCountries:  []string{"GB"},
			BlockedConditions: []string{"DMG"},
			MinConfidence:     50,
			DealTTL:           duration{72 * time.Hour},
		},
		Cache: CacheConfig{
			ProcessedTTL:  duration{24 * time.Hour},
			ProcessedMax:  50000,
			SignatureTTL:  duration{6 * time.Hour},
			SignatureMax:  20000,
			NegativeTTL:   duration{time.Hour},
			NegativeMax:   20000,
			SweepInterval: duration{10 * time.Minute},
		},
		Pricing: PricingConfig{
			Rates:      map[string]float64{"USD": 0.79, "EUR": 0.85},
			FeePercent: 0,
		},
		Preferences: PreferencesConfig{
			Source:            PreferenceSourceStatic,
			ReloadInterval:    duration{time.Minute},
			AllowedConditions: []string{"NM", "LP"},
			MinProfitGBP:      10,
		},
		Pipeline: PipelineConfig{
			ArchiveEnabled:       false,
			ArchiveCron:          "0 4 * * *",
			ArchiveRetentionDays: 30,
		},
		Server: ServerConfig{
			Enabled:            false,
			Port:               8080,
			CORSOrigins:        []string{"http://localhost:5173"},
			RateLimitPerMinute: 120,
		},
		Notify: NotifyConfig{
			MinTier: string(domain.TierStandard),
		},
		Mode:     "scan",
		LogLevel: "info",
	}
}

var validModes = map[string]bool{
	"scan":      true,
	"once":      true,
	"reconcile": true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validTiers = map[string]bool{
	string(domain.TierPremium):  true,
	string(domain.TierHigh):     true,
	string(domain.TierStandard): true,
}

// Validate checks that the configuration is internally consistent. Every
// problem found is reported in a single error.
func (c *Config) Validate() error {
	var errs []string

	mode := strings.ToLower(c.Mode)
	if !validModes[mode] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: scan, once, reconcile)", c.Mode))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if mode != "reconcile" {
		if c.Ebay.Token == "" {
			errs = append(errs, "ebay.token is required")
		}
		if len(c.Ebay.Queries) == 0 {
			errs = append(errs, "ebay.queries must not be empty")
		}
	}
	if c.Ebay.MaxPriceGBP > 0 && c.Ebay.MaxPriceGBP < c.Ebay.MinPriceGBP {
		errs = append(errs, "ebay.max_price_gbp must be >= ebay.min_price_gbp")
	}

	if c.Catalog.DailyBudget < 0 {
		errs = append(errs, "catalog.daily_budget must be >= 0")
	}

	if c.NeedsPostgres() && c.Postgres.DSN == "" && c.Postgres.Host == "" {
		errs = append(errs, "postgres.dsn or postgres.host is required")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis.addr is required when redis.enabled is true")
	}

	if c.S3.Enabled && c.S3.Bucket == "" {
		errs = append(errs, "s3.bucket is required when s3.enabled is true")
	}

	if c.Scan.Concurrency <= 0 {
		errs = append(errs, "scan.concurrency must be > 0")
	}
	if c.Scan.Interval.Duration <= 0 {
		errs = append(errs, "scan.interval must be > 0")
	}
	if c.Scan.MinConfidence < 0 || c.Scan.MinConfidence > 100 {
		errs = append(errs, "scan.min_confidence must be between 0 and 100")
	}

	if c.Pricing.FeePercent < 0 || c.Pricing.FeePercent >= 100 {
		errs = append(errs, "pricing.fee_percent must be in [0, 100)")
	}
	for cur, rate := range c.Pricing.Rates {
		if rate <= 0 {
			errs = append(errs, fmt.Sprintf("pricing.rates.%s must be > 0", cur))
		}
	}

	switch c.Preferences.Source {
	case PreferenceSourceStatic, PreferenceSourcePostgres:
	default:
		errs = append(errs, fmt.Sprintf("unknown preferences.source %q (valid: static, postgres)", c.Preferences.Source))
	}
	if err := c.Preferences.Domain().Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if c.Pipeline.ArchiveEnabled {
		if !c.S3.Enabled {
			errs = append(errs, "pipeline.archive_enabled requires s3.enabled")
		}
		if c.Pipeline.ArchiveRetentionDays <= 0 {
			errs = append(errs, "pipeline.archive_retention_days must be > 0")
		}
		if strings.TrimSpace(c.Pipeline.ArchiveCron) == "" {
			errs = append(errs, "pipeline.archive_cron is required when archiving is enabled")
		}
	}

	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}

	if c.Notify.MinTier != "" && !validTiers[strings.ToUpper(c.Notify.MinTier)] {
		errs = append(errs, fmt.Sprintf("unknown notify.min_tier %q (valid: PREMIUM, HIGH, STANDARD)", c.Notify.MinTier))
	}
	if (c.Notify.TelegramToken == "") != (c.Notify.TelegramChatID == "") {
		errs = append(errs, "notify.telegram_token and notify.telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// NeedsPostgres reports whether the mode persists deals or reads
// preferences from the database.
func (c *Config) NeedsPostgres() bool {
	if c.Preferences.Source == PreferenceSourcePostgres {
		return true
	}
	switch strings.ToLower(c.Mode) {
	case "scan", "once":
		return true
	default:
		return false
	}
}

// NeedsS3 reports whether the archive bucket must be connected.
func (c *Config) NeedsS3() bool {
	return c.S3.Enabled && c.Pipeline.ArchiveEnabled && strings.ToLower(c.Mode) == "scan"
}
