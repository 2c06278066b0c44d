package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	s3blob "github.com/alanyoungcy/cardarb/internal/blob/s3"
	"github.com/alanyoungcy/cardarb/internal/cache/redis"
	"github.com/alanyoungcy/cardarb/internal/config"
	"github.com/alanyoungcy/cardarb/internal/domain"
	"github.com/alanyoungcy/cardarb/internal/expansion"
	"github.com/alanyoungcy/cardarb/internal/notify"
	"github.com/alanyoungcy/cardarb/internal/platform/catalog"
	"github.com/alanyoungcy/cardarb/internal/platform/ebay"
	"github.com/alanyoungcy/cardarb/internal/pricing"
	"github.com/alanyoungcy/cardarb/internal/server/handler"
	"github.com/alanyoungcy/cardarb/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency that the application modes
// need to operate. It is constructed by Wire and torn down by the returned
// cleanup function. Optional backends are left nil when disabled.
type Dependencies struct {
	// Stores
	DealStore       domain.DealStore
	AuditStore      domain.AuditStore
	PreferenceStore domain.PreferenceStore

	// Shared caches (nil without Redis)
	Signatures  domain.SignatureStore
	RateLimiter domain.RateLimiter
	LockManager domain.LockManager
	SignalBus   domain.SignalBus

	// Blob storage
	Archiver domain.DealArchiver

	// Upstream APIs
	Catalog  *catalog.Client
	Listings domain.ListingSource

	// Domain services
	Matcher   *expansion.Matcher
	Converter *pricing.Converter
	Notifier  *notify.Notifier

	// HealthChecks probes each connected backend by name.
	HealthChecks map[string]handler.HealthCheck
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Matcher:      expansion.NewMatcher(nil, logger),
		Converter:    pricing.NewConverter(cfg.Pricing.Rates),
		HealthChecks: make(map[string]handler.HealthCheck),
	}

	// --- PostgreSQL (only for modes that need persistence) ---
	if cfg.NeedsPostgres() {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)
		deps.HealthChecks["postgres"] = pgClient.Ping

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		pool := pgClient.Pool()
		deps.DealStore = postgres.NewDealStore(pool)
		deps.AuditStore = postgres.NewAuditStore(pool)

		if cfg.Preferences.Source == config.PreferenceSourcePostgres {
			prefs := postgres.NewPreferenceStore(pool)
			if err := seedPreferences(ctx, prefs, cfg.Preferences.Domain(), logger); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: seed preferences: %w", err)
			}
			deps.PreferenceStore = prefs
		}
	}
	if deps.PreferenceStore == nil {
		deps.PreferenceStore = config.NewStaticPreferences(cfg.Preferences)
	}

	// --- Redis ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		deps.HealthChecks["redis"] = redisClient.Ping

		deps.Signatures = redis.NewSignatureCache(redisClient, cfg.Redis.SignatureTTL.Duration)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
		deps.LockManager = redis.NewLockManager(redisClient)
		deps.SignalBus = redis.NewSignalBus(redisClient)
	} else {
		logger.WarnContext(ctx, "redis disabled; caches are process-local and scans are not locked")
	}

	// --- S3 blob storage (only when archiving runs) ---
	if cfg.NeedsS3() && deps.DealStore != nil {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })
		deps.HealthChecks["s3"] = s3Client.Health

		deps.Archiver = s3blob.NewDealArchiver(
			s3blob.NewWriter(s3Client),
			s3blob.NewReader(s3Client),
			deps.DealStore,
			deps.AuditStore,
			logger,
		)
	}

	// --- Upstream APIs ---
	deps.Catalog = catalog.NewClient(catalog.Config{
		BaseURL:           cfg.Catalog.BaseURL,
		APIKey:            cfg.Catalog.APIKey,
		PageSize:          cfg.Catalog.PageSize,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		DailyBudget:       cfg.Catalog.DailyBudget,
	}, deps.RateLimiter)
	deps.Listings = ebay.NewClient(ebay.Config{
		BaseURL:           cfg.Ebay.BaseURL,
		Token:             cfg.Ebay.Token,
		MarketplaceID:     cfg.Ebay.MarketplaceID,
		CategoryID:        cfg.Ebay.CategoryID,
		PageSize:          cfg.Ebay.PageSize,
		RequestsPerSecond: cfg.Ebay.RequestsPerSecond,
	}, deps.Converter)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Tier(), logger)

	return deps, cleanup, nil
}

// preferenceRW is the store surface seedPreferences needs.
type preferenceRW interface {
	domain.PreferenceStore
	Write(ctx context.Context, p domain.Preferences) error
}

// seedPreferences writes the configured preferences when the table has no
// row yet. An existing row always wins.
func seedPreferences(ctx context.Context, store preferenceRW, fallback domain.Preferences, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := store.Read(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		logger.InfoContext(ctx, "seeding preferences from config")
		return store.Write(ctx, fallback)
	default:
		// A corrupt row is left for the operator; the orchestrator falls back
		// to the configured values until it reads cleanly.
		logger.WarnContext(ctx, "stored preferences unreadable", slog.String("error", err.Error()))
		return nil
	}
}
