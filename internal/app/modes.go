package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/cardarb/internal/arbitrage"
	"github.com/alanyoungcy/cardarb/internal/config"
	"github.com/alanyoungcy/cardarb/internal/domain"
	"github.com/alanyoungcy/cardarb/internal/pipeline"
	"github.com/alanyoungcy/cardarb/internal/service"
	"github.com/alanyoungcy/cardarb/internal/store/postgres"
)

const reconcileTimeout = 2 * time.Minute

// ScanMode reconciles expansion ids, then runs the scan loop until the
// context is cancelled. The archive job runs alongside when enabled.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scan mode",
		slog.Int("queries", len(a.cfg.Ebay.Queries)),
		slog.Duration("interval", a.cfg.Scan.Interval.Duration),
	)

	a.reconcile(ctx, deps)
	scanner, orch := a.newScanService(deps)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return scanner.Run(ctx)
	})

	if a.cfg.Server.Enabled {
		srv, hub := a.newServer(deps, scanner, orch)
		g.Go(func() error {
			return hub.Run(ctx)
		})
		g.Go(func() error {
			return srv.Run(ctx)
		})
	}

	if a.cfg.Pipeline.ArchiveEnabled {
		if deps.Archiver == nil {
			a.logger.WarnContext(ctx, "archive enabled but no archive backend is wired; skipping")
		} else {
			archiver := pipeline.NewArchiver(deps.Archiver, a.cfg.Pipeline.ArchiveRetentionDays, a.logger)
			g.Go(func() error {
				return archiver.RunCron(ctx, a.cfg.Pipeline.ArchiveCron)
			})
		}
	}

	return g.Wait()
}

// OnceMode runs a single scan and logs its report.
func (a *App) OnceMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting single scan")

	a.reconcile(ctx, deps)
	scanner, _ := a.newScanService(deps)

	report, err := scanner.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("once mode: %w", err)
	}
	attrs := []any{
		slog.Bool("skipped", report.Skipped),
		slog.Int("listings", report.Listings),
		slog.Int("deals", report.Deals),
		slog.Int("stored", report.Stored),
		slog.Int("source_errors", report.SourceErrors),
	}
	if d := report.Diagnostics; d != nil {
		attrs = append(attrs,
			slog.Int64("scanned", d.Scanned),
			slog.Int64("matches", d.SuccessfulMatches),
			slog.Int64("catalog_calls", d.CatalogCalls),
			slog.Int64("cache_hits", d.CacheHits),
		)
	}
	a.logger.InfoContext(ctx, "single scan finished", attrs...)
	return nil
}

// ReconcileMode lists the catalog's expansions and reports which local ids
// could not be mapped. It fails when the catalog is unreachable.
func (a *App) ReconcileMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting expansion reconciliation")

	rctx, cancel := context.WithTimeout(ctx, reconcileTimeout)
	defer cancel()
	if err := deps.Matcher.Reconcile(rctx, deps.Catalog); err != nil {
		return fmt.Errorf("reconcile mode: %w", err)
	}

	unmatched := deps.Matcher.Unreconciled()
	for _, id := range unmatched {
		a.logger.WarnContext(ctx, "expansion has no catalog counterpart", slog.String("expansion_id", id))
	}
	a.recordReconcile(ctx, deps, unmatched)
	return nil
}

// reconcile runs expansion id reconciliation best-effort. Built-in ids stay
// in use when the catalog cannot be listed.
func (a *App) reconcile(ctx context.Context, deps *Dependencies) {
	rctx, cancel := context.WithTimeout(ctx, reconcileTimeout)
	defer cancel()
	if err := deps.Matcher.Reconcile(rctx, deps.Catalog); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		a.logger.WarnContext(ctx, "expansion reconciliation failed; using built-in ids",
			slog.String("error", err.Error()),
		)
		return
	}
	a.recordReconcile(ctx, deps, deps.Matcher.Unreconciled())
}

func (a *App) recordReconcile(ctx context.Context, deps *Dependencies, unmatched []string) {
	if deps.AuditStore == nil {
		return
	}
	if unmatched == nil {
		unmatched = []string{}
	}
	detail := map[string]any{"unreconciled": unmatched}
	if err := deps.AuditStore.Log(ctx, postgres.AuditReconciled, detail); err != nil {
		a.logger.WarnContext(ctx, "audit log failed", slog.String("error", err.Error()))
	}
}

// newScanService builds the orchestrator and the services around it.
func (a *App) newScanService(deps *Dependencies) (*service.ScanService, *arbitrage.Orchestrator) {
	deals := service.NewDealService(deps.DealStore, deps.SignalBus, deps.Notifier, deps.AuditStore, a.logger)

	orch := arbitrage.New(orchestratorConfig(a.cfg, deps, deals, a.logger))

	scanner := service.NewScanService(
		deps.Listings,
		orch,
		deps.LockManager,
		deps.SignalBus,
		deps.AuditStore,
		scanConfig(a.cfg),
		a.logger,
	)
	return scanner, orch
}

func orchestratorConfig(cfg *config.Config, deps *Dependencies, sink domain.DealSink, logger *slog.Logger) arbitrage.Config {
	return arbitrage.Config{
		Catalog:            deps.Catalog,
		Matcher:            deps.Matcher,
		Preferences:        deps.PreferenceStore,
		Sink:               sink,
		Signatures:         deps.Signatures,
		Converter:          deps.Converter,
		Logger:             logger,
		AllowedCountries:   cfg.Scan.AllowedCountries,
		BlockedConditions:  cfg.Scan.BlockedConditions,
		MinConfidence:      cfg.Scan.MinConfidence,
		FeePercent:         cfg.Pricing.FeePercent,
		DealTTL:            cfg.Scan.DealTTL.Duration,
		PreferenceReload:   cfg.Preferences.ReloadInterval.Duration,
		DefaultPreferences: cfg.Preferences.Domain(),
		PageSize:           cfg.Catalog.PageSize,
		Cache: arbitrage.CacheConfig{
			ProcessedTTL: cfg.Cache.ProcessedTTL.Duration,
			ProcessedMax: cfg.Cache.ProcessedMax,
			SignatureTTL: cfg.Cache.SignatureTTL.Duration,
			SignatureMax: cfg.Cache.SignatureMax,
			NegativeTTL:  cfg.Cache.NegativeTTL.Duration,
			NegativeMax:  cfg.Cache.NegativeMax,
		},
	}
}

func scanConfig(cfg *config.Config) service.ScanConfig {
	country := "GB"
	if len(cfg.Scan.AllowedCountries) > 0 {
		country = strings.ToUpper(cfg.Scan.AllowedCountries[0])
	}
	return service.ScanConfig{
		Queries: cfg.Ebay.Queries,
		Filters: domain.SearchFilters{
			MinPriceGBP:     cfg.Ebay.MinPriceGBP,
			MaxPriceGBP:     cfg.Ebay.MaxPriceGBP,
			BuyItNowOnly:    true,
			DeliveryCountry: country,
			Limit:           cfg.Ebay.PageSize,
		},
		Interval:      cfg.Scan.Interval.Duration,
		Concurrency:   cfg.Scan.Concurrency,
		SweepInterval: cfg.Cache.SweepInterval.Duration,
	}
}
