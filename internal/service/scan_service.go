package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/cardarb/internal/arbitrage"
	"github.com/alanyoungcy/cardarb/internal/domain"
)

// AuditScanCompleted is the audit event written after every scan.
const AuditScanCompleted = "scan.completed"

// scanLockKey is the distributed lock held for the duration of a scan.
const scanLockKey = "scan"

// ListingProcessor runs listings through the arbitrage stages.
// *arbitrage.Orchestrator implements it.
type ListingProcessor interface {
	Process(ctx context.Context, l domain.Listing) arbitrage.Result
	BeginScan()
	FinishScan() (arbitrage.ScanDiagnostics, bool)
	Sweep() arbitrage.SweepStats
}

// ScanConfig controls the scan loop.
type ScanConfig struct {
	Queries       []string
	Filters       domain.SearchFilters
	Interval      time.Duration
	Concurrency   int
	SweepInterval time.Duration
}

// ScanReport summarises one RunOnce call.
type ScanReport struct {
	Skipped      bool                       `json:"skipped"`
	Queries      int                        `json:"queries"`
	SourceErrors int                        `json:"source_errors"`
	Listings     int                        `json:"listings"`
	Deals        int                        `json:"deals"`
	Stored       int                        `json:"stored"`
	Diagnostics  *arbitrage.ScanDiagnostics `json:"diagnostics,omitempty"`
}

// ScanService polls the listing source on an interval and feeds every
// listing to the processor with bounded concurrency.
type ScanService struct {
	source domain.ListingSource
	proc   ListingProcessor
	locks  domain.LockManager
	bus    domain.SignalBus
	audit  domain.AuditStore
	cfg    ScanConfig
	logger *slog.Logger

	trigger chan struct{}
}

// NewScanService creates a ScanService. locks, bus and audit may be nil.
func NewScanService(
	source domain.ListingSource,
	proc ListingProcessor,
	locks domain.LockManager,
	bus domain.SignalBus,
	audit domain.AuditStore,
	cfg ScanConfig,
	logger *slog.Logger,
) *ScanService {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 10 * time.Minute
	}
	return &ScanService{
		source: source,
		proc:   proc,
		locks:  locks,
		bus:    bus,
		audit:  audit,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "scan_service")),

		trigger: make(chan struct{}, 1),
	}
}

// Trigger asks Run to start a scan now. It reports false when a triggered
// scan is already pending.
func (s *ScanService) Trigger() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Run scans immediately and then on every interval tick, sweeping the
// caches on a separate ticker, until ctx is cancelled.
func (s *ScanService) Run(ctx context.Context) error {
	s.runOnceLogged(ctx)

	scanTicker := time.NewTicker(s.cfg.Interval)
	defer scanTicker.Stop()
	sweepTicker := time.NewTicker(s.cfg.SweepInterval)
	defer sweepTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-scanTicker.C:
			s.runOnceLogged(ctx)
		case <-s.trigger:
			s.logger.InfoContext(ctx, "scan triggered")
			s.runOnceLogged(ctx)
			scanTicker.Reset(s.cfg.Interval)
		case <-sweepTicker.C:
			stats := s.proc.Sweep()
			s.logger.DebugContext(ctx, "cache sweep",
				slog.Int("processed", stats.Processed),
				slog.Int("signatures", stats.Signatures),
				slog.Int("negative", stats.Negative),
			)
		}
	}
}

func (s *ScanService) runOnceLogged(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.ErrorContext(ctx, "scan failed", slog.String("error", err.Error()))
	}
}

// RunOnce runs a single scan over every configured query. When another
// replica holds the scan lock the scan is skipped without error. A failing
// query is logged and counted; the remaining queries still run.
func (s *ScanService) RunOnce(ctx context.Context) (ScanReport, error) {
	if s.locks != nil {
		unlock, err := s.locks.Acquire(ctx, scanLockKey, s.cfg.Interval)
		if errors.Is(err, domain.ErrLockHeld) {
			s.logger.InfoContext(ctx, "scan lock held elsewhere, skipping")
			return ScanReport{Skipped: true}, nil
		}
		if err != nil {
			return ScanReport{}, fmt.Errorf("scan_service: acquire lock: %w", err)
		}
		defer unlock()
	}

	s.proc.BeginScan()
	report := ScanReport{Queries: len(s.cfg.Queries)}

	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		g    errgroup.Group
	)
	g.SetLimit(s.cfg.Concurrency)

queries:
	for _, q := range s.cfg.Queries {
		if ctx.Err() != nil {
			break
		}
		listings, err := s.source.Search(ctx, q, s.cfg.Filters)
		if err != nil {
			report.SourceErrors++
			s.logger.WarnContext(ctx, "listing search failed",
				slog.String("query", q),
				slog.String("error", err.Error()),
			)
			continue
		}
		for _, l := range listings {
			if ctx.Err() != nil {
				break queries
			}
			// Queries overlap; only the first copy is submitted.
			if seen[l.ID] {
				continue
			}
			seen[l.ID] = true
			report.Listings++

			g.Go(func() error {
				// Submitted listings finish even when ctx is cancelled.
				res := s.proc.Process(context.WithoutCancel(ctx), l)
				if res.IsDeal() {
					mu.Lock()
					report.Deals++
					if res.Stored {
						report.Stored++
					}
					mu.Unlock()
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	if diag, ok := s.proc.FinishScan(); ok {
		report.Diagnostics = &diag
		s.export(ctx, report)
	}

	s.logger.InfoContext(ctx, "scan complete",
		slog.Int("queries", report.Queries),
		slog.Int("source_errors", report.SourceErrors),
		slog.Int("listings", report.Listings),
		slog.Int("deals", report.Deals),
		slog.Int("stored", report.Stored),
	)
	return report, ctx.Err()
}

// export appends the scan diagnostics to the durable stream, publishes the
// report for live subscribers and writes the audit log. Failures are logged
// only.
func (s *ScanService) export(ctx context.Context, report ScanReport) {
	if s.bus != nil {
		payload, err := json.Marshal(report.Diagnostics)
		if err == nil {
			err = s.bus.StreamAppend(ctx, domain.StreamScanDiagnostics, payload)
		}
		if err != nil {
			s.logger.WarnContext(ctx, "append scan diagnostics failed", slog.String("error", err.Error()))
		}
		if payload, err := json.Marshal(report); err == nil {
			if err := s.bus.Publish(ctx, domain.ChannelScans, payload); err != nil {
				s.logger.WarnContext(ctx, "publish scan report failed", slog.String("error", err.Error()))
			}
		}
	}
	if s.audit != nil {
		d := report.Diagnostics
		err := s.audit.Log(ctx, AuditScanCompleted, map[string]any{
			"queries":        report.Queries,
			"source_errors":  report.SourceErrors,
			"listings":       report.Listings,
			"deals":          report.Deals,
			"stored":         report.Stored,
			"scanned":        d.Scanned,
			"catalog_calls":  d.CatalogCalls,
			"catalog_errors": d.CatalogErrors,
			"cache_hits":     d.CacheHits,
			"deal_rate":      d.DealRate(),
		})
		if err != nil {
			s.logger.WarnContext(ctx, "audit log failed", slog.String("error", err.Error()))
		}
	}
}
