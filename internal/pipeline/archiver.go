// Package pipeline runs scheduled maintenance jobs alongside the scan loop.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// Archiver moves expired deals to cold storage on a cron schedule.
type Archiver struct {
	archiver  domain.DealArchiver
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewArchiver creates an Archiver. Deals whose expiry is older than
// retentionDays are archived; zero archives every expired deal.
func NewArchiver(archiver domain.DealArchiver, retentionDays int, logger *slog.Logger) *Archiver {
	return &Archiver{
		archiver:  archiver,
		retention: time.Duration(max(retentionDays, 0)) * 24 * time.Hour,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.With(slog.String("component", "archiver")),
	}
}

// Run executes a single archive pass.
func (a *Archiver) Run(ctx context.Context) (int64, error) {
	cutoff := a.now().Add(-a.retention)
	a.logger.InfoContext(ctx, "starting archive run", slog.Time("cutoff", cutoff))

	n, err := a.archiver.ArchiveDeals(ctx, cutoff)
	if err != nil {
		return n, fmt.Errorf("pipeline: archive deals before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	a.logger.InfoContext(ctx, "archive run complete", slog.Int64("deals_archived", n))
	return n, nil
}

// RunCron runs the archiver on a 5-field cron schedule until ctx is
// cancelled. A failed run is logged and the schedule continues.
func (a *Archiver) RunCron(ctx context.Context, cronExpr string) error {
	sched, err := ParseCron(cronExpr)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	a.logger.InfoContext(ctx, "archiver cron started", slog.String("cron", cronExpr))

	for {
		next, ok := sched.Next(a.now())
		if !ok {
			return fmt.Errorf("pipeline: cron %q never fires", cronExpr)
		}
		wait := time.Until(next)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			if _, err := a.Run(ctx); err != nil {
				a.logger.ErrorContext(ctx, "archive run failed", slog.String("error", err.Error()))
			}
		}
	}
}
