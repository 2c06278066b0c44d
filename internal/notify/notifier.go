// Package notify delivers deal alerts to operator chat channels. A Notifier
// fans each alert out to every registered Sender and drops deals below the
// configured minimum tier.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// Sender is one notification channel.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name identifies the sender in logs (e.g. "telegram").
	Name() string
}

// Notifier dispatches deal alerts to one or more Senders.
type Notifier struct {
	senders []Sender
	minTier domain.Tier
	logger  *slog.Logger
}

// NewNotifier creates a Notifier. Deals ranked below minTier are skipped;
// an empty minTier lets every tier through.
func NewNotifier(senders []Sender, minTier domain.Tier, logger *slog.Logger) *Notifier {
	return &Notifier{
		senders: senders,
		minTier: minTier,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Enabled reports whether any sender is registered.
func (n *Notifier) Enabled() bool {
	return len(n.senders) > 0
}

// NotifyDeal sends an alert for d when its tier clears the minimum.
func (n *Notifier) NotifyDeal(ctx context.Context, d domain.Deal) error {
	if d.Tier.Rank() < n.minTier.Rank() {
		n.logger.DebugContext(ctx, "deal below alert tier",
			slog.String("deal_id", d.ID),
			slog.String("tier", string(d.Tier)),
		)
		return nil
	}
	return n.dispatch(ctx, dealTitle(d), dealMessage(d))
}

func dealTitle(d domain.Deal) string {
	return fmt.Sprintf("%s deal: %s #%s", d.Tier, d.CardName, d.CardNumber)
}

func dealMessage(d domain.Deal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", d.Listing.Title)
	if d.ExpansionName != "" {
		fmt.Fprintf(&b, "Set: %s\n", d.ExpansionName)
	}
	fmt.Fprintf(&b, "Cost £%.2f, market £%.2f\n", d.CostGBP, d.MarketValueGBP)
	fmt.Fprintf(&b, "Profit £%.2f (%.1f%% off)\n", d.ProfitGBP, d.DiscountPercent)
	if d.PricePoint.Kind == domain.PriceKindGraded {
		fmt.Fprintf(&b, "Graded %s %s\n", d.PricePoint.Company, d.PricePoint.Grade)
	}
	if d.Listing.URL != "" {
		b.WriteString(d.Listing.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}

// dispatch sends to every sender. One sender failing does not stop the
// rest; all failures are returned together.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notification sent",
			slog.String("sender", s.Name()),
			slog.String("title", title),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
