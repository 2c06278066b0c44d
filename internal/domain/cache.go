package domain

import (
	"context"
	"time"
)

// Signature identifies a card within an expansion for catalog dedup.
type Signature struct {
	ExpansionID string `json:"expansion_id"`
	Number      string `json:"number"`
}

// String renders the signature as a cache key fragment.
func (s Signature) String() string {
	return s.ExpansionID + ":" + s.Number
}

// SignatureEntry is the memoised outcome of the catalog ladder for one
// signature. Negative entries carry no card.
type SignatureEntry struct {
	Found     bool         `json:"found"`
	CardID    string       `json:"card_id,omitempty"`
	Card      *CatalogCard `json:"card,omitempty"`
	MatchType string       `json:"match_type,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// SignatureStore is a shared (cross-process) signature cache.
type SignatureStore interface {
	Get(ctx context.Context, sig Signature) (SignatureEntry, error)
	Set(ctx context.Context, sig Signature, entry SignatureEntry) error
}

// RateLimiter provides distributed rate limiting.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// LockManager provides distributed locking.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// StreamMessage represents a single entry from a durable stream.
type StreamMessage struct {
	ID      string
	Payload []byte
}

// Bus channel and stream names.
const (
	ChannelDeals          = "deals"
	ChannelScans          = "scans"
	StreamScanDiagnostics = "scan_diagnostics"
)

// SignalBus provides pub/sub and durable streams.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	StreamAppend(ctx context.Context, stream string, payload []byte) error
	StreamRead(ctx context.Context, stream string, lastID string, count int) ([]StreamMessage, error)
}
