package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination and filtering for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}

// DealStore persists deals.
type DealStore interface {
	// Insert stores the deal and reports false when a deal for the same
	// listing already exists.
	Insert(ctx context.Context, deal Deal) (bool, error)
	GetByID(ctx context.Context, id string) (Deal, error)
	ListRecent(ctx context.Context, opts ListOpts) ([]Deal, error)
	ListExpiredBefore(ctx context.Context, before time.Time) ([]Deal, error)
	DeleteExpiredBefore(ctx context.Context, before time.Time) (int64, error)
}

// AuditEntry is a single audit log row.
type AuditEntry struct {
	ID        int64
	Event     string
	Detail    map[string]any
	CreatedAt time.Time
}

// AuditStore persists an append-only audit log.
type AuditStore interface {
	Log(ctx context.Context, event string, detail map[string]any) error
	List(ctx context.Context, opts ListOpts) ([]AuditEntry, error)
}
