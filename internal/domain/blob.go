package domain

import (
	"context"
	"io"
	"time"
)

// BlobWriter uploads data to object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
	PutMultipart(ctx context.Context, path string, data io.Reader, contentType string, partSize int64) error
}

// DealArchiver moves expired deals from the database to cold storage.
type DealArchiver interface {
	ArchiveDeals(ctx context.Context, before time.Time) (int64, error)
}
