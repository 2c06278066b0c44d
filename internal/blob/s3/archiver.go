package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// AuditDealsArchived is the audit event written after each archive upload.
const AuditDealsArchived = "deals.archived"

const (
	// multipartThreshold switches uploads to the multipart manager.
	multipartThreshold = 8 * 1024 * 1024

	jsonlContentType = "application/x-ndjson"
)

// ObjectChecker reports the stored size of an uploaded object, or an error
// wrapping domain.ErrNotFound. *Reader implements it.
type ObjectChecker interface {
	Size(ctx context.Context, path string) (int64, error)
}

// DealArchiver implements domain.DealArchiver. Expired deals are written
// as one JSONL object per run, verified, and only then deleted from the
// store.
type DealArchiver struct {
	writer  domain.BlobWriter
	checker ObjectChecker
	deals   domain.DealStore
	audit   domain.AuditStore
	logger  *slog.Logger
}

// NewDealArchiver creates a DealArchiver. checker and audit may be nil;
// without a checker the upload result alone gates deletion.
func NewDealArchiver(
	writer domain.BlobWriter,
	checker ObjectChecker,
	deals domain.DealStore,
	audit domain.AuditStore,
	logger *slog.Logger,
) *DealArchiver {
	return &DealArchiver{
		writer:  writer,
		checker: checker,
		deals:   deals,
		audit:   audit,
		logger:  logger.With(slog.String("component", "deal_archiver")),
	}
}

// ArchiveDeals moves deals that expired before the cutoff to object storage
// and returns how many were removed from the store.
func (a *DealArchiver) ArchiveDeals(ctx context.Context, before time.Time) (int64, error) {
	deals, err := a.deals.ListExpiredBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive deals query: %w", err)
	}
	if len(deals) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(deals)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive deals marshal: %w", err)
	}

	path := archivePath("deals", before)
	if len(buf) >= multipartThreshold {
		err = a.writer.PutMultipart(ctx, path, bytes.NewReader(buf), jsonlContentType, multipartThreshold)
	} else {
		err = a.writer.Put(ctx, path, bytes.NewReader(buf), jsonlContentType)
	}
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive deals upload: %w", err)
	}

	// Rows are only deleted once the stored object is complete.
	if a.checker != nil {
		size, err := a.checker.Size(ctx, path)
		if err != nil {
			return 0, fmt.Errorf("s3blob: archive deals verify: %w", err)
		}
		if size != int64(len(buf)) {
			return 0, fmt.Errorf("s3blob: archive deals verify %s: stored %d of %d bytes", path, size, len(buf))
		}
	}

	deleted, err := a.deals.DeleteExpiredBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive deals delete: %w", err)
	}

	a.logger.InfoContext(ctx, "archived deals",
		slog.String("path", path),
		slog.Int("uploaded", len(deals)),
		slog.Int64("deleted", deleted),
	)

	if a.audit != nil {
		if err := a.audit.Log(ctx, AuditDealsArchived, map[string]any{
			"path":     path,
			"uploaded": len(deals),
			"deleted":  deleted,
			"before":   before.UTC().Format(time.RFC3339),
		}); err != nil {
			return deleted, fmt.Errorf("s3blob: archive deals audit log: %w", err)
		}
	}
	return deleted, nil
}

// archivePath builds the object key for one archive run, partitioned by
// the cutoff date:
//
//	archive/deals/2026/03/01/20260301T040000Z.jsonl
func archivePath(kind string, before time.Time) string {
	t := before.UTC()
	return fmt.Sprintf("archive/%s/%s/%s.jsonl", kind, t.Format("2006/01/02"), t.Format("20060102T150405Z"))
}

// marshalJSONL serialises records as newline-delimited JSON.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// Compile-time interface check.
var _ domain.DealArchiver = (*DealArchiver)(nil)
