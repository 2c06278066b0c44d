package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// SignatureCache implements domain.SignatureStore. Entries are JSON in a
// hash field so the card payload and the hit/miss flag travel together.
//
// Key schema:
//
//	{ns}:sig:{expansionID}:{number} - hash, field "entry"
type SignatureCache struct {
	c   *Client
	ttl time.Duration
}

// NewSignatureCache creates a signature cache whose entries expire after ttl.
func NewSignatureCache(c *Client, ttl time.Duration) *SignatureCache {
	return &SignatureCache{c: c, ttl: ttl}
}

func (sc *SignatureCache) key(sig domain.Signature) string {
	return sc.c.Key("sig", sig.String())
}

// Get returns domain.ErrNotFound when the signature is not cached.
func (sc *SignatureCache) Get(ctx context.Context, sig domain.Signature) (domain.SignatureEntry, error) {
	data, err := sc.c.rdb.HGet(ctx, sc.key(sig), "entry").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.SignatureEntry{}, domain.ErrNotFound
		}
		return domain.SignatureEntry{}, fmt.Errorf("redis: get signature %s: %w", sig, err)
	}
	return decodeEntry(sig, data)
}

// Set stores the entry with the cache TTL.
func (sc *SignatureCache) Set(ctx context.Context, sig domain.Signature, entry domain.SignatureEntry) error {
	data, err := encodeEntry(entry)
	if err != nil {
		return fmt.Errorf("redis: marshal signature %s: %w", sig, err)
	}
	key := sc.key(sig)
	pipe := sc.c.rdb.TxPipeline()
	pipe.HSet(ctx, key, "entry", data)
	if sc.ttl > 0 {
		pipe.Expire(ctx, key, sc.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set signature %s: %w", sig, err)
	}
	return nil
}

func encodeEntry(entry domain.SignatureEntry) ([]byte, error) {
	if !entry.Found {
		// Misses never carry a card.
		entry.Card = nil
		entry.CardID = ""
	}
	return json.Marshal(entry)
}

func decodeEntry(sig domain.Signature, data []byte) (domain.SignatureEntry, error) {
	var entry domain.SignatureEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.SignatureEntry{}, fmt.Errorf("redis: unmarshal signature %s: %w", sig, err)
	}
	if entry.Found && entry.Card == nil {
		return domain.SignatureEntry{}, fmt.Errorf("redis: signature %s: hit without card: %w", sig, domain.ErrNotFound)
	}
	return entry, nil
}

// Compile-time interface check.
var _ domain.SignatureStore = (*SignatureCache)(nil)
