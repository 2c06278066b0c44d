package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// PreferenceStore implements domain.PreferenceStore over the single-row
// preferences table. Rows are written by the operator, never by the bot.
type PreferenceStore struct {
	pool *pgxpool.Pool
}

// NewPreferenceStore creates a PreferenceStore backed by the given pool.
func NewPreferenceStore(pool *pgxpool.Pool) *PreferenceStore {
	return &PreferenceStore{pool: pool}
}

// Read returns domain.ErrNotFound when the preferences row has not been
// written yet, and domain.ErrInvalidInput when the stored row fails
// validation.
func (s *PreferenceStore) Read(ctx context.Context) (domain.Preferences, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT prefs FROM preferences WHERE id = 1`).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Preferences{}, domain.ErrNotFound
		}
		return domain.Preferences{}, fmt.Errorf("postgres: read preferences: %w", err)
	}
	return decodePreferences(raw)
}

// Write upserts the preferences row. Used by the seed path in tooling.
func (s *PreferenceStore) Write(ctx context.Context, p domain.Preferences) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("postgres: write preferences: %w", err)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("postgres: marshal preferences: %w", err)
	}
	const query = `
		INSERT INTO preferences (id, prefs, updated_at) VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET prefs = EXCLUDED.prefs, updated_at = NOW()`
	if _, err := s.pool.Exec(ctx, query, raw); err != nil {
		return fmt.Errorf("postgres: write preferences: %w", err)
	}
	return nil
}

func decodePreferences(raw []byte) (domain.Preferences, error) {
	var p domain.Preferences
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Preferences{}, fmt.Errorf("postgres: unmarshal preferences: %w", err)
	}
	if err := p.Validate(); err != nil {
		return domain.Preferences{}, fmt.Errorf("postgres: stored preferences: %w", err)
	}
	return p, nil
}

// Compile-time interface check.
var _ domain.PreferenceStore = (*PreferenceStore)(nil)
