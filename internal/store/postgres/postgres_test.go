package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

func TestDSN(t *testing.T) {
	t.Run("explicit dsn wins", func(t *testing.T) {
		assert.Equal(t, "postgres://x", DSN(ClientConfig{DSN: "postgres://x", Host: "ignored"}))
	})
	t.Run("built from parts", func(t *testing.T) {
		got := DSN(ClientConfig{Host: "db", Database: "cardarb", User: "bot", Password: "pw"})
		assert.Equal(t, "postgres://bot:pw@db:5432/cardarb?sslmode=disable", got)
	})
	t.Run("custom port and ssl", func(t *testing.T) {
		got := DSN(ClientConfig{Host: "db", Port: 6543, Database: "d", User: "u", Password: "p", SSLMode: "require"})
		assert.Equal(t, "postgres://u:p@db:6543/d?sslmode=require", got)
	})
}

func TestMigrationFilesOrdered(t *testing.T) {
	names, err := migrationFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_deals.sql", "002_preferences.sql", "003_audit_log.sql"}, names)
}

func TestListQuery(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.Add(24 * time.Hour)

	t.Run("no options", func(t *testing.T) {
		q, args := listQuery("SELECT id FROM deals WHERE 1=1", "created_at", domain.ListOpts{})
		assert.Equal(t, "SELECT id FROM deals WHERE 1=1 ORDER BY created_at DESC", q)
		assert.Empty(t, args)
	})

	t.Run("all options", func(t *testing.T) {
		q, args := listQuery("SELECT id FROM deals WHERE 1=1", "created_at",
			domain.ListOpts{Since: &since, Until: &until, Limit: 10, Offset: 20})
		assert.Equal(t, "SELECT id FROM deals WHERE 1=1 AND created_at >= $1 AND created_at <= $2"+
			" ORDER BY created_at DESC LIMIT $3 OFFSET $4", q)
		assert.Equal(t, []any{since, until, 10, 20}, args)
	})

	t.Run("placeholders continue after base args", func(t *testing.T) {
		q, args := listQuery("SELECT id FROM audit_log WHERE event = $1", "created_at",
			domain.ListOpts{Limit: 5}, "scan.completed")
		assert.Equal(t, "SELECT id FROM audit_log WHERE event = $1 ORDER BY created_at DESC LIMIT $2", q)
		assert.Equal(t, []any{"scan.completed", 5}, args)
	})
}

func TestDealRowRoundTrip(t *testing.T) {
	d := domain.Deal{
		ID:         "d1",
		Listing:    domain.Listing{ID: "l1", Title: "Charizard 4/102", PriceGBP: 10},
		PricePoint: domain.PricePoint{Kind: domain.PriceKindRaw, Condition: "NM", Market: 25},
		Rationale:  domain.MatchRationale{ExpansionID: "base1", Rung: "exact", NameSimilarity: 1},
	}
	row, err := encodeDeal(d)
	require.NoError(t, err)

	var got domain.Deal
	require.NoError(t, row.decodeInto(&got))
	assert.Equal(t, d.Listing, got.Listing)
	assert.Equal(t, d.PricePoint, got.PricePoint)
	assert.Equal(t, d.Rationale.Rung, got.Rationale.Rung)
}

func TestDecodePreferences(t *testing.T) {
	p, err := decodePreferences([]byte(`{"allowed_conditions":["NM"],"min_profit_gbp":7.5}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"NM"}, p.AllowedConditions)
	assert.InDelta(t, 7.5, p.MinProfitGBP, 1e-9)

	_, err = decodePreferences([]byte(`{"min_profit_gbp":-3}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = decodePreferences([]byte(`not json`))
	assert.Error(t, err)
}
