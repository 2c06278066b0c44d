package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// DealStore implements domain.DealStore. One deal per listing is enforced
// by the listing_id unique constraint.
type DealStore struct {
	pool *pgxpool.Pool
}

// NewDealStore creates a DealStore backed by the given connection pool.
func NewDealStore(pool *pgxpool.Pool) *DealStore {
	return &DealStore{pool: pool}
}

const dealColumns = `id, listing, card_id, card_name, card_number, expansion_id, expansion_name,
	variant, price_point, market_value_gbp, cost_gbp, profit_gbp, discount_percent, tier,
	match_confidence, match_type, rationale, created_at, expires_at`

// dealRow holds the JSONB columns of a deal in encoded form.
type dealRow struct {
	listing    []byte
	pricePoint []byte
	rationale  []byte
}

func encodeDeal(d domain.Deal) (dealRow, error) {
	var (
		r   dealRow
		err error
	)
	if r.listing, err = json.Marshal(d.Listing); err != nil {
		return r, fmt.Errorf("marshal listing: %w", err)
	}
	if r.pricePoint, err = json.Marshal(d.PricePoint); err != nil {
		return r, fmt.Errorf("marshal price point: %w", err)
	}
	if r.rationale, err = json.Marshal(d.Rationale); err != nil {
		return r, fmt.Errorf("marshal rationale: %w", err)
	}
	return r, nil
}

func (r dealRow) decodeInto(d *domain.Deal) error {
	if err := json.Unmarshal(r.listing, &d.Listing); err != nil {
		return fmt.Errorf("unmarshal listing: %w", err)
	}
	if err := json.Unmarshal(r.pricePoint, &d.PricePoint); err != nil {
		return fmt.Errorf("unmarshal price point: %w", err)
	}
	if err := json.Unmarshal(r.rationale, &d.Rationale); err != nil {
		return fmt.Errorf("unmarshal rationale: %w", err)
	}
	return nil
}

// Insert stores the deal. It reports false, with no error, when a deal for
// the same listing already exists.
func (s *DealStore) Insert(ctx context.Context, d domain.Deal) (bool, error) {
	if d.Listing.ID == "" {
		return false, fmt.Errorf("postgres: insert deal %s: %w", d.ID, domain.ErrInvalidInput)
	}
	row, err := encodeDeal(d)
	if err != nil {
		return false, fmt.Errorf("postgres: insert deal %s: %w", d.ID, err)
	}

	const query = `
		INSERT INTO deals (listing_id, ` + dealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (listing_id) DO NOTHING`

	tag, err := s.pool.Exec(ctx, query,
		d.Listing.ID, d.ID, row.listing, d.CardID, d.CardName, d.CardNumber, d.ExpansionID, d.ExpansionName,
		d.Variant, row.pricePoint, d.MarketValueGBP, d.CostGBP, d.ProfitGBP, d.DiscountPercent, string(d.Tier),
		d.MatchConfidence, d.MatchType, row.rationale, d.CreatedAt, d.ExpiresAt,
	)
	if err != nil {
		return false, fmt.Errorf("postgres: insert deal %s: %w", d.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanDeal(row pgx.Row) (domain.Deal, error) {
	var (
		d    domain.Deal
		enc  dealRow
		tier string
	)
	err := row.Scan(
		&d.ID, &enc.listing, &d.CardID, &d.CardName, &d.CardNumber, &d.ExpansionID, &d.ExpansionName,
		&d.Variant, &enc.pricePoint, &d.MarketValueGBP, &d.CostGBP, &d.ProfitGBP, &d.DiscountPercent, &tier,
		&d.MatchConfidence, &d.MatchType, &enc.rationale, &d.CreatedAt, &d.ExpiresAt,
	)
	if err != nil {
		return domain.Deal{}, err
	}
	d.Tier = domain.Tier(tier)
	if err := enc.decodeInto(&d); err != nil {
		return domain.Deal{}, err
	}
	return d, nil
}

func scanDeals(rows pgx.Rows) ([]domain.Deal, error) {
	defer rows.Close()
	var deals []domain.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan deal: %w", err)
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: deal rows: %w", err)
	}
	return deals, nil
}

// GetByID returns domain.ErrNotFound when no deal has the id.
func (s *DealStore) GetByID(ctx context.Context, id string) (domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`
	d, err := scanDeal(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Deal{}, domain.ErrNotFound
		}
		return domain.Deal{}, fmt.Errorf("postgres: get deal %s: %w", id, err)
	}
	return d, nil
}

// ListRecent returns deals newest first.
func (s *DealStore) ListRecent(ctx context.Context, opts domain.ListOpts) ([]domain.Deal, error) {
	query, args := listQuery(`SELECT `+dealColumns+` FROM deals WHERE 1=1`, "created_at", opts)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list deals: %w", err)
	}
	return scanDeals(rows)
}

// ListExpiredBefore returns deals whose expiry is before t, oldest first.
func (s *DealStore) ListExpiredBefore(ctx context.Context, t time.Time) ([]domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE expires_at < $1 ORDER BY expires_at`
	rows, err := s.pool.Query(ctx, query, t)
	if err != nil {
		return nil, fmt.Errorf("postgres: list expired deals: %w", err)
	}
	return scanDeals(rows)
}

// DeleteExpiredBefore removes deals whose expiry is before t.
func (s *DealStore) DeleteExpiredBefore(ctx context.Context, t time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM deals WHERE expires_at < $1`, t)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete expired deals: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Compile-time interface check.
var _ domain.DealStore = (*DealStore)(nil)
