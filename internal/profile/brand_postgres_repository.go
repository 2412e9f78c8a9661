package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const brandColumns = `id, user_id, company_name, industry, website, created_at, updated_at`

// BrandPostgresRepository implements BrandRepository using pgxpool.
type BrandPostgresRepository struct {
	pool *pgxpool.Pool
}

// NewBrandRepository creates a new BrandRepository backed by the given connection pool.
func NewBrandRepository(pool *pgxpool.Pool) BrandRepository {
	return &BrandPostgresRepository{pool: pool}
}

// GetByUserID retrieves the brand profile owned by the given user.
func (r *BrandPostgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*BrandProfile, error) {
	query := `SELECT ` + brandColumns + ` FROM brand_profiles WHERE user_id = $1`
	return r.scanOne(ctx, query, userID)
}

// Ensure inserts an empty brand profile unless one already exists.
func (r *BrandPostgresRepository) Ensure(ctx context.Context, userID uuid.UUID) error {
	query := `
		INSERT INTO brand_profiles (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("ensuring brand profile: %w", err)
	}
	return nil
}

// Update writes only the fields present in the update.
func (r *BrandPostgresRepository) Update(ctx context.Context, userID uuid.UUID, fields BrandUpdate) (*BrandProfile, error) {
	var set setClause
	addField(&set, "company_name", fields.CompanyName)
	addField(&set, "industry", fields.Industry)
	addField(&set, "website", fields.Website)

	if set.empty() {
		return r.GetByUserID(ctx, userID)
	}

	clause, argIdx := set.build()
	query := fmt.Sprintf(`
		UPDATE brand_profiles
		SET %s
		WHERE user_id = $%d
		RETURNING %s`, clause, argIdx, brandColumns)

	return r.scanOne(ctx, query, append(set.args, userID)...)
}

// scanOne scans a single BrandProfile row from a query. Returns ErrNotFound if no rows.
func (r *BrandPostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*BrandProfile, error) {
	var p BrandProfile
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.UserID, &p.CompanyName, &p.Industry, &p.Website,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning brand profile row: %w", err)
	}
	return &p, nil
}
