package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, external_id, name, image, user_type, onboarded, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// GetByID retrieves a single user by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByEmail retrieves a single user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

// UpsertRole inserts or updates the user keyed by email. Name, image and
// external id are only written on insert.
func (r *PostgresRepository) UpsertRole(ctx context.Context, a Assignment) (*User, error) {
	query := `
		INSERT INTO users (email, external_id, name, image, user_type, onboarded)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6)
		ON CONFLICT (email) DO UPDATE
		SET user_type = EXCLUDED.user_type,
		    onboarded = EXCLUDED.onboarded,
		    updated_at = NOW()
		RETURNING ` + userColumns

	return r.scanOne(ctx, query,
		a.Email,
		a.ExternalID,
		a.Name,
		a.Image,
		string(a.Role),
		a.Role == RoleBrand,
	)
}

// scanOne scans a single User row from a query. Returns ErrUserNotFound if no rows.
func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	var role *string
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.ExternalID, &u.Name, &u.Image,
		&role, &u.Onboarded, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user row: %w", err)
	}
	if role != nil {
		rl := Role(*role)
		u.Role = &rl
	}
	return &u, nil
}
