package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const influencerColumns = `id, user_id, follower_count, price_per_post, price_per_reel, price_per_story,
	niche, instagram_handle, allow_messages, public_link, created_at, updated_at`

const publicInfluencerColumns = `u.id, u.name, u.image, p.follower_count, p.price_per_post,
	p.price_per_reel, p.price_per_story, p.niche, p.instagram_handle, p.allow_messages, p.public_link`

// InfluencerPostgresRepository implements InfluencerRepository using pgxpool.
type InfluencerPostgresRepository struct {
	pool *pgxpool.Pool
}

// NewInfluencerRepository creates a new InfluencerRepository backed by the given connection pool.
func NewInfluencerRepository(pool *pgxpool.Pool) InfluencerRepository {
	return &InfluencerPostgresRepository{pool: pool}
}

// GetByUserID retrieves the influencer profile owned by the given user.
func (r *InfluencerPostgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*InfluencerProfile, error) {
	query := `SELECT ` + influencerColumns + ` FROM influencer_profiles WHERE user_id = $1`
	return r.scanOne(ctx, query, userID)
}

// Ensure inserts an empty influencer profile unless one already exists.
func (r *InfluencerPostgresRepository) Ensure(ctx context.Context, userID uuid.UUID) error {
	query := `
		INSERT INTO influencer_profiles (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("ensuring influencer profile: %w", err)
	}
	return nil
}

// Update writes only the fields present in the update.
func (r *InfluencerPostgresRepository) Update(ctx context.Context, userID uuid.UUID, fields InfluencerUpdate) (*InfluencerProfile, error) {
	var set setClause
	addField(&set, "follower_count", fields.FollowerCount)
	addField(&set, "price_per_post", fields.PricePerPost)
	addField(&set, "price_per_reel", fields.PricePerReel)
	addField(&set, "price_per_story", fields.PricePerStory)
	addField(&set, "niche", fields.Niche)
	addField(&set, "instagram_handle", fields.InstagramHandle)
	addField(&set, "allow_messages", fields.AllowMessages)
	addField(&set, "public_link", fields.PublicLink)

	if set.empty() {
		return r.GetByUserID(ctx, userID)
	}

	clause, argIdx := set.build()
	query := fmt.Sprintf(`
		UPDATE influencer_profiles
		SET %s
		WHERE user_id = $%d
		RETURNING %s`, clause, argIdx, influencerColumns)

	return r.scanOne(ctx, query, append(set.args, userID)...)
}

// GetPublic retrieves the public view of an influencer. Users of any other
// role, or without a profile row, are reported as ErrNotFound.
func (r *InfluencerPostgresRepository) GetPublic(ctx context.Context, userID uuid.UUID) (*PublicInfluencer, error) {
	query := `
		SELECT ` + publicInfluencerColumns + `
		FROM users u
		JOIN influencer_profiles p ON p.user_id = u.id
		WHERE u.id = $1 AND u.user_type = 'influencer'`

	p, err := scanPublic(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying public influencer: %w", err)
	}
	return p, nil
}

// List retrieves influencers filtered by follower count and niche, largest
// audiences first.
func (r *InfluencerPostgresRepository) List(ctx context.Context, filter Filter) ([]PublicInfluencer, error) {
	conditions := []string{"u.user_type = 'influencer'"}
	var args []any
	argIdx := 1

	if filter.MinFollowers != nil {
		conditions = append(conditions, fmt.Sprintf("p.follower_count >= $%d", argIdx))
		args = append(args, *filter.MinFollowers)
		argIdx++
	}
	if filter.Niche != nil {
		conditions = append(conditions, fmt.Sprintf("p.niche = $%d", argIdx))
		args = append(args, *filter.Niche)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		JOIN influencer_profiles p ON p.user_id = u.id
		WHERE %s
		ORDER BY p.follower_count DESC NULLS LAST, u.created_at ASC`,
		publicInfluencerColumns, strings.Join(conditions, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing influencers: %w", err)
	}
	defer rows.Close()

	var out []PublicInfluencer
	for rows.Next() {
		p, err := scanPublic(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning influencer row: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating influencer rows: %w", err)
	}

	if out == nil {
		out = []PublicInfluencer{}
	}

	return out, nil
}

// scanOne scans a single InfluencerProfile row from a query. Returns ErrNotFound if no rows.
func (r *InfluencerPostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*InfluencerProfile, error) {
	var p InfluencerProfile
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.UserID, &p.FollowerCount,
		&p.PricePerPost, &p.PricePerReel, &p.PricePerStory,
		&p.Niche, &p.InstagramHandle, &p.AllowMessages, &p.PublicLink,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning influencer profile row: %w", err)
	}
	return &p, nil
}

func scanPublic(row pgx.Row) (*PublicInfluencer, error) {
	var p PublicInfluencer
	err := row.Scan(
		&p.ID, &p.Name, &p.Image, &p.FollowerCount,
		&p.PricePerPost, &p.PricePerReel, &p.PricePerStory,
		&p.Niche, &p.InstagramHandle, &p.AllowMessages, &p.PublicLink,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
