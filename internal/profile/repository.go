package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a profile record is not found.
var ErrNotFound = errors.New("profile not found")

// ErrForbidden is returned when a user asks for a profile of another role.
var ErrForbidden = errors.New("profile belongs to another role")

// BrandRepository provides operations on the brand_profiles table.
type BrandRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*BrandProfile, error)
	// Ensure creates an empty profile for the user if none exists.
	Ensure(ctx context.Context, userID uuid.UUID) error
	Update(ctx context.Context, userID uuid.UUID, fields BrandUpdate) (*BrandProfile, error)
}

// InfluencerRepository provides operations on the influencer_profiles table.
type InfluencerRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*InfluencerProfile, error)
	// Ensure creates an empty profile for the user if none exists. Role
	// assignment does not call it: influencer rows appear when the account is
	// linked to its platform, which happens outside this service and goes
	// through this method.
	Ensure(ctx context.Context, userID uuid.UUID) error
	Update(ctx context.Context, userID uuid.UUID, fields InfluencerUpdate) (*InfluencerProfile, error)
	// GetPublic returns the public view of a user with role influencer.
	GetPublic(ctx context.Context, userID uuid.UUID) (*PublicInfluencer, error)
	// List returns influencers matching the storage-level predicates of the
	// filter (MinFollowers, Niche). MaxPrice is not applied here.
	List(ctx context.Context, filter Filter) ([]PublicInfluencer, error)
}
