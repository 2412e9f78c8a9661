package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/collabhub/collabhub/internal/user"
)

// Service implements profile reads, partial updates and influencer search.
type Service struct {
	brands      BrandRepository
	influencers InfluencerRepository
}

// NewService creates a new profile Service.
func NewService(brands BrandRepository, influencers InfluencerRepository) *Service {
	return &Service{brands: brands, influencers: influencers}
}

// Account resolves the user's role variant, loading the matching profile. A
// missing profile row yields a variant with a nil Profile.
func (s *Service) Account(ctx context.Context, u *user.User) (Account, error) {
	switch {
	case u.HasRole(user.RoleBrand):
		p, err := s.brands.GetByUserID(ctx, u.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("loading brand profile: %w", err)
		}
		return BrandAccount{User: u, Profile: p}, nil
	case u.HasRole(user.RoleInfluencer):
		p, err := s.influencers.GetByUserID(ctx, u.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("loading influencer profile: %w", err)
		}
		return InfluencerAccount{User: u, Profile: p}, nil
	default:
		return Unassigned{User: u}, nil
	}
}

// GetOwnBrand returns the brand profile of a brand user.
func (s *Service) GetOwnBrand(ctx context.Context, u *user.User) (*BrandProfile, error) {
	acct, err := s.Account(ctx, u)
	if err != nil {
		return nil, err
	}
	brand, ok := acct.(BrandAccount)
	if !ok {
		return nil, ErrForbidden
	}
	if brand.Profile == nil {
		return nil, ErrNotFound
	}
	return brand.Profile, nil
}

// UpdateOwnBrand merges the present fields into the user's brand profile,
// creating an empty profile first if none exists.
func (s *Service) UpdateOwnBrand(ctx context.Context, u *user.User, fields BrandUpdate) (*BrandProfile, error) {
	if !u.HasRole(user.RoleBrand) {
		return nil, ErrForbidden
	}
	if err := s.brands.Ensure(ctx, u.ID); err != nil {
		return nil, err
	}
	p, err := s.brands.Update(ctx, u.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("updating brand profile: %w", err)
	}
	return p, nil
}

// GetOwnInfluencer returns the influencer profile of an influencer user.
func (s *Service) GetOwnInfluencer(ctx context.Context, u *user.User) (*InfluencerProfile, error) {
	acct, err := s.Account(ctx, u)
	if err != nil {
		return nil, err
	}
	inf, ok := acct.(InfluencerAccount)
	if !ok {
		return nil, ErrForbidden
	}
	if inf.Profile == nil {
		return nil, ErrNotFound
	}
	return inf.Profile, nil
}

// UpdateOwnInfluencer merges the present fields into the user's influencer
// profile. The profile must already exist.
func (s *Service) UpdateOwnInfluencer(ctx context.Context, u *user.User, fields InfluencerUpdate) (*InfluencerProfile, error) {
	if !u.HasRole(user.RoleInfluencer) {
		return nil, ErrForbidden
	}
	p, err := s.influencers.Update(ctx, u.ID, fields)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating influencer profile: %w", err)
	}
	return p, nil
}

// GetPublicInfluencer returns the public view of an influencer by user id.
func (s *Service) GetPublicInfluencer(ctx context.Context, id uuid.UUID) (*PublicInfluencer, error) {
	return s.influencers.GetPublic(ctx, id)
}

// ListInfluencers applies MinFollowers and Niche at the storage layer and
// MaxPrice afterwards, keeping an influencer when any of its prices fits.
func (s *Service) ListInfluencers(ctx context.Context, filter Filter) ([]PublicInfluencer, error) {
	all, err := s.influencers.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if filter.MaxPrice == nil {
		return all, nil
	}

	out := make([]PublicInfluencer, 0, len(all))
	for i := range all {
		if WithinBudget(&all[i], *filter.MaxPrice) {
			out = append(out, all[i])
		}
	}
	return out, nil
}
