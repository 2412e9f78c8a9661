package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// BrandProvisioner creates the brand profile row for a user when missing.
type BrandProvisioner interface {
	Ensure(ctx context.Context, userID uuid.UUID) error
}

// Service implements role assignment.
type Service struct {
	repo   Repository
	brands BrandProvisioner
}

// NewService creates a new user Service.
func NewService(repo Repository, brands BrandProvisioner) *Service {
	return &Service{repo: repo, brands: brands}
}

// SetUserType records the requested role for the authenticated email, creating
// the user on first call. Brands are onboarded immediately and get an empty
// brand profile; influencers stay un-onboarded until their platform account
// is linked. Calling it again with any valid role overwrites the previous one.
func (s *Service) SetUserType(ctx context.Context, a Assignment) (*User, error) {
	if _, err := ParseRole(string(a.Role)); err != nil {
		return nil, err
	}

	u, err := s.repo.UpsertRole(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("upserting user role: %w", err)
	}

	if a.Role == RoleBrand {
		if err := s.brands.Ensure(ctx, u.ID); err != nil {
			return nil, fmt.Errorf("ensuring brand profile: %w", err)
		}
	}

	slog.Info("user type set", "userId", u.ID, "userType", a.Role, "onboarded", u.Onboarded)
	return u, nil
}
