package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// Repository provides operations on the users table.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// UpsertRole creates the user if the email is unknown, otherwise updates
	// its role. Onboarded is set to true for brands and false for influencers.
	UpsertRole(ctx context.Context, a Assignment) (*User, error)
}
