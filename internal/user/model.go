package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the kind of account a user operates as.
type Role string

const (
	RoleBrand      Role = "brand"
	RoleInfluencer Role = "influencer"
)

// ErrInvalidRole is returned when a requested role is not brand or influencer.
var ErrInvalidRole = errors.New("invalid user type")

// ParseRole validates a client-supplied role value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBrand, RoleInfluencer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// User represents a row in the users table.
type User struct {
	ID         uuid.UUID
	Email      string
	ExternalID *string
	Name       *string
	Image      *string
	Role       *Role // nil until the user picks one
	Onboarded  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasRole reports whether the user has been assigned the given role.
func (u *User) HasRole(r Role) bool {
	return u.Role != nil && *u.Role == r
}

// Assignment carries the data needed to create or update a user at role selection.
type Assignment struct {
	Email      string
	ExternalID string
	Name       string
	Image      string
	Role       Role
}
