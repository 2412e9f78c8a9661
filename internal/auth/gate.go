package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/collabhub/collabhub/internal/session"
	"github.com/collabhub/collabhub/internal/user"
)

var (
	// ErrUnauthenticated is returned when the request carries no valid session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUserNotFound is returned when the session email has no user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden is returned when the user does not hold the required role.
	ErrForbidden = errors.New("forbidden")
)

// SessionResolver recovers the caller's identity from a request.
type SessionResolver interface {
	Resolve(r *http.Request) (*session.Identity, bool)
}

// UserLookup finds users by the email carried in the session.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Gate resolves the caller and enforces role requirements.
type Gate struct {
	sessions SessionResolver
	users    UserLookup
}

// NewGate creates a new Gate.
func NewGate(sessions SessionResolver, users UserLookup) *Gate {
	return &Gate{sessions: sessions, users: users}
}

// Identity returns the session identity of the request, or ErrUnauthenticated.
func (g *Gate) Identity(r *http.Request) (*session.Identity, error) {
	id, ok := g.sessions.Resolve(r)
	if !ok || id.Email == "" {
		return nil, ErrUnauthenticated
	}
	return id, nil
}

// Authorize resolves the session, loads the user by email and, when roles
// are given, checks that the user holds one of them.
func (g *Gate) Authorize(ctx context.Context, r *http.Request, required ...user.Role) (*user.User, error) {
	id, err := g.Identity(r)
	if err != nil {
		return nil, err
	}

	u, err := g.users.GetByEmail(ctx, id.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if len(required) == 0 {
		return u, nil
	}
	for _, role := range required {
		if u.HasRole(role) {
			return u, nil
		}
	}
	return nil, ErrForbidden
}
