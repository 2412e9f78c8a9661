package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/collabhub/collabhub/internal/api/response"
	"github.com/collabhub/collabhub/internal/auth"
	"github.com/collabhub/collabhub/internal/session"
	"github.com/collabhub/collabhub/internal/user"
)

const (
	identityKey contextKey = "identity"
	userKey     contextKey = "user"
)

// Authorizer resolves sessions and enforces roles. *auth.Gate satisfies it.
type Authorizer interface {
	Identity(r *http.Request) (*session.Identity, error)
	Authorize(ctx context.Context, r *http.Request, required ...user.Role) (*user.User, error)
}

// RequireSession rejects requests without a valid session with 401 and stores
// the resolved identity in the request context.
func RequireSession(gate Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := gate.Identity(r)
			if err != nil {
				WriteAuthError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WriteAuthError maps authorization failures to HTTP error responses.
func WriteAuthError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := GetRequestID(r.Context())

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", requestID)
	case errors.Is(err, auth.ErrUserNotFound):
		response.Err(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found", requestID)
	case errors.Is(err, auth.ErrForbidden):
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", requestID)
	default:
		slog.Error("failed to authorize request", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", requestID)
	}
}

// GetIdentity retrieves the session identity stored by RequireSession.
func GetIdentity(ctx context.Context) *session.Identity {
	if id, ok := ctx.Value(identityKey).(*session.Identity); ok {
		return id
	}
	return nil
}

// GetUser retrieves the user stored by RequireUser.
func GetUser(ctx context.Context) *user.User {
	if u, ok := ctx.Value(userKey).(*user.User); ok {
		return u
	}
	return nil
}
