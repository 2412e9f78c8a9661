package middleware

import (
	"context"
	"net/http"

	"github.com/collabhub/collabhub/internal/user"
)

// RequireUser resolves the session to a stored user and, when roles are given,
// rejects users holding none of them. Failures map to 401, 404, 403 or 500.
// On success the user is available through GetUser.
func RequireUser(gate Authorizer, roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := gate.Authorize(r.Context(), r, roles...)
			if err != nil {
				WriteAuthError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
