package session

import (
	"log/slog"
	"net/http"
	"strings"
)

// CookieName is the cookie carrying the session token.
const CookieName = "session_token"

// Resolver recovers the authenticated identity from an inbound request.
type Resolver struct {
	manager *Manager
	store   RevocationStore
}

// NewResolver creates a Resolver. A nil store disables revocation checks.
func NewResolver(manager *Manager, store RevocationStore) *Resolver {
	if store == nil {
		store = NoopStore{}
	}
	return &Resolver{manager: manager, store: store}
}

// Resolve returns the identity carried by the request's session cookie or
// bearer token. The cookie is tried first; when it does not authenticate the
// bearer token is tried. A missing, invalid, expired or revoked token yields
// false.
func (r *Resolver) Resolve(req *http.Request) (*Identity, bool) {
	for _, raw := range tokensFromRequest(req) {
		if id, ok := r.resolveToken(req, raw); ok {
			return id, true
		}
	}
	return nil, false
}

func (r *Resolver) resolveToken(req *http.Request, raw string) (*Identity, bool) {
	claims, err := r.manager.Parse(raw)
	if err != nil {
		slog.Debug("rejected session token", "error", err)
		return nil, false
	}

	revoked, err := r.store.IsRevoked(req.Context(), claims.ID)
	if err != nil {
		slog.Error("failed to check session revocation", "error", err)
		return nil, false
	}
	if revoked {
		return nil, false
	}

	return claims.Identity(raw), true
}

func tokensFromRequest(req *http.Request) []string {
	var tokens []string
	if c, err := req.Cookie(CookieName); err == nil && c.Value != "" {
		tokens = append(tokens, c.Value)
	}

	parts := strings.SplitN(strings.TrimSpace(req.Header.Get("Authorization")), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if token := strings.TrimSpace(parts[1]); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
