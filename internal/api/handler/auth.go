package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/collabhub/collabhub/internal/api/middleware"
	"github.com/collabhub/collabhub/internal/api/response"
	"github.com/collabhub/collabhub/internal/oauth"
	"github.com/collabhub/collabhub/internal/session"
	"github.com/collabhub/collabhub/internal/user"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 10 * time.Minute
)

// IdentityProvider runs the OAuth authorization code flow.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*session.Identity, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(id session.Identity) (string, *session.Claims, error)
}

// UserLookup finds users by email.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// AuthConfig holds the collaborators of AuthHandler.
type AuthConfig struct {
	Provider     IdentityProvider
	Tokens       TokenIssuer
	Revocations  session.RevocationStore
	Users        UserLookup
	Gate         middleware.Authorizer
	CookieSecure bool
}

// AuthHandler handles sign-in, sign-out and session endpoints.
type AuthHandler struct {
	cfg AuthConfig
}

// NewAuthHandler creates a new AuthHandler. A nil revocation store disables
// server-side sign-out.
func NewAuthHandler(cfg AuthConfig) *AuthHandler {
	if cfg.Revocations == nil {
		cfg.Revocations = session.NoopStore{}
	}
	return &AuthHandler{cfg: cfg}
}

type sessionUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type sessionResponse struct {
	User *sessionUser `json:"user,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type debugTokenResponse struct {
	Token string `json:"token"`
}

// SignIn handles GET /api/auth/signin by redirecting to the identity provider.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	state := oauth.NewState()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.cfg.Provider.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /api/auth/callback/google. On success it sets the
// session cookie and sends users without a completed onboarding to
// /onboarding, everyone else to /dashboard.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		slog.Warn("identity provider returned an error", "error", e, "requestId", requestID)
		response.Err(w, http.StatusBadRequest, "OAUTH_ERROR", "Sign-in was not completed", requestID)
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != q.Get("state") {
		response.Err(w, http.StatusBadRequest, "INVALID_STATE", "Invalid OAuth state", requestID)
		return
	}
	h.clearCookie(w, stateCookieName, "/api/auth")

	code := q.Get("code")
	if code == "" {
		response.Err(w, http.StatusBadRequest, "MISSING_CODE", "Authorization code is required", requestID)
		return
	}

	id, err := h.cfg.Provider.Exchange(r.Context(), code)
	if err != nil {
		if errors.Is(err, oauth.ErrNoEmail) {
			response.Err(w, http.StatusBadRequest, "EMAIL_REQUIRED", "An email address is required to sign in", requestID)
			return
		}
		slog.Error("failed to exchange authorization code", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Sign-in failed", requestID)
		return
	}

	token, claims, err := h.cfg.Tokens.Issue(*id)
	if err != nil {
		slog.Error("failed to issue session", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Sign-in failed", requestID)
		return
	}

	dest := "/dashboard"
	u, err := h.cfg.Users.GetByEmail(r.Context(), id.Email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		dest = "/onboarding"
	case err != nil:
		slog.Error("failed to look up user after sign-in", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Sign-in failed", requestID)
		return
	case u.Role == nil || !u.Onboarded:
		dest = "/onboarding"
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	slog.Info("user signed in", "email", id.Email, "requestId", requestID)
	http.Redirect(w, r, dest, http.StatusFound)
}

// SignOut handles POST /api/auth/signout. It always succeeds; a valid token is
// additionally revoked until its natural expiry.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if id, err := h.cfg.Gate.Identity(r); err == nil {
		if err := h.cfg.Revocations.Revoke(r.Context(), id.TokenID, id.ExpiresAt); err != nil {
			slog.Error("failed to revoke session", "error", err, "requestId", requestID)
		}
	}

	h.clearCookie(w, session.CookieName, "/")
	response.JSON(w, http.StatusOK, successResponse{Success: true})
}

// Session handles GET /api/auth/session. Unauthenticated callers get {}.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	id, err := h.cfg.Gate.Identity(r)
	if err != nil {
		response.JSON(w, http.StatusOK, sessionResponse{})
		return
	}

	response.JSON(w, http.StatusOK, sessionResponse{User: &sessionUser{
		Email: id.Email,
		Name:  id.Name,
		Image: id.Image,
	}})
}

// DebugToken handles GET /api/debug-token.
func DebugToken(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())
	response.JSON(w, http.StatusOK, debugTokenResponse{Token: id.Token})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
