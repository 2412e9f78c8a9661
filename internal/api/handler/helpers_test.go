package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/collabhub/collabhub/internal/api/middleware"
	"github.com/collabhub/collabhub/internal/auth"
	"github.com/collabhub/collabhub/internal/session"
	"github.com/collabhub/collabhub/internal/user"
)

// stubGate authorizes every request as the configured identity and user.
type stubGate struct {
	identity *session.Identity
	user     *user.User
}

func (g *stubGate) Identity(*http.Request) (*session.Identity, error) {
	if g.identity == nil {
		return nil, auth.ErrUnauthenticated
	}
	return g.identity, nil
}

func (g *stubGate) Authorize(context.Context, *http.Request, ...user.Role) (*user.User, error) {
	if g.user == nil {
		return nil, auth.ErrUnauthenticated
	}
	return g.user, nil
}

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, httptest.NewRecorder()
}

// serveAsUser runs h behind RequireUser so middleware.GetUser returns u.
func serveAsUser(h http.HandlerFunc, u *user.User, w http.ResponseWriter, req *http.Request) {
	middleware.RequireUser(&stubGate{user: u})(h).ServeHTTP(w, req)
}

// serveAsIdentity runs h behind RequireSession so middleware.GetIdentity returns id.
func serveAsIdentity(h http.HandlerFunc, id *session.Identity, w http.ResponseWriter, req *http.Request) {
	middleware.RequireSession(&stubGate{identity: id})(h).ServeHTTP(w, req)
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "failed to parse response body")
	return body
}

func rolePtr(r user.Role) *user.Role { return &r }

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func sampleUser(role *user.Role, onboarded bool) *user.User {
	return &user.User{
		ID:        uuid.New(),
		Email:     "ivy@example.com",
		Name:      strPtr("Ivy"),
		Role:      role,
		Onboarded: onboarded,
	}
}
