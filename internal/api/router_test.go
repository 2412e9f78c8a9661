package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/collabhub/collabhub/internal/api"
	"github.com/collabhub/collabhub/internal/auth"
	"github.com/collabhub/collabhub/internal/oauth"
	"github.com/collabhub/collabhub/internal/profile"
	"github.com/collabhub/collabhub/internal/session"
	"github.com/collabhub/collabhub/internal/user"
	"github.com/collabhub/collabhub/internal/webhook"
	"github.com/collabhub/collabhub/openapi"
)

type testServer struct {
	router *chi.Mux
	store  *memStore
	tokens *session.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := newMemStore()
	tokens := session.NewManager("router-test-secret", time.Hour)
	resolver := session.NewResolver(tokens, nil)
	users := memUsers{store}
	brands := memBrands{store}

	router := api.NewRouter(api.RouterDeps{
		Version:         "test",
		OpenAPISpec:     openapi.Spec,
		Gate:            auth.NewGate(resolver, users),
		Profiles:        profile.NewService(brands, memInfluencers{store}),
		Users:           user.NewService(users, brands),
		Lookup:          users,
		Provider:        oauth.NewProvider(oauth.Options{ClientID: "client-id"}),
		Tokens:          tokens,
		WebhookVerifier: webhook.NewVerifier("verify-me", ""),
		WebhookSink:     webhook.NewLogSink(nil),
	})

	return &testServer{router: router, store: store, tokens: tokens}
}

func (s *testServer) token(t *testing.T, email string) string {
	t.Helper()
	raw, _, err := s.tokens.Issue(session.Identity{Subject: "sub-" + email, Email: email, Name: "Test User"})
	require.NoError(t, err)
	return raw
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) signUp(t *testing.T, email string, role user.Role) string {
	t.Helper()
	tok := s.token(t, email)
	w := s.do(t, http.MethodPost, "/api/user/type", tok, map[string]string{"userType": string(role)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return tok
}

func (s *testServer) seedInfluencer(t *testing.T, email string, followers int, post, reel, story *int) uuid.UUID {
	t.Helper()
	s.signUp(t, email, user.RoleInfluencer)
	u, err := memUsers{s.store}.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NoError(t, memInfluencers{s.store}.Ensure(context.Background(), u.ID))
	_, err = memInfluencers{s.store}.Update(context.Background(), u.ID, profile.InfluencerUpdate{
		FollowerCount: profile.Present(followers),
		PricePerPost:  profile.Field[int]{Set: true, Value: post},
		PricePerReel:  profile.Field[int]{Set: true, Value: reel},
		PricePerStory: profile.Field[int]{Set: true, Value: story},
	})
	require.NoError(t, err)
	return u.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func intp(n int) *int { return &n }

func TestRouter_ProtectedEndpointsRequireSession(t *testing.T) {
	s := newTestServer(t)

	protected := []struct{ method, path string }{
		{http.MethodGet, "/api/brand/profile"},
		{http.MethodPut, "/api/brand/profile"},
		{http.MethodGet, "/api/influencer/profile"},
		{http.MethodPut, "/api/influencer/profile"},
		{http.MethodGet, "/api/influencers"},
		{http.MethodGet, "/api/user"},
		{http.MethodGet, "/api/user/me"},
		{http.MethodPost, "/api/user/type"},
		{http.MethodGet, "/api/messages/check"},
		{http.MethodGet, "/api/debug-token"},
	}

	for _, p := range protected {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			for _, tok := range []string{"", "garbage.token.value"} {
				w := s.do(t, p.method, p.path, tok, "{}")
				assert.Equal(t, http.StatusUnauthorized, w.Code)
				assert.Equal(t, "UNAUTHORIZED", decode(t, w)["code"])
			}
		})
	}
}

func TestRouter_UnknownUserIs404(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "ghost@example.com")

	w := s.do(t, http.MethodGet, "/api/user", tok, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_BrandProfileForbiddenForNonBrands(t *testing.T) {
	s := newTestServer(t)
	tok := s.signUp(t, "inf@example.com", user.RoleInfluencer)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/brand/profile", tok, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPut, "/api/brand/profile", tok, map[string]string{"industry": "tech"}).Code)
}

func TestRouter_BrandSignUpAndPartialUpdate(t *testing.T) {
	s := newTestServer(t)
	tok := s.signUp(t, "brand@example.com", user.RoleBrand)

	w := s.do(t, http.MethodGet, "/api/user", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["onboarded"])
	assert.Equal(t, "brand", decode(t, w)["userType"])

	w = s.do(t, http.MethodGet, "/api/brand/profile", tok, nil)
	require.Equal(t, http.StatusOK, w.Code, "brand profile is created at sign-up")

	w = s.do(t, http.MethodPut, "/api/brand/profile", tok, map[string]string{
		"companyName": "Acme", "industry": "retail", "website": "https://acme.example",
	})
	require.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 2; i++ {
		w = s.do(t, http.MethodPut, "/api/brand/profile", tok, map[string]string{"industry": "tech"})
		require.Equal(t, http.StatusOK, w.Code)
		prof := decode(t, w)["profile"].(map[string]any)
		assert.Equal(t, "Acme", prof["companyName"])
		assert.Equal(t, "tech", prof["industry"])
		assert.Equal(t, "https://acme.example", prof["website"])
	}

	w = s.do(t, http.MethodPut, "/api/brand/profile", tok, `{"website":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	prof := decode(t, w)["profile"].(map[string]any)
	assert.Nil(t, prof["website"])
	assert.Equal(t, "Acme", prof["companyName"])
}

func TestRouter_SetUserTypeIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "brand@example.com", user.RoleBrand)
	s.signUp(t, "brand@example.com", user.RoleBrand)

	assert.Len(t, s.store.users, 1)
	assert.Len(t, s.store.brands, 1)
}

func TestRouter_InfluencerSignUpNotOnboarded(t *testing.T) {
	s := newTestServer(t)
	tok := s.signUp(t, "inf@example.com", user.RoleInfluencer)

	w := s.do(t, http.MethodGet, "/api/user", tok, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["onboarded"])
	assert.Empty(t, s.store.brands)
}

func TestRouter_InvalidUserType(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "x@example.com")

	w := s.do(t, http.MethodPost, "/api/user/type", tok, map[string]string{"userType": "admin"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.store.users)
}

func TestRouter_ListInfluencersMaxPriceMatchesAnyPrice(t *testing.T) {
	s := newTestServer(t)
	match := s.seedInfluencer(t, "a@example.com", 5000, intp(150), intp(80), nil)
	s.seedInfluencer(t, "b@example.com", 8000, intp(150), intp(120), intp(101))
	s.seedInfluencer(t, "c@example.com", 9000, nil, nil, nil)
	tok := s.signUp(t, "brand@example.com", user.RoleBrand)

	w := s.do(t, http.MethodGet, "/api/influencers?maxPrice=100", tok, nil)

	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["influencers"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, match.String(), list[0].(map[string]any)["id"])
}

func TestRouter_ListInfluencersMinFollowers(t *testing.T) {
	s := newTestServer(t)
	s.seedInfluencer(t, "a@example.com", 500, nil, nil, nil)
	big := s.seedInfluencer(t, "b@example.com", 50000, nil, nil, nil)
	tok := s.signUp(t, "brand@example.com", user.RoleBrand)

	w := s.do(t, http.MethodGet, "/api/influencers?minFollowers=1000", tok, nil)

	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["influencers"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, big.String(), list[0].(map[string]any)["id"])

	w = s.do(t, http.MethodGet, "/api/influencers?minFollowers=-3", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_PublicInfluencer(t *testing.T) {
	s := newTestServer(t)
	id := s.seedInfluencer(t, "inf@example.com", 1000, intp(50), nil, nil)
	s.signUp(t, "brand@example.com", user.RoleBrand)
	brand, err := memUsers{s.store}.GetByEmail(context.Background(), "brand@example.com")
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/api/influencer/"+id.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "inf@example.com")

	w = s.do(t, http.MethodGet, "/api/influencer/"+brand.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "brand ids are not exposed as influencers")
}

func TestRouter_Webhook(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/webhooks/instagram?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=abc123", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc123", w.Body.String())

	w = s.do(t, http.MethodGet, "/api/webhooks/instagram?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=abc123", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Verification failed", w.Body.String())

	w = s.do(t, http.MethodPost, "/api/webhooks/instagram", "", `{"object":"instagram","entry":[]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/webhooks/instagram", "", `not json`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w), "error")
}

func TestRouter_SessionAndDebugToken(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "ivy@example.com")

	w := s.do(t, http.MethodGet, "/api/auth/session", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ivy@example.com", decode(t, w)["user"].(map[string]any)["email"])

	w = s.do(t, http.MethodGet, "/api/debug-token", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tok, decode(t, w)["token"])

	w = s.do(t, http.MethodGet, "/api/auth/session", "", nil)
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestRouter_SignInRedirectsToProvider(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/auth/signin", "", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "https://accounts.google.com/"))
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", decode(t, w)["version"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// --- OpenAPI coverage ---

type openAPIDoc struct {
	Paths map[string]map[string]any `json:"paths"`
}

type route struct {
	method string
	path   string
}

func TestOpenAPISpec_RoutesCoverAllPaths(t *testing.T) {
	specJSON, err := yaml.YAMLToJSON(openapi.Spec)
	require.NoError(t, err, "embedded document must convert to JSON")

	var doc openAPIDoc
	require.NoError(t, json.Unmarshal(specJSON, &doc))

	var specRoutes []route
	for path, methods := range doc.Paths {
		for method := range methods {
			specRoutes = append(specRoutes, route{method: strings.ToUpper(method), path: path})
		}
	}
	require.NotEmpty(t, specRoutes)

	var chiRoutes []route
	err = chi.Walk(newTestServer(t).router, func(method, routePath string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		chiRoutes = append(chiRoutes, route{method: method, path: strings.TrimRight(routePath, "/")})
		return nil
	})
	require.NoError(t, err)

	sortRoutes(specRoutes)
	sortRoutes(chiRoutes)
	assert.Equal(t, specRoutes, chiRoutes, "router and OpenAPI document must describe the same routes")
}

func sortRoutes(rs []route) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].path == rs[j].path {
			return rs[i].method < rs[j].method
		}
		return rs[i].path < rs[j].path
	})
}

func TestRouter_MessagesCheckReflectsOnboarding(t *testing.T) {
	s := newTestServer(t)
	brandTok := s.signUp(t, "brand@example.com", user.RoleBrand)
	influencerTok := s.signUp(t, "creator@example.com", user.RoleInfluencer)

	w := s.do(t, http.MethodGet, "/api/messages/check", brandTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, true, body["user"].(map[string]any)["onboarded"])

	w = s.do(t, http.MethodGet, "/api/messages/check", influencerTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decode(t, w)
	assert.Equal(t, "onboarding_required", body["status"])
	assert.Equal(t, "influencer", body["user"].(map[string]any)["userType"])
}

func TestRouter_MessagesCheckUnknownUser(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/messages/check", s.token(t, "ghost@example.com"), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", decode(t, w)["code"])
}

func TestRouter_CountsBeyondColumnLimitRejected(t *testing.T) {
	s := newTestServer(t)
	s.seedInfluencer(t, "inf@example.com", 1000, nil, nil, nil)
	influencerTok := s.token(t, "inf@example.com")
	brandTok := s.signUp(t, "brand@example.com", user.RoleBrand)

	w := s.do(t, http.MethodGet, "/api/influencers?minFollowers=3000000000", brandTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAM", decode(t, w)["code"])

	w = s.do(t, http.MethodPut, "/api/influencer/profile", influencerTok, `{"followerCount":3000000000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/influencer/profile", influencerTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1000), decode(t, w)["profile"].(map[string]any)["followerCount"])
}
