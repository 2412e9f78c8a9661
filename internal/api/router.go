package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/collabhub/collabhub/internal/api/handler"
	"github.com/collabhub/collabhub/internal/api/middleware"
	"github.com/collabhub/collabhub/internal/session"
	"github.com/collabhub/collabhub/internal/user"
	"github.com/collabhub/collabhub/internal/webhook"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger    handler.DBPinger
	Version     string
	OpenAPISpec []byte
	BaseURL     string

	Gate     middleware.Authorizer
	Profiles handler.ProfileService
	Users    handler.UserService
	Lookup   handler.UserLookup

	Provider     handler.IdentityProvider
	Tokens       handler.TokenIssuer
	Revocations  session.RevocationStore
	CookieSecure bool

	WebhookVerifier handler.WebhookVerifier
	WebhookSink     webhook.Sink
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		r.Get("/openapi.json", handler.RenderOpenAPI(deps.OpenAPISpec, deps.BaseURL).ServeHTTP)
	}

	profileHandler := handler.NewProfileHandler(deps.Profiles)
	userHandler := handler.NewUserHandler(deps.Users)
	authHandler := handler.NewAuthHandler(handler.AuthConfig{
		Provider:     deps.Provider,
		Tokens:       deps.Tokens,
		Revocations:  deps.Revocations,
		Users:        deps.Lookup,
		Gate:         deps.Gate,
		CookieSecure: deps.CookieSecure,
	})
	webhookHandler := handler.NewWebhookHandler(deps.WebhookVerifier, deps.WebhookSink)

	r.Route("/api", func(r chi.Router) {
		r.Get("/influencer/{id}", profileHandler.GetPublicInfluencer)

		r.Get("/webhooks/instagram", webhookHandler.Verify)
		r.Post("/webhooks/instagram", webhookHandler.Receive)

		r.Get("/auth/signin", authHandler.SignIn)
		r.Get("/auth/callback/google", authHandler.Callback)
		r.Post("/auth/signout", authHandler.SignOut)
		r.Get("/auth/session", authHandler.Session)

		// Session only; the user row may not exist yet.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(deps.Gate))
			r.Post("/user/type", userHandler.SetType)
			r.Get("/debug-token", handler.DebugToken)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(deps.Gate))
			r.Get("/user", userHandler.Get)
			r.Get("/user/me", userHandler.Me)
			r.Get("/influencers", profileHandler.ListInfluencers)
			r.Get("/messages/check", handler.MessagesCheck)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(deps.Gate, user.RoleBrand))
			r.Get("/brand/profile", profileHandler.GetBrand)
			r.Put("/brand/profile", profileHandler.UpdateBrand)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(deps.Gate, user.RoleInfluencer))
			r.Get("/influencer/profile", profileHandler.GetInfluencer)
			r.Put("/influencer/profile", profileHandler.UpdateInfluencer)
		})
	})

	return r
}
