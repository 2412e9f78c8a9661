package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/collabhub/collabhub/internal/api"
	"github.com/collabhub/collabhub/internal/auth"
	"github.com/collabhub/collabhub/internal/config"
	"github.com/collabhub/collabhub/internal/database"
	"github.com/collabhub/collabhub/internal/oauth"
	"github.com/collabhub/collabhub/internal/profile"
	"github.com/collabhub/collabhub/internal/session"
	"github.com/collabhub/collabhub/internal/user"
	"github.com/collabhub/collabhub/internal/webhook"
	"github.com/collabhub/collabhub/openapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	db, err := database.Open(startCtx, cfg.DatabaseURL, database.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBConnLifetime,
		ConnectTimeout:  5 * time.Second,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(startCtx); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	var revocations session.RevocationStore = session.NoopStore{}
	if cfg.RedisURL != "" {
		client, err := session.NewRedisClient(startCtx, cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		revocations = session.NewRedisStore(client)
	} else {
		slog.Warn("REDIS_URL not set; sign-out will not revoke session tokens server-side")
	}

	userRepo := user.NewRepository(db.Pool())
	brandRepo := profile.NewBrandRepository(db.Pool())
	influencerRepo := profile.NewInfluencerRepository(db.Pool())

	tokens := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	gate := auth.NewGate(session.NewResolver(tokens, revocations), userRepo)

	router := api.NewRouter(api.RouterDeps{
		DBPinger:    db,
		Version:     cfg.Version,
		OpenAPISpec: openapi.Spec,
		BaseURL:     cfg.BaseURL,
		Gate:        gate,
		Profiles:    profile.NewService(brandRepo, influencerRepo),
		Users:       user.NewService(userRepo, brandRepo),
		Lookup:      userRepo,
		Provider: oauth.NewProvider(oauth.Options{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL(),
		}),
		Tokens:          tokens,
		Revocations:     revocations,
		CookieSecure:    cfg.CookieSecure,
		WebhookVerifier: webhook.NewVerifier(cfg.InstagramVerifyToken, cfg.InstagramAppSecret),
		WebhookSink:     webhook.NewLogSink(slog.Default()),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting collabhub server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
