package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	Version        string        `envconfig:"VERSION" default:"dev"`
	BaseURL        string        `envconfig:"BASE_URL" default:"http://localhost:8080"`
	DatabaseURL    string        `envconfig:"DATABASE_URL" required:"true"`
	MigrateOnStart bool          `envconfig:"MIGRATE_ON_START" default:"true"`
	DBMaxConns     int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns     int32         `envconfig:"DB_MIN_CONNS" default:"0"`
	DBConnLifetime time.Duration `envconfig:"DB_CONN_LIFETIME" default:"1h"`
	RedisURL       string        `envconfig:"REDIS_URL" default:""`
	SessionSecret  string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	CookieSecure   bool          `envconfig:"COOKIE_SECURE" default:"false"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID" required:"true"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET" required:"true"`

	InstagramVerifyToken string `envconfig:"INSTAGRAM_VERIFY_TOKEN" required:"true"`
	InstagramAppSecret   string `envconfig:"INSTAGRAM_APP_SECRET" default:""`
}

// OAuthRedirectURL is the callback registered with the identity provider.
func (c *Config) OAuthRedirectURL() string {
	return c.BaseURL + "/api/auth/callback/google"
}

// Load reads configuration from environment variables into a Config struct.
// Values from a .env file in the working directory are applied first, without
// overriding variables that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}
	return &cfg, nil
}
