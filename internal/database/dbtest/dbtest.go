// Package dbtest provisions PostgreSQL databases for repository tests.
//
// Every test binary works in its own database, named after the binary
// (collabhub_test_user, collabhub_test_profile, ...), so packages run in
// parallel by `go test ./...` never truncate each other's rows. The server is
// TEST_DATABASE_URL when set, otherwise a postgres:16 container started once
// per test binary.
package dbtest

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/collabhub/collabhub/internal/database"
)

const maxIdentifierLen = 63

var (
	serverOnce sync.Once
	serverURL  string
	serverErr  error

	packageOnce sync.Once
	packageURL  string
	packageErr  error

	unsafeNameChars = regexp.MustCompile(`[^a-z0-9_]+`)
)

func resolveServer() (string, error) {
	serverOnce.Do(func() {
		if v := os.Getenv("TEST_DATABASE_URL"); v != "" {
			serverURL = v
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		var c *postgres.PostgresContainer
		c, serverErr = postgres.Run(ctx,
			"postgres:16",
			postgres.WithDatabase("collabhub_test"),
			postgres.WithUsername("collabhub"),
			postgres.WithPassword("collabhub"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(time.Minute)),
		)
		if serverErr != nil {
			return
		}
		serverURL, serverErr = c.ConnectionString(ctx, "sslmode=disable")
	})
	return serverURL, serverErr
}

// packageDatabaseName derives a stable database name from the test binary,
// e.g. "user.test" becomes collabhub_test_user.
func packageDatabaseName() string {
	base := strings.ToLower(filepath.Base(os.Args[0]))
	base = strings.TrimSuffix(base, ".exe")
	base = strings.TrimSuffix(base, ".test")
	name := "collabhub_test_" + strings.Trim(unsafeNameChars.ReplaceAllString(base, "_"), "_")
	if len(name) > maxIdentifierLen {
		name = name[:maxIdentifierLen]
	}
	return name
}

// recreateDatabase drops and creates name on the server behind adminURL and
// returns a URL pointing at it.
func recreateDatabase(ctx context.Context, adminURL, name string) (string, error) {
	conn, err := pgx.Connect(ctx, adminURL)
	if err != nil {
		return "", fmt.Errorf("connecting to test server: %w", err)
	}
	defer conn.Close(ctx)

	ident := pgx.Identifier{name}.Sanitize()
	if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+ident+" WITH (FORCE)"); err != nil {
		return "", fmt.Errorf("dropping %s: %w", name, err)
	}
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	return withDatabase(adminURL, name)
}

func dropDatabase(ctx context.Context, adminURL, name string) error {
	conn, err := pgx.Connect(ctx, adminURL)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{name}.Sanitize()+" WITH (FORCE)")
	return err
}

func withDatabase(rawURL, name string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return "", fmt.Errorf("test database URL must be a postgres:// URL")
	}
	u.Path = "/" + name
	return u.String(), nil
}

func connect(t *testing.T, ctx context.Context, dsn string) *pgxpool.Pool {
	t.Helper()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("skipping: cannot connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("skipping: cannot ping test database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// Pool returns a pool on this test binary's migrated database with all rows
// truncated. The test is skipped when no database server can be reached.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	admin, err := resolveServer()
	if err != nil {
		t.Skipf("skipping: cannot start test database: %v", err)
	}
	packageOnce.Do(func() {
		packageURL, packageErr = recreateDatabase(ctx, admin, packageDatabaseName())
	})
	if packageErr != nil {
		t.Skipf("skipping: cannot prepare test database: %v", packageErr)
	}

	pool := connect(t, ctx, packageURL)
	require.NoError(t, database.Migrate(ctx, pool))

	_, err = pool.Exec(ctx, "TRUNCATE TABLE influencer_profiles, brand_profiles, users CASCADE")
	require.NoError(t, err)

	return pool
}

// Empty returns a pool on a new database with no schema at all. The database
// is dropped when the test finishes.
func Empty(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	admin, err := resolveServer()
	if err != nil {
		t.Skipf("skipping: cannot start test database: %v", err)
	}

	name := "collabhub_empty_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	dsn, err := recreateDatabase(ctx, admin, name)
	if err != nil {
		t.Skipf("skipping: cannot prepare test database: %v", err)
	}
	t.Cleanup(func() {
		if err := dropDatabase(context.Background(), admin, name); err != nil {
			t.Logf("dropping %s: %v", name, err)
		}
	})

	// Registered after the drop so the pool closes first.
	return connect(t, ctx, dsn)
}
