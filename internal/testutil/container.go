package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	containerImage    = "postgres:16-alpine"
	containerDatabase = "jobtracker_test"
	containerUser     = "jobtracker"
	//nolint:gosec // disposable container credentials
	containerPassword = "jobtracker"
)

// PostgresContainer is a disposable PostgreSQL instance for integration tests.
type PostgresContainer struct {
	container *tcpostgres.PostgresContainer
	DSN       string
}

// StartPostgresContainer launches PostgreSQL in Docker and waits until it accepts
// connections. Call Terminate when done.
func StartPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	container, err := tcpostgres.Run(ctx,
		containerImage,
		tcpostgres.WithDatabase(containerDatabase),
		tcpostgres.WithUsername(containerUser),
		tcpostgres.WithPassword(containerPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container connection string: %w", err)
	}

	return &PostgresContainer{container: container, DSN: dsn}, nil
}

// Terminate stops and removes the container.
func (p *PostgresContainer) Terminate(ctx context.Context) error {
	if p == nil || p.container == nil {
		return nil
	}
	return p.container.Terminate(ctx)
}

// PostgresDSNForTest returns TEST_POSTGRES_DSN when set and reachable. Otherwise, with
// TESTCONTAINERS=1, it starts a container that is removed when the test ends. The
// test is skipped when neither is available.
func PostgresDSNForTest(t *testing.T) string {
	t.Helper()

	if os.Getenv("TESTCONTAINERS") == "" {
		SkipIfNoPostgres(t)
		return GetPostgresTestDSN()
	}

	ctx := context.Background()
	container, err := StartPostgresContainer(ctx)
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})
	return container.DSN
}
