//go:build integration

package postgresql_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/theglobal/uren-backend-go/internal/pkg/database"
)

var testDB *database.DB

// TestMain starts a throwaway Postgres unless TEST_DATABASE_URL points at one.
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("uren_test"),
			tcpostgres.WithUsername("uren"),
			tcpostgres.WithPassword("uren"),
			tcpostgres.BasicWaitStrategies(),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
			return 1
		}
		defer func() { _ = container.Terminate(ctx) }()

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to get postgres connection string: %v\n", err)
			return 1
		}
	}

	if err := database.RunMigrations(dsn, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate test database: %v\n", err)
		return 1
	}

	var err error
	testDB, err = database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to test database: %v\n", err)
		return 1
	}
	defer testDB.Close()

	return m.Run()
}

// truncateAll clears every table between tests.
func truncateAll(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	tx, err := testDB.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	for _, table := range []string{"position_logs", "clock_sessions", "sites", "audit_logs"} {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}

	require.NoError(t, tx.Commit(ctx))
}
