//go:build integration

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
)

// TEST_DATABASE_URL points at a disposable database; the correlation table is
// created when missing.
const testDatabaseEnv = "TEST_DATABASE_URL"

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	url := os.Getenv(testDatabaseEnv)
	if url == "" {
		fmt.Printf("%s not set; skipping postgres integration tests\n", testDatabaseEnv)
		os.Exit(0)
	}

	ctx := context.Background()
	pool, err := NewPgxPool(ctx, url, 4)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect test database: %v\n", err)
		os.Exit(1)
	}
	if err := EnsureSchema(ctx, pool, DefaultTable); err != nil {
		pool.Close()
		fmt.Fprintf(os.Stderr, "apply schema: %v\n", err)
		os.Exit(1)
	}
	testPool = pool

	code := m.Run()
	pool.Close()
	os.Exit(code)
}

func cleanup(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE `+DefaultTable+` RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("Failed to clean up database: %v", err)
	}
}
