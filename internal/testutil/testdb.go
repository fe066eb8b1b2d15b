package testutil

import (
	"os"
	"testing"

	"github.com/alexanderramin/ascent/internal/db"
)

// PostgresURLEnv names the DSN used by postgres-backed tests.
const PostgresURLEnv = "ASCENT_TEST_POSTGRES_URL"

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *db.Database {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewPostgresTestDB connects to the server named by ASCENT_TEST_POSTGRES_URL
// and skips the test when it is unset. Tables are emptied before and after.
func NewPostgresTestDB(t *testing.T) *db.Database {
	t.Helper()
	dsn := os.Getenv(PostgresURLEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresURLEnv)
	}
	database, err := db.OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	wipe := func() {
		for _, table := range []string{"prep_visits", "action_progress", "rollover_runs", "learners"} {
			if _, err := database.Exec("DELETE FROM " + table); err != nil {
				t.Fatalf("cleaning %s: %v", table, err)
			}
		}
	}
	wipe()
	t.Cleanup(func() {
		wipe()
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *db.Database) db.UnitOfWork {
	return database.UnitOfWork()
}
