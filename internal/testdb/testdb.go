// Package testdb provides database fixtures for tests: an isolated in-memory
// SQLite store, and a Postgres store backed either by a long-lived service
// (TEST_DATABASE_URL) or a disposable Docker container.
package testdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"polls/internal/config"
	"polls/internal/db"
	"polls/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnvDatabaseURL names the variable that points tests at a running Postgres.
const EnvDatabaseURL = "TEST_DATABASE_URL"

// SQLite returns a migrated, empty in-memory database private to t.
func SQLite(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	gdb, err := db.Open(config.DatabaseSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { closeDB(gdb) })
	return gdb
}

// Postgres returns a freshly migrated database on the server named by
// TEST_DATABASE_URL. The test is skipped when the variable is unset.
func Postgres(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set and no container available", EnvDatabaseURL)
	}

	gdb, err := db.Open(config.DatabasePostgres, dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Clean up tables before each test
	if err := gdb.Migrator().DropTable(&models.Choice{}, &models.Question{}); err != nil {
		t.Fatalf("Failed to clean database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { closeDB(gdb) })
	return gdb
}

// RunWithPostgres is meant for TestMain. When TEST_DATABASE_URL is unset it
// starts a container, exports its DSN for the duration of m.Run and removes
// it afterwards. Without Docker the Postgres tests skip themselves.
func RunWithPostgres(m *testing.M) int {
	if os.Getenv(EnvDatabaseURL) != "" {
		return m.Run()
	}

	ctx := context.Background()
	c, err := StartPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "testdb: postgres container unavailable, skipping postgres tests: %v\n", err)
		return m.Run()
	}
	defer func() {
		if err := c.Terminate(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "testdb: failed to remove container: %v\n", err)
		}
	}()

	os.Setenv(EnvDatabaseURL, c.DSN)
	defer os.Unsetenv(EnvDatabaseURL)
	return m.Run()
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
}
