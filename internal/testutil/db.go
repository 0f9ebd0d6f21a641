package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/techconf/techconf-mcp/internal/store"
)

const Driver = "sqlite"

// TestDB returns a bare in-memory database without schema.
func TestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return TestDBDSN(t, ":memory:")
}

func TestDBDSN(t *testing.T, dsn string) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open(Driver, dsn)
	if err != nil {
		t.Fatalf("TestDBDSN: %s: %s", dsn, err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Ping(); err != nil {
		t.Fatalf("TestDBDSN: %s: %s", dsn, err)
	}
	if err := store.Migrate(context.Background(), db.DB); err != nil {
		t.Fatalf("TestDBDSN: %s: migrate: %s", dsn, err)
	}
	return db
}

// TestStore returns a fully migrated in-memory Store.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("TestStore: %s", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}
