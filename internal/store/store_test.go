package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	st, err := OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpen_createsDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "techconf.db")
	st, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
	assert.FileExists(t, path)
}

func TestMigrate_schemaPresent(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	var tables []string
	err := st.Read(ctx, func(conn sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, conn, &tables,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'goose%' AND name NOT LIKE 'sqlite%' ORDER BY name")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"conference", "session", "speaker", "venue"}, tables)
}

func TestWrite_rollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	boom := errors.New("boom")
	err := st.Write(ctx, func(conn sqlx.ExtContext) error {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO conference (id, name, startDate, endDate, timezone, createdAt, updatedAt)
			 VALUES ('c1', 'Conf', '2025-10-02', '2025-10-03', 'UTC', '2025-01-01', '2025-01-01')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, st.Read(ctx, func(conn sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, conn, &count, "SELECT COUNT(*) FROM conference")
	}))
	assert.Zero(t, count)
}

func TestWrite_commits(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	require.NoError(t, st.Write(ctx, func(conn sqlx.ExtContext) error {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO conference (id, name, startDate, endDate, timezone, createdAt, updatedAt)
			 VALUES ('c1', 'Conf', '2025-10-02', '2025-10-03', 'UTC', '2025-01-01', '2025-01-01')`)
		return err
	}))

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.ConferenceCount)
	assert.Positive(t, stats.TotalSizeBytes)
}

func TestCheckIntegrity(t *testing.T) {
	st := testStore(t)
	ok, err := st.CheckIntegrity(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestForeignKeys_enforced(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	err := st.Write(ctx, func(conn sqlx.ExtContext) error {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO venue (id, conferenceId, name, createdAt, updatedAt)
			 VALUES ('v1', 'no-such-conference', 'Main Hall', '2025-01-01', '2025-01-01')`)
		return err
	})
	assert.Error(t, err)
}
