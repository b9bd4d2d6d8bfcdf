package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/tmp/todo.db?"+pragmas, DSN("/tmp/todo.db"))
	assert.Equal(t, "todo.db?cache=shared&"+pragmas, DSN("todo.db?cache=shared"))
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "  ")
	assert.Error(t, err)
}

func TestMillisRoundTrip(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 1, 12, 30, 45, 123456789, time.FixedZone("x", 3600))
	got := fromMillis(toMillis(ts))
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(ts.Truncate(time.Millisecond)))
}

func TestMigrationsUpDownStatus(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	provider, err := NewMigrationProvider(db)
	require.NoError(t, err)

	results, err := provider.Up(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)

	version, err := provider.GetDBVersion(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)

	statuses, err := provider.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, goose.StateApplied, statuses[0].State)

	var foreignKeys int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)

	_, err = provider.Down(ctx)
	require.NoError(t, err)

	var tables int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'tasks', 'refresh_tokens')",
	).Scan(&tables))
	assert.Zero(t, tables)

	require.NoError(t, Migrate(ctx, db))
	version, err = provider.GetDBVersion(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)
}
