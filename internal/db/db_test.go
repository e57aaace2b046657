package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hey-mailer/internal/config"
)

func TestMigrateSQLiteIsRepeatable(t *testing.T) {
	conn, err := Open(context.Background(), config.DriverSQLite, ":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, Migrate(conn, config.DriverSQLite, ":memory:"))
	require.NoError(t, Migrate(conn, config.DriverSQLite, ":memory:"))

	var count int
	require.NoError(t, conn.Get(&count, `SELECT COUNT(*) FROM emails`))
	assert.Zero(t, count)
}

func TestSQLiteRejectsUnknownStatus(t *testing.T) {
	conn, err := Open(context.Background(), config.DriverSQLite, ":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, Migrate(conn, config.DriverSQLite, ":memory:"))

	_, err = conn.Exec(`INSERT INTO emails (email, subject, body, status) VALUES ('a@b.co', 'hey', 'Hey there!', 'queued')`)
	assert.Error(t, err)
}

func TestMigrateUnknownDriver(t *testing.T) {
	assert.Error(t, Migrate(nil, "mysql", ""))
}

func TestVersionSQLite(t *testing.T) {
	conn, err := Open(context.Background(), config.DriverSQLite, ":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	version, dirty, err := Version(conn, config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, Migrate(conn, config.DriverSQLite, ":memory:"))
	version, dirty, err = Version(conn, config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestMigrateFailureKeepsSharedHandle(t *testing.T) {
	conn, err := Open(context.Background(), config.DriverSQLite, ":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, Migrate(conn, config.DriverSQLite, ":memory:"))

	_, err = conn.Exec(`UPDATE schema_migrations SET dirty = 1`)
	require.NoError(t, err)

	assert.Error(t, Migrate(conn, config.DriverSQLite, ":memory:"))
	assert.NoError(t, conn.Ping())
}
