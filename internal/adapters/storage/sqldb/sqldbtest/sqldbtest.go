// Package sqldbtest opens a migrated SQLite database for tests.
package sqldbtest

import (
	"context"
	"path/filepath"
	"testing"

	"pet-household/internal/adapters/storage/sqldb"

	"github.com/stretchr/testify/require"
)

// Open returns a migrated database in a temp dir. It is closed on cleanup.
func Open(t testing.TB) *sqldb.DB {
	t.Helper()

	ctx := context.Background()
	db, err := sqldb.Open(ctx, sqldb.Options{
		Driver: sqldb.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "household.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.MigrateUp(ctx))
	return db
}

// NewStore is Open wrapped in a Store.
func NewStore(t testing.TB) *sqldb.Store {
	t.Helper()
	return sqldb.NewStore(Open(t))
}
