// Package dbtest opens throwaway in-memory SQLite stores for tests.
package dbtest

import (
	"testing"

	"foodtruck-pos/internal/database"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// New returns a migrated store backed by a private in-memory database.
func New(t testing.TB) *database.Store {
	t.Helper()

	log, _ := test.NewNullLogger()
	db, err := database.Open(sqlite.Open("file::memory:"), log, false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every new connection would get its own empty in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return database.NewStore(db)
}
