// Package dbtest opens throwaway in-memory databases for package tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/db"
)

// New returns a migrated sqlite database private to the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	gdb, err := db.Open(sqlite.Open(dsn), zap.NewNop().Sugar())
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return gdb
}
