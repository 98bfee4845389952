// Package dbtest opens throwaway SQLite databases migrated with the production models.
package dbtest

import (
	"fmt"
	"regexp"
	"testing"

	"ferremas/internal/infra/persistence/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Open returns an in-memory database private to t, closed on cleanup.
// A single connection is used, so callers must not issue queries outside an
// open transaction while it is in progress.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", unsafeName.ReplaceAllString(t.Name(), "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(model.All()...))

	return db
}
