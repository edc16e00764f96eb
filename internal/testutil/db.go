// Package testutil provides shared helpers for service-level tests.
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/database"
)

// OpenTestDB opens a throwaway SQLite database migrated to the full schema.
// A file under t.TempDir is used instead of :memory: because gorm's
// connection pool would otherwise hand each connection its own empty
// database.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
