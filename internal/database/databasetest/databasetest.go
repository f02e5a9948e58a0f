// Package databasetest opens throwaway migrated SQLite databases for tests.
package databasetest

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/ethernet-moe/cafeteria-backend/internal/config"
	"github.com/ethernet-moe/cafeteria-backend/internal/database"
	"gorm.io/gorm"
)

// New returns a migrated database in a per-test temp directory, closed on cleanup
func New(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(cfg, log)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
