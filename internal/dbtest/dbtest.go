// Package dbtest opens throwaway sqlite stores for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/shinyyama/virtual-fridge/internal/config"
	"github.com/shinyyama/virtual-fridge/internal/db"
	"gorm.io/gorm"
)

// Open returns a migrated store backed by a file in t.TempDir. It is closed on cleanup.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "fridge.db"),
	}
	conn, err := db.Connect(cfg)
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}
