package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"taskpulse/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	// Running migrations again must be a no-op.
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := sqlite.New(filepath.Join(t.TempDir(), "missing-dir", "test.db"))
	if err == nil {
		t.Fatal("expected error for unwritable database path")
	}
}
