package database

import (
	"os"
	"path/filepath"
	"testing"
)

// setupTestDB opens a throwaway sqlite database with the full schema.
func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "dishpin-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	db, err := NewDB(Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(dir, "test.db"),
	})
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("Failed to open test database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(dir)
	}

	return db, cleanup
}
