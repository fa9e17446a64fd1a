// ABOUTME: Shared test helpers for storage package tests.
// ABOUTME: Opens a fresh SQLite database per test and builds sample routines.
package storage

import (
	"path/filepath"
	"testing"

	"github.com/harperreed/routines/internal/models"
)

// setupTestDB opens a database in a temp directory and closes it on cleanup.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "routines.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// sampleRoutine builds a morning routine with two products.
func sampleRoutine(name string) *models.Routine {
	r := models.NewRoutine(name, models.Morning)
	r.AddStep("Cleanse", models.NewProduct("Gentle Cleanser", "CeraVe"))
	r.AddStep("Treat", models.NewProduct("Vitamin C Serum", "Timeless"))
	return r
}

func strPtr(s string) *string {
	return &s
}
