package db

import (
	"context"
	"path/filepath"
	"testing"
)

// OpenTestPool opens a migrated pool in t.TempDir() and closes it when the
// test ends.
func OpenTestPool(t *testing.T) *Pool {
	t.Helper()

	pool, err := OpenPool(filepath.Join(t.TempDir(), "history.sqlite"), 4)
	if err != nil {
		t.Fatalf("open test sqlite: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if err := Migrate(context.Background(), pool.Write); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return pool
}
