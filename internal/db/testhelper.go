package db

import (
	"path/filepath"
	"testing"
)

// OpenTestStore opens a migrated store in t.TempDir() and registers cleanup.
func OpenTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "store.sqlite"), 2)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
