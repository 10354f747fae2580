package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"parquet-explorer/internal/engine"
	"parquet-explorer/internal/sqlgen"
)

// OpenTestSession opens an in-memory DuckDB session and registers cleanup.
func OpenTestSession(t *testing.T) *engine.Session {
	t.Helper()

	s, err := engine.Open(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("open test duckdb: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// ParquetFixture runs selectSQL in the session, writes the result as a
// Parquet file with COPY and returns the file's bytes.
func ParquetFixture(t *testing.T, s *engine.Session, selectSQL string) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.parquet")
	copySQL := "COPY (" + selectSQL + ") TO " + sqlgen.QuoteLiteral(path) + " (FORMAT PARQUET)"
	if err := s.Exec(context.Background(), copySQL); err != nil {
		t.Fatalf("write parquet fixture: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read parquet fixture: %v", err)
	}
	return data
}

// MustExec runs statements in order and fails the test on the first error.
func MustExec(t *testing.T, s *engine.Session, statements ...string) {
	t.Helper()

	for _, stmt := range statements {
		if err := s.Exec(context.Background(), stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
}
