// Package engine owns the embedded DuckDB session and the shaping of its
// results into JSON-safe values.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	"golang.org/x/sync/semaphore"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/sqlgen"
)

// Session is a single serialized DuckDB session. All round trips go through
// one pinned connection and are admitted one at a time; callers that arrive
// concurrently wait (or give up when their context is cancelled) but are not
// otherwise coordinated.
type Session struct {
	db     *sql.DB
	conn   *sql.Conn
	sem    *semaphore.Weighted
	ownsDB bool
	tmpDir string
	logger *slog.Logger
}

var (
	_ domain.Querier      = (*Session)(nil)
	_ domain.Materializer = (*Session)(nil)
)

// Open opens a DuckDB database at path ("" for in-memory) and pins a session
// on it. The session owns the database and closes it on Close.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Session, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	s, err := NewSession(ctx, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

// NewSession pins a session on an already opened DuckDB handle. The caller
// keeps ownership of db.
func NewSession(ctx context.Context, db *sql.DB, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire duckdb connection: %w", err)
	}
	return &Session{
		db:     db,
		conn:   conn,
		sem:    semaphore.NewWeighted(1),
		logger: logger.With("component", "engine"),
	}, nil
}

// SetTempDir sets the directory used for files handed to the engine.
// Defaults to os.TempDir().
func (s *Session) SetTempDir(dir string) {
	s.tmpDir = dir
}

// Query runs one statement and returns its full result.
func (s *Session) Query(ctx context.Context, query string, args ...any) (*domain.ResultSet, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	s.logger.Debug("query", "sql", query)
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, engineError(query, err)
	}
	defer rows.Close() //nolint:errcheck

	rs, err := scanRows(rows)
	if err != nil {
		return nil, engineError(query, err)
	}
	return rs, nil
}

// Exec runs one statement whose result is not needed.
func (s *Session) Exec(ctx context.Context, query string, args ...any) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	s.logger.Debug("exec", "sql", query)
	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return engineError(query, err)
	}
	return nil
}

// Materialize creates (or replaces) tableName from a Parquet file held in
// memory. The buffer is written to a temporary file that the engine reads.
func (s *Session) Materialize(ctx context.Context, tableName string, data []byte) error {
	if err := sqlgen.ValidateTableName(tableName); err != nil {
		return domain.ErrValidation("%s", err.Error())
	}
	if len(data) == 0 {
		return domain.ErrValidation("file is empty")
	}

	f, err := os.CreateTemp(s.tmpDir, "materialize-*.parquet")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path) //nolint:errcheck

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := s.Exec(ctx, sqlgen.MaterializeParquetSQL(tableName, path)); err != nil {
		return err
	}
	s.logger.Info("materialized table", "table", tableName, "bytes", len(data))
	return nil
}

// Close releases the pinned connection and, for sessions created by Open,
// the database.
func (s *Session) Close() error {
	err := s.conn.Close()
	if s.ownsDB {
		if cerr := s.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func engineError(query string, err error) error {
	return &domain.EngineError{Message: err.Error(), SQL: query}
}

// scanRows reads all rows into a ResultSet with the engine's raw values.
func scanRows(rows *sql.Rows) (*domain.ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types := make([]string, len(cols))
	if cts, err := rows.ColumnTypes(); err == nil {
		for i, ct := range cts {
			types[i] = ct.DatabaseTypeName()
		}
	}

	rs := &domain.ResultSet{Columns: cols, Types: types, Rows: [][]any{}}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rs.Rows = append(rs.Rows, vals)
	}
	return rs, rows.Err()
}
