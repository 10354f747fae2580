// Package db opens the local SQLite store that holds saved queries, the
// query history and uploaded files.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Mode selects how a pool is tuned for the store file.
type Mode string

const (
	// ModeWrite is a single-connection pool with immediate transactions.
	ModeWrite Mode = "write"
	// ModeRead is a multi-connection pool for readers.
	ModeRead Mode = "read"
)

const (
	busyTimeoutMs   = "5000"
	synchronous     = "NORMAL"
	journalMode     = "WAL"
	defaultReadConn = 4
)

// OpenSQLite opens a pool for the SQLite file at path and pings it. Every
// pool uses WAL, a 5s busy timeout and foreign keys. Write pools hold one
// connection; read pools hold maxOpen (0 means 4).
func OpenSQLite(path string, mode Mode, maxOpen int) (*sql.DB, error) {
	if mode != ModeRead && mode != ModeWrite {
		return nil, fmt.Errorf("invalid SQLite mode %q: must be %q or %q", mode, ModeRead, ModeWrite)
	}

	db, err := sql.Open("sqlite3", dsn(path, mode))
	if err != nil {
		return nil, fmt.Errorf("open sqlite (%s): %w", mode, err)
	}

	if mode == ModeWrite {
		maxOpen = 1
	} else if maxOpen <= 0 {
		maxOpen = defaultReadConn
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite (%s): %w", mode, err)
	}
	return db, nil
}

func dsn(path string, mode Mode) string {
	params := url.Values{}
	params.Set("_journal_mode", journalMode)
	params.Set("_busy_timeout", busyTimeoutMs)
	params.Set("_synchronous", synchronous)
	params.Set("_foreign_keys", "on")
	if mode == ModeWrite {
		params.Set("_txlock", "immediate")
	}
	return path + "?" + params.Encode()
}

// Store is the write and read pool pair over one store file.
type Store struct {
	Write *sql.DB
	Read  *sql.DB
}

// Open creates the store file's directory if needed, opens both pools and
// applies pending migrations on the write pool.
func Open(path string, readMaxOpen int) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	write, err := OpenSQLite(path, ModeWrite, 0)
	if err != nil {
		return nil, err
	}
	read, err := OpenSQLite(path, ModeRead, readMaxOpen)
	if err != nil {
		_ = write.Close()
		return nil, err
	}

	s := &Store{Write: write, Read: read}
	if err := RunMigrations(write); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close closes both pools.
func (s *Store) Close() error {
	return errors.Join(s.Read.Close(), s.Write.Close())
}
