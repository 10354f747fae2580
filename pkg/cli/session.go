package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"parquet-explorer/internal/engine"
	"parquet-explorer/internal/service/files"
)

// loadedFile is an in-memory engine session holding one Parquet file.
type loadedFile struct {
	session *engine.Session
	table   string
	rows    int64
	columns int
}

func (l *loadedFile) Close() error {
	return l.session.Close()
}

// loadFile reads the Parquet file at path and materializes it into the table
// named by --table in a fresh in-memory session.
func loadFile(ctx context.Context, cmd *cobra.Command, path string) (*loadedFile, error) {
	table, _ := cmd.Root().PersistentFlags().GetString("table")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	rows, cols, err := files.Inspect(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s, err := engine.Open(ctx, "", cmdLogger(cmd))
	if err != nil {
		return nil, err
	}
	if err := s.Materialize(ctx, table, data); err != nil {
		_ = s.Close()
		return nil, err
	}
	return &loadedFile{session: s, table: table, rows: rows, columns: cols}, nil
}
