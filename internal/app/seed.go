package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/service/files"
)

// seedTargetTable materializes the Parquet file at path into table, replacing
// any previous contents.
func seedTargetTable(ctx context.Context, m domain.Materializer, path, table string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	rows, cols, err := files.Inspect(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := m.Materialize(ctx, table, data); err != nil {
		return err
	}
	logger.Info("seed file loaded", "path", path, "table", table, "rows", rows, "columns", cols)
	return nil
}
