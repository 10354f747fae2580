// Package multitable loads stored files as tables and combines tables with
// joins and unions.
package multitable

import (
	"context"
	"log/slog"
	"time"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/engine"
	"parquet-explorer/internal/service/catalog"
	"parquet-explorer/internal/sqlgen"
)

// DefaultPreviewRows is the preview size when the caller asks for none.
const DefaultPreviewRows = 10

// Executor runs multi-table operations against one engine session.
type Executor struct {
	q            domain.Querier
	materializer domain.Materializer
	files        domain.FileRepository
	catalog      *catalog.Introspector
	logger       *slog.Logger
}

// NewExecutor creates a new Executor. files and materializer may be nil when
// file loading is not needed.
func NewExecutor(q domain.Querier, materializer domain.Materializer, files domain.FileRepository, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		q:            q,
		materializer: materializer,
		files:        files,
		catalog:      catalog.NewIntrospector(q),
		logger:       logger.With("component", "multitable"),
	}
}

// Join materializes the join into result and returns its row count. The
// table exists before its count is read: the count is a second round trip.
func (e *Executor) Join(ctx context.Context, cfg domain.JoinConfig, result string) (int64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if err := validateResultName(result); err != nil {
		return 0, err
	}
	if err := e.q.Exec(ctx, sqlgen.JoinSQL(cfg, result)); err != nil {
		return 0, err
	}
	n, err := e.catalog.CountRows(ctx, result)
	if err != nil {
		return 0, err
	}
	e.logger.Info("join materialized", "result", result, "left", cfg.LeftTable, "right", cfg.RightTable, "rows", n)
	return n, nil
}

// Union materializes the union of the configured tables into result and
// returns its row count, read in a second round trip.
func (e *Executor) Union(ctx context.Context, cfg domain.UnionConfig, result string) (int64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if err := validateResultName(result); err != nil {
		return 0, err
	}
	if err := e.q.Exec(ctx, sqlgen.UnionSQL(cfg, result)); err != nil {
		return 0, err
	}
	n, err := e.catalog.CountRows(ctx, result)
	if err != nil {
		return 0, err
	}
	e.logger.Info("union materialized", "result", result, "tables", len(cfg.Tables), "rows", n)
	return n, nil
}

// DropTable drops a table. Dropping a table that does not exist succeeds.
func (e *Executor) DropTable(ctx context.Context, table string) error {
	return e.q.Exec(ctx, sqlgen.DropTableSQL(table))
}

// LoadFile materializes a stored file into tableName and snapshots its row
// and column counts.
func (e *Executor) LoadFile(ctx context.Context, fileID, tableName string) (*domain.LoadedTable, error) {
	if e.files == nil || e.materializer == nil {
		return nil, domain.ErrValidation("file loading is not configured")
	}
	if err := validateResultName(tableName); err != nil {
		return nil, err
	}
	f, err := e.files.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if err := e.materializer.Materialize(ctx, tableName, f.Data); err != nil {
		return nil, err
	}
	info, err := e.catalog.TableInfo(ctx, tableName)
	if err != nil {
		return nil, err
	}
	return &domain.LoadedTable{
		ID:          f.ID,
		Name:        f.Name,
		TableName:   tableName,
		RowCount:    info.RowCount,
		ColumnCount: len(info.Columns),
		Columns:     info.Columns,
		LoadedAt:    time.Now().UTC(),
	}, nil
}

// ListLoadedTables lists tables of the default schema other than the
// default table, sorted by name.
func (e *Executor) ListLoadedTables(ctx context.Context) ([]string, error) {
	all, err := e.catalog.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(all))
	for _, t := range all {
		if t != domain.DefaultTable {
			out = append(out, t)
		}
	}
	return out, nil
}

// Preview returns the first rows of a table as normalized records.
// limit <= 0 uses DefaultPreviewRows.
func (e *Executor) Preview(ctx context.Context, table string, limit int) ([]engine.Record, []string, error) {
	if limit <= 0 {
		limit = DefaultPreviewRows
	}
	rs, err := e.q.Query(ctx, sqlgen.PreviewSQL(table, limit))
	if err != nil {
		return nil, nil, err
	}
	return engine.Records(rs), rs.Columns, nil
}

func validateResultName(name string) error {
	if err := sqlgen.ValidateTableName(name); err != nil {
		return domain.ErrValidation("%s", err.Error())
	}
	return nil
}
