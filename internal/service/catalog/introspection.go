// Package catalog discovers tables and columns through the engine's
// information_schema.
package catalog

import (
	"context"
	"fmt"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/engine"
	"parquet-explorer/internal/sqlgen"
)

// Introspector answers catalog questions with one round trip each.
type Introspector struct {
	q domain.Querier
}

// NewIntrospector creates a new Introspector.
func NewIntrospector(q domain.Querier) *Introspector {
	return &Introspector{q: q}
}

// ListTables returns the tables of the default schema sorted by name.
func (i *Introspector) ListTables(ctx context.Context) ([]string, error) {
	rs, err := i.q.Query(ctx, sqlgen.ListTablesSQL)
	if err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		tables = append(tables, stringValue(row[0]))
	}
	return tables, nil
}

// ListColumns returns the columns of a table in ordinal position order.
// An unknown table yields an empty list.
func (i *Introspector) ListColumns(ctx context.Context, table string) ([]domain.ColumnDescriptor, error) {
	rs, err := i.q.Query(ctx, sqlgen.ListColumnsSQL, table)
	if err != nil {
		return nil, err
	}
	cols := make([]domain.ColumnDescriptor, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		cols = append(cols, domain.ColumnDescriptor{
			Name: stringValue(row[0]),
			Type: stringValue(row[1]),
		})
	}
	return cols, nil
}

// IsNumeric classifies an engine type name.
func (i *Introspector) IsNumeric(typeName string) bool {
	return domain.IsNumericType(typeName)
}

// CountRows returns the number of rows in a table.
func (i *Introspector) CountRows(ctx context.Context, table string) (int64, error) {
	rs, err := i.q.Query(ctx, sqlgen.CountSQL(table))
	if err != nil {
		return 0, err
	}
	if len(rs.Rows) == 0 {
		return 0, fmt.Errorf("count %s: no rows returned", table)
	}
	n, ok := engine.ToInt64(rs.Rows[0][0])
	if !ok {
		return 0, fmt.Errorf("count %s: unexpected value %T", table, rs.Rows[0][0])
	}
	return n, nil
}

// TableInfo returns the row count and columns of a table.
func (i *Introspector) TableInfo(ctx context.Context, table string) (*domain.TableInfo, error) {
	count, err := i.CountRows(ctx, table)
	if err != nil {
		return nil, err
	}
	cols, err := i.ListColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	return &domain.TableInfo{Name: table, RowCount: count, Columns: cols}, nil
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
