package sqlgen

import (
	"fmt"

	"parquet-explorer/internal/domain"
)

// ChartSQL compiles a chart config into one of two shapes. With an
// aggregation the rows are grouped by GroupColumn and ordered by the
// aggregate in OrderBy direction (ASC unless DESC). Without one, rows are
// selected directly and ordered by XColumn ascending; OrderBy is ignored.
// Both shapes alias their outputs x_value and y_value.
func ChartSQL(cfg domain.ChartConfig) string {
	table := QuoteIdentifier(cfg.TableName)
	y := QuoteIdentifier(cfg.YColumn)

	if cfg.Aggregated() {
		group := QuoteIdentifier(cfg.GroupColumn())
		dir := domain.SortAsc
		if cfg.OrderBy == domain.SortDesc {
			dir = domain.SortDesc
		}
		return fmt.Sprintf(
			"SELECT %s AS x_value, %s(%s) AS y_value FROM %s WHERE %s IS NOT NULL AND %s IS NOT NULL GROUP BY %s ORDER BY y_value %s%s",
			group, cfg.Aggregation, y, table, group, y, group, dir, limitClause(cfg.Limit),
		)
	}

	x := QuoteIdentifier(cfg.XColumn)
	return fmt.Sprintf(
		"SELECT %s AS x_value, %s AS y_value FROM %s WHERE %s IS NOT NULL AND %s IS NOT NULL ORDER BY %s%s",
		x, y, table, x, y, x, limitClause(cfg.Limit),
	)
}
