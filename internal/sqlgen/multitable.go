package sqlgen

import (
	"fmt"
	"strings"

	"parquet-explorer/internal/domain"
)

// JoinSQL compiles a join into a CREATE OR REPLACE TABLE materialization.
// SELECT * keeps every column from both sides.
func JoinSQL(cfg domain.JoinConfig, result string) string {
	return fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS SELECT * FROM %s AS l %s JOIN %s AS r ON l.%s = r.%s",
		QuoteIdentifier(result),
		QuoteIdentifier(cfg.LeftTable),
		cfg.JoinType,
		QuoteIdentifier(cfg.RightTable),
		QuoteIdentifier(cfg.LeftColumn),
		QuoteIdentifier(cfg.RightColumn),
	)
}

// UnionSQL compiles a union of all tables, in order, into a
// CREATE OR REPLACE TABLE materialization.
func UnionSQL(cfg domain.UnionConfig, result string) string {
	selects := make([]string, len(cfg.Tables))
	for i, t := range cfg.Tables {
		selects[i] = "SELECT * FROM " + QuoteIdentifier(t)
	}
	return fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS %s",
		QuoteIdentifier(result),
		strings.Join(selects, " "+string(cfg.UnionType)+" "),
	)
}

// DropTableSQL drops a table if it exists.
func DropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + QuoteIdentifier(table)
}

// PreviewSQL selects the first rows of a table.
func PreviewSQL(table string, limit int) string {
	return "SELECT * FROM " + QuoteIdentifier(table) + limitClause(limit)
}

// MaterializeParquetSQL creates or replaces a table from a Parquet file path.
func MaterializeParquetSQL(table, path string) string {
	return fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM read_parquet(%s)",
		QuoteIdentifier(table), QuoteLiteral(path))
}
