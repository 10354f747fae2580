package sqlgen

import (
	"strings"

	"parquet-explorer/internal/domain"
)

// ExportSQL compiles SELECT {columns|*} FROM {table} [WHERE {clause}] [LIMIT n].
// The WHERE clause is inserted verbatim.
func ExportSQL(cfg domain.ExportConfig) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(columnList(cfg.Columns))
	b.WriteString(" FROM ")
	b.WriteString(QuoteIdentifier(cfg.TableName))
	if where := strings.TrimSpace(cfg.WhereClause); where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(limitClause(cfg.Limit))
	return b.String()
}

// ShareableSQL renders the export query over several lines for copy and paste.
func ShareableSQL(cfg domain.ExportConfig) string {
	lines := []string{
		"SELECT " + columnList(cfg.Columns),
		"FROM " + QuoteIdentifier(cfg.TableName),
	}
	if where := strings.TrimSpace(cfg.WhereClause); where != "" {
		lines = append(lines, "WHERE "+where)
	}
	if l := strings.TrimSpace(limitClause(cfg.Limit)); l != "" {
		lines = append(lines, l)
	}
	return strings.Join(lines, "\n")
}

func columnList(cols []string) string {
	if len(cols) == 0 {
		return "*"
	}
	return strings.Join(quoteAll(cols), ", ")
}
