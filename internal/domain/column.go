package domain

import "strings"

// DefaultTable is the table a loaded Parquet file is materialized into when no
// other name is given. Profiling and trend analysis target it by default.
const DefaultTable = "parquet_data"

// numericTypeKeywords is the closed set of substrings that mark an
// engine-reported type name as numeric.
var numericTypeKeywords = []string{"INT", "DOUBLE", "DECIMAL", "FLOAT", "NUMERIC"}

// ColumnDescriptor is a column name with its engine-reported type name.
type ColumnDescriptor struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// IsNumeric reports whether the column type is classified as numeric.
func (c ColumnDescriptor) IsNumeric() bool {
	return IsNumericType(c.Type)
}

// IsNumericType classifies a type name as numeric by substring match against
// INT, DOUBLE, DECIMAL, FLOAT and NUMERIC. The match is case-sensitive since the
// engine reports upper-case names; unknown or custom types are non-numeric.
func IsNumericType(typeName string) bool {
	for _, kw := range numericTypeKeywords {
		if strings.Contains(typeName, kw) {
			return true
		}
	}
	return false
}

// TableInfo is the row count and schema of a table.
type TableInfo struct {
	Name     string             `json:"name"`
	RowCount int64              `json:"row_count"`
	Columns  []ColumnDescriptor `json:"columns"`
}
