package domain

import (
	"fmt"
	"strings"
)

// ExportFormat is the serialization of an export.
type ExportFormat string

const (
	FormatCSV     ExportFormat = "csv"
	FormatJSON    ExportFormat = "json"
	FormatParquet ExportFormat = "parquet"
)

// ContentType returns the MIME type for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// ExportConfig selects the rows written by an export. WhereClause is a raw
// SQL boolean expression inserted after WHERE; Limit 0 means no limit.
type ExportConfig struct {
	TableName   string       `json:"table_name" yaml:"table_name"`
	Format      ExportFormat `json:"format" yaml:"format"`
	Columns     []string     `json:"columns,omitempty" yaml:"columns"`
	WhereClause string       `json:"where_clause,omitempty" yaml:"where_clause"`
	Limit       int          `json:"limit,omitempty" yaml:"limit"`
}

// Validate checks the config locally, before any SQL is compiled.
func (c ExportConfig) Validate() error {
	if strings.TrimSpace(c.TableName) == "" {
		return ErrValidation("export table name is required")
	}
	switch c.Format {
	case FormatCSV, FormatJSON, FormatParquet:
	default:
		return ErrValidation("unsupported export format %q", c.Format)
	}
	if c.Limit < 0 {
		return ErrValidation("export limit must not be negative")
	}
	return nil
}

// Filename returns the download name of the export, e.g. "sales_export.csv".
func (c ExportConfig) Filename() string {
	return fmt.Sprintf("%s_export.%s", c.TableName, c.Format)
}
