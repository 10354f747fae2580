package domain

import (
	"strings"
	"time"
)

// Result table names used when the caller does not choose one.
const (
	DefaultJoinResult  = "joined_data"
	DefaultUnionResult = "union_data"
)

// JoinType is the SQL join kind.
type JoinType string

const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
)

// JoinConfig joins two loaded tables on one column each.
type JoinConfig struct {
	LeftTable   string   `json:"left_table"`
	RightTable  string   `json:"right_table"`
	JoinType    JoinType `json:"join_type"`
	LeftColumn  string   `json:"left_column"`
	RightColumn string   `json:"right_column"`
}

// Validate checks the config locally, before any SQL is compiled.
func (c JoinConfig) Validate() error {
	if strings.TrimSpace(c.LeftTable) == "" || strings.TrimSpace(c.RightTable) == "" {
		return ErrValidation("join requires a left and a right table")
	}
	if strings.TrimSpace(c.LeftColumn) == "" || strings.TrimSpace(c.RightColumn) == "" {
		return ErrValidation("join requires a left and a right column")
	}
	switch c.JoinType {
	case JoinInner, JoinLeft, JoinRight, JoinFull:
	default:
		return ErrValidation("unsupported join type %q", c.JoinType)
	}
	return nil
}

// UnionType selects set or bag semantics.
type UnionType string

const (
	UnionDistinct UnionType = "UNION"
	UnionAll      UnionType = "UNION ALL"
)

// UnionConfig stacks tables in the given order.
type UnionConfig struct {
	Tables    []string  `json:"tables"`
	UnionType UnionType `json:"union_type"`
}

// Validate checks the config locally, before any SQL is compiled.
func (c UnionConfig) Validate() error {
	if len(c.Tables) < 2 {
		return ErrValidation("union requires at least two tables")
	}
	for _, t := range c.Tables {
		if strings.TrimSpace(t) == "" {
			return ErrValidation("union table name must not be empty")
		}
	}
	switch c.UnionType {
	case UnionDistinct, UnionAll:
	default:
		return ErrValidation("unsupported union type %q", c.UnionType)
	}
	return nil
}

// LoadedTable is a stored file materialized into the engine. Counts are
// snapshots taken at load time.
type LoadedTable struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	TableName   string             `json:"table_name"`
	RowCount    int64              `json:"row_count"`
	ColumnCount int                `json:"column_count"`
	Columns     []ColumnDescriptor `json:"columns"`
	LoadedAt    time.Time          `json:"loaded_at"`
}
