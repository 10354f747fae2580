package domain

import "strings"

// ChartType is the kind of chart a ChartConfig renders.
type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartArea    ChartType = "area"
	ChartScatter ChartType = "scatter"
	ChartPie     ChartType = "pie"
)

// Aggregation is an aggregate function applied to the chart's y column.
type Aggregation string

const (
	AggSum   Aggregation = "SUM"
	AggAvg   Aggregation = "AVG"
	AggCount Aggregation = "COUNT"
	AggMin   Aggregation = "MIN"
	AggMax   Aggregation = "MAX"
)

// SortOrder is the direction of the aggregated chart ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ChartConfig describes a chart over one table. OrderBy only affects the
// aggregated shape; direct charts are always ordered by XColumn ascending.
type ChartConfig struct {
	ID            string      `json:"id,omitempty" yaml:"id"`
	Name          string      `json:"name,omitempty" yaml:"name"`
	Type          ChartType   `json:"type" yaml:"type"`
	TableName     string      `json:"table_name" yaml:"table_name"`
	XColumn       string      `json:"x_column" yaml:"x_column"`
	YColumn       string      `json:"y_column" yaml:"y_column"`
	GroupByColumn string      `json:"group_by_column,omitempty" yaml:"group_by_column"`
	Aggregation   Aggregation `json:"aggregation,omitempty" yaml:"aggregation"`
	Limit         int         `json:"limit,omitempty" yaml:"limit"`
	OrderBy       SortOrder   `json:"order_by,omitempty" yaml:"order_by"`
}

// Aggregated reports whether the config selects the grouped shape.
func (c ChartConfig) Aggregated() bool {
	return c.Aggregation != ""
}

// GroupColumn returns the grouping column: GroupByColumn when set, else XColumn.
func (c ChartConfig) GroupColumn() string {
	if c.GroupByColumn != "" {
		return c.GroupByColumn
	}
	return c.XColumn
}

// Validate checks the config locally, before any SQL is compiled.
func (c ChartConfig) Validate() error {
	if strings.TrimSpace(c.TableName) == "" {
		return ErrValidation("chart table name is required")
	}
	if strings.TrimSpace(c.XColumn) == "" {
		return ErrValidation("chart x column is required")
	}
	if strings.TrimSpace(c.YColumn) == "" {
		return ErrValidation("chart y column is required")
	}
	switch c.Type {
	case ChartBar, ChartLine, ChartArea, ChartScatter, ChartPie:
	case "":
		return ErrValidation("chart type is required")
	default:
		return ErrValidation("unsupported chart type %q", c.Type)
	}
	switch c.Aggregation {
	case "", AggSum, AggAvg, AggCount, AggMin, AggMax:
	default:
		return ErrValidation("unsupported aggregation %q", c.Aggregation)
	}
	switch c.OrderBy {
	case "", SortAsc, SortDesc:
	default:
		return ErrValidation("unsupported sort order %q", c.OrderBy)
	}
	if c.Limit < 0 {
		return ErrValidation("chart limit must not be negative")
	}
	return nil
}

// ChartData is the chart series: one label per result row and datasets whose
// values align with Labels by index.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one named numeric series.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}
