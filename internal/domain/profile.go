package domain

import "math"

// ProfileKind discriminates the ColumnProfile variants.
type ProfileKind string

const (
	ProfileKindNumeric ProfileKind = "numeric"
	ProfileKindGeneral ProfileKind = "general"
)

// TopValuesThreshold is the largest distinct count for which a column's most
// frequent values are collected.
const TopValuesThreshold = 100

// TopValuesLimit caps the number of frequent values reported per column.
const TopValuesLimit = 10

// ColumnProfile holds the statistics collected for one column. The numeric
// extension is set only for the numeric kind, and only when its statistics
// query succeeded.
type ColumnProfile struct {
	Name           string        `json:"name"`
	Type           string        `json:"type"`
	Kind           ProfileKind   `json:"kind"`
	Count          int64         `json:"count"`
	NullCount      int64         `json:"null_count"`
	NullPercentage float64       `json:"null_percentage"`
	UniqueCount    int64         `json:"unique_count"`
	Cardinality    float64       `json:"cardinality"`
	Numeric        *NumericStats `json:"numeric,omitempty"`
	TopValues      []TopValue    `json:"top_values,omitempty"`
}

// NumericStats is the numeric extension of a ColumnProfile, computed over
// non-null values. Min and Max keep the engine's value type. A statistic the
// engine reports as NaN or ±Inf is nil.
type NumericStats struct {
	Min    any      `json:"min"`
	Max    any      `json:"max"`
	Avg    *float64 `json:"avg"`
	Median *float64 `json:"median"`
	StdDev *float64 `json:"std_dev"`
}

// TopValue is one frequent value. Percentage is relative to non-null rows.
type TopValue struct {
	Value      any     `json:"value"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DataProfile is the profile of a whole table.
type DataProfile struct {
	Table            string          `json:"table"`
	TotalRows        int64           `json:"total_rows"`
	TotalColumns     int             `json:"total_columns"`
	Columns          []ColumnProfile `json:"columns"`
	DataQualityScore int             `json:"data_quality_score"`
	Completeness     float64         `json:"completeness"`
}

// NewColumnProfile derives the null and cardinality figures from raw counts.
// A zero row count yields 0 for both ratios.
func NewColumnProfile(col ColumnDescriptor, count, nonNull, unique int64) ColumnProfile {
	p := ColumnProfile{
		Name:        col.Name,
		Type:        col.Type,
		Kind:        ProfileKindGeneral,
		Count:       count,
		NullCount:   count - nonNull,
		UniqueCount: unique,
	}
	if col.IsNumeric() {
		p.Kind = ProfileKindNumeric
	}
	if count > 0 {
		p.NullPercentage = float64(p.NullCount) / float64(count) * 100
		p.Cardinality = float64(unique) / float64(count)
	}
	return p
}

// WantsTopValues reports whether frequent values should be collected.
func (p ColumnProfile) WantsTopValues() bool {
	return p.UniqueCount <= TopValuesThreshold
}

// NonNullCount returns the number of non-null values.
func (p ColumnProfile) NonNullCount() int64 {
	return p.Count - p.NullCount
}

// Completeness returns the percentage of non-null cells over all columns.
// An empty table (zero cells) is fully complete.
func Completeness(totalRows int64, columns []ColumnProfile) float64 {
	totalCells := totalRows * int64(len(columns))
	if totalCells == 0 {
		return 100
	}
	var nulls int64
	for _, c := range columns {
		nulls += c.NullCount
	}
	return float64(totalCells-nulls) / float64(totalCells) * 100
}

// QualityScore computes round(min(completeness*0.5 + cardinalityScore*30 + 20, 100)),
// where cardinalityScore is the mean of min(cardinality, 1) across columns and
// 0 when there are no columns.
func QualityScore(completeness float64, columns []ColumnProfile) int {
	var cardinalityScore float64
	if len(columns) > 0 {
		var sum float64
		for _, c := range columns {
			sum += math.Min(c.Cardinality, 1)
		}
		cardinalityScore = sum / float64(len(columns))
	}
	return int(math.Round(math.Min(completeness*0.5+cardinalityScore*30+20, 100)))
}
