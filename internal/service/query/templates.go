package query

import "parquet-explorer/internal/domain"

var templates = []domain.SavedQuery{
	{
		ID:          "template-1",
		Name:        "Select All",
		SQL:         "SELECT * FROM parquet_data LIMIT 100",
		Description: "View first 100 rows",
		Tags:        []string{"basic"},
	},
	{
		ID:          "template-2",
		Name:        "Count Rows",
		SQL:         "SELECT COUNT(*) AS total_rows FROM parquet_data",
		Description: "Count total rows in dataset",
		Tags:        []string{"basic", "aggregation"},
	},
	{
		ID:   "template-3",
		Name: "Column Summary",
		SQL: `SELECT
  COUNT(*) AS total_rows,
  COUNT(DISTINCT column_name) AS unique_values,
  COUNT(column_name) AS non_null_count
FROM parquet_data`,
		Description: "Get summary statistics for a column",
		Tags:        []string{"analysis"},
	},
	{
		ID:   "template-4",
		Name: "Group By Aggregation",
		SQL: `SELECT
  column_name,
  COUNT(*) AS count,
  AVG(numeric_column) AS avg_value
FROM parquet_data
GROUP BY column_name
ORDER BY count DESC
LIMIT 10`,
		Description: "Group and aggregate data",
		Tags:        []string{"aggregation", "grouping"},
	},
	{
		ID:   "template-5",
		Name: "Date Range Filter",
		SQL: `SELECT * FROM parquet_data
WHERE date_column BETWEEN '2024-01-01' AND '2024-12-31'
LIMIT 100`,
		Description: "Filter by date range",
		Tags:        []string{"filter", "date"},
	},
}

// Templates returns the built-in starter queries. Their placeholder column
// names are meant to be edited before running.
func Templates() []domain.SavedQuery {
	out := make([]domain.SavedQuery, len(templates))
	for i, t := range templates {
		t.Tags = append([]string(nil), t.Tags...)
		out[i] = t
	}
	return out
}
