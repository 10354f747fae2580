package sqlgen

import "fmt"

// ListTablesSQL lists base tables of the default schema, sorted by name.
const ListTablesSQL = `SELECT table_name FROM information_schema.tables WHERE table_schema = 'main' ORDER BY table_name`

// ListColumnsSQL lists the columns of the table bound to the single
// parameter, in ordinal position order.
const ListColumnsSQL = `SELECT column_name, data_type FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position`

// CountSQL counts the rows of a table.
func CountSQL(table string) string {
	return "SELECT COUNT(*) AS count FROM " + QuoteIdentifier(table)
}

// ColumnStatsSQL returns the total, non-null and distinct counts of a column.
func ColumnStatsSQL(table, column string) string {
	c := QuoteIdentifier(column)
	return fmt.Sprintf(
		"SELECT COUNT(*) AS count, COUNT(%s) AS non_null_count, COUNT(DISTINCT %s) AS unique_count FROM %s",
		c, c, QuoteIdentifier(table),
	)
}

// NumericStatsSQL returns min, max, avg, median and stddev over non-null values.
func NumericStatsSQL(table, column string) string {
	c := QuoteIdentifier(column)
	return fmt.Sprintf(
		"SELECT MIN(%s) AS min_value, MAX(%s) AS max_value, AVG(%s) AS avg_value, MEDIAN(%s) AS median_value, STDDEV(%s) AS stddev_value FROM %s WHERE %s IS NOT NULL",
		c, c, c, c, c, QuoteIdentifier(table), c,
	)
}

// TopValuesSQL returns the most frequent non-null values of a column.
func TopValuesSQL(table, column string, limit int) string {
	c := QuoteIdentifier(column)
	return fmt.Sprintf(
		"SELECT %s AS value, COUNT(*) AS value_count FROM %s WHERE %s IS NOT NULL GROUP BY %s ORDER BY value_count DESC%s",
		c, QuoteIdentifier(table), c, c, limitClause(limit),
	)
}

// DateProbeSQL is the one-row existence probe for a candidate date column.
func DateProbeSQL(table, column string) string {
	return fmt.Sprintf("SELECT %s FROM %s LIMIT 1", QuoteIdentifier(column), QuoteIdentifier(table))
}

// revenueExpr is the revenue proxy used by trend and stats queries.
const revenueExpr = "COALESCE(total_amount, fare_amount, 0)"

// TrendSQL buckets rows by day of the date column, ascending, keeping the
// earliest maxPoints buckets.
func TrendSQL(table, dateColumn string, maxPoints int) string {
	c := QuoteIdentifier(dateColumn)
	day := fmt.Sprintf("DATE_TRUNC('day', %s::TIMESTAMP)", c)
	return fmt.Sprintf(
		"SELECT %s AS bucket, COUNT(*) AS trips, SUM(%s) AS revenue, AVG(%s) AS avg_fare FROM %s WHERE %s IS NOT NULL GROUP BY %s ORDER BY bucket%s",
		day, revenueExpr, revenueExpr, QuoteIdentifier(table), c, day, limitClause(maxPoints),
	)
}

// StatsSQL summarizes trips, revenue, distance and passengers of a table.
func StatsSQL(table string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) AS total_records, SUM(%s) AS total_revenue, AVG(%s) AS avg_fare, AVG(COALESCE(trip_distance, 0)) AS avg_distance, AVG(COALESCE(passenger_count, 0)) AS avg_passengers FROM %s",
		revenueExpr, revenueExpr, QuoteIdentifier(table),
	)
}

// HalvesSQL splits the rows of a table, in scan order, into a first and a
// second half and sums revenue and trips for each.
func HalvesSQL(table string) string {
	t := QuoteIdentifier(table)
	return fmt.Sprintf(
		"WITH half_data AS (SELECT CASE WHEN ROW_NUMBER() OVER () <= (SELECT COUNT(*) / 2 FROM %s) THEN 'first' ELSE 'second' END AS half, %s AS revenue FROM %s) "+
			"SELECT half, SUM(revenue) AS total_revenue, COUNT(*) AS trip_count FROM half_data GROUP BY half",
		t, revenueExpr, t,
	)
}
