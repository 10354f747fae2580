package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/testutil"
)

func TestProfiler_Profile(t *testing.T) {
	s := testutil.OpenTestSession(t)
	testutil.MustExec(t, s,
		"CREATE TABLE parquet_data (fare DOUBLE, city VARCHAR, trip_id BIGINT)",
		`INSERT INTO parquet_data VALUES
			(10.0, 'nyc', 1),
			(20.0, 'nyc', 2),
			(30.0, 'sf', 3),
			(NULL, 'nyc', 4)`,
	)

	prof, err := NewProfiler(s, nil).Profile(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "parquet_data", prof.Table)
	assert.Equal(t, int64(4), prof.TotalRows)
	assert.Equal(t, 3, prof.TotalColumns)
	require.Len(t, prof.Columns, 3)
	assert.Equal(t, []string{"fare", "city", "trip_id"},
		[]string{prof.Columns[0].Name, prof.Columns[1].Name, prof.Columns[2].Name})

	fare := prof.Columns[0]
	assert.Equal(t, domain.ProfileKindNumeric, fare.Kind)
	assert.Equal(t, int64(1), fare.NullCount)
	assert.InDelta(t, 25.0, fare.NullPercentage, 1e-9)
	assert.Equal(t, int64(3), fare.UniqueCount)
	assert.InDelta(t, 0.75, fare.Cardinality, 1e-9)
	require.NotNil(t, fare.Numeric)
	assert.Equal(t, 10.0, fare.Numeric.Min)
	assert.Equal(t, 30.0, fare.Numeric.Max)
	require.NotNil(t, fare.Numeric.Avg)
	assert.InDelta(t, 20.0, *fare.Numeric.Avg, 1e-9)
	require.NotNil(t, fare.Numeric.Median)
	assert.InDelta(t, 20.0, *fare.Numeric.Median, 1e-9)
	require.NotNil(t, fare.Numeric.StdDev)
	assert.InDelta(t, 10.0, *fare.Numeric.StdDev, 1e-9)

	city := prof.Columns[1]
	assert.Equal(t, domain.ProfileKindGeneral, city.Kind)
	assert.Nil(t, city.Numeric)
	require.Len(t, city.TopValues, 2)
	assert.Equal(t, "nyc", city.TopValues[0].Value)
	assert.Equal(t, int64(3), city.TopValues[0].Count)
	assert.InDelta(t, 75.0, city.TopValues[0].Percentage, 1e-9)

	// 11 of 12 cells populated.
	assert.InDelta(t, 11.0/12.0*100, prof.Completeness, 1e-9)
	assert.GreaterOrEqual(t, prof.DataQualityScore, 0)
	assert.LessOrEqual(t, prof.DataQualityScore, 100)
}

func TestProfiler_NonFiniteValuesMarshal(t *testing.T) {
	s := testutil.OpenTestSession(t)
	testutil.MustExec(t, s,
		"CREATE TABLE parquet_data (v DOUBLE)",
		"INSERT INTO parquet_data VALUES (1), ('inf'::DOUBLE), (2), ('nan'::DOUBLE)",
	)

	prof, err := NewProfiler(s, nil).Profile(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, prof.Columns, 1)

	top := prof.Columns[0].TopValues
	require.Len(t, top, 4)
	var nils int
	for _, tv := range top {
		if tv.Value == nil {
			nils++
		}
	}
	assert.Equal(t, 2, nils)

	_, err = json.Marshal(prof)
	require.NoError(t, err)
}

func TestProfiler_NonFiniteNumericStatsAreNil(t *testing.T) {
	q := &testutil.MockQuerier{
		QueryFn: func(_ context.Context, query string, _ ...any) (*domain.ResultSet, error) {
			switch {
			case strings.Contains(query, "information_schema.columns"):
				return testutil.ResultSet([]string{"column_name", "data_type"}, []any{"v", "DOUBLE"}), nil
			case strings.Contains(query, "non_null_count"):
				return testutil.ResultSet([]string{"count", "non_null_count", "unique_count"},
					[]any{int64(3), int64(3), int64(500)}), nil
			case strings.Contains(query, "median_value"):
				return testutil.ResultSet([]string{"min_value", "max_value", "avg_value", "median_value", "stddev_value"},
					[]any{1.0, math.Inf(1), math.Inf(1), 2.0, math.NaN()}), nil
			}
			return testutil.ResultSet([]string{"count"}, []any{int64(3)}), nil
		},
	}

	prof, err := NewProfiler(q, nil).Profile(context.Background(), "t")
	require.NoError(t, err)

	stats := prof.Columns[0].Numeric
	require.NotNil(t, stats)
	assert.Equal(t, 1.0, stats.Min)
	assert.Nil(t, stats.Max)
	assert.Nil(t, stats.Avg)
	require.NotNil(t, stats.Median)
	assert.Equal(t, 2.0, *stats.Median)
	assert.Nil(t, stats.StdDev)

	data, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"min":1,"max":null,"avg":null,"median":2,"std_dev":null}`, string(data))
}

func TestProfiler_TopValuePercentageUsesNonNullRows(t *testing.T) {
	s := testutil.OpenTestSession(t)
	testutil.MustExec(t, s,
		"CREATE TABLE t (c VARCHAR)",
		"INSERT INTO t VALUES ('a'), ('a'), ('b'), (NULL), (NULL), (NULL)",
	)

	prof, err := NewProfiler(s, nil).Profile(context.Background(), "t")
	require.NoError(t, err)
	top := prof.Columns[0].TopValues
	require.Len(t, top, 2)
	assert.InDelta(t, 200.0/3.0, top[0].Percentage, 1e-9)
	assert.InDelta(t, 100.0/3.0, top[1].Percentage, 1e-9)
}

func TestProfiler_HighCardinalitySkipsTopValues(t *testing.T) {
	s := testutil.OpenTestSession(t)
	testutil.MustExec(t, s, "CREATE TABLE t AS SELECT range AS id FROM range(150)")

	prof, err := NewProfiler(s, nil).Profile(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, int64(150), prof.Columns[0].UniqueCount)
	assert.Nil(t, prof.Columns[0].TopValues)
}

func TestProfiler_CompleteUniqueNumericColumnScores100(t *testing.T) {
	s := testutil.OpenTestSession(t)
	testutil.MustExec(t, s,
		"CREATE TABLE t (v INTEGER)",
		"INSERT INTO t VALUES (1), (2), (3), (4)",
	)

	prof, err := NewProfiler(s, nil).Profile(context.Background(), "t")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, prof.Completeness, 1e-9)
	assert.InDelta(t, 1.0, prof.Columns[0].Cardinality, 1e-9)
	assert.Equal(t, 100, prof.DataQualityScore)
}

func TestProfiler_ZeroRows(t *testing.T) {
	s := testutil.OpenTestSession(t)
	testutil.MustExec(t, s, "CREATE TABLE empty_t (name VARCHAR, flag BOOLEAN)")

	prof, err := NewProfiler(s, nil).Profile(context.Background(), "empty_t")
	require.NoError(t, err)

	assert.Equal(t, int64(0), prof.TotalRows)
	require.Len(t, prof.Columns, 2)
	for _, c := range prof.Columns {
		assert.Equal(t, domain.ProfileKindGeneral, c.Kind)
		assert.Zero(t, c.NullPercentage)
		assert.Zero(t, c.Cardinality)
		assert.Empty(t, c.TopValues)
	}
	assert.InDelta(t, 100.0, prof.Completeness, 1e-9)
	assert.Equal(t, 70, prof.DataQualityScore)
}

func TestProfiler_ZeroColumns(t *testing.T) {
	q := &testutil.MockQuerier{
		QueryFn: func(_ context.Context, query string, _ ...any) (*domain.ResultSet, error) {
			if strings.Contains(query, "information_schema") {
				return testutil.ResultSet([]string{"column_name", "data_type"}), nil
			}
			return testutil.ResultSet([]string{"count"}, []any{int64(0)}), nil
		},
	}

	prof, err := NewProfiler(q, nil).Profile(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, 0, prof.TotalColumns)
	assert.Empty(t, prof.Columns)
	assert.InDelta(t, 100.0, prof.Completeness, 1e-9)
	assert.Equal(t, 70, prof.DataQualityScore)
}

// fakeTable answers the profiler's statements for a table whose columns are
// described by cols; unique is the distinct count reported for every column.
func fakeTable(cols []domain.ColumnDescriptor, unique int64, failNumeric bool) *testutil.MockQuerier {
	return &testutil.MockQuerier{
		QueryFn: func(_ context.Context, query string, _ ...any) (*domain.ResultSet, error) {
			switch {
			case strings.Contains(query, "information_schema.columns"):
				rows := make([][]any, len(cols))
				for i, c := range cols {
					rows[i] = []any{c.Name, c.Type}
				}
				return testutil.ResultSet([]string{"column_name", "data_type"}, rows...), nil
			case strings.Contains(query, "non_null_count"):
				return testutil.ResultSet([]string{"count", "non_null_count", "unique_count"},
					[]any{int64(1000), int64(1000), unique}), nil
			case strings.Contains(query, "median_value"):
				if failNumeric {
					return nil, &domain.EngineError{Message: "Binder Error: No function matches"}
				}
				return testutil.ResultSet([]string{"min_value", "max_value", "avg_value", "median_value", "stddev_value"},
					[]any{int64(1), int64(9), 5.0, 5.0, 2.0}), nil
			case strings.Contains(query, "value_count"):
				return testutil.ResultSet([]string{"value", "value_count"}, []any{"x", int64(1000)}), nil
			case strings.Contains(query, "COUNT(*) AS count FROM"):
				return testutil.ResultSet([]string{"count"}, []any{int64(1000)}), nil
			}
			return nil, fmt.Errorf("unexpected query %q", query)
		},
	}
}

func makeColumns(n int) []domain.ColumnDescriptor {
	cols := make([]domain.ColumnDescriptor, n)
	for i := range cols {
		typ := "VARCHAR"
		if i%2 == 0 {
			typ = "BIGINT"
		}
		cols[i] = domain.ColumnDescriptor{Name: fmt.Sprintf("c%d", i), Type: typ}
	}
	return cols
}

func TestProfiler_RoundTripsScaleLinearlyWithColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns int
		unique  int64
	}{
		{name: "low cardinality 4 columns", columns: 4, unique: 10},
		{name: "low cardinality 8 columns", columns: 8, unique: 10},
		{name: "high cardinality 4 columns", columns: 4, unique: 500},
		{name: "high cardinality 8 columns", columns: 8, unique: 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := makeColumns(tt.columns)
			q := fakeTable(cols, tt.unique, false)

			_, err := NewProfiler(q, nil).Profile(context.Background(), "t")
			require.NoError(t, err)

			want := 2
			for _, c := range cols {
				want++
				if c.IsNumeric() {
					want++
				}
				if tt.unique <= domain.TopValuesThreshold {
					want++
				}
			}
			assert.Equal(t, want, q.RoundTrips())
			// Never more than three per column, independent of the 1000 rows.
			assert.LessOrEqual(t, q.RoundTrips(), 2+3*tt.columns)
		})
	}
}

func TestProfiler_QueriesIssuedInColumnOrder(t *testing.T) {
	cols := makeColumns(3)
	q := fakeTable(cols, 500, false)

	_, err := NewProfiler(q, nil).Profile(context.Background(), "t")
	require.NoError(t, err)

	var order []string
	for _, c := range q.Calls() {
		if strings.Contains(c.SQL, "non_null_count") {
			for _, col := range cols {
				if strings.Contains(c.SQL, `COUNT("`+col.Name+`")`) {
					order = append(order, col.Name)
				}
			}
		}
	}
	assert.Equal(t, []string{"c0", "c1", "c2"}, order)
}

func TestProfiler_NumericFailureDegradesColumn(t *testing.T) {
	cols := []domain.ColumnDescriptor{{Name: "a", Type: "INTEGER"}, {Name: "b", Type: "DOUBLE"}}
	q := fakeTable(cols, 10, true)

	prof, err := NewProfiler(q, nil).Profile(context.Background(), "t")
	require.NoError(t, err)
	require.Len(t, prof.Columns, 2)
	for _, c := range prof.Columns {
		assert.Equal(t, domain.ProfileKindNumeric, c.Kind)
		assert.Nil(t, c.Numeric)
		assert.Len(t, c.TopValues, 1)
	}
}

func TestProfiler_TopValuesFailureDegradesColumn(t *testing.T) {
	cols := []domain.ColumnDescriptor{{Name: "a", Type: "VARCHAR"}}
	base := fakeTable(cols, 10, false)
	q := &testutil.MockQuerier{
		QueryFn: func(ctx context.Context, query string, args ...any) (*domain.ResultSet, error) {
			if strings.Contains(query, "value_count") {
				return nil, errors.New("boom")
			}
			return base.QueryFn(ctx, query, args...)
		},
	}

	prof, err := NewProfiler(q, nil).Profile(context.Background(), "t")
	require.NoError(t, err)
	assert.Nil(t, prof.Columns[0].TopValues)
}

func TestProfiler_BaseQueryFailureIsFatal(t *testing.T) {
	q := &testutil.MockQuerier{
		QueryFn: func(_ context.Context, _ string, _ ...any) (*domain.ResultSet, error) {
			return nil, &domain.EngineError{Message: "Catalog Error: Table with name t does not exist!"}
		},
	}

	prof, err := NewProfiler(q, nil).Profile(context.Background(), "t")
	require.Error(t, err)
	assert.Nil(t, prof)
	assert.Equal(t, "Catalog Error: Table with name t does not exist!", err.Error())
	assert.Equal(t, 1, q.RoundTrips())
}

func TestProfiler_ColumnStatsFailureIsFatal(t *testing.T) {
	cols := []domain.ColumnDescriptor{{Name: "a", Type: "VARCHAR"}}
	base := fakeTable(cols, 10, false)
	q := &testutil.MockQuerier{
		QueryFn: func(ctx context.Context, query string, args ...any) (*domain.ResultSet, error) {
			if strings.Contains(query, "non_null_count") {
				return nil, &domain.EngineError{Message: "IO Error"}
			}
			return base.QueryFn(ctx, query, args...)
		},
	}

	prof, err := NewProfiler(q, nil).Profile(context.Background(), "t")
	require.Error(t, err)
	assert.Nil(t, prof)
}
