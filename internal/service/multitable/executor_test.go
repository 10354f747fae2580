package multitable

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/testutil"
)

func setupTables(t *testing.T) *Executor {
	t.Helper()
	s := testutil.OpenTestSession(t)
	testutil.MustExec(t, s,
		"CREATE TABLE orders (order_id INTEGER, customer_id INTEGER, id VARCHAR)",
		"INSERT INTO orders VALUES (1, 10, 'o1'), (2, 10, 'o2'), (3, 30, 'o3')",
		"CREATE TABLE customers (customer_id INTEGER, id VARCHAR)",
		"INSERT INTO customers VALUES (10, 'c10'), (20, 'c20')",
		"CREATE TABLE jan (v INTEGER)",
		"INSERT INTO jan VALUES (1), (2)",
		"CREATE TABLE feb (v INTEGER)",
		"INSERT INTO feb VALUES (2), (3)",
	)
	return NewExecutor(s, s, nil, nil)
}

func TestExecutor_JoinReturnsRowCount(t *testing.T) {
	e := setupTables(t)
	ctx := context.Background()

	tests := []struct {
		joinType domain.JoinType
		want     int64
	}{
		{domain.JoinInner, 2},
		{domain.JoinLeft, 3},
		{domain.JoinRight, 3},
		{domain.JoinFull, 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.joinType), func(t *testing.T) {
			n, err := e.Join(ctx, domain.JoinConfig{
				LeftTable: "orders", RightTable: "customers", JoinType: tt.joinType,
				LeftColumn: "customer_id", RightColumn: "customer_id",
			}, "joined")
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestExecutor_JoinKeepsCollidingColumns(t *testing.T) {
	e := setupTables(t)
	ctx := context.Background()

	_, err := e.Join(ctx, domain.JoinConfig{
		LeftTable: "orders", RightTable: "customers", JoinType: domain.JoinInner,
		LeftColumn: "customer_id", RightColumn: "customer_id",
	}, "joined")
	require.NoError(t, err)

	cols, err := e.catalog.ListColumns(ctx, "joined")
	require.NoError(t, err)

	// 3 left + 2 right columns: nothing is dropped. The engine disambiguates
	// the second "id" and "customer_id" with a numeric suffix.
	require.Len(t, cols, 5)
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	assert.Equal(t, "order_id", names[0])
	assert.Equal(t, "customer_id", names[1])
	assert.Equal(t, "id", names[2])
	assert.True(t, strings.HasPrefix(names[3], "customer_id"), names[3])
	assert.NotEqual(t, "customer_id", names[3])
	assert.True(t, strings.HasPrefix(names[4], "id"), names[4])
	assert.NotEqual(t, "id", names[4])

	records, _, err := e.Preview(ctx, "joined", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		left, _ := r.Get("id")
		right, _ := r.Get(names[4])
		assert.Contains(t, []any{"o1", "o2"}, left)
		assert.Equal(t, "c10", right)
	}
}

func TestExecutor_UnionReturnsRowCount(t *testing.T) {
	e := setupTables(t)
	ctx := context.Background()

	n, err := e.Union(ctx, domain.UnionConfig{Tables: []string{"jan", "feb"}, UnionType: domain.UnionAll}, "q1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = e.Union(ctx, domain.UnionConfig{Tables: []string{"jan", "feb"}, UnionType: domain.UnionDistinct}, "q1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestExecutor_TwoRoundTrips(t *testing.T) {
	q := &testutil.MockQuerier{
		ExecFn: func(_ context.Context, _ string, _ ...any) error { return nil },
		QueryFn: func(_ context.Context, _ string, _ ...any) (*domain.ResultSet, error) {
			return testutil.ResultSet([]string{"count"}, []any{int64(7)}), nil
		},
	}
	e := NewExecutor(q, nil, nil, nil)

	n, err := e.Union(context.Background(), domain.UnionConfig{Tables: []string{"a", "b"}, UnionType: domain.UnionAll}, "ab")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	calls := q.Calls()
	require.Len(t, calls, 2)
	assert.True(t, calls[0].Exec)
	assert.True(t, strings.HasPrefix(calls[0].SQL, "CREATE OR REPLACE TABLE"))
	assert.False(t, calls[1].Exec)
	assert.Equal(t, `SELECT COUNT(*) AS count FROM "ab"`, calls[1].SQL)
}

func TestExecutor_ConfigErrorsDoNotReachEngine(t *testing.T) {
	q := &testutil.MockQuerier{}
	e := NewExecutor(q, nil, nil, nil)
	ctx := context.Background()

	_, err := e.Union(ctx, domain.UnionConfig{Tables: []string{"only"}, UnionType: domain.UnionAll}, "r")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = e.Join(ctx, domain.JoinConfig{LeftTable: "a", RightTable: "b", JoinType: domain.JoinInner}, "r")
	require.ErrorAs(t, err, &verr)

	_, err = e.Join(ctx, domain.JoinConfig{
		LeftTable: "a", RightTable: "b", JoinType: domain.JoinInner, LeftColumn: "x", RightColumn: "y",
	}, "bad name; DROP")
	require.ErrorAs(t, err, &verr)

	assert.Equal(t, 0, q.RoundTrips())
}

func TestExecutor_JoinMissingTableIsEngineError(t *testing.T) {
	e := setupTables(t)

	_, err := e.Join(context.Background(), domain.JoinConfig{
		LeftTable: "orders", RightTable: "nope", JoinType: domain.JoinInner,
		LeftColumn: "customer_id", RightColumn: "customer_id",
	}, "joined")
	var eerr *domain.EngineError
	require.ErrorAs(t, err, &eerr)
}

func TestExecutor_DropTableIsIdempotent(t *testing.T) {
	e := setupTables(t)
	ctx := context.Background()

	require.NoError(t, e.DropTable(ctx, "jan"))
	require.NoError(t, e.DropTable(ctx, "jan"))
	require.NoError(t, e.DropTable(ctx, "never_existed"))

	tables, err := e.ListLoadedTables(ctx)
	require.NoError(t, err)
	assert.NotContains(t, tables, "jan")
}

func TestExecutor_ListLoadedTablesExcludesDefault(t *testing.T) {
	e := setupTables(t)
	ctx := context.Background()
	require.NoError(t, e.q.Exec(ctx, "CREATE TABLE parquet_data (x INTEGER)"))

	tables, err := e.ListLoadedTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "feb", "jan", "orders"}, tables)
}

func TestExecutor_Preview(t *testing.T) {
	e := setupTables(t)

	records, cols, err := e.Preview(context.Background(), "orders", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"order_id", "customer_id", "id"}, cols)
	require.Len(t, records, 2)
	v, _ := records[0].Get("customer_id")
	assert.Equal(t, float64(10), v)
}

func TestExecutor_LoadFile(t *testing.T) {
	s := testutil.OpenTestSession(t)
	s.SetTempDir(t.TempDir())
	data := testutil.ParquetFixture(t, s, "SELECT range AS id, range * 1.5 AS fare FROM range(4)")
	files := &testutil.MockFileRepo{}
	require.NoError(t, files.Put(context.Background(), &domain.StoredFile{
		ID: "1-trips.parquet", Name: "trips.parquet", Size: int64(len(data)), Data: data,
	}))

	e := NewExecutor(s, s, files, nil)
	lt, err := e.LoadFile(context.Background(), "1-trips.parquet", "trips")
	require.NoError(t, err)
	assert.Equal(t, "1-trips.parquet", lt.ID)
	assert.Equal(t, "trips.parquet", lt.Name)
	assert.Equal(t, "trips", lt.TableName)
	assert.Equal(t, int64(4), lt.RowCount)
	assert.Equal(t, 2, lt.ColumnCount)
	assert.Equal(t, "id", lt.Columns[0].Name)
	assert.False(t, lt.LoadedAt.IsZero())
}

func TestExecutor_LoadFileNotFound(t *testing.T) {
	s := testutil.OpenTestSession(t)
	e := NewExecutor(s, s, &testutil.MockFileRepo{}, nil)

	_, err := e.LoadFile(context.Background(), "missing", "t")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}
