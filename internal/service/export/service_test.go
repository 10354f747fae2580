package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/testutil"
)

func salesRows() *domain.ResultSet {
	return testutil.ResultSet([]string{"region", "amount"},
		[]any{"north", int64(10)},
		[]any{"south", int64(20)},
	)
}

func TestService_Export(t *testing.T) {
	tests := []struct {
		name        string
		cfg         domain.ExportConfig
		wantSQL     string
		wantType    string
		wantFile    string
		wantPayload string
	}{
		{
			name:        "csv with subset and filter",
			cfg:         domain.ExportConfig{TableName: "sales", Format: domain.FormatCSV, Columns: []string{"region", "amount"}, WhereClause: "amount > 5", Limit: 100},
			wantSQL:     `SELECT "region", "amount" FROM "sales" WHERE amount > 5 LIMIT 100`,
			wantType:    "text/csv",
			wantFile:    "sales_export.csv",
			wantPayload: "region,amount\nnorth,10\nsouth,20",
		},
		{
			name:     "json selects star",
			cfg:      domain.ExportConfig{TableName: "sales", Format: domain.FormatJSON},
			wantSQL:  `SELECT * FROM "sales"`,
			wantType: "application/json",
			wantFile: "sales_export.json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &testutil.MockQuerier{
				QueryFn: func(_ context.Context, _ string, _ ...any) (*domain.ResultSet, error) {
					return salesRows(), nil
				},
			}
			svc := NewService(q, nil, nil, nil)

			blob, err := svc.Export(context.Background(), tt.cfg)
			require.NoError(t, err)

			calls := q.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantSQL, calls[0].SQL)
			assert.Equal(t, tt.wantType, blob.ContentType)
			assert.Equal(t, tt.wantFile, blob.Filename)
			assert.Equal(t, 2, blob.Rows)
			if tt.wantPayload != "" {
				assert.Equal(t, tt.wantPayload, string(blob.Data))
			}
		})
	}
}

func TestService_ExportRejectsBeforeEngine(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.ExportConfig
	}{
		{"missing table", domain.ExportConfig{Format: domain.FormatCSV}},
		{"bad format", domain.ExportConfig{TableName: "t", Format: "xml"}},
		{"negative limit", domain.ExportConfig{TableName: "t", Format: domain.FormatCSV, Limit: -1}},
		{"stacked statement", domain.ExportConfig{TableName: "t", Format: domain.FormatCSV, WhereClause: "x > 1; DROP TABLE t"}},
		{"comment", domain.ExportConfig{TableName: "t", Format: domain.FormatCSV, WhereClause: "x > 1 -- tail"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &testutil.MockQuerier{}
			_, err := NewService(q, nil, nil, nil).Export(context.Background(), tt.cfg)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, 0, q.RoundTrips())
		})
	}
}

func TestService_ExportEngineError(t *testing.T) {
	engineErr := &domain.EngineError{Message: `Binder Error: column "nope" not found`}
	q := &testutil.MockQuerier{
		QueryFn: func(_ context.Context, _ string, _ ...any) (*domain.ResultSet, error) {
			return nil, engineErr
		},
	}

	_, err := NewService(q, nil, nil, nil).Export(context.Background(),
		domain.ExportConfig{TableName: "t", Format: domain.FormatCSV, WhereClause: "nope = 1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, engineErr))
}

func TestService_ExportAgainstEngine(t *testing.T) {
	s := testutil.OpenTestSession(t)
	testutil.MustExec(t, s,
		"CREATE TABLE people (name VARCHAR, id BIGINT)",
		`INSERT INTO people VALUES ('Smith, "Jr."', 9007199254740993), ('Lee', 2)`,
	)

	blob, err := NewService(s, nil, nil, nil).Export(context.Background(), domain.ExportConfig{
		TableName:   "people",
		Format:      domain.FormatCSV,
		WhereClause: "id > 2",
	})
	require.NoError(t, err)
	assert.Equal(t, "name,id\n\"Smith, \"\"Jr.\"\"\",9007199254740993", string(blob.Data))
}

func TestService_ShareableSQL(t *testing.T) {
	svc := NewService(&testutil.MockQuerier{}, nil, nil, nil)

	got, err := svc.ShareableSQL(domain.ExportConfig{TableName: "t", Format: domain.FormatCSV, WhereClause: "a = 1", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "SELECT *\nFROM \"t\"\nWHERE a = 1\nLIMIT 5", got)

	_, err = svc.ShareableSQL(domain.ExportConfig{TableName: "t", Format: domain.FormatCSV, WhereClause: "a = 1; DELETE FROM t"})
	require.Error(t, err)
}

func TestService_Download(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(&testutil.MockQuerier{}, nil, NewSinks(SinkConfig{}), nil)
	blob := &Blob{Data: []byte("a,b"), ContentType: "text/csv", Filename: "t_export.csv"}

	location, err := svc.Download(context.Background(), blob, dir+string(filepath.Separator))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "t_export.csv"), location)

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))
}

func TestService_DownloadWithoutSink(t *testing.T) {
	svc := NewService(&testutil.MockQuerier{}, nil, nil, nil)
	_, err := svc.Download(context.Background(), &Blob{}, "/tmp/x")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}
