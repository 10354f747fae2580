package sqlguard

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parquet-explorer/internal/domain"
)

func TestCheckFilter(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		wantErr  string
	}{
		{name: "comparison", fragment: "x > 1"},
		{name: "string literal", fragment: "city = 'New York'"},
		{name: "semicolon in literal", fragment: "note = 'a;b'"},
		{name: "escaped quote in literal", fragment: "name = 'O''Brien; Jr'"},
		{name: "comment marker in literal", fragment: "code = '--x'"},
		{name: "quoted identifier", fragment: `"weird;col" IS NOT NULL`},
		{name: "negative number", fragment: "delta > -5"},
		{name: "division", fragment: "a / b > 2"},
		{name: "stacked statement", fragment: "1=1; DROP TABLE trips", wantErr: "single expression"},
		{name: "line comment", fragment: "x > 1 -- trailing", wantErr: "comments"},
		{name: "block comment", fragment: "x > 1 /* c */", wantErr: "comments"},
		{name: "semicolon after literal closes", fragment: "a = 'x'; SELECT 1", wantErr: "single expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFilter(tt.fragment)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInspect(t *testing.T) {
	f := Inspect("' OR '1'='1")
	require.NotNil(t, f)
	assert.NotEmpty(t, f.Fingerprint)

	assert.Nil(t, Inspect("laptop computers"))
}

func TestGuard_LogsFindingsWithoutRejecting(t *testing.T) {
	var buf bytes.Buffer
	g := New(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, g.CheckFilter("' OR '1'='1"))
	assert.Contains(t, buf.String(), "fingerprint")

	require.NoError(t, g.CheckFilter(""))
	require.Error(t, g.CheckFilter("x > 1; DELETE FROM t"))
}
