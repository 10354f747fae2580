package sqlgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "simple", input: "sales"},
		{name: "underscore prefix", input: "_joined_1"},
		{name: "mixed case", input: "Trips2024"},
		{name: "empty", input: "", wantErr: "required"},
		{name: "starts with digit", input: "1trips", wantErr: "must match"},
		{name: "hyphen", input: "my-table", wantErr: "must match"},
		{name: "space", input: "my table", wantErr: "must match"},
		{name: "injection", input: "t; DROP TABLE x", wantErr: "must match"},
		{name: "too long", input: strings.Repeat("a", 129), wantErr: "at most 128"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableName(tt.input)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"users", `"users"`},
		{"order items", `"order items"`},
		{`say "hi"`, `"say ""hi"""`},
		{"", `""`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteIdentifier(tt.input))
		})
	}
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, `'plain'`, QuoteLiteral("plain"))
	assert.Equal(t, `'it''s'`, QuoteLiteral("it's"))
	assert.Equal(t, `'/tmp/a''b.parquet'`, QuoteLiteral("/tmp/a'b.parquet"))
}
