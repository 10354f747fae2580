package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNumericType(t *testing.T) {
	tests := []struct {
		typeName string
		want     bool
	}{
		{"BIGINT", true},
		{"INTEGER", true},
		{"HUGEINT", true},
		{"UTINYINT", true},
		{"DOUBLE", true},
		{"FLOAT", true},
		{"DECIMAL(18,3)", true},
		{"NUMERIC", true},
		{"VARCHAR", false},
		{"DATE", false},
		{"TIMESTAMP WITH TIME ZONE", false},
		{"BOOLEAN", false},
		{"my_custom_type", false},
		{"", false},
		// INTERVAL contains INT and is classified numeric.
		{"INTERVAL", true},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNumericType(tt.typeName))
		})
	}
}
