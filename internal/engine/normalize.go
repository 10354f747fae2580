package engine

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"strconv"

	"github.com/duckdb/duckdb-go/v2"

	"parquet-explorer/internal/domain"
)

// Normalize coerces an engine value into a JSON-safe one. Integers of every
// width, HUGEINT and DECIMAL become float64; values beyond 2^53 lose
// precision. NaN and ±Inf become nil. Byte slices become strings, and lists
// and structs are normalized element by element. Anything else is returned
// as is.
func Normalize(v any) any {
	switch x := v.(type) {
	case float64:
		if !isFinite(x) {
			return nil
		}
		return x
	case float32:
		if !isFinite(float64(x)) {
			return nil
		}
		return x
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case *big.Int:
		if x == nil {
			return nil
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	case duckdb.Decimal:
		return decimalFloat(x)
	case []byte:
		return string(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Normalize(e)
		}
		return out
	default:
		return v
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NormalizeRow normalizes every value of a row into a new slice.
func NormalizeRow(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = Normalize(v)
	}
	return out
}

// Record is one normalized row. It marshals to a JSON object whose keys keep
// the declared column order.
type Record struct {
	Columns []string
	Values  []any
}

// Get returns the value of the named column.
func (r Record) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// MarshalJSON encodes the record as an ordered JSON object.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Records normalizes a result set into records, taking the column list from
// the result's declared order.
func Records(rs *domain.ResultSet) []Record {
	out := make([]Record, len(rs.Rows))
	for i, row := range rs.Rows {
		out[i] = Record{Columns: rs.Columns, Values: NormalizeRow(row)}
	}
	return out
}

// ColumnsOf derives the column list from the first record, for callers that
// only hold records and no result metadata. Returns nil when there are none.
func ColumnsOf(records []Record) []string {
	if len(records) == 0 {
		return nil
	}
	return append([]string(nil), records[0].Columns...)
}

// ToFloat64 converts a numeric engine value to float64. Strings holding a
// number are parsed. The bool is false for nil, non-numeric values, NaN and
// ±Inf.
func ToFloat64(v any) (float64, bool) {
	switch x := Normalize(v).(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil || !isFinite(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToInt64 converts an integral engine value (typically a COUNT) to int64
// without going through float64.
func ToInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int32:
		return int64(x), true
	case int:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint8:
		return int64(x), true
	case *big.Int:
		if x == nil || !x.IsInt64() {
			return 0, false
		}
		return x.Int64(), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

// DecimalString formats a DECIMAL exactly, with its declared scale.
func DecimalString(d duckdb.Decimal) string {
	if d.Value == nil {
		return ""
	}
	return new(big.Rat).SetFrac(d.Value, pow10(d.Scale)).FloatString(int(d.Scale))
}

func decimalFloat(d duckdb.Decimal) float64 {
	if d.Value == nil {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(d.Value, pow10(d.Scale)).Float64()
	return f
}

func pow10(scale uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
}
