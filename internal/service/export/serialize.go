package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/duckdb/duckdb-go/v2"
	"github.com/parquet-go/parquet-go"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/engine"
)

// Serialize encodes a result set in the requested format.
func Serialize(rs *domain.ResultSet, format domain.ExportFormat) ([]byte, error) {
	switch format {
	case domain.FormatCSV:
		return []byte(ToCSV(rs)), nil
	case domain.FormatJSON:
		return ToJSON(rs)
	case domain.FormatParquet:
		return ToParquet(rs)
	default:
		return nil, domain.ErrValidation("unsupported export format %q", format)
	}
}

// ToCSV renders a header line followed by one line per row, separated by
// "\n". Values are written from the raw engine values so 64-bit integers and
// decimals keep every digit. Nulls become empty cells.
func ToCSV(rs *domain.ResultSet) string {
	lines := make([]string, 0, len(rs.Rows)+1)

	header := make([]string, len(rs.Columns))
	for i, c := range rs.Columns {
		header[i] = csvCell(c)
	}
	lines = append(lines, strings.Join(header, ","))

	for _, row := range rs.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = csvCell(formatRaw(v, typeAt(rs, i)))
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func csvCell(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func typeAt(rs *domain.ResultSet, i int) string {
	if i < len(rs.Types) {
		return rs.Types[i]
	}
	return ""
}

// formatRaw renders an unnormalized engine value as text.
func formatRaw(v any, typeName string) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case *big.Int:
		if x == nil {
			return ""
		}
		return x.String()
	case duckdb.Decimal:
		return engine.DecimalString(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if typeName == "DATE" {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339Nano)
	case []any, map[string]any:
		b, err := json.Marshal(engine.Normalize(x))
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

// ToJSON renders the normalized records as a JSON array indented by two
// spaces. Keys follow the result's column order.
func ToJSON(rs *domain.ResultSet) ([]byte, error) {
	records := engine.Records(rs)
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json export: %w", err)
	}
	return b, nil
}

type parquetKind int

const (
	kindString parquetKind = iota
	kindBool
	kindInt32
	kindInt64
	kindDouble
)

// parquetKindOf maps an engine type name to the column's physical type.
// Temporal and nested types are written as text.
func parquetKindOf(typeName string) parquetKind {
	switch {
	case typeName == "BOOLEAN":
		return kindBool
	case typeName == "TINYINT", typeName == "SMALLINT", typeName == "INTEGER",
		typeName == "UTINYINT", typeName == "USMALLINT":
		return kindInt32
	case typeName == "BIGINT", typeName == "UINTEGER":
		return kindInt64
	case typeName == "FLOAT", typeName == "DOUBLE", typeName == "HUGEINT",
		typeName == "UBIGINT", strings.HasPrefix(typeName, "DECIMAL"):
		return kindDouble
	default:
		return kindString
	}
}

func (k parquetKind) node() parquet.Node {
	switch k {
	case kindBool:
		return parquet.Optional(parquet.Leaf(parquet.BooleanType))
	case kindInt32:
		return parquet.Optional(parquet.Leaf(parquet.Int32Type))
	case kindInt64:
		return parquet.Optional(parquet.Leaf(parquet.Int64Type))
	case kindDouble:
		return parquet.Optional(parquet.Leaf(parquet.DoubleType))
	default:
		return parquet.Optional(parquet.String())
	}
}

// convert returns v as the Go type the column's leaf expects, or nil.
func (k parquetKind) convert(v any, typeName string) any {
	if v == nil {
		return nil
	}
	switch k {
	case kindBool:
		if b, ok := v.(bool); ok {
			return b
		}
		return nil
	case kindInt32:
		n, ok := engine.ToInt64(v)
		if !ok {
			return nil
		}
		return int32(n)
	case kindInt64:
		n, ok := engine.ToInt64(v)
		if !ok {
			return nil
		}
		return n
	case kindDouble:
		switch x := v.(type) {
		case float64:
			return x
		case float32:
			return float64(x)
		}
		f, ok := engine.ToFloat64(v)
		if !ok {
			return nil
		}
		return f
	default:
		return formatRaw(v, typeName)
	}
}

// ToParquet writes the result as a Parquet file with one optional column per
// result column. The schema is derived from the engine-reported types.
func ToParquet(rs *domain.ResultSet) ([]byte, error) {
	if len(rs.Columns) == 0 {
		return nil, domain.ErrValidation("cannot write parquet without columns")
	}

	group := make(parquet.Group)
	kinds := make([]parquetKind, len(rs.Columns))
	for i, name := range rs.Columns {
		if _, dup := group[name]; dup {
			return nil, domain.ErrValidation("duplicate column name %q in parquet export", name)
		}
		kinds[i] = parquetKindOf(typeAt(rs, i))
		group[name] = kinds[i].node()
	}
	schema := parquet.NewSchema("export", group)

	var buf bytes.Buffer
	writer := parquet.NewGenericWriter[map[string]interface{}](&buf, &parquet.WriterConfig{Schema: schema})

	records := make([]map[string]interface{}, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		record := make(map[string]interface{}, len(rs.Columns))
		for i, name := range rs.Columns {
			var v any
			if i < len(row) {
				v = row[i]
			}
			record[name] = kinds[i].convert(v, typeAt(rs, i))
		}
		records = append(records, record)
	}

	if len(records) > 0 {
		if _, err := writer.Write(records); err != nil {
			return nil, fmt.Errorf("write parquet rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}
