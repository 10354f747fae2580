// Package chart turns chart configs into label and dataset series.
package chart

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/engine"
	"parquet-explorer/internal/sqlgen"
)

// Builder generates chart data against one engine session.
type Builder struct {
	q      domain.Querier
	logger *slog.Logger
}

// NewBuilder creates a new Builder.
func NewBuilder(q domain.Querier, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{q: q, logger: logger.With("component", "chart")}
}

// Generate validates cfg, runs its compiled query and returns one label per
// row and a single dataset named after the y column. Invalid configs are
// rejected without contacting the engine.
func (b *Builder) Generate(ctx context.Context, cfg domain.ChartConfig) (*domain.ChartData, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rs, err := b.q.Query(ctx, sqlgen.ChartSQL(cfg))
	if err != nil {
		return nil, err
	}

	xi, yi := columnIndex(rs, "x_value"), columnIndex(rs, "y_value")
	if xi < 0 || yi < 0 {
		return nil, fmt.Errorf("chart query returned columns %v, want x_value and y_value", rs.Columns)
	}

	data := &domain.ChartData{
		Labels:   make([]string, 0, len(rs.Rows)),
		Datasets: []domain.Dataset{{Label: cfg.YColumn, Data: make([]float64, 0, len(rs.Rows))}},
	}
	for _, row := range rs.Rows {
		data.Labels = append(data.Labels, Label(row[xi]))
		y, _ := engine.ToFloat64(row[yi])
		data.Datasets[0].Data = append(data.Datasets[0].Data, y)
	}

	b.logger.Debug("chart generated", "table", cfg.TableName, "type", cfg.Type, "points", len(data.Labels))
	return data, nil
}

// Label renders an x value as a chart label. Dates render as YYYY-MM-DD.
func Label(v any) string {
	switch x := engine.Normalize(v).(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.DateOnly)
	default:
		return fmt.Sprint(x)
	}
}

func columnIndex(rs *domain.ResultSet, name string) int {
	for i, c := range rs.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
