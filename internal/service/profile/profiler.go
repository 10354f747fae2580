// Package profile computes per-column statistics and a data-quality score
// for a table.
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/engine"
	"parquet-explorer/internal/service/catalog"
	"parquet-explorer/internal/sqlgen"
)

// Profiler issues its statistics queries one at a time, in catalog column
// order: two base queries plus one to three per column.
type Profiler struct {
	q       domain.Querier
	catalog *catalog.Introspector
	logger  *slog.Logger
}

// NewProfiler creates a new Profiler.
func NewProfiler(q domain.Querier, logger *slog.Logger) *Profiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Profiler{
		q:       q,
		catalog: catalog.NewIntrospector(q),
		logger:  logger.With("component", "profiler"),
	}
}

// Profile profiles table, or the default table when empty. Failures of the
// row count, the column catalog or a column's base counts abort the profile.
// Numeric statistics and top values are optional: when their query fails the
// column is returned without them.
func (p *Profiler) Profile(ctx context.Context, table string) (*domain.DataProfile, error) {
	if table == "" {
		table = domain.DefaultTable
	}

	totalRows, err := p.catalog.CountRows(ctx, table)
	if err != nil {
		return nil, err
	}
	columns, err := p.catalog.ListColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.ColumnProfile, 0, len(columns))
	for _, col := range columns {
		cp, err := p.profileColumn(ctx, table, col)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *cp)
	}

	completeness := domain.Completeness(totalRows, profiles)
	return &domain.DataProfile{
		Table:            table,
		TotalRows:        totalRows,
		TotalColumns:     len(columns),
		Columns:          profiles,
		DataQualityScore: domain.QualityScore(completeness, profiles),
		Completeness:     completeness,
	}, nil
}

func (p *Profiler) profileColumn(ctx context.Context, table string, col domain.ColumnDescriptor) (*domain.ColumnProfile, error) {
	rs, err := p.q.Query(ctx, sqlgen.ColumnStatsSQL(table, col.Name))
	if err != nil {
		return nil, err
	}
	if len(rs.Rows) == 0 || len(rs.Rows[0]) < 3 {
		return nil, fmt.Errorf("column stats for %q: unexpected result shape", col.Name)
	}
	count, _ := engine.ToInt64(rs.Rows[0][0])
	nonNull, _ := engine.ToInt64(rs.Rows[0][1])
	unique, _ := engine.ToInt64(rs.Rows[0][2])

	cp := domain.NewColumnProfile(col, count, nonNull, unique)

	if cp.Kind == domain.ProfileKindNumeric {
		stats, err := p.numericStats(ctx, table, col.Name)
		if err != nil {
			p.logger.Warn("numeric stats unavailable", "table", table, "column", col.Name, "error", err)
		} else {
			cp.Numeric = stats
		}
	}

	if cp.WantsTopValues() {
		top, err := p.topValues(ctx, table, col.Name, cp.NonNullCount())
		if err != nil {
			p.logger.Warn("top values unavailable", "table", table, "column", col.Name, "error", err)
		} else {
			cp.TopValues = top
		}
	}

	return &cp, nil
}

func (p *Profiler) numericStats(ctx context.Context, table, column string) (*domain.NumericStats, error) {
	rs, err := p.q.Query(ctx, sqlgen.NumericStatsSQL(table, column))
	if err != nil {
		return nil, err
	}
	if len(rs.Rows) == 0 || len(rs.Rows[0]) < 5 {
		return nil, fmt.Errorf("unexpected result shape")
	}
	row := rs.Rows[0]
	stats := &domain.NumericStats{
		Min: engine.Normalize(row[0]),
		Max: engine.Normalize(row[1]),
	}
	stats.Avg = finite(row[2])
	stats.Median = finite(row[3])
	stats.StdDev = finite(row[4])
	return stats, nil
}

// finite returns v as a float, or nil when it is null, NaN or ±Inf.
func finite(v any) *float64 {
	f, ok := engine.ToFloat64(v)
	if !ok {
		return nil
	}
	return &f
}

func (p *Profiler) topValues(ctx context.Context, table, column string, nonNull int64) ([]domain.TopValue, error) {
	rs, err := p.q.Query(ctx, sqlgen.TopValuesSQL(table, column, domain.TopValuesLimit))
	if err != nil {
		return nil, err
	}
	top := make([]domain.TopValue, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("unexpected result shape")
		}
		count, _ := engine.ToInt64(row[1])
		tv := domain.TopValue{Value: engine.Normalize(row[0]), Count: count}
		if nonNull > 0 {
			tv.Percentage = float64(count) / float64(nonNull) * 100
		}
		top = append(top, tv)
	}
	return top, nil
}
