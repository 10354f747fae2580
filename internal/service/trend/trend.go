// Package trend buckets the target table by day and summarizes it.
package trend

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/engine"
	"parquet-explorer/internal/sqlgen"
)

// DateColumnCandidates are probed in order; the first one that exists is
// used for bucketing.
var DateColumnCandidates = []string{"tpep_pickup_datetime", "pickup_datetime", "date", "timestamp"}

// Aggregator computes daily trends over one table.
type Aggregator struct {
	q      domain.Querier
	table  string
	logger *slog.Logger
}

// NewAggregator creates an Aggregator over table, or the default table
// when empty.
func NewAggregator(q domain.Querier, table string, logger *slog.Logger) *Aggregator {
	if table == "" {
		table = domain.DefaultTable
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{q: q, table: table, logger: logger.With("component", "trend", "table", table)}
}

// Table returns the table the aggregator reads.
func (a *Aggregator) Table() string {
	return a.table
}

// DateColumn probes the candidates in order and returns the first that can be
// selected. Probing stops at the first success. A failed probe means the
// candidate does not exist, unless ctx itself is done.
func (a *Aggregator) DateColumn(ctx context.Context) (string, bool, error) {
	for _, col := range DateColumnCandidates {
		if _, err := a.q.Query(ctx, sqlgen.DateProbeSQL(a.table, col)); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", false, ctxErr
			}
			a.logger.Debug("date column probe failed", "column", col, "error", err)
			continue
		}
		return col, true, nil
	}
	return "", false, nil
}

// Trend returns up to maxPoints daily buckets in ascending date order,
// keeping the earliest days when capped. maxPoints <= 0 uses the default.
// Without a date column, or when bucketing fails, the result is empty and
// the error nil. Only context cancellation is returned.
func (a *Aggregator) Trend(ctx context.Context, maxPoints int) ([]domain.TrendPoint, error) {
	if maxPoints <= 0 {
		maxPoints = domain.DefaultTrendPoints
	}

	col, ok, err := a.DateColumn(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		a.logger.Warn("no date column found, returning empty trend")
		return []domain.TrendPoint{}, nil
	}

	rs, err := a.q.Query(ctx, sqlgen.TrendSQL(a.table, col, maxPoints))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		a.logger.Warn("trend query failed, returning empty trend", "column", col, "error", err)
		return []domain.TrendPoint{}, nil
	}

	points := make([]domain.TrendPoint, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		p := domain.TrendPoint{Date: formatDay(row[0])}
		p.Trips, _ = engine.ToInt64(row[1])
		p.Revenue, _ = engine.ToFloat64(row[2])
		p.AvgFare, _ = engine.ToFloat64(row[3])
		points = append(points, p)
	}
	return points, nil
}

// Stats summarizes the table and compares revenue and trips of the first and
// second half of its rows. Any failure is logged and yields zero stats.
func (a *Aggregator) Stats(ctx context.Context) *domain.DataStats {
	stats, err := a.stats(ctx)
	if err != nil {
		a.logger.Warn("stats unavailable", "error", err)
		return &domain.DataStats{}
	}
	return stats
}

func (a *Aggregator) stats(ctx context.Context) (*domain.DataStats, error) {
	rs, err := a.q.Query(ctx, sqlgen.StatsSQL(a.table))
	if err != nil {
		return nil, err
	}
	if len(rs.Rows) == 0 || len(rs.Rows[0]) < 5 {
		return nil, errors.New("stats: unexpected result shape")
	}
	row := rs.Rows[0]
	stats := &domain.DataStats{}
	stats.TotalTrips, _ = engine.ToInt64(row[0])
	stats.TotalRevenue, _ = engine.ToFloat64(row[1])
	stats.AvgFare, _ = engine.ToFloat64(row[2])
	stats.AvgDistance, _ = engine.ToFloat64(row[3])
	stats.AvgPassengers, _ = engine.ToFloat64(row[4])

	halves, err := a.q.Query(ctx, sqlgen.HalvesSQL(a.table))
	if err != nil {
		return nil, err
	}
	var first, second *half
	for _, r := range halves.Rows {
		h := &half{}
		h.revenue, _ = engine.ToFloat64(r[1])
		h.trips, _ = engine.ToFloat64(r[2])
		switch r[0] {
		case "first":
			first = h
		case "second":
			second = h
		}
	}
	if first != nil && second != nil {
		stats.RevenueChange = percentChange(first.revenue, second.revenue)
		stats.TripsChange = percentChange(first.trips, second.trips)
	}
	return stats, nil
}

type half struct {
	revenue float64
	trips   float64
}

func percentChange(from, to float64) float64 {
	if from <= 0 {
		return 0
	}
	return (to - from) / from * 100
}

func formatDay(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format("2006-01-02")
	case string:
		if len(t) >= 10 {
			return t[:10]
		}
		return t
	default:
		return ""
	}
}
