package query

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/engine"
)

// QueryResult holds the normalized output of a user query.
//
//nolint:revive // Name chosen for clarity across package boundaries
type QueryResult struct {
	Columns         []string        `json:"columns"`
	Records         []engine.Record `json:"rows"`
	RowCount        int             `json:"row_count"`
	ExecutionTimeMs int64           `json:"execution_time_ms"`
}

// QueryService runs raw user SQL and keeps saved queries and the execution
// history.
//
//nolint:revive // Name chosen for clarity across package boundaries
type QueryService struct {
	q       domain.Querier
	saved   domain.SavedQueryRepository
	history domain.QueryHistoryRepository
	logger  *slog.Logger
	now     func() time.Time
}

// NewQueryService creates a new QueryService.
func NewQueryService(q domain.Querier, saved domain.SavedQueryRepository, history domain.QueryHistoryRepository, logger *slog.Logger) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{
		q:       q,
		saved:   saved,
		history: history,
		logger:  logger.With("component", "query"),
		now:     time.Now,
	}
}

// Execute runs sqlQuery as given and records a history entry with the row
// count and duration, or the engine's error message. Only empty input is
// rejected up front.
func (s *QueryService) Execute(ctx context.Context, sqlQuery string) (*QueryResult, error) {
	if strings.TrimSpace(sqlQuery) == "" {
		return nil, domain.ErrValidation("sql query is required")
	}

	start := s.now()
	rs, err := s.q.Query(ctx, sqlQuery)
	duration := s.now().Sub(start).Milliseconds()

	if err != nil {
		msg := err.Error()
		s.recordHistory(ctx, &domain.QueryHistoryEntry{SQL: sqlQuery, ExecutionTimeMs: &duration, Error: &msg})
		return nil, err
	}

	rowCount := int64(len(rs.Rows))
	s.recordHistory(ctx, &domain.QueryHistoryEntry{SQL: sqlQuery, RowCount: &rowCount, ExecutionTimeMs: &duration})

	return &QueryResult{
		Columns:         rs.Columns,
		Records:         engine.Records(rs),
		RowCount:        len(rs.Rows),
		ExecutionTimeMs: duration,
	}, nil
}

// recordHistory is best-effort: a failing store never fails the query.
func (s *QueryService) recordHistory(ctx context.Context, e *domain.QueryHistoryEntry) {
	if s.history == nil {
		return
	}
	e.ID = domain.NewID()
	e.ExecutedAt = s.now()
	if err := s.history.Add(ctx, e); err != nil {
		s.logger.Warn("record query history", "error", err)
	}
}

// History returns the most recent executions first.
func (s *QueryService) History(ctx context.Context) ([]domain.QueryHistoryEntry, error) {
	return s.history.List(ctx)
}

// ClearHistory removes every history entry.
func (s *QueryService) ClearHistory(ctx context.Context) error {
	return s.history.Clear(ctx)
}
