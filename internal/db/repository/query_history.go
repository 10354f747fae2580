package repository

import (
	"context"
	"database/sql"

	internaldb "parquet-explorer/internal/db"
	"parquet-explorer/internal/domain"
)

// QueryHistoryRepo implements domain.QueryHistoryRepository. The table keeps
// at most domain.MaxHistoryEntries rows; each insert evicts the oldest rows
// in the same transaction.
type QueryHistoryRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewQueryHistoryRepo creates a new QueryHistoryRepo.
func NewQueryHistoryRepo(s *internaldb.Store) *QueryHistoryRepo {
	return &QueryHistoryRepo{write: s.Write, read: s.Read}
}

// Add inserts e and trims the history.
func (r *QueryHistoryRepo) Add(ctx context.Context, e *domain.QueryHistoryEntry) error {
	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO query_history (id, sql, executed_at, row_count, execution_time_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.SQL, toMillis(e.ExecutedAt), e.RowCount, e.ExecutionTimeMs, e.Error)
	if err != nil {
		return mapDBError(err, "history entry", e.ID)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM query_history
		 WHERE seq NOT IN (SELECT seq FROM query_history ORDER BY seq DESC LIMIT ?)`,
		domain.MaxHistoryEntries)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// List returns the history, most recent first.
func (r *QueryHistoryRepo) List(ctx context.Context) ([]domain.QueryHistoryEntry, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT id, sql, executed_at, row_count, execution_time_ms, error
		 FROM query_history ORDER BY seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.QueryHistoryEntry{}
	for rows.Next() {
		var (
			e          domain.QueryHistoryEntry
			executedAt int64
			rowCount   sql.NullInt64
			durationMs sql.NullInt64
			errMsg     sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.SQL, &executedAt, &rowCount, &durationMs, &errMsg); err != nil {
			return nil, err
		}
		e.ExecutedAt = fromMillis(executedAt)
		e.RowCount = int64Ptr(rowCount)
		e.ExecutionTimeMs = int64Ptr(durationMs)
		e.Error = stringPtr(errMsg)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Clear removes every entry.
func (r *QueryHistoryRepo) Clear(ctx context.Context) error {
	_, err := r.write.ExecContext(ctx, `DELETE FROM query_history`)
	return err
}
