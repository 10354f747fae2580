package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	internaldb "parquet-explorer/internal/db"
	"parquet-explorer/internal/domain"
)

// SavedQueryRepo implements domain.SavedQueryRepository.
type SavedQueryRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewSavedQueryRepo creates a new SavedQueryRepo.
func NewSavedQueryRepo(s *internaldb.Store) *SavedQueryRepo {
	return &SavedQueryRepo{write: s.Write, read: s.Read}
}

const savedQueryColumns = `id, name, sql, description, tags, created_at, last_run`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSavedQuery(row rowScanner) (*domain.SavedQuery, error) {
	var (
		q         domain.SavedQuery
		tags      string
		createdAt int64
		lastRun   sql.NullInt64
	)
	if err := row.Scan(&q.ID, &q.Name, &q.SQL, &q.Description, &tags, &createdAt, &lastRun); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &q.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of saved query %q: %w", q.ID, err)
	}
	q.CreatedAt = fromMillis(createdAt)
	q.LastRun = timePtr(lastRun)
	return &q, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

// List returns all saved queries in creation order.
func (r *SavedQueryRepo) List(ctx context.Context) ([]domain.SavedQuery, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT `+savedQueryColumns+` FROM saved_queries ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.SavedQuery{}
	for rows.Next() {
		q, err := scanSavedQuery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

// Get returns one saved query.
func (r *SavedQueryRepo) Get(ctx context.Context, id string) (*domain.SavedQuery, error) {
	row := r.read.QueryRowContext(ctx,
		`SELECT `+savedQueryColumns+` FROM saved_queries WHERE id = ?`, id)
	q, err := scanSavedQuery(row)
	if err != nil {
		return nil, mapDBError(err, "saved query", id)
	}
	return q, nil
}

// Create inserts q as given.
func (r *SavedQueryRepo) Create(ctx context.Context, q *domain.SavedQuery) (*domain.SavedQuery, error) {
	tags, err := encodeTags(q.Tags)
	if err != nil {
		return nil, err
	}
	_, err = r.write.ExecContext(ctx,
		`INSERT INTO saved_queries (`+savedQueryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Name, q.SQL, q.Description, tags, toMillis(q.CreatedAt), nullMillis(q.LastRun))
	if err != nil {
		return nil, mapDBError(err, "saved query", q.ID)
	}
	out := *q
	return &out, nil
}

// Update applies the non-nil fields of upd in one transaction.
func (r *SavedQueryRepo) Update(ctx context.Context, id string, upd domain.SavedQueryUpdate) (*domain.SavedQuery, error) {
	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	q, err := scanSavedQuery(tx.QueryRowContext(ctx,
		`SELECT `+savedQueryColumns+` FROM saved_queries WHERE id = ?`, id))
	if err != nil {
		return nil, mapDBError(err, "saved query", id)
	}

	if upd.Name != nil {
		q.Name = *upd.Name
	}
	if upd.SQL != nil {
		q.SQL = *upd.SQL
	}
	if upd.Description != nil {
		q.Description = *upd.Description
	}
	if upd.Tags != nil {
		q.Tags = upd.Tags
	}
	if upd.LastRun != nil {
		q.LastRun = upd.LastRun
	}

	tags, err := encodeTags(q.Tags)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE saved_queries SET name = ?, sql = ?, description = ?, tags = ?, last_run = ? WHERE id = ?`,
		q.Name, q.SQL, q.Description, tags, nullMillis(q.LastRun), id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return q, nil
}

// Delete removes a saved query. Unknown ids are ignored.
func (r *SavedQueryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.write.ExecContext(ctx, `DELETE FROM saved_queries WHERE id = ?`, id)
	return err
}
