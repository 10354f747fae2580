package domain

import "context"

// ResultSet is a query result as returned by the engine: declared column
// order, engine type names, and raw row values. Values are not normalized.
type ResultSet struct {
	Columns []string
	Types   []string
	Rows    [][]any
}

// Querier is one engine session. Every call is a single round trip.
// Implemented by engine.Session.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*ResultSet, error)
	Exec(ctx context.Context, query string, args ...any) error
}

// Materializer creates an engine table from a raw Parquet buffer.
// Implemented by engine.Session.
type Materializer interface {
	Materialize(ctx context.Context, tableName string, data []byte) error
}

// SavedQueryRepository persists saved queries.
type SavedQueryRepository interface {
	List(ctx context.Context) ([]SavedQuery, error)
	Get(ctx context.Context, id string) (*SavedQuery, error)
	Create(ctx context.Context, q *SavedQuery) (*SavedQuery, error)
	Update(ctx context.Context, id string, upd SavedQueryUpdate) (*SavedQuery, error)
	Delete(ctx context.Context, id string) error
}

// QueryHistoryRepository persists the capped execution history.
type QueryHistoryRepository interface {
	Add(ctx context.Context, e *QueryHistoryEntry) error
	List(ctx context.Context) ([]QueryHistoryEntry, error)
	Clear(ctx context.Context) error
}

// FileRepository persists uploaded files.
type FileRepository interface {
	Put(ctx context.Context, f *StoredFile) error
	Get(ctx context.Context, id string) (*StoredFile, error)
	List(ctx context.Context) ([]StoredFileInfo, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
