// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"strings"
	"sync"

	"parquet-explorer/internal/domain"
)

// === Querier Mock ===

// Call is one recorded round trip.
type Call struct {
	Exec bool
	SQL  string
	Args []any
}

// MockQuerier implements domain.Querier and records every round trip.
type MockQuerier struct {
	QueryFn func(ctx context.Context, query string, args ...any) (*domain.ResultSet, error)
	ExecFn  func(ctx context.Context, query string, args ...any) error

	mu    sync.Mutex
	calls []Call
}

// Query implements the interface method for testing.
func (m *MockQuerier) Query(ctx context.Context, query string, args ...any) (*domain.ResultSet, error) {
	m.record(Call{SQL: query, Args: args})
	if m.QueryFn != nil {
		return m.QueryFn(ctx, query, args...)
	}
	panic("unexpected call to MockQuerier.Query: " + query)
}

// Exec implements the interface method for testing.
func (m *MockQuerier) Exec(ctx context.Context, query string, args ...any) error {
	m.record(Call{Exec: true, SQL: query, Args: args})
	if m.ExecFn != nil {
		return m.ExecFn(ctx, query, args...)
	}
	panic("unexpected call to MockQuerier.Exec: " + query)
}

func (m *MockQuerier) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

// Calls returns a copy of the recorded round trips in order.
func (m *MockQuerier) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// RoundTrips returns the number of recorded calls.
func (m *MockQuerier) RoundTrips() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// CountContaining returns how many recorded statements contain substr.
func (m *MockQuerier) CountContaining(substr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if strings.Contains(c.SQL, substr) {
			n++
		}
	}
	return n
}

// ResultSet builds a result with the given columns and rows.
func ResultSet(columns []string, rows ...[]any) *domain.ResultSet {
	if rows == nil {
		rows = [][]any{}
	}
	return &domain.ResultSet{Columns: columns, Types: make([]string, len(columns)), Rows: rows}
}

// === Materializer Mock ===

// MockMaterializer implements domain.Materializer for testing.
type MockMaterializer struct {
	MaterializeFn func(ctx context.Context, tableName string, data []byte) error
	Tables        []string // table names passed to Materialize
}

// Materialize implements the interface method for testing.
func (m *MockMaterializer) Materialize(ctx context.Context, tableName string, data []byte) error {
	m.Tables = append(m.Tables, tableName)
	if m.MaterializeFn != nil {
		return m.MaterializeFn(ctx, tableName, data)
	}
	return nil
}

// === File Repository Mock ===

// MockFileRepo implements domain.FileRepository in memory.
type MockFileRepo struct {
	Files map[string]*domain.StoredFile
}

// Put implements the interface method for testing.
func (m *MockFileRepo) Put(_ context.Context, f *domain.StoredFile) error {
	if m.Files == nil {
		m.Files = map[string]*domain.StoredFile{}
	}
	m.Files[f.ID] = f
	return nil
}

// Get implements the interface method for testing.
func (m *MockFileRepo) Get(_ context.Context, id string) (*domain.StoredFile, error) {
	f, ok := m.Files[id]
	if !ok {
		return nil, domain.ErrNotFound("file %q not found", id)
	}
	return f, nil
}

// List implements the interface method for testing.
func (m *MockFileRepo) List(_ context.Context) ([]domain.StoredFileInfo, error) {
	out := make([]domain.StoredFileInfo, 0, len(m.Files))
	for _, f := range m.Files {
		out = append(out, f.Info())
	}
	return out, nil
}

// Delete implements the interface method for testing.
func (m *MockFileRepo) Delete(_ context.Context, id string) error {
	delete(m.Files, id)
	return nil
}

// Clear implements the interface method for testing.
func (m *MockFileRepo) Clear(_ context.Context) error {
	m.Files = nil
	return nil
}

// === Saved Query Repository Mock ===

// MockSavedQueryRepo implements domain.SavedQueryRepository in memory.
// UpdateFn overrides Update when set.
type MockSavedQueryRepo struct {
	Queries  []domain.SavedQuery
	UpdateFn func(ctx context.Context, id string, upd domain.SavedQueryUpdate) (*domain.SavedQuery, error)
}

// List implements the interface method for testing.
func (m *MockSavedQueryRepo) List(_ context.Context) ([]domain.SavedQuery, error) {
	return append([]domain.SavedQuery{}, m.Queries...), nil
}

// Get implements the interface method for testing.
func (m *MockSavedQueryRepo) Get(_ context.Context, id string) (*domain.SavedQuery, error) {
	for i := range m.Queries {
		if m.Queries[i].ID == id {
			q := m.Queries[i]
			return &q, nil
		}
	}
	return nil, domain.ErrNotFound("saved query %q not found", id)
}

// Create implements the interface method for testing.
func (m *MockSavedQueryRepo) Create(_ context.Context, q *domain.SavedQuery) (*domain.SavedQuery, error) {
	m.Queries = append(m.Queries, *q)
	out := *q
	return &out, nil
}

// Update implements the interface method for testing.
func (m *MockSavedQueryRepo) Update(ctx context.Context, id string, upd domain.SavedQueryUpdate) (*domain.SavedQuery, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, upd)
	}
	for i := range m.Queries {
		if m.Queries[i].ID != id {
			continue
		}
		q := &m.Queries[i]
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
		out := *q
		return &out, nil
	}
	return nil, domain.ErrNotFound("saved query %q not found", id)
}

// Delete implements the interface method for testing.
func (m *MockSavedQueryRepo) Delete(_ context.Context, id string) error {
	kept := m.Queries[:0]
	for _, q := range m.Queries {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	m.Queries = kept
	return nil
}

// === Query History Repository Mock ===

// MockHistoryRepo implements domain.QueryHistoryRepository in memory, newest
// first and capped at domain.MaxHistoryEntries. AddFn overrides Add when set.
type MockHistoryRepo struct {
	Entries []domain.QueryHistoryEntry
	AddFn   func(ctx context.Context, e *domain.QueryHistoryEntry) error
}

// Add implements the interface method for testing.
func (m *MockHistoryRepo) Add(ctx context.Context, e *domain.QueryHistoryEntry) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, e)
	}
	m.Entries = append([]domain.QueryHistoryEntry{*e}, m.Entries...)
	if len(m.Entries) > domain.MaxHistoryEntries {
		m.Entries = m.Entries[:domain.MaxHistoryEntries]
	}
	return nil
}

// List implements the interface method for testing.
func (m *MockHistoryRepo) List(_ context.Context) ([]domain.QueryHistoryEntry, error) {
	return append([]domain.QueryHistoryEntry{}, m.Entries...), nil
}

// Clear implements the interface method for testing.
func (m *MockHistoryRepo) Clear(_ context.Context) error {
	m.Entries = nil
	return nil
}
