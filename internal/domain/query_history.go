package domain

import "time"

// MaxHistoryEntries is the number of history entries retained; older entries
// are evicted first.
const MaxHistoryEntries = 50

// QueryHistoryEntry records a single execution of user SQL.
type QueryHistoryEntry struct {
	ID              string    `json:"id"`
	SQL             string    `json:"sql"`
	ExecutedAt      time.Time `json:"executed_at"`
	RowCount        *int64    `json:"row_count,omitempty"`
	ExecutionTimeMs *int64    `json:"execution_time_ms,omitempty"`
	Error           *string   `json:"error,omitempty"`
}

// SavedQuery is a named query kept by the user.
type SavedQuery struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	SQL         string     `json:"sql"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastRun     *time.Time `json:"last_run,omitempty"`
}

// SavedQueryUpdate holds the mutable fields of a SavedQuery; nil fields are
// left unchanged.
type SavedQueryUpdate struct {
	Name        *string    `json:"name,omitempty"`
	SQL         *string    `json:"sql,omitempty"`
	Description *string    `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	LastRun     *time.Time `json:"last_run,omitempty"`
}
