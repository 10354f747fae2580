package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "parquet-explorer/internal/db"
	"parquet-explorer/internal/domain"
)

func setupQueryHistoryRepo(t *testing.T) *QueryHistoryRepo {
	t.Helper()
	return NewQueryHistoryRepo(internaldb.OpenTestStore(t))
}

func int64Of(v int64) *int64 { return &v }

func TestQueryHistoryRepo_AddAndList(t *testing.T) {
	repo := setupQueryHistoryRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Add(ctx, &domain.QueryHistoryEntry{
		ID: "h1", SQL: "SELECT 1", ExecutedAt: at, RowCount: int64Of(1), ExecutionTimeMs: int64Of(3),
	}))
	require.NoError(t, repo.Add(ctx, &domain.QueryHistoryEntry{
		ID: "h2", SQL: "SELECT nope", ExecutedAt: at.Add(time.Second), ExecutionTimeMs: int64Of(1), Error: strPtr("Binder Error"),
	}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "h2", list[0].ID)
	assert.Nil(t, list[0].RowCount)
	require.NotNil(t, list[0].Error)
	assert.Equal(t, "Binder Error", *list[0].Error)

	assert.Equal(t, "h1", list[1].ID)
	require.NotNil(t, list[1].RowCount)
	assert.Equal(t, int64(1), *list[1].RowCount)
	assert.True(t, at.Equal(list[1].ExecutedAt))
}

func TestQueryHistoryRepo_CappedNewestFirst(t *testing.T) {
	repo := setupQueryHistoryRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	total := domain.MaxHistoryEntries + 1
	for i := 0; i < total; i++ {
		require.NoError(t, repo.Add(ctx, &domain.QueryHistoryEntry{
			ID:         fmt.Sprintf("h%02d", i),
			SQL:        fmt.Sprintf("SELECT %d", i),
			ExecutedAt: at.Add(time.Duration(i) * time.Second),
		}))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, domain.MaxHistoryEntries)
	assert.Equal(t, fmt.Sprintf("h%02d", total-1), list[0].ID)
	assert.Equal(t, "h01", list[len(list)-1].ID, "oldest entry evicted")
}

func TestQueryHistoryRepo_Clear(t *testing.T) {
	repo := setupQueryHistoryRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &domain.QueryHistoryEntry{ID: "h1", SQL: "SELECT 1", ExecutedAt: time.Now()}))
	require.NoError(t, repo.Clear(ctx))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
