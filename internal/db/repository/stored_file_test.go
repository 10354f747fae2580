package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "parquet-explorer/internal/db"
	"parquet-explorer/internal/domain"
)

func setupFileRepo(t *testing.T) *FileRepo {
	t.Helper()
	return NewFileRepo(internaldb.OpenTestStore(t))
}

func TestFileRepo_PutGetList(t *testing.T) {
	repo := setupFileRepo(t)
	ctx := context.Background()
	first := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	files := []*domain.StoredFile{
		{ID: domain.NewFileID("b.parquet", second), Name: "b.parquet", Size: 3, UploadedAt: second, Data: []byte("bbb")},
		{ID: domain.NewFileID("a.parquet", first), Name: "a.parquet", Size: 2, UploadedAt: first, Data: []byte("aa")},
	}
	for _, f := range files {
		require.NoError(t, repo.Put(ctx, f))
	}

	got, err := repo.Get(ctx, files[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "a.parquet", got.Name)
	assert.Equal(t, []byte("aa"), got.Data)
	assert.True(t, first.Equal(got.UploadedAt))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a.parquet", list[0].Name)
	assert.Equal(t, "b.parquet", list[1].Name)
	assert.Equal(t, int64(3), list[1].Size)
}

func TestFileRepo_PutReplaces(t *testing.T) {
	repo := setupFileRepo(t)
	ctx := context.Background()

	f := &domain.StoredFile{ID: "1-x", Name: "x", Size: 1, UploadedAt: time.Now(), Data: []byte("1")}
	require.NoError(t, repo.Put(ctx, f))
	f.Data, f.Size = []byte("22"), 2
	require.NoError(t, repo.Put(ctx, f))

	got, err := repo.Get(ctx, "1-x")
	require.NoError(t, err)
	assert.Equal(t, []byte("22"), got.Data)
}

func TestFileRepo_DeleteAndClear(t *testing.T) {
	repo := setupFileRepo(t)
	ctx := context.Background()

	for _, id := range []string{"1-a", "2-b"} {
		require.NoError(t, repo.Put(ctx, &domain.StoredFile{ID: id, Name: id, UploadedAt: time.Now(), Data: []byte{1}}))
	}

	require.NoError(t, repo.Delete(ctx, "1-a"))
	_, err := repo.Get(ctx, "1-a")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)

	require.NoError(t, repo.Clear(ctx))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
