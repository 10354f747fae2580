package repository

import (
	"context"
	"database/sql"

	internaldb "parquet-explorer/internal/db"
	"parquet-explorer/internal/domain"
)

// FileRepo implements domain.FileRepository.
type FileRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewFileRepo creates a new FileRepo.
func NewFileRepo(s *internaldb.Store) *FileRepo {
	return &FileRepo{write: s.Write, read: s.Read}
}

// Put stores f, replacing any file with the same id.
func (r *FileRepo) Put(ctx context.Context, f *domain.StoredFile) error {
	_, err := r.write.ExecContext(ctx,
		`INSERT OR REPLACE INTO stored_files (id, name, size, uploaded_at, data) VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.Name, f.Size, toMillis(f.UploadedAt), f.Data)
	return err
}

// Get returns a stored file with its contents.
func (r *FileRepo) Get(ctx context.Context, id string) (*domain.StoredFile, error) {
	var (
		f          domain.StoredFile
		uploadedAt int64
	)
	err := r.read.QueryRowContext(ctx,
		`SELECT id, name, size, uploaded_at, data FROM stored_files WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &f.Size, &uploadedAt, &f.Data)
	if err != nil {
		return nil, mapDBError(err, "file", id)
	}
	f.UploadedAt = fromMillis(uploadedAt)
	return &f, nil
}

// List returns the metadata of every stored file ordered by id, which orders
// them by upload time.
func (r *FileRepo) List(ctx context.Context) ([]domain.StoredFileInfo, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT id, name, size, uploaded_at FROM stored_files ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.StoredFileInfo{}
	for rows.Next() {
		var (
			info       domain.StoredFileInfo
			uploadedAt int64
		)
		if err := rows.Scan(&info.ID, &info.Name, &info.Size, &uploadedAt); err != nil {
			return nil, err
		}
		info.UploadedAt = fromMillis(uploadedAt)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a stored file. Unknown ids are ignored.
func (r *FileRepo) Delete(ctx context.Context, id string) error {
	_, err := r.write.ExecContext(ctx, `DELETE FROM stored_files WHERE id = ?`, id)
	return err
}

// Clear removes every stored file.
func (r *FileRepo) Clear(ctx context.Context) error {
	_, err := r.write.ExecContext(ctx, `DELETE FROM stored_files`)
	return err
}
