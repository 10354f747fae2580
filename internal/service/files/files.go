// Package files keeps uploaded Parquet files in the local file store.
package files

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"parquet-explorer/internal/domain"
)

var parquetMagic = []byte("PAR1")

// Service validates and stores uploaded files.
type Service struct {
	repo     domain.FileRepository
	maxBytes int64
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new Service. maxBytes <= 0 disables the size check.
func NewService(repo domain.FileRepository, maxBytes int64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		maxBytes: maxBytes,
		logger:   logger.With("component", "files"),
		now:      time.Now,
	}
}

// Inspect checks that data is a readable Parquet file and returns its row
// and top-level column counts from the footer.
func Inspect(data []byte) (int64, int, error) {
	if len(data) < 2*len(parquetMagic) ||
		!bytes.HasPrefix(data, parquetMagic) || !bytes.HasSuffix(data, parquetMagic) {
		return 0, 0, domain.ErrValidation("file is not a Parquet file")
	}
	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, 0, domain.ErrValidation("invalid Parquet file: %v", err)
	}
	return f.NumRows(), len(f.Schema().Fields()), nil
}

// Upload stores data under a fresh id derived from the upload time and the
// base name of name.
func (s *Service) Upload(ctx context.Context, name string, data []byte) (*domain.StoredFileInfo, error) {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "" || name == "." || name == "/" {
		return nil, domain.ErrValidation("file name is required")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, domain.ErrValidation("file %q exceeds the %d byte upload limit", name, s.maxBytes)
	}

	rows, cols, err := Inspect(data)
	if err != nil {
		return nil, err
	}

	at := s.now().UTC()
	f := &domain.StoredFile{
		ID:         domain.NewFileID(name, at),
		Name:       name,
		Size:       int64(len(data)),
		UploadedAt: at,
		Data:       data,
	}
	if err := s.repo.Put(ctx, f); err != nil {
		return nil, fmt.Errorf("store file %q: %w", name, err)
	}

	info := f.Info()
	info.NumRows = rows
	info.NumColumns = cols
	s.logger.Info("file stored", "id", f.ID, "size", f.Size, "rows", rows, "columns", cols)
	return &info, nil
}

// List returns the metadata of every stored file.
func (s *Service) List(ctx context.Context) ([]domain.StoredFileInfo, error) {
	return s.repo.List(ctx)
}

// Delete removes a stored file. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Clear removes every stored file.
func (s *Service) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
