// Package export compiles export configs, serializes their results and hands
// the bytes to a sink.
package export

import (
	"context"
	"log/slog"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/sqlgen"
	"parquet-explorer/internal/sqlguard"
)

// Blob is a serialized export ready for download.
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
	Rows        int
}

// Service runs exports against one engine session.
type Service struct {
	q      domain.Querier
	guard  *sqlguard.Guard
	sink   Sink
	logger *slog.Logger
}

// NewService creates a new export Service. sink may be nil when exports are
// only returned to the caller.
func NewService(q domain.Querier, guard *sqlguard.Guard, sink Sink, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if guard == nil {
		guard = sqlguard.New(logger)
	}
	return &Service{q: q, guard: guard, sink: sink, logger: logger.With("component", "export")}
}

// Export compiles cfg, runs it and serializes the rows in cfg.Format.
// Invalid configs fail before any SQL is sent.
func (s *Service) Export(ctx context.Context, cfg domain.ExportConfig) (*Blob, error) {
	if err := s.check(cfg); err != nil {
		return nil, err
	}

	rs, err := s.q.Query(ctx, sqlgen.ExportSQL(cfg))
	if err != nil {
		return nil, err
	}

	data, err := Serialize(rs, cfg.Format)
	if err != nil {
		return nil, err
	}

	s.logger.Info("export serialized",
		"table", cfg.TableName, "format", cfg.Format, "rows", len(rs.Rows), "bytes", len(data))
	return &Blob{
		Data:        data,
		ContentType: cfg.Format.ContentType(),
		Filename:    cfg.Filename(),
		Rows:        len(rs.Rows),
	}, nil
}

// ShareableSQL returns the export statement formatted one clause per line.
func (s *Service) ShareableSQL(cfg domain.ExportConfig) (string, error) {
	if err := s.check(cfg); err != nil {
		return "", err
	}
	return sqlgen.ShareableSQL(cfg), nil
}

// Download writes blob to destination through the configured sink and
// returns the final location.
func (s *Service) Download(ctx context.Context, blob *Blob, destination string) (string, error) {
	if s.sink == nil {
		return "", domain.ErrValidation("no export sink configured")
	}
	if blob == nil {
		return "", domain.ErrValidation("nothing to download")
	}
	location, err := s.sink.Write(ctx, destination, blob)
	if err != nil {
		return "", err
	}
	s.logger.Info("export delivered", "location", location, "bytes", len(blob.Data))
	return location, nil
}

func (s *Service) check(cfg domain.ExportConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.guard.CheckFilter(cfg.WhereClause)
}
