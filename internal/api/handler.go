// Package api provides the HTTP handlers of the parquet explorer REST API.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/service/catalog"
	"parquet-explorer/internal/service/chart"
	"parquet-explorer/internal/service/export"
	"parquet-explorer/internal/service/files"
	"parquet-explorer/internal/service/multitable"
	"parquet-explorer/internal/service/profile"
	"parquet-explorer/internal/service/query"
	"parquet-explorer/internal/service/trend"
)

const maxJSONBody = 1 << 20

// Services are the domain services behind the API.
type Services struct {
	Catalog  *catalog.Introspector
	Profiler *profile.Profiler
	Trend    *trend.Aggregator
	Charts   *chart.Builder
	Exports  *export.Service
	Tables   *multitable.Executor
	Queries  *query.QueryService
	Files    *files.Service
}

// Options tune request handling.
type Options struct {
	// DefaultTable is profiled when the request names no table.
	DefaultTable string
	// TrendMaxPoints is the bucket count when the request gives none.
	TrendMaxPoints int
	// MaxUploadBytes bounds multipart uploads.
	MaxUploadBytes int64
}

// Handler serves the /v1 routes.
type Handler struct {
	svc    Services
	opts   Options
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc Services, opts Options, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DefaultTable == "" {
		opts.DefaultTable = domain.DefaultTable
	}
	if opts.TrendMaxPoints <= 0 {
		opts.TrendMaxPoints = domain.DefaultTrendPoints
	}
	return &Handler{svc: svc, opts: opts, logger: logger.With("component", "api")}
}

// Routes registers every endpoint on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/tables", h.ListTables)
	r.Route("/tables/{name}", func(r chi.Router) {
		r.Get("/columns", h.ListColumns)
		r.Get("/preview", h.PreviewTable)
		r.Delete("/", h.DropTable)
	})
	r.Post("/joins", h.Join)
	r.Post("/unions", h.Union)

	r.Get("/profile", h.Profile)
	r.Get("/trend", h.Trend)
	r.Get("/stats", h.Stats)
	r.Post("/charts", h.GenerateChart)

	r.Post("/exports", h.Export)
	r.Post("/exports/sql", h.ExportSQL)

	r.Post("/query", h.ExecuteQuery)
	r.Get("/history", h.ListHistory)
	r.Delete("/history", h.ClearHistory)
	r.Get("/templates", h.ListTemplates)
	r.Get("/saved-queries", h.ListSavedQueries)
	r.Post("/saved-queries", h.CreateSavedQuery)
	r.Route("/saved-queries/{id}", func(r chi.Router) {
		r.Patch("/", h.UpdateSavedQuery)
		r.Delete("/", h.DeleteSavedQuery)
		r.Post("/run", h.RunSavedQuery)
	})

	r.Get("/files", h.ListFiles)
	r.Post("/files", h.UploadFile)
	r.Delete("/files", h.ClearFiles)
	r.Route("/files/{id}", func(r chi.Router) {
		r.Delete("/", h.DeleteFile)
		r.Post("/load", h.LoadFile)
	})
}

// decodeJSON reads a single JSON object from the body into dst. An empty body
// leaves dst untouched when allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return domain.ErrValidation("request body is required")
		}
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

// pathParam returns the unescaped URL parameter key.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// intQuery parses the query parameter key, returning def when it is absent.
func intQuery(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrValidation("%s must be an integer, got %q", key, raw)
	}
	return n, nil
}
