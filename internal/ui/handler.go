// Package ui renders the server-side HTML report pages.
package ui

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	gomponents "maragu.dev/gomponents"

	"parquet-explorer/internal/domain"
	"parquet-explorer/internal/service/catalog"
	"parquet-explorer/internal/service/profile"
	"parquet-explorer/internal/ui/assets"
)

type Handler struct {
	Profiler     *profile.Profiler
	Catalog      *catalog.Introspector
	DefaultTable string
	logger       *slog.Logger
}

func NewHandler(profiler *profile.Profiler, cat *catalog.Introspector, defaultTable string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultTable == "" {
		defaultTable = domain.DefaultTable
	}
	return &Handler{
		Profiler:     profiler,
		Catalog:      cat,
		DefaultTable: defaultTable,
		logger:       logger.With("component", "ui"),
	}
}

// Routes returns the router to mount at /ui.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	staticFS, err := fs.Sub(assets.StaticFS(), "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/ui/static/", http.FileServer(http.FS(staticFS))))
	}
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/profile", http.StatusFound)
	})
	r.Get("/profile", h.ProfilePage)
	return r
}

// ProfilePage renders the profile of ?table= (default table when absent).
func (h *Handler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table == "" {
		table = h.DefaultTable
	}

	tables, err := h.Catalog.ListTables(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "list tables for profile page", "error", err)
	}

	p, err := h.Profiler.Profile(r.Context(), table)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	renderHTML(w, http.StatusOK, profilePage(p, tables))
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func (h *Handler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	title := "Unexpected Error"
	message := "An unexpected error occurred while loading this page."

	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	var engineErr *domain.EngineError
	switch {
	case errors.As(err, &notFound):
		status, title, message = http.StatusNotFound, "Not Found", notFound.Error()
	case errors.As(err, &validation):
		status, title, message = http.StatusBadRequest, "Invalid Request", validation.Error()
	case errors.As(err, &engineErr):
		status, title, message = http.StatusBadRequest, "Query Failed", engineErr.Error()
	default:
		h.logger.ErrorContext(r.Context(), "ui request failed", "path", r.URL.Path, "error", err)
	}
	renderHTML(w, status, errorPage(title, message))
}
