package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"parquet-explorer/internal/middleware"
)

// RouterConfig holds the cross-cutting pieces wrapped around the handlers.
type RouterConfig struct {
	CORSOrigins []string
	// RateLimiter is optional.
	RateLimiter *middleware.RateLimiter
	// Validator enables bearer authentication on /v1 and /ui when set.
	Validator middleware.TokenValidator
	// UI is mounted at /ui when set.
	UI     http.Handler
	Logger *slog.Logger
}

// NewRouter builds the HTTP handler of the server.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Content-Disposition", "X-Row-Count"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Validator))
		r.Route("/v1", h.Routes)
		if cfg.UI != nil {
			r.Mount("/ui", cfg.UI)
		}
	})
	return r
}
