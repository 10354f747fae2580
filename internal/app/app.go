// Package app provides application-level wiring and dependency injection
// for the parquet explorer server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"parquet-explorer/internal/api"
	"parquet-explorer/internal/config"
	internaldb "parquet-explorer/internal/db"
	"parquet-explorer/internal/db/repository"
	"parquet-explorer/internal/engine"
	"parquet-explorer/internal/middleware"
	"parquet-explorer/internal/service/catalog"
	"parquet-explorer/internal/service/chart"
	"parquet-explorer/internal/service/export"
	"parquet-explorer/internal/service/files"
	"parquet-explorer/internal/service/multitable"
	"parquet-explorer/internal/service/profile"
	"parquet-explorer/internal/service/query"
	"parquet-explorer/internal/service/trend"
	"parquet-explorer/internal/sqlguard"
	"parquet-explorer/internal/ui"
)

// Deps holds the external dependencies that main() must provide: config,
// the engine session and the local store.
type Deps struct {
	Cfg    *config.Config
	Engine *engine.Session
	Store  *internaldb.Store
	Logger *slog.Logger
}

// App holds the fully-wired application.
type App struct {
	Services    api.Services
	Handler     *api.Handler
	UI          *ui.Handler
	RateLimiter *middleware.RateLimiter
	Validator   middleware.TokenValidator

	cfg    *config.Config
	logger *slog.Logger
}

// New wires repositories and services from deps and loads the seed file
// when one is configured.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	eng := deps.Engine

	// === Repositories ===
	savedRepo := repository.NewSavedQueryRepo(deps.Store)
	historyRepo := repository.NewQueryHistoryRepo(deps.Store)
	fileRepo := repository.NewFileRepo(deps.Store)

	// === Services ===
	introspector := catalog.NewIntrospector(eng)
	profiler := profile.NewProfiler(eng, logger)
	guard := sqlguard.New(logger)
	sinks := export.NewSinks(SinkConfig(cfg.Sinks))

	svc := api.Services{
		Catalog:  introspector,
		Profiler: profiler,
		Trend:    trend.NewAggregator(eng, cfg.TargetTable, logger),
		Charts:   chart.NewBuilder(eng, logger),
		Exports:  export.NewService(eng, guard, sinks, logger),
		Tables:   multitable.NewExecutor(eng, eng, fileRepo, logger),
		Queries:  query.NewQueryService(eng, savedRepo, historyRepo, logger),
		Files:    files.NewService(fileRepo, cfg.MaxUploadBytes, logger),
	}

	if cfg.SeedFile != "" {
		if err := seedTargetTable(ctx, eng, cfg.SeedFile, cfg.TargetTable, logger); err != nil {
			return nil, fmt.Errorf("seed %s: %w", cfg.TargetTable, err)
		}
	}

	validator, err := newValidator(ctx, cfg.Auth)
	if err != nil {
		return nil, err
	}

	return &App{
		Services: svc,
		Handler: api.NewHandler(svc, api.Options{
			DefaultTable:   cfg.TargetTable,
			TrendMaxPoints: cfg.TrendMaxPoints,
			MaxUploadBytes: cfg.MaxUploadBytes,
		}, logger),
		UI:          ui.NewHandler(profiler, introspector, cfg.TargetTable, logger),
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Validator:   validator,
		cfg:         cfg,
		logger:      logger,
	}, nil
}

// Router builds the HTTP handler. The rate limiter's sweeper runs until ctx
// is cancelled.
func (a *App) Router(ctx context.Context) http.Handler {
	go a.RateLimiter.Run(ctx)
	return api.NewRouter(a.Handler, api.RouterConfig{
		CORSOrigins: a.cfg.CORSAllowedOrigins,
		RateLimiter: a.RateLimiter,
		Validator:   a.Validator,
		UI:          a.UI.Routes(),
		Logger:      a.logger,
	})
}

// SinkConfig maps the sink settings of the config to the export package.
func SinkConfig(c config.SinkConfig) export.SinkConfig {
	return export.SinkConfig{
		S3Endpoint:       c.S3Endpoint,
		S3Region:         c.S3Region,
		S3KeyID:          c.S3KeyID,
		S3Secret:         c.S3Secret,
		GCSKeyFile:       c.GCSKeyFile,
		AzureAccountName: c.AzureAccountName,
		AzureAccountKey:  c.AzureAccountKey,
	}
}

// newValidator picks the bearer token validator for the configured auth
// mode. ctx must outlive the validator when OIDC is used.
func newValidator(ctx context.Context, c config.AuthConfig) (middleware.TokenValidator, error) {
	switch {
	case c.OIDCIssuer != "":
		v, err := middleware.NewOIDCValidator(ctx, c.OIDCIssuer, c.Audience)
		if err != nil {
			return nil, fmt.Errorf("auth: %w", err)
		}
		return v, nil
	case c.JWTSecret != "":
		return middleware.NewHS256Validator(c.JWTSecret, c.Issuer, c.Audience), nil
	default:
		return nil, nil
	}
}
