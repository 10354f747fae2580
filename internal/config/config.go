// Package config handles application configuration loading.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"parquet-explorer/internal/sqlgen"
)

// AuthConfig holds API authentication settings. Tokens are verified with the
// shared JWTSecret or, when OIDCIssuer is set, against the provider's
// published keys. With neither the API is served without authentication.
type AuthConfig struct {
	JWTSecret  string `yaml:"-" env:"JWT_SECRET"`
	OIDCIssuer string `yaml:"oidc_issuer" env:"AUTH_OIDC_ISSUER"`
	Issuer     string `yaml:"issuer" env:"AUTH_ISSUER"`
	Audience   string `yaml:"audience" env:"AUTH_AUDIENCE"`
}

// Enabled reports whether bearer tokens are required.
func (a *AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || a.OIDCIssuer != ""
}

// RateLimitConfig holds the per-client API rate limit.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"100"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"200"`
}

// SinkConfig holds object storage credentials for export downloads. Secrets
// come from the environment only.
type SinkConfig struct {
	S3Endpoint       string `yaml:"s3_endpoint" env:"S3_ENDPOINT"`
	S3Region         string `yaml:"s3_region" env:"S3_REGION" env-default:"us-east-1"`
	S3KeyID          string `yaml:"-" env:"S3_KEY_ID"`
	S3Secret         string `yaml:"-" env:"S3_SECRET"`
	GCSKeyFile       string `yaml:"gcs_key_file" env:"GCS_KEY_FILE"`
	AzureAccountName string `yaml:"azure_account_name" env:"AZURE_ACCOUNT_NAME"`
	AzureAccountKey  string `yaml:"-" env:"AZURE_ACCOUNT_KEY"`
}

// Config holds the configuration of the explorer server and CLI.
type Config struct {
	ListenAddr      string        `yaml:"listen_addr" env:"LISTEN_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"15s"`
	Env             string        `yaml:"env" env:"ENV" env-default:"development"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	// DuckDBPath is the engine database file; empty means in-memory.
	DuckDBPath string `yaml:"duckdb_path" env:"DUCKDB_PATH"`
	TempDir    string `yaml:"temp_dir" env:"TEMP_DIR"`
	StorePath  string `yaml:"store_path" env:"STORE_PATH" env-default:"explorer.sqlite"`

	// SeedFile is a Parquet file loaded into TargetTable at startup.
	SeedFile       string `yaml:"seed_file" env:"SEED_FILE"`
	TargetTable    string `yaml:"target_table" env:"TARGET_TABLE" env-default:"parquet_data"`
	TrendMaxPoints int    `yaml:"trend_max_points" env:"TREND_MAX_POINTS" env-default:"90"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"MAX_UPLOAD_BYTES" env-default:"268435456"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Auth      AuthConfig      `yaml:"auth"`
	Sinks     SinkConfig      `yaml:"sinks"`

	// Warnings collects non-fatal findings from Load. They are logged once
	// the logger exists.
	Warnings []string `yaml:"-"`
}

// Load reads configuration from path (yaml, json, toml or .env) with
// environment overrides, or from the environment alone when path is empty
// or does not exist. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			return finish(cfg)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read config from environment: %w", err)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.CORSAllowedOrigins = compactNonEmpty(cfg.CORSAllowedOrigins)
	if !cfg.Auth.Enabled() {
		cfg.Warnings = append(cfg.Warnings, "neither JWT_SECRET nor AUTH_OIDC_ISSUER is set: the API accepts unauthenticated requests")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent. In
// production, insecure defaults are errors.
func (c *Config) Validate() error {
	if err := sqlgen.ValidateTableName(c.TargetTable); err != nil {
		return fmt.Errorf("TARGET_TABLE: %w", err)
	}
	if c.TrendMaxPoints <= 0 {
		return fmt.Errorf("TREND_MAX_POINTS must be positive, got %d", c.TrendMaxPoints)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive (rps=%v, burst=%d)", c.RateLimit.RPS, c.RateLimit.Burst)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.Auth.JWTSecret != "" && c.Auth.OIDCIssuer != "" {
		return fmt.Errorf("JWT_SECRET and AUTH_OIDC_ISSUER are mutually exclusive")
	}
	if (c.Sinks.S3KeyID == "") != (c.Sinks.S3Secret == "") {
		return fmt.Errorf("S3_KEY_ID and S3_SECRET must be set together")
	}

	if c.IsProduction() {
		if !c.Auth.Enabled() {
			return fmt.Errorf("JWT_SECRET or AUTH_OIDC_ISSUER must be set in production (ENV=production)")
		}
		if len(c.CORSAllowedOrigins) == 0 || (len(c.CORSAllowedOrigins) == 1 && c.CORSAllowedOrigins[0] == "*") {
			return fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
	}
	return nil
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// NewLogger builds the process logger: JSON in production, text otherwise.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
