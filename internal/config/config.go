// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers an optional file and env on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address.
	Addr string `koanf:"addr"`

	// DatabaseURL is the Postgres DSN backing the rating store and user
	// directory. Empty selects the in-memory store (local runs, tests).
	DatabaseURL string `koanf:"database_url"`

	// TokenSecret signs issued bearer tokens. The default is only suitable
	// for local development.
	TokenSecret string `koanf:"token_secret"`

	// TokenTTLMinutes bounds the lifetime of issued tokens.
	TokenTTLMinutes int `koanf:"token_ttl_minutes"`

	// DefaultPageSize is used when a listing request carries no page size.
	DefaultPageSize int `koanf:"default_page_size"`

	// MaxPageSize caps GET /api/ratings?pageSize. Larger values are clamped.
	MaxPageSize int `koanf:"max_page_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":5001",
		DatabaseURL:     "",
		TokenSecret:     "dev-secret-change-me",
		TokenTTLMinutes: 60,
		DefaultPageSize: 10,
		MaxPageSize:     100,
	}
}
