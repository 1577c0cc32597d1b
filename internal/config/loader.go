package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CROWDSCORE_CONFIG is set
//  3. env (prefix CROWDSCORE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CROWDSCORE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CROWDSCORE_ADDR, CROWDSCORE_DATABASE_URL, ...
	// Keys map to the koanf tags on Config with underscores preserved.
	envProvider := env.Provider("CROWDSCORE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "crowdscore_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.TokenSecret == "":
		return nil, fmt.Errorf("%w: token_secret must not be empty", ErrInvalidConfig)
	case cfg.TokenTTLMinutes < 1:
		return nil, fmt.Errorf("%w: token_ttl_minutes must be positive", ErrInvalidConfig)
	case cfg.DefaultPageSize < 1:
		return nil, fmt.Errorf("%w: default_page_size must be positive", ErrInvalidConfig)
	case cfg.MaxPageSize < cfg.DefaultPageSize:
		return nil, fmt.Errorf("%w: max_page_size must be >= default_page_size", ErrInvalidConfig)
	}
	return &cfg, nil
}
