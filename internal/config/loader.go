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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FRAUD_CONFIG is set
//  3. env (prefix FRAUD_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FRAUD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: FRAUD_ADDR, FRAUD_MODEL_PATH, ...
	// Map env keys like FRAUD_MODEL_PATH -> model_path (flat keys),
	// preserving underscores to match koanf tags on the struct.
	envProvider := env.Provider("FRAUD_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "fraud_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.ModelPath == "" || cfg.ScalerPath == "" {
		return nil, fmt.Errorf("%w: model_path and scaler_path must not be empty", ErrInvalidConfig)
	}
	if cfg.FeedbackPath == "" {
		return nil, fmt.Errorf("%w: feedback_path must not be empty", ErrInvalidConfig)
	}
	return &cfg, nil
}
