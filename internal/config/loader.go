package config

import (
	"context"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "AITHENA_"

// listKeys are comma separated when they come from the environment.
var listKeys = map[string]bool{
	"fallback_models": true,
	"cors_origins":    true,
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if AITHENA_CONFIG is set
//  3. legacy GEMINI_API_KEY / GEMINI_MODEL
//  4. env (prefix AITHENA_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, wrapErr(ErrLoadConfig, err)
		}
	}

	// The unprefixed variables are what existing deployments export.
	legacy := env.ProviderWithValue("GEMINI_", ".", func(key, value string) (string, interface{}) {
		switch key {
		case "GEMINI_API_KEY":
			return "gemini_api_key", value
		case "GEMINI_MODEL":
			return "gemini_model", value
		}
		return "", nil
	})
	if err := k.Load(legacy, nil); err != nil {
		return nil, wrapErr(ErrLoadConfig, err)
	}

	// Map env keys like AITHENA_MODEL_TIMEOUT_MS -> model_timeout_ms (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" {
			return "", nil
		}
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, wrapErr(ErrLoadConfig, err)
	}

	cfg := *base
	// Lists decode into fresh slices so a shorter override never keeps
	// trailing default elements.
	cfg.FallbackModels, cfg.CORSOrigins = nil, nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, wrapErr(ErrLoadConfig, err)
	}

	if cfg.FallbackModels == nil {
		cfg.FallbackModels = base.FallbackModels
	}
	if cfg.CORSOrigins == nil {
		cfg.CORSOrigins = base.CORSOrigins
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = DefaultModel
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
