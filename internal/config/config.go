// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - The Config value is built once at startup and passed explicitly to the
//   components that need it; nothing reads configuration globally.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"strings"
	"time"
)

// Default model settings.
const (
	DefaultModel         = "gemini-1.5-flash"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// GeminiAPIKey enables the model path. Empty means every use case runs
	// its deterministic fallback (or fails when it has none).
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel is the default model identifier when a request names none.
	GeminiModel string `koanf:"gemini_model"`

	// GeminiBaseURL is the scheme+host of the generative endpoint.
	GeminiBaseURL string `koanf:"gemini_base_url"`

	// FallbackModels are tried, in order, after the requested model.
	FallbackModels []string `koanf:"fallback_models"`

	// ModelTimeoutMS bounds a single model call for extract, invites and plans.
	ModelTimeoutMS int `koanf:"model_timeout_ms"`

	// LongModelTimeoutMS bounds a single model call for chat and recommendations.
	LongModelTimeoutMS int `koanf:"long_model_timeout_ms"`

	// CandidatesPath points at the read-only candidate pool (JSON or YAML).
	CandidatesPath string `koanf:"candidates_path"`

	// RandomSeed seeds candidate sampling; 0 seeds from the clock.
	RandomSeed int64 `koanf:"random_seed"`

	// JWTSecret signs the stub auth tokens.
	JWTSecret string `koanf:"jwt_secret"`

	// JWTTTLMinutes is the lifetime of stub auth tokens.
	JWTTTLMinutes int `koanf:"jwt_ttl_minutes"`

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8000",
		GeminiModel:        DefaultModel,
		GeminiBaseURL:      DefaultGeminiBaseURL,
		FallbackModels:     []string{"gemini-2.0-flash", "gemini-1.5-flash"},
		ModelTimeoutMS:     20_000,
		LongModelTimeoutMS: 30_000,
		CandidatesPath:     "data/students.json",
		JWTSecret:          "dev-secret",
		JWTTTLMinutes:      60,
		CORSOrigins:        []string{"*"},
	}
}

// ModelConfigured reports whether a model API key is present.
func (c *Config) ModelConfigured() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// ModelTimeout returns the per-call timeout for short use cases.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.ModelTimeoutMS) * time.Millisecond
}

// LongModelTimeout returns the per-call timeout for chat and recommendations.
func (c *Config) LongModelTimeout() time.Duration {
	return time.Duration(c.LongModelTimeoutMS) * time.Millisecond
}

// Validate checks invariants the rest of the process relies on.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return wrap(ErrInvalidConfig, "addr must not be empty")
	case c.ModelTimeoutMS <= 0:
		return wrap(ErrInvalidConfig, "model_timeout_ms must be positive")
	case c.LongModelTimeoutMS <= 0:
		return wrap(ErrInvalidConfig, "long_model_timeout_ms must be positive")
	case strings.TrimSpace(c.GeminiBaseURL) == "":
		return wrap(ErrInvalidConfig, "gemini_base_url must not be empty")
	}
	return nil
}
