package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/aithena/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.GeminiModel, convey.ShouldEqual, "gemini-1.5-flash")
				convey.So(cfg.ModelTimeoutMS, convey.ShouldEqual, 20_000)
				convey.So(cfg.LongModelTimeoutMS, convey.ShouldEqual, 30_000)
				convey.So(cfg.ModelConfigured(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("AITHENA_ADDR", ":8080")
			_ = os.Setenv("AITHENA_GEMINI_API_KEY", "secret")
			_ = os.Setenv("AITHENA_GEMINI_MODEL", "gemini-2.5-pro")
			_ = os.Setenv("AITHENA_MODEL_TIMEOUT_MS", "5000")
			_ = os.Setenv("AITHENA_FALLBACK_MODELS", "a, b,,c")
			_ = os.Setenv("AITHENA_RANDOM_SEED", "7")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.GeminiAPIKey, convey.ShouldEqual, "secret")
				convey.So(cfg.GeminiModel, convey.ShouldEqual, "gemini-2.5-pro")
				convey.So(cfg.ModelTimeoutMS, convey.ShouldEqual, 5000)
				convey.So(cfg.FallbackModels, convey.ShouldResemble, []string{"a", "b", "c"})
				convey.So(cfg.RandomSeed, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When only the legacy GEMINI_ variables are set", func() {
			_ = os.Setenv("GEMINI_API_KEY", "legacy-key")
			_ = os.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they configure the model path", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.GeminiAPIKey, convey.ShouldEqual, "legacy-key")
				convey.So(cfg.GeminiModel, convey.ShouldEqual, "gemini-2.0-flash")
			})
		})

		convey.Convey("When both legacy and prefixed variables are set", func() {
			_ = os.Setenv("GEMINI_API_KEY", "legacy-key")
			_ = os.Setenv("AITHENA_GEMINI_API_KEY", "prefixed-key")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the prefixed variable wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.GeminiAPIKey, convey.ShouldEqual, "prefixed-key")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
gemini_model: "gemini-2.0-flash"
fallback_models: ["x", "y"]
candidates_path: "/tmp/pool.yaml"
long_model_timeout_ms: 45000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("AITHENA_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.GeminiModel, convey.ShouldEqual, "gemini-2.0-flash")
				convey.So(cfg.FallbackModels, convey.ShouldResemble, []string{"x", "y"})
				convey.So(cfg.CandidatesPath, convey.ShouldEqual, "/tmp/pool.yaml")
				convey.So(cfg.LongModelTimeoutMS, convey.ShouldEqual, 45000)
				convey.So(cfg.ModelTimeoutMS, convey.ShouldEqual, 20_000) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
model_timeout_ms: 1000
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("AITHENA_CONFIG", tmpFile)
			_ = os.Setenv("AITHENA_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")      // Overridden by env
				convey.So(cfg.ModelTimeoutMS, convey.ShouldEqual, 1000) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("AITHENA_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("AITHENA_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("AITHENA_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("AITHENA_MODEL_TIMEOUT_MS", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a negative timeout", func() {
			_ = os.Setenv("AITHENA_LONG_MODEL_TIMEOUT_MS", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "long_model_timeout_ms")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"AITHENA_CONFIG",
		"AITHENA_ADDR",
		"AITHENA_GEMINI_API_KEY",
		"AITHENA_GEMINI_MODEL",
		"AITHENA_MODEL_TIMEOUT_MS",
		"AITHENA_LONG_MODEL_TIMEOUT_MS",
		"AITHENA_FALLBACK_MODELS",
		"AITHENA_RANDOM_SEED",
		"GEMINI_API_KEY",
		"GEMINI_MODEL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "aithena-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
