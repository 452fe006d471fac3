package testsupport

import (
	"path/filepath"
	"testing"

	"sieve/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.LLM.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.OutputDir = filepath.Join(base, "review")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Assess.SleepSeconds = 0

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithAPIKey sets the classification service credential on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.LLM.APIKey = key
	}
}

// WithModel overrides the classifier model on the test config.
func WithModel(model string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.LLM.Model = model
	}
}
