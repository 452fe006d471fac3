package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("SIEVE_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.LLM.Model != defaultLLMModel {
		t.Fatalf("expected default model, got %q", cfg.LLM.Model)
	}
	if cfg.Assess.MaxRetries != defaultMaxRetries {
		t.Fatalf("expected default retries, got %d", cfg.Assess.MaxRetries)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected console logging, got %q", cfg.Logging.Format)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
output_dir = "` + filepath.Join(dir, "review") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[llm]
api_key = "secret"
model = "demo/model"
timeout_seconds = 30

[assess]
sleep_seconds = 1.5
max_retries = 4
backoff_seconds = 3.0

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved path %s, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.LLM.APIKey != "secret" || cfg.LLM.Model != "demo/model" || cfg.LLM.TimeoutSeconds != 30 {
		t.Fatalf("unexpected llm config %+v", cfg.LLM)
	}
	if cfg.Assess.SleepSeconds != 1.5 || cfg.Assess.MaxRetries != 4 || cfg.Assess.BackoffSeconds != 3.0 {
		t.Fatalf("unexpected assess config %+v", cfg.Assess)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("expected normalized absolute data dir, got %q", cfg.Paths.DataDir)
	}
}

func TestAPIKeyEnvFallback(t *testing.T) {
	t.Setenv("SIEVE_API_KEY", "from-env")

	cfg, _, _, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "from-env" {
		t.Fatalf("expected env credential, got %q", cfg.LLM.APIKey)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		t.Fatalf("RequireAPIKey returned error: %v", err)
	}
}

func TestRequireAPIKeyMissing(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = ""
	err := cfg.RequireAPIKey()
	if err == nil {
		t.Fatal("expected error for missing credential")
	}
	if !strings.Contains(err.Error(), "SIEVE_API_KEY") {
		t.Fatalf("expected actionable message, got %v", err)
	}
}

func TestNormalizeRepairsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Assess.SleepSeconds = -1
	cfg.Assess.MaxRetries = -5
	cfg.Assess.BackoffSeconds = 0
	cfg.Logging.Format = "fancy"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	if cfg.Assess.SleepSeconds != 0 {
		t.Fatalf("expected sleep clamped to 0, got %v", cfg.Assess.SleepSeconds)
	}
	if cfg.Assess.MaxRetries != 0 {
		t.Fatalf("expected retries clamped to 0, got %d", cfg.Assess.MaxRetries)
	}
	if cfg.Assess.BackoffSeconds != defaultBackoffSeconds {
		t.Fatalf("expected default backoff, got %v", cfg.Assess.BackoffSeconds)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected unsupported format to fall back to console, got %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg := Default()
	cfg.LLM.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty model")
	}

	cfg = Default()
	cfg.LLM.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for zero timeout")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[llm]") {
		t.Fatal("expected sample to contain an [llm] section")
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := ExpandPath("~/sieve-test")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "sieve-test") {
		t.Fatalf("expected home expansion, got %q", got)
	}
}
