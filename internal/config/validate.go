package config

import (
	"errors"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateAssess(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		return errors.New("llm.base_url must be set")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model must be set")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateAssess() error {
	if c.Assess.SleepSeconds < 0 {
		return errors.New("assess.sleep_seconds must be >= 0")
	}
	if c.Assess.MaxRetries < 0 {
		return errors.New("assess.max_retries must be >= 0")
	}
	if c.Assess.BackoffSeconds <= 0 {
		return errors.New("assess.backoff_seconds must be positive")
	}
	return nil
}

// RequireAPIKey reports a clear error when no classification credential is
// available. The key is intentionally not validated at config load time so
// read-only commands (config show, config validate) work without it.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/sieve/config.toml"
		}
		return errors.New("llm.api_key is required. Set SIEVE_API_KEY (or OPENROUTER_API_KEY) or edit " + defaultPath + " (create with 'sieve config init')")
	}
	return nil
}
