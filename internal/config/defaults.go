package config

const (
	defaultDataDir        = "~/.local/share/sieve/data"
	defaultOutputDir      = "~/.local/share/sieve/review"
	defaultLogDir         = "~/.local/share/sieve/logs"
	defaultLLMBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel       = "google/gemini-2.5-flash"
	defaultLLMReferer     = "https://github.com/sieve-review/sieve"
	defaultLLMTitle       = "Sieve Catalog Review"
	defaultLLMTimeoutSecs = 60
	defaultSleepSeconds   = 0.5
	defaultMaxRetries     = 2
	defaultBackoffSeconds = 10.0
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSecs,
		},
		Assess: Assess{
			SleepSeconds:   defaultSleepSeconds,
			MaxRetries:     defaultMaxRetries,
			BackoffSeconds: defaultBackoffSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
