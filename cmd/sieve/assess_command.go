package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sieve/internal/assess"
	"sieve/internal/config"
	"sieve/internal/dataset"
	"sieve/internal/logging"
	"sieve/internal/services/llm"
)

func newAssessCommand(ctx *commandContext) *cobra.Command {
	var (
		csvPath  string
		dirPath  string
		outPath  string
		model    string
		sleep    float64
		retries  int
		backoff  float64
		startRow int
		endRow   int
		appendTo bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Review catalog rows with the configured LLM",
		Long: `Review a slice of scraped catalog rows and ask the configured LLM to decide
inclusion/exclusion using the fixed criteria summary. Decisions are appended
to the output CSV one row at a time, so partial progress survives a crash.

Examples:
  sieve assess --csv data/app_store_apps.csv --out data/app_store_review.csv
  sieve assess --dir data --sleep 1.0 --retries 3 --backoff 10
  sieve assess --csv data/apps.csv --start 39 --end 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}
			applyAssessOverrides(cfg, cmd, model, sleep, retries, backoff)

			if startRow < 0 || endRow < 0 {
				return fmt.Errorf("--start and --end must be positive")
			}
			if startRow > 0 && endRow > 0 && startRow > endRow {
				return fmt.Errorf("--start (%d) must not exceed --end (%d)", startRow, endRow)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			llmCfg := cfg.GetLLM()
			client := llm.NewClient(llm.Config{
				APIKey:         llmCfg.APIKey,
				BaseURL:        llmCfg.BaseURL,
				Model:          llmCfg.Model,
				Referer:        llmCfg.Referer,
				Title:          llmCfg.Title,
				TimeoutSeconds: llmCfg.TimeoutSeconds,
			},
				llm.WithMaxRetries(cfg.Assess.MaxRetries),
				llm.WithRetryBackoff(secondsToDuration(cfg.Assess.BackoffSeconds), 0),
			)

			assessor := assess.NewAssessor(client, logger,
				assess.WithRowSleep(secondsToDuration(cfg.Assess.SleepSeconds)),
			)
			runner := assess.NewRunner(assessor, logger, appendTo)
			rng := assess.RangeOptions{Start: startRow, End: endRow}

			csvPath = strings.TrimSpace(csvPath)
			dirPath = strings.TrimSpace(dirPath)
			out := cmd.OutOrStdout()

			if csvPath != "" {
				job := assess.Job{Input: csvPath, Output: strings.TrimSpace(outPath)}
				if job.Output == "" {
					job.Output = dataset.ReviewPath(csvPath)
				}
				summary, err := runner.RunFile(runCtx, job, rng)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderRunSummary([]assess.FileResult{{Job: job, Summary: summary}}))
				return nil
			}

			if dirPath == "" {
				dirPath = cfg.Paths.DataDir
			}
			results, err := runner.RunDirectory(runCtx, dirPath, rng)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderRunSummary(results))
			for _, result := range results {
				if result.Err != nil {
					return fmt.Errorf("%d of %d tables failed; see log output", countFailed(results), len(results))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Input CSV file (scraped catalog rows)")
	cmd.Flags().StringVar(&dirPath, "dir", "", "Directory of CSV files to process (used if --csv not provided)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output CSV file (single-file mode; default <input>_review.csv)")
	cmd.Flags().StringVar(&model, "model", "", "Classifier model identifier")
	cmd.Flags().Float64Var(&sleep, "sleep", 0, "Seconds to sleep between rows")
	cmd.Flags().IntVar(&retries, "retries", 0, "Max retry attempts on rate limits and transport errors")
	cmd.Flags().Float64Var(&backoff, "backoff", 0, "Base backoff seconds for exponential retry delay")
	cmd.Flags().IntVar(&startRow, "start", 0, "1-based start row (inclusive; default first row)")
	cmd.Flags().IntVar(&endRow, "end", 0, "1-based end row (inclusive; default last row)")
	cmd.Flags().BoolVar(&appendTo, "append", false, "Append to an existing output instead of rewriting it")

	return cmd
}

// applyAssessOverrides copies explicitly-set flags over the config values so
// the config file stays the single source of defaults.
func applyAssessOverrides(cfg *config.Config, cmd *cobra.Command, model string, sleep float64, retries int, backoff float64) {
	if cmd.Flags().Changed("model") && strings.TrimSpace(model) != "" {
		cfg.LLM.Model = strings.TrimSpace(model)
	}
	if cmd.Flags().Changed("sleep") && sleep >= 0 {
		cfg.Assess.SleepSeconds = sleep
	}
	if cmd.Flags().Changed("retries") && retries >= 0 {
		cfg.Assess.MaxRetries = retries
	}
	if cmd.Flags().Changed("backoff") && backoff > 0 {
		cfg.Assess.BackoffSeconds = backoff
	}
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func countFailed(results []assess.FileResult) int {
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	return failed
}

func formatCount(value int) string {
	return strconv.Itoa(value)
}
