package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sieve/internal/services/llm"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Verify the classification service credential and model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}

			llmCfg := cfg.GetLLM()
			client := llm.NewClient(llm.Config{
				APIKey:         llmCfg.APIKey,
				BaseURL:        llmCfg.BaseURL,
				Model:          llmCfg.Model,
				Referer:        llmCfg.Referer,
				Title:          llmCfg.Title,
				TimeoutSeconds: llmCfg.TimeoutSeconds,
			})
			if err := client.HealthCheck(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Classification service reachable (model %s)\n", llmCfg.Model)
			return nil
		},
	}
}
