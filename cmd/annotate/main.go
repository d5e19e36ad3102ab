// Package main is the entry point for the annotate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voicelayer/annotate/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Bulk LLM annotation of call transcriptions",
		Long:  `Annotate reads call transcriptions from a CSV file and generates an English summary and intent label for each one using a chat completion API, with rate-limited batched dispatch and per-item retries.`,
	}

	cmd.AddCommand(processCmd())
	cmd.AddCommand(resumeCmd())
	cmd.AddCommand(progressCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
