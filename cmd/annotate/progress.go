package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voicelayer/annotate/application/service"
	"github.com/voicelayer/annotate/infrastructure/persistence"
	"github.com/voicelayer/annotate/infrastructure/records"
	"github.com/voicelayer/annotate/internal/database"
)

func progressCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "progress <input.csv>",
		Short: "Show how much of an input file has been processed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgress(cmd.Context(), args[0], envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runProgress(ctx context.Context, input, envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	db, err := database.NewDatabase(ctx, cfg.DBURL())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()
	if err := persistence.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	progress := service.NewProgress(persistence.NewResultStore(db))
	report, err := progress.Report(ctx, input, records.NewCSVSource(input))
	if err != nil {
		return fmt.Errorf("build progress report: %w", err)
	}

	fmt.Printf("%s: %d/%d records processed (%.1f%%)\n",
		report.Source(), report.Processed(), report.Total(), report.Percent())
	if report.Done() {
		fmt.Println("All records processed.")
	} else {
		fmt.Printf("%d records remaining. Run 'annotate resume %s' to continue.\n",
			report.Remaining(), input)
	}
	return nil
}
