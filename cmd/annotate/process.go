package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/voicelayer/annotate/application/service"
	"github.com/voicelayer/annotate/domain/work"
	"github.com/voicelayer/annotate/infrastructure/annotate"
	"github.com/voicelayer/annotate/infrastructure/persistence"
	"github.com/voicelayer/annotate/infrastructure/provider"
	"github.com/voicelayer/annotate/infrastructure/records"
	"github.com/voicelayer/annotate/internal/config"
	"github.com/voicelayer/annotate/internal/database"
	"github.com/voicelayer/annotate/internal/log"
)

// processFlags holds command line overrides shared by process and resume.
type processFlags struct {
	envFile    string
	output     string
	language   string
	limit      int
	offset     int
	batchSize  int
	delay      float64
	maxRetries int
}

func (f *processFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&f.output, "output", "", "Output CSV path (default: annotations.csv)")
	cmd.Flags().StringVar(&f.language, "language", "", "Fallback transcription language: hindi, english, urdu, telugu")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Maximum number of records to process (default: all)")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 0, "Records dispatched per chunk (default: 5)")
	cmd.Flags().Float64Var(&f.delay, "delay", 0, "Minimum seconds between chunk dispatches (default: 1.0)")
	cmd.Flags().IntVar(&f.maxRetries, "max-retries", 0, "Retry budget per record on rate limiting (default: 3)")
}

func processCmd() *cobra.Command {
	var flags processFlags

	cmd := &cobra.Command{
		Use:   "process <input.csv>",
		Short: "Annotate transcriptions from a CSV file",
		Long: `Annotate transcriptions from a CSV file.

The input file must have the audio name in the first column and the
transcription text in the second. Each record is summarised and
classified by the configured chat completion endpoint; results are
appended to the output CSV and recorded in the local database so a run
can be resumed later.

Environment variables:
  DATA_DIR                    Data directory (default: ~/.annotate)
  DB_URL                      Database URL (default: sqlite:///{data_dir}/annotate.db)
  LOG_LEVEL                   Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                  Log format: pretty, json (default: pretty)
  LANGUAGE                    Fallback language (default: hindi)
  OUTPUT_FILE                 Output CSV path (default: annotations.csv)
  PROMPT_CATALOG              YAML file overriding the built-in prompts

  ANNOTATOR_PROVIDER          Endpoint flavour: sarvam, openai, ollama (default: sarvam)
  ANNOTATOR_BASE_URL          Endpoint base URL
  ANNOTATOR_MODEL             Model identifier
  ANNOTATOR_API_KEY           API key (SARVAM_API_KEY also accepted)
  ANNOTATOR_TIMEOUT           Request timeout in seconds (default: 60)
  ANNOTATOR_CACHE_DIR         Response cache directory (disabled when empty)

  BATCH_SIZE                  Records dispatched per chunk (default: 5)
  BATCH_DELAY_SECONDS         Minimum seconds between chunk dispatches (default: 1.0)
  BATCH_MAX_RETRIES           Retry budget per record (default: 3)
  BATCH_INITIAL_BACKOFF_SECONDS  First retry delay (default: BATCH_DELAY_SECONDS)
  BATCH_BACKOFF_FACTOR        Backoff multiplier (default: 2.0)
  BATCH_AUTH_FAILURE_THRESHOLD   Consecutive credential rejections that abort (default: 3)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(args[0], flags, false)
		},
	}

	cmd.Flags().IntVar(&flags.offset, "offset", 0, "Number of records to skip before processing")
	flags.register(cmd)

	return cmd
}

func runProcess(input string, flags processFlags, resume bool) error {
	cfg, err := loadConfig(flags.envFile)
	if err != nil {
		return err
	}
	cfg = applyProcessOverrides(cfg, flags)

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.Configure(cfg)
	slogger := logger.Slog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDatabase(ctx, cfg.DBURL())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slogger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := persistence.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	store := persistence.NewResultStore(db)

	source := records.NewCSVSource(input)

	offset := flags.offset
	if resume {
		offset, err = service.NewProgress(store).ResumeOffset(ctx, input)
		if err != nil {
			return fmt.Errorf("determine resume offset: %w", err)
		}
		slogger.Info("resuming run", slog.String("source", input), slog.Int("offset", offset))
	}

	items, err := source.Read(ctx, flags.limit, offset)
	if err != nil {
		return fmt.Errorf("read records: %w", err)
	}
	if len(items) == 0 {
		slogger.Info("no records to process", slog.String("source", input))
		return nil
	}

	generator, err := buildProvider(cfg.Endpoint())
	if err != nil {
		return err
	}
	defer func() {
		if err := generator.Close(); err != nil {
			slogger.Error("failed to close provider", slog.Any("error", err))
		}
	}()

	catalog := annotate.DefaultCatalog()
	if path := cfg.PromptCatalog(); path != "" {
		catalog, err = annotate.LoadCatalog(path)
		if err != nil {
			return fmt.Errorf("load prompt catalog: %w", err)
		}
	}

	annotator := annotate.NewLLMAnnotator(generator, slogger).
		WithCatalog(catalog).
		WithDefaultLanguage(annotate.ParseLanguage(cfg.Language()))

	batchCfg := cfg.Batch()
	batch := service.NewBatch(annotator, slogger).
		WithBatchSize(batchCfg.BatchSize()).
		WithDelay(batchCfg.Delay()).
		WithMaxRetries(batchCfg.MaxRetries()).
		WithInitialBackoff(batchCfg.InitialBackoff()).
		WithBackoffFactor(batchCfg.BackoffFactor()).
		WithAuthFailureThreshold(batchCfg.AuthFailureThreshold()).
		WithProgress(printProgress)

	slogger.Info("starting annotation run",
		slog.String("version", version),
		slog.String("source", input),
		slog.Int("records", len(items)),
		slog.Int("offset", offset))

	started := time.Now()
	results, runErr := batch.Run(ctx, items)

	if err := persistResults(cfg.OutputFile(), input, store, items, results); err != nil {
		return err
	}

	printSummary(work.NewRunSummary(results, time.Since(started)), cfg.OutputFile())

	if runErr != nil {
		if errors.Is(runErr, service.ErrAuthenticationFailed) {
			return fmt.Errorf("run aborted: %w", runErr)
		}
		return fmt.Errorf("run interrupted: %w", runErr)
	}
	return nil
}

// textProvider is a TextGenerator that owns network resources.
type textProvider interface {
	provider.TextGenerator
	Close() error
}

// buildProvider constructs the text generation client for the configured
// endpoint. Sarvam uses its own wire client; openai and ollama both speak
// the OpenAI chat completion API.
func buildProvider(endpoint config.Endpoint) (textProvider, error) {
	switch endpoint.Kind() {
	case config.ProviderSarvam:
		return provider.NewSarvamProviderFromConfig(provider.SarvamConfig{
			APIKey:   endpoint.APIKey(),
			BaseURL:  endpoint.BaseURL(),
			Model:    endpoint.Model(),
			Timeout:  endpoint.Timeout(),
			CacheDir: endpoint.CacheDir(),
		}), nil
	case config.ProviderOpenAI, config.ProviderOllama:
		baseURL := endpoint.BaseURL()
		if endpoint.Kind() == config.ProviderOllama && baseURL == "" {
			baseURL = "http://localhost:11434/v1"
		}
		return provider.NewOpenAIProviderFromConfig(provider.OpenAIConfig{
			APIKey:   endpoint.APIKey(),
			BaseURL:  baseURL,
			Model:    endpoint.Model(),
			Timeout:  endpoint.Timeout(),
			CacheDir: endpoint.CacheDir(),
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", endpoint.Kind())
	}
}

// persistResults appends the run's output CSV rows and stores the
// results. It runs on its own context, not the signal context, so an
// interrupted run still records everything it finished. Unattempted
// items are left out of both outputs: they were never dispatched, and
// resume restarts from the highest stored index.
func persistResults(output, source string, store work.ResultStore, items []work.WorkItem, results []work.AnnotationResult) error {
	attemptedItems := make([]work.WorkItem, 0, len(items))
	attempted := make([]work.AnnotationResult, 0, len(results))
	for i, r := range results {
		if r.Status() == work.StatusUnattempted {
			continue
		}
		attemptedItems = append(attemptedItems, items[i])
		attempted = append(attempted, r)
	}

	ctx := context.Background()
	if err := records.NewCSVWriter(output).Write(ctx, attemptedItems, attempted); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := store.SaveAll(ctx, source, attemptedItems, attempted); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	return nil
}

func printProgress(e service.ProgressEvent) {
	line := fmt.Sprintf("[%d/%d] %s: %s", e.Completed(), e.Total(), e.Identifier(), e.Status())
	if e.Error() != "" {
		line += " (" + e.Error() + ")"
	}
	fmt.Println(line)
}

func printSummary(s work.RunSummary, output string) {
	fmt.Println()
	fmt.Printf("Processed %d records in %s (%.2f/s)\n", s.Total(), s.Elapsed().Round(time.Millisecond), s.Rate())
	fmt.Printf("  succeeded:   %d\n", s.Succeeded())
	fmt.Printf("  failed:      %d\n", s.Failed())
	if s.Skipped() > 0 {
		fmt.Printf("  skipped:     %d\n", s.Skipped())
	}
	if s.Unattempted() > 0 {
		fmt.Printf("  unattempted: %d\n", s.Unattempted())
	}
	fmt.Printf("Results appended to %s\n", output)
}

// applyProcessOverrides applies command line flag overrides to the config.
func applyProcessOverrides(cfg config.AppConfig, flags processFlags) config.AppConfig {
	if flags.output != "" {
		cfg = cfg.WithOutputFile(flags.output)
	}
	if flags.language != "" {
		cfg = cfg.WithLanguage(flags.language)
	}

	batch := cfg.Batch()
	if flags.batchSize > 0 {
		batch = batch.WithBatchSize(flags.batchSize)
	}
	if flags.delay > 0 {
		batch = batch.WithDelay(time.Duration(flags.delay * float64(time.Second)))
	}
	if flags.maxRetries > 0 {
		batch = batch.WithMaxRetries(flags.maxRetries)
	}
	return cfg.WithBatch(batch)
}
