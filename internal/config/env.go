package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Nested structs
// use underscore delimiters (e.g. ANNOTATOR_BASE_URL, BATCH_DELAY).
type EnvConfig struct {
	// DataDir is the data directory path.
	// Env: DATA_DIR (default: ~/.annotate)
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL (default: sqlite:///{data_dir}/annotate.db)
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// Language is the default transcription language when detection is
	// inconclusive.
	// Env: LANGUAGE (default: hindi)
	Language string `envconfig:"LANGUAGE" default:"hindi"`

	// OutputFile is the default annotated output path.
	// Env: OUTPUT_FILE (default: annotations.csv)
	OutputFile string `envconfig:"OUTPUT_FILE" default:"annotations.csv"`

	// PromptCatalog is an optional YAML file of per-language prompt
	// overrides.
	// Env: PROMPT_CATALOG
	PromptCatalog string `envconfig:"PROMPT_CATALOG"`

	// SarvamAPIKey mirrors the legacy variable the processing scripts
	// used; it applies when ANNOTATOR_API_KEY is unset.
	// Env: SARVAM_API_KEY
	SarvamAPIKey string `envconfig:"SARVAM_API_KEY"`

	// Annotator configures the annotation AI endpoint.
	Annotator AnnotatorEnv `envconfig:"ANNOTATOR"`

	// Batch configures the batch submission controller.
	Batch BatchEnv `envconfig:"BATCH"`
}

// AnnotatorEnv holds environment configuration for the AI endpoint.
type AnnotatorEnv struct {
	// Provider selects the endpoint implementation: sarvam, openai, ollama.
	// Env: ANNOTATOR_PROVIDER (default: sarvam)
	Provider string `envconfig:"PROVIDER" default:"sarvam"`

	// BaseURL is the endpoint base URL.
	// Env: ANNOTATOR_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier.
	// Env: ANNOTATOR_MODEL
	Model string `envconfig:"MODEL"`

	// APIKey is the API key for authentication.
	// Env: ANNOTATOR_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: ANNOTATOR_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// CacheDir enables on-disk response caching when set.
	// Env: ANNOTATOR_CACHE_DIR
	CacheDir string `envconfig:"CACHE_DIR"`
}

// BatchEnv holds environment configuration for the controller.
type BatchEnv struct {
	// Size is the per-chunk concurrency bound.
	// Env: BATCH_SIZE (default: 5)
	Size int `envconfig:"SIZE" default:"5"`

	// DelaySeconds is the minimum time between chunk dispatch starts.
	// Env: BATCH_DELAY_SECONDS (default: 1.0)
	DelaySeconds float64 `envconfig:"DELAY_SECONDS" default:"1.0"`

	// MaxRetries is the per-item retry budget for rate-limited calls.
	// Env: BATCH_MAX_RETRIES (default: 3)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`

	// InitialBackoffSeconds is the first retry delay. Defaults to the
	// inter-chunk delay when zero.
	// Env: BATCH_INITIAL_BACKOFF_SECONDS
	InitialBackoffSeconds float64 `envconfig:"INITIAL_BACKOFF_SECONDS"`

	// BackoffFactor is the retry backoff multiplier.
	// Env: BATCH_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`

	// AuthFailureThreshold aborts the run after this many consecutive
	// identical credential rejections at the start.
	// Env: BATCH_AUTH_FAILURE_THRESHOLD (default: 3)
	AuthFailureThreshold int `envconfig:"AUTH_FAILURE_THRESHOLD" default:"3"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.DataDir != "" {
		cfg = cfg.WithDataDir(e.DataDir)
	}
	if e.DBURL != "" {
		cfg = cfg.WithDBURL(e.DBURL)
	}
	if e.LogLevel != "" {
		cfg = cfg.WithLogLevel(e.LogLevel)
	}
	if e.LogFormat != "" {
		cfg = cfg.WithLogFormat(parseLogFormat(e.LogFormat))
	}
	if e.Language != "" {
		cfg = cfg.WithLanguage(strings.ToLower(e.Language))
	}
	if e.OutputFile != "" {
		cfg = cfg.WithOutputFile(e.OutputFile)
	}
	if e.PromptCatalog != "" {
		cfg = cfg.WithPromptCatalog(e.PromptCatalog)
	}

	cfg = cfg.WithEndpoint(e.Annotator.ToEndpoint(e.SarvamAPIKey))
	cfg = cfg.WithBatch(e.Batch.ToBatchConfig())

	return cfg
}

// ToEndpoint converts AnnotatorEnv to an Endpoint. The legacy Sarvam
// key applies when no explicit key is set.
func (a AnnotatorEnv) ToEndpoint(legacyKey string) Endpoint {
	endpoint := NewEndpoint().
		WithKind(parseProviderKind(a.Provider)).
		WithBaseURL(a.BaseURL).
		WithModel(a.Model).
		WithCacheDir(a.CacheDir)

	key := a.APIKey
	if key == "" {
		key = legacyKey
	}
	endpoint = endpoint.WithAPIKey(key)

	if a.Timeout > 0 {
		endpoint = endpoint.WithTimeout(time.Duration(a.Timeout * float64(time.Second)))
	}
	return endpoint
}

// ToBatchConfig converts BatchEnv to a BatchConfig.
func (b BatchEnv) ToBatchConfig() BatchConfig {
	cfg := NewBatchConfig().
		WithBatchSize(b.Size).
		WithMaxRetries(b.MaxRetries).
		WithBackoffFactor(b.BackoffFactor).
		WithAuthFailureThreshold(b.AuthFailureThreshold)

	if b.DelaySeconds >= 0 {
		cfg = cfg.WithDelay(time.Duration(b.DelaySeconds * float64(time.Second)))
	}

	backoff := b.InitialBackoffSeconds
	if backoff > 0 {
		cfg = cfg.WithInitialBackoff(time.Duration(backoff * float64(time.Second)))
	} else if b.DelaySeconds > 0 {
		cfg = cfg.WithInitialBackoff(time.Duration(b.DelaySeconds * float64(time.Second)))
	}
	return cfg
}

func parseLogFormat(s string) LogFormat {
	if strings.EqualFold(s, string(LogFormatJSON)) {
		return LogFormatJSON
	}
	return LogFormatPretty
}

func parseProviderKind(s string) ProviderKind {
	switch strings.ToLower(s) {
	case string(ProviderOpenAI):
		return ProviderOpenAI
	case string(ProviderOllama):
		return ProviderOllama
	default:
		return ProviderSarvam
	}
}
