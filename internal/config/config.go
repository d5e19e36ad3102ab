// Package config provides application configuration.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultLogLevel             = "INFO"
	DefaultBatchSize            = 5
	DefaultDelaySeconds         = 1.0
	DefaultMaxRetries           = 3
	DefaultBackoffFactor        = 2.0
	DefaultAuthFailureThreshold = 3
	DefaultEndpointTimeout      = 60 * time.Second
	DefaultLanguage             = "hindi"
	DefaultOutputFile           = "annotations.csv"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// ProviderKind selects the annotation endpoint implementation.
type ProviderKind string

// ProviderKind values.
const (
	ProviderSarvam ProviderKind = "sarvam"
	ProviderOpenAI ProviderKind = "openai"
	ProviderOllama ProviderKind = "ollama"
)

// Endpoint configures the annotation AI service.
type Endpoint struct {
	kind     ProviderKind
	baseURL  string
	model    string
	apiKey   string
	timeout  time.Duration
	cacheDir string
}

// NewEndpoint creates a new Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		kind:    ProviderSarvam,
		timeout: DefaultEndpointTimeout,
	}
}

// Kind returns the provider implementation to use.
func (e Endpoint) Kind() ProviderKind { return e.kind }

// BaseURL returns the endpoint base URL.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the model identifier.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Timeout returns the per-request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// CacheDir returns the response cache directory, empty when disabled.
func (e Endpoint) CacheDir() string { return e.cacheDir }

// WithKind returns a copy with the provider kind set.
func (e Endpoint) WithKind(k ProviderKind) Endpoint {
	e.kind = k
	return e
}

// WithBaseURL returns a copy with the base URL set.
func (e Endpoint) WithBaseURL(url string) Endpoint {
	e.baseURL = url
	return e
}

// WithModel returns a copy with the model set.
func (e Endpoint) WithModel(model string) Endpoint {
	e.model = model
	return e
}

// WithAPIKey returns a copy with the API key set.
func (e Endpoint) WithAPIKey(key string) Endpoint {
	e.apiKey = key
	return e
}

// WithTimeout returns a copy with the timeout set.
func (e Endpoint) WithTimeout(d time.Duration) Endpoint {
	e.timeout = d
	return e
}

// WithCacheDir returns a copy with the response cache directory set.
func (e Endpoint) WithCacheDir(dir string) Endpoint {
	e.cacheDir = dir
	return e
}

// BatchConfig tunes the batch submission controller.
type BatchConfig struct {
	batchSize            int
	delay                time.Duration
	maxRetries           int
	initialBackoff       time.Duration
	backoffFactor        float64
	authFailureThreshold int
}

// NewBatchConfig creates a BatchConfig with defaults.
func NewBatchConfig() BatchConfig {
	delay := time.Duration(DefaultDelaySeconds * float64(time.Second))
	return BatchConfig{
		batchSize:            DefaultBatchSize,
		delay:                delay,
		maxRetries:           DefaultMaxRetries,
		initialBackoff:       delay,
		backoffFactor:        DefaultBackoffFactor,
		authFailureThreshold: DefaultAuthFailureThreshold,
	}
}

// BatchSize returns the per-chunk concurrency bound.
func (b BatchConfig) BatchSize() int { return b.batchSize }

// Delay returns the minimum time between chunk dispatch starts.
func (b BatchConfig) Delay() time.Duration { return b.delay }

// MaxRetries returns the per-item retry budget.
func (b BatchConfig) MaxRetries() int { return b.maxRetries }

// InitialBackoff returns the first retry delay.
func (b BatchConfig) InitialBackoff() time.Duration { return b.initialBackoff }

// BackoffFactor returns the retry backoff multiplier.
func (b BatchConfig) BackoffFactor() float64 { return b.backoffFactor }

// AuthFailureThreshold returns the consecutive credential rejections
// that abort a run.
func (b BatchConfig) AuthFailureThreshold() int { return b.authFailureThreshold }

// WithBatchSize returns a copy with the batch size set.
func (b BatchConfig) WithBatchSize(n int) BatchConfig {
	if n >= 1 {
		b.batchSize = n
	}
	return b
}

// WithDelay returns a copy with the inter-chunk delay set.
func (b BatchConfig) WithDelay(d time.Duration) BatchConfig {
	if d >= 0 {
		b.delay = d
	}
	return b
}

// WithMaxRetries returns a copy with the retry budget set.
func (b BatchConfig) WithMaxRetries(n int) BatchConfig {
	if n >= 0 {
		b.maxRetries = n
	}
	return b
}

// WithInitialBackoff returns a copy with the first retry delay set.
func (b BatchConfig) WithInitialBackoff(d time.Duration) BatchConfig {
	if d > 0 {
		b.initialBackoff = d
	}
	return b
}

// WithBackoffFactor returns a copy with the backoff multiplier set.
func (b BatchConfig) WithBackoffFactor(f float64) BatchConfig {
	if f > 1 {
		b.backoffFactor = f
	}
	return b
}

// WithAuthFailureThreshold returns a copy with the threshold set.
func (b BatchConfig) WithAuthFailureThreshold(n int) BatchConfig {
	if n >= 1 {
		b.authFailureThreshold = n
	}
	return b
}

// AppConfig is the normalized application configuration.
type AppConfig struct {
	dataDir       string
	dbURL         string
	logLevel      string
	logFormat     LogFormat
	language      string
	outputFile    string
	promptCatalog string
	endpoint      Endpoint
	batch         BatchConfig
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		logLevel:   DefaultLogLevel,
		logFormat:  LogFormatPretty,
		language:   DefaultLanguage,
		outputFile: DefaultOutputFile,
		endpoint:   NewEndpoint(),
		batch:      NewBatchConfig(),
	}
}

// DataDir returns the data directory, defaulting to ~/.annotate.
func (c AppConfig) DataDir() string {
	if c.dataDir != "" {
		return c.dataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".annotate"
	}
	return filepath.Join(home, ".annotate")
}

// DBURL returns the database URL, defaulting to a SQLite file in the
// data directory.
func (c AppConfig) DBURL() string {
	if c.dbURL != "" {
		return c.dbURL
	}
	return "sqlite:///" + filepath.Join(c.DataDir(), "annotate.db")
}

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// Language returns the default transcription language.
func (c AppConfig) Language() string { return c.language }

// OutputFile returns the default output CSV path.
func (c AppConfig) OutputFile() string { return c.outputFile }

// PromptCatalog returns the YAML prompt override path, empty when unset.
func (c AppConfig) PromptCatalog() string { return c.promptCatalog }

// Endpoint returns the annotation endpoint configuration.
func (c AppConfig) Endpoint() Endpoint { return c.endpoint }

// Batch returns the controller tuning.
func (c AppConfig) Batch() BatchConfig { return c.batch }

// EnsureDataDir creates the data directory if it does not exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir(), 0o750)
}

// WithDataDir returns a copy with the data directory set.
func (c AppConfig) WithDataDir(dir string) AppConfig {
	c.dataDir = dir
	return c
}

// WithDBURL returns a copy with the database URL set.
func (c AppConfig) WithDBURL(url string) AppConfig {
	c.dbURL = url
	return c
}

// WithLogLevel returns a copy with the log level set.
func (c AppConfig) WithLogLevel(level string) AppConfig {
	c.logLevel = level
	return c
}

// WithLogFormat returns a copy with the log format set.
func (c AppConfig) WithLogFormat(format LogFormat) AppConfig {
	c.logFormat = format
	return c
}

// WithLanguage returns a copy with the default language set.
func (c AppConfig) WithLanguage(lang string) AppConfig {
	c.language = lang
	return c
}

// WithOutputFile returns a copy with the output path set.
func (c AppConfig) WithOutputFile(path string) AppConfig {
	c.outputFile = path
	return c
}

// WithPromptCatalog returns a copy with the prompt override path set.
func (c AppConfig) WithPromptCatalog(path string) AppConfig {
	c.promptCatalog = path
	return c
}

// WithEndpoint returns a copy with the endpoint configuration set.
func (c AppConfig) WithEndpoint(e Endpoint) AppConfig {
	c.endpoint = e
	return c
}

// WithBatch returns a copy with the controller tuning set.
func (c AppConfig) WithBatch(b BatchConfig) AppConfig {
	c.batch = b
	return c
}
