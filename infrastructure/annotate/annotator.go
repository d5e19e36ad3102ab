// Package annotate turns a chat-completion provider into the annotator
// the batch controller drives: one summary request and one intent
// request per transcription, with prompt selection by detected language.
package annotate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/voicelayer/annotate/domain/service"
	"github.com/voicelayer/annotate/domain/work"
	"github.com/voicelayer/annotate/infrastructure/provider"
)

// ErrEmptyText indicates the transcription had no content to annotate.
var ErrEmptyText = errors.New("empty transcription text")

// Default generation settings. Summaries want focus, intents want
// near-deterministic short output.
const (
	defaultSummaryMaxTokens = 100
	defaultIntentMaxTokens  = 20
	summaryTemperature      = 0.3
	intentTemperature       = 0.2
)

// LLMAnnotator implements service.Annotator over a TextGenerator.
type LLMAnnotator struct {
	generator       provider.TextGenerator
	catalog         Catalog
	defaultLanguage Language
	log             *slog.Logger
}

// NewLLMAnnotator creates a new LLMAnnotator with the default prompt
// catalog.
func NewLLMAnnotator(generator provider.TextGenerator, log *slog.Logger) *LLMAnnotator {
	return &LLMAnnotator{
		generator:       generator,
		catalog:         DefaultCatalog(),
		defaultLanguage: LanguageEnglish,
		log:             log,
	}
}

// WithCatalog sets the prompt catalog.
func (a *LLMAnnotator) WithCatalog(catalog Catalog) *LLMAnnotator {
	a.catalog = catalog
	return a
}

// WithDefaultLanguage sets the fallback language for detection.
func (a *LLMAnnotator) WithDefaultLanguage(lang Language) *LLMAnnotator {
	a.defaultLanguage = lang
	return a
}

// Annotate produces a summary and intent for one transcription. Both
// provider calls must succeed; the provider's error classification
// passes through untouched so the controller can decide on retries.
func (a *LLMAnnotator) Annotate(ctx context.Context, text string) (work.Annotation, error) {
	if text == "" {
		return work.Annotation{}, ErrEmptyText
	}

	lang := DetectLanguage(text, a.defaultLanguage)
	prompts := a.catalog.ForLanguage(lang)

	a.log.Debug("annotating text",
		slog.String("language", lang.String()),
		slog.Int("text_len", len(text)),
	)

	summary, err := a.summarize(ctx, prompts, text)
	if err != nil {
		return work.Annotation{}, err
	}

	intent, err := a.classifyIntent(ctx, prompts, text)
	if err != nil {
		return work.Annotation{}, err
	}

	return work.NewAnnotation(summary, intent), nil
}

func (a *LLMAnnotator) summarize(ctx context.Context, prompts PromptSet, text string) (string, error) {
	userPrompt := fmt.Sprintf(
		"Summarize the following text in English in one sentence describing the main point:\n\n%s\n\nExample format: 'complain for unavailability of current'",
		text,
	)

	req := provider.NewChatCompletionRequest([]provider.Message{
		provider.SystemMessage(prompts.Summary),
		provider.UserMessage(userPrompt),
	}).WithMaxTokens(defaultSummaryMaxTokens).WithTemperature(summaryTemperature)

	resp, err := a.generator.ChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	return cleanSummary(resp.Content()), nil
}

func (a *LLMAnnotator) classifyIntent(ctx context.Context, prompts PromptSet, text string) (string, error) {
	userPrompt := fmt.Sprintf(
		"Identify the user's intent from this text. Provide ONLY 2-3 words in English.\n\nText: %s\n\nIntent (2-3 words only):",
		text,
	)

	req := provider.NewChatCompletionRequest([]provider.Message{
		provider.SystemMessage(prompts.Intent),
		provider.UserMessage(userPrompt),
	}).WithMaxTokens(defaultIntentMaxTokens).WithTemperature(intentTemperature)

	resp, err := a.generator.ChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	return parseIntent(resp.Content()), nil
}

// Ensure LLMAnnotator implements service.Annotator.
var _ service.Annotator = (*LLMAnnotator)(nil)
