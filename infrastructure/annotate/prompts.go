package annotate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Language identifies the language of a transcription.
type Language string

// Supported languages.
const (
	LanguageHindi   Language = "hindi"
	LanguageEnglish Language = "english"
	LanguageUrdu    Language = "urdu"
	LanguageTelugu  Language = "telugu"
)

// String returns the language as a string.
func (l Language) String() string { return string(l) }

// PromptSet holds the system prompts used for one language.
type PromptSet struct {
	// Summary is the system prompt for summary generation. The summary
	// itself is always requested in English.
	Summary string `yaml:"summary"`

	// Intent is the system prompt for intent classification.
	Intent string `yaml:"intent"`
}

// defaultSummaryPrompt asks for a one-sentence English summary
// regardless of the input language.
const defaultSummaryPrompt = `You are an intelligent analyst. Provide a brief and accurate summary of the given text. The summary should be in English and describe the main point in one sentence. Example: "complain for unavailability of current"`

// defaultIntentPrompt asks for the caller's intent as a 2-3 word
// English label.
const defaultIntentPrompt = `You are an intent classifier. Your task is to identify the user's intent from the given text and provide it in exactly 2-3 words in English.
Examples of correct intents:
- "power cut" (for power/electricity issues)
- "complaint" (for complaints)
- "bill inquiry" (for bill questions)
- "connection request" (for new connections)
- "payment issue" (for payment problems)
- "service request" (for service requests)

Provide ONLY the intent in 2-3 words, nothing else.`

// Catalog maps languages to their prompt sets. Summaries and intents
// are always produced in English, but the system prompts can be tuned
// per input language via a YAML override file.
type Catalog struct {
	prompts map[Language]PromptSet
}

// DefaultCatalog returns the built-in prompt catalog. All languages
// share the English prompts by default since the output is English.
func DefaultCatalog() Catalog {
	shared := PromptSet{
		Summary: defaultSummaryPrompt,
		Intent:  defaultIntentPrompt,
	}
	return Catalog{
		prompts: map[Language]PromptSet{
			LanguageHindi:   shared,
			LanguageEnglish: shared,
			LanguageUrdu:    shared,
			LanguageTelugu:  shared,
		},
	}
}

// LoadCatalog reads per-language prompt overrides from a YAML file and
// merges them over the defaults. The file maps language names to
// prompt sets:
//
//	hindi:
//	  summary: "..."
//	  intent: "..."
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read prompt catalog: %w", err)
	}

	var overrides map[Language]PromptSet
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Catalog{}, fmt.Errorf("parse prompt catalog: %w", err)
	}

	catalog := DefaultCatalog()
	for lang, set := range overrides {
		merged := catalog.ForLanguage(lang)
		if set.Summary != "" {
			merged.Summary = set.Summary
		}
		if set.Intent != "" {
			merged.Intent = set.Intent
		}
		catalog.prompts[lang] = merged
	}
	return catalog, nil
}

// ForLanguage returns the prompt set for a language, falling back to
// English for unknown languages.
func (c Catalog) ForLanguage(lang Language) PromptSet {
	if set, ok := c.prompts[lang]; ok {
		return set
	}
	return c.prompts[LanguageEnglish]
}
