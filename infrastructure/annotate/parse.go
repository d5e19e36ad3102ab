package annotate

import (
	"regexp"
	"strings"
)

var (
	intentPrefixRe  = regexp.MustCompile(`(?i)^(intent|intent:|the intent is|user intent|intent is)[:\s]*`)
	trailingPunctRe = regexp.MustCompile(`[.,;:!?]+$`)
	nonWordRe       = regexp.MustCompile(`[^\p{L}\p{N}_-]`)
	thinkBlockRe    = regexp.MustCompile(`(?s)<think>.*?</think>`)
	thinkOpenOnlyRe = regexp.MustCompile(`<think>`)
)

const (
	maxIntentWords = 3
	unknownIntent  = "unknown"
)

// parseIntent normalizes a raw model response into a short lowercase
// intent label of at most three words.
func parseIntent(response string) string {
	response = strings.TrimSpace(response)
	response = intentPrefixRe.ReplaceAllString(response, "")
	response = strings.Trim(response, `"'`)
	response = trailingPunctRe.ReplaceAllString(response, "")

	var words []string
	for _, word := range strings.Fields(response) {
		word = nonWordRe.ReplaceAllString(word, "")
		if word != "" {
			words = append(words, strings.ToLower(word))
		}
		if len(words) == maxIntentWords {
			break
		}
	}

	if len(words) == 0 {
		return unknownIntent
	}
	return strings.Join(words, " ")
}

// cleanSummary trims whitespace and surrounding quotes from a summary
// and removes chain-of-thought blocks some models emit.
func cleanSummary(text string) string {
	text = thinkBlockRe.ReplaceAllString(text, "")
	// Unclosed tag: drop the marker, keep the text.
	text = thinkOpenOnlyRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	return strings.Trim(text, `"'`)
}
