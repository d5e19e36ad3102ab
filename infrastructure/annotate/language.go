package annotate

import (
	"strings"
	"unicode"
)

// ParseLanguage maps a language name to a Language. Unknown names fall
// back to Hindi.
func ParseLanguage(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEnglish:
		return LanguageEnglish
	case LanguageUrdu:
		return LanguageUrdu
	case LanguageTelugu:
		return LanguageTelugu
	default:
		return LanguageHindi
	}
}

// DetectLanguage guesses the language of a transcription from Unicode
// script ratios. A script must account for more than 10% of the
// alphanumeric characters to win; otherwise fallback is returned.
func DetectLanguage(text string, fallback Language) Language {
	var devanagari, arabic, telugu, latin, total int

	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		total++
		switch {
		case r >= 0x0900 && r <= 0x097F:
			devanagari++
		case r >= 0x0600 && r <= 0x06FF:
			arabic++
		case r >= 0x0C00 && r <= 0x0C7F:
			telugu++
		case r < 128 && unicode.IsLetter(r):
			latin++
		}
	}

	if total == 0 {
		return fallback
	}

	best, count := fallback, 0
	for _, candidate := range []struct {
		lang Language
		n    int
	}{
		{LanguageTelugu, telugu},
		{LanguageHindi, devanagari},
		{LanguageUrdu, arabic},
		{LanguageEnglish, latin},
	} {
		if candidate.n > count {
			best, count = candidate.lang, candidate.n
		}
	}

	if count*10 > total {
		return best
	}
	return fallback
}
