package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Language
	}{
		{"hindi devanagari", "बिजली नहीं आ रही है", LanguageHindi},
		{"urdu arabic script", "بجلی نہیں آ رہی", LanguageUrdu},
		{"telugu", "కరెంటు రావడం లేదు", LanguageTelugu},
		{"english", "the power is out in my area", LanguageEnglish},
		{"mixed hinglish leans devanagari", "mera बिजली का बिल बहुत ज्यादा है", LanguageHindi},
		{"digits only falls back", "12345", LanguageHindi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text, LanguageHindi))
		})
	}
}

func TestDetectLanguage_EmptyFallsBack(t *testing.T) {
	assert.Equal(t, LanguageTelugu, DetectLanguage("", LanguageTelugu))
	assert.Equal(t, LanguageTelugu, DetectLanguage("!!! ???", LanguageTelugu))
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, LanguageEnglish, ParseLanguage("English"))
	assert.Equal(t, LanguageUrdu, ParseLanguage(" urdu "))
	assert.Equal(t, LanguageTelugu, ParseLanguage("telugu"))
	assert.Equal(t, LanguageHindi, ParseLanguage("hindi"))
	assert.Equal(t, LanguageHindi, ParseLanguage("klingon"))
	assert.Equal(t, LanguageHindi, ParseLanguage(""))
}
