package annotate

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicelayer/annotate/infrastructure/provider"
)

// scriptedGenerator answers the summary call with summaryReply and the
// intent call with intentReply, recording every request it sees.
type scriptedGenerator struct {
	summaryReply string
	intentReply  string
	err          error
	requests     []provider.ChatCompletionRequest
}

func (g *scriptedGenerator) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return provider.ChatCompletionResponse{}, g.err
	}
	reply := g.summaryReply
	if len(g.requests) > 1 {
		reply = g.intentReply
	}
	return provider.NewChatCompletionResponse(reply, "stop", provider.NewUsage(10, 5, 15)), nil
}

func TestLLMAnnotator_Annotate(t *testing.T) {
	gen := &scriptedGenerator{
		summaryReply: `"complain for unavailability of current"`,
		intentReply:  "Intent: Power Cut.",
	}
	annotator := NewLLMAnnotator(gen, slog.Default()).WithDefaultLanguage(LanguageHindi)

	annotation, err := annotator.Annotate(context.Background(), "बिजली नहीं आ रही है")
	require.NoError(t, err)

	assert.Equal(t, "complain for unavailability of current", annotation.Summary())
	assert.Equal(t, "power cut", annotation.Intent())

	require.Len(t, gen.requests, 2, "one summary call and one intent call")

	summaryReq := gen.requests[0]
	assert.Equal(t, 100, summaryReq.MaxTokens())
	assert.InDelta(t, 0.3, summaryReq.Temperature(), 0.001)
	require.Len(t, summaryReq.Messages(), 2)
	assert.Equal(t, "system", summaryReq.Messages()[0].Role())
	assert.Contains(t, summaryReq.Messages()[1].Content(), "बिजली नहीं आ रही है")

	intentReq := gen.requests[1]
	assert.Equal(t, 20, intentReq.MaxTokens())
	assert.InDelta(t, 0.2, intentReq.Temperature(), 0.001)
	assert.Contains(t, intentReq.Messages()[1].Content(), "2-3 words")
}

func TestLLMAnnotator_EmptyText(t *testing.T) {
	gen := &scriptedGenerator{}
	annotator := NewLLMAnnotator(gen, slog.Default())

	_, err := annotator.Annotate(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyText)
	assert.Empty(t, gen.requests, "no provider call for empty input")
}

func TestLLMAnnotator_ProviderErrorPassesThrough(t *testing.T) {
	provErr := provider.NewProviderError("chat_completion", http.StatusTooManyRequests, "slow down", nil)
	gen := &scriptedGenerator{err: provErr}
	annotator := NewLLMAnnotator(gen, slog.Default())

	_, err := annotator.Annotate(context.Background(), "hello there")
	require.Error(t, err)
	assert.True(t, provider.IsRateLimited(err), "classification must survive the annotator")
}

func TestLLMAnnotator_UsesLanguagePrompts(t *testing.T) {
	catalog := DefaultCatalog()
	custom := catalog.ForLanguage(LanguageTelugu)
	custom.Summary = "TELUGU SUMMARY PROMPT"
	catalog.prompts[LanguageTelugu] = custom

	gen := &scriptedGenerator{summaryReply: "ok", intentReply: "ok"}
	annotator := NewLLMAnnotator(gen, slog.Default()).WithCatalog(catalog)

	_, err := annotator.Annotate(context.Background(), "కరెంటు రావడం లేదు")
	require.NoError(t, err)

	require.NotEmpty(t, gen.requests)
	system := gen.requests[0].Messages()[0].Content()
	assert.True(t, strings.Contains(system, "TELUGU SUMMARY PROMPT"),
		"summary system prompt should come from the detected language, got %q", system)
}
