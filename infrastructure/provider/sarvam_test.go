package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSarvamServer mimics the Sarvam chat completion endpoint. It echoes
// the last user message back as the completion content.
func fakeSarvamServer(t *testing.T, status int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"message": "upstream said no", "code": "rejected"},
			})
			return
		}

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			MaxTokens int `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotEmpty(t, body.Messages)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "cmpl-1",
			"model": body.Model,
			"choices": []map[string]any{
				{
					"message":       map[string]string{"role": "assistant", "content": "echo: " + body.Messages[len(body.Messages)-1].Content},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17},
		})
	}))
}

func TestSarvamProvider_ChatCompletion(t *testing.T) {
	srv := fakeSarvamServer(t, http.StatusOK)
	defer srv.Close()

	p := NewSarvamProvider("test-key", WithSarvamBaseURL(srv.URL))

	req := NewChatCompletionRequest([]Message{
		SystemMessage("You summarise calls."),
		UserMessage("bijli nahi aa rahi"),
	}).WithMaxTokens(100).WithTemperature(0.3)

	resp, err := p.ChatCompletion(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "echo: bijli nahi aa rahi", resp.Content())
	assert.Equal(t, "stop", resp.FinishReason())
	assert.Equal(t, 17, resp.Usage().TotalTokens())
}

func TestSarvamProvider_ChatCompletionNoMessages(t *testing.T) {
	p := NewSarvamProvider("test-key")

	_, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest(nil))
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Message(), "no messages")
}

func TestSarvamProvider_RateLimitResponse(t *testing.T) {
	srv := fakeSarvamServer(t, http.StatusTooManyRequests)
	defer srv.Close()

	p := NewSarvamProvider("test-key", WithSarvamBaseURL(srv.URL))

	_, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest([]Message{UserMessage("hello")}))
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.False(t, IsAuthFailure(err))

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode())
	assert.Equal(t, "upstream said no", provErr.Message())
}

func TestSarvamProvider_AuthFailureResponse(t *testing.T) {
	srv := fakeSarvamServer(t, http.StatusUnauthorized)
	defer srv.Close()

	p := NewSarvamProvider("wrong-key", WithSarvamBaseURL(srv.URL))
	// The fake checks the Authorization header value it was built with.
	p.apiKey = "test-key"

	_, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest([]Message{UserMessage("hello")}))
	require.Error(t, err)
	assert.True(t, IsAuthFailure(err))
	assert.False(t, IsRateLimited(err))
}

func TestSarvamProvider_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "cmpl-1", "choices": []any{}})
	}))
	defer srv.Close()

	p := NewSarvamProvider("test-key", WithSarvamBaseURL(srv.URL))

	_, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest([]Message{UserMessage("hello")}))
	require.ErrorIs(t, err, ErrNoChoices)
}
