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

// fakeChatServer mimics the OpenAI chat completion endpoint.
func fakeChatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "nope", "type": "invalid_request_error"},
			})
			return
		}

		var body struct {
			Model string `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  body.Model,
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14},
		})
	}))
}

func TestOpenAIProvider_ChatCompletion(t *testing.T) {
	srv := fakeChatServer(t, http.StatusOK, "complain for unavailability of current")
	defer srv.Close()

	p := NewOpenAIProviderFromConfig(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "test-model",
	})

	req := NewChatCompletionRequest([]Message{
		SystemMessage("You summarise calls."),
		UserMessage("bijli nahi aa rahi"),
	}).WithMaxTokens(100).WithTemperature(0.3)

	resp, err := p.ChatCompletion(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "complain for unavailability of current", resp.Content())
	assert.Equal(t, "stop", resp.FinishReason())
	assert.Equal(t, 14, resp.Usage().TotalTokens())
}

func TestOpenAIProvider_ErrorCarriesStatus(t *testing.T) {
	srv := fakeChatServer(t, http.StatusTooManyRequests, "")
	defer srv.Close()

	p := NewOpenAIProviderFromConfig(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})

	_, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest([]Message{UserMessage("hello")}))
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode())
	assert.True(t, IsRateLimited(err))
}

func TestOpenAIProvider_AuthError(t *testing.T) {
	srv := fakeChatServer(t, http.StatusUnauthorized, "")
	defer srv.Close()

	p := NewOpenAIProviderFromConfig(OpenAIConfig{APIKey: "bad-key", BaseURL: srv.URL})

	_, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest([]Message{UserMessage("hello")}))
	require.Error(t, err)
	assert.True(t, IsAuthFailure(err))
}

func TestOpenAIProvider_DefaultModel(t *testing.T) {
	p := NewOpenAIProviderFromConfig(OpenAIConfig{APIKey: "test-key"})
	assert.Equal(t, "gpt-4o-mini", p.model)

	p = NewOpenAIProviderFromConfig(OpenAIConfig{APIKey: "test-key", Model: "llama3"})
	assert.Equal(t, "llama3", p.model)
}
