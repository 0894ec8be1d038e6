package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quiz-trail/internal/domain"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicCompleter(t *testing.T, handler http.HandlerFunc) *AnthropicCompleter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewAnthropicCompleter("test-key", "claude-haiku", 0.2, 0,
		option.WithBaseURL(server.URL), option.WithMaxRetries(0))
	require.NoError(t, err)
	return c
}

func TestAnthropicCompleter_HappyPath(t *testing.T) {
	var body map[string]any
	c := newTestAnthropicCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": "Slow down and reread each question."},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 20, "output_tokens": 9},
		})
	})

	got, err := c.Complete(context.Background(), "be brief", "Ethics: 0/2 correct, average time 1.00 seconds.")
	require.NoError(t, err)
	assert.Equal(t, "Slow down and reread each question.", got)
	assert.Equal(t, "claude-haiku-4-5-20251001", body["model"])
	assert.EqualValues(t, defaultAnthropicMaxTokens, body["max_tokens"])
	assert.NotNil(t, body["system"])
}

func TestAnthropicCompleter_ServerError(t *testing.T) {
	c := newTestAnthropicCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "rate_limit_error", "message": "Rate limit exceeded"},
		})
	})

	_, err := c.Complete(context.Background(), "", "p")
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeLLMServiceError, domainErr.Code)
	assert.ErrorContains(t, err, "rate limit")
}

func TestNewAnthropicCompleter_RequiresKey(t *testing.T) {
	_, err := NewAnthropicCompleter("", "claude-haiku", 0, 0)
	assert.Error(t, err)
}
