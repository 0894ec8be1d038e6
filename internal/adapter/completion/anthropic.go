package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"quiz-trail/internal/domain"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicModels maps friendly names to Anthropic model IDs.
var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

const defaultAnthropicMaxTokens = 256

type AnthropicCompleter struct {
	client      *anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewAnthropicCompleter needs an API key. Extra request options (base URL,
// retries) are passed through to the SDK client.
func NewAnthropicCompleter(apiKey, model string, temperature float64, maxTokens int, opts ...option.RequestOption) (*AnthropicCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)

	if id, ok := anthropicModels[model]; ok {
		model = id
	}
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	return &AnthropicCompleter{
		client:      &client,
		model:       model,
		temperature: temperature,
		maxTokens:   int64(maxTokens),
	}, nil
}

func (c *AnthropicCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(c.temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", domain.NewLLMServiceError(describeAnthropicError(err))
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", domain.NewLLMServiceError(errors.New("no text content in Anthropic response"))
	}
	return text, nil
}

func describeAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("anthropic rate limit: %w", err)
		case apiErr.StatusCode >= 500:
			return fmt.Errorf("anthropic unavailable: %w", err)
		}
	}
	return fmt.Errorf("anthropic request failed: %w", err)
}
