package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quiz-trail/internal/domain"
	"quiz-trail/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// LangchainCompleter sends one system + human exchange to any langchaingo model.
type LangchainCompleter struct {
	model       llms.Model
	temperature float64
	maxTokens   int
}

func NewLangchainCompleter(model llms.Model, temperature float64, maxTokens int) *LangchainCompleter {
	return &LangchainCompleter{model: model, temperature: temperature, maxTokens: maxTokens}
}

func (c *LangchainCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	l := logger.Get()

	messages := make([]llms.MessageContent, 0, 2)
	if system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	opts := []llms.CallOption{llms.WithTemperature(c.temperature)}
	if c.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.maxTokens))
	}

	resp, err := c.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Warn("LLM request timed out", zap.Error(err))
			return "", domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", domain.NewLLMServiceError(errors.New("LLM returned no choices"))
	}

	text := stripThinking(resp.Choices[0].Content)
	if text == "" {
		return "", domain.NewLLMServiceError(errors.New("LLM returned an empty completion"))
	}
	l.Debug("LLM completion received", zap.Int("length", len(text)))
	return text, nil
}

// stripThinking removes a <think>...</think> block that reasoning models such
// as qwen3 put in front of the answer.
func stripThinking(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}
