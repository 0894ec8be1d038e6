package completion

import (
	"fmt"

	"quiz-trail/internal/config"
	"quiz-trail/internal/domain"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// New builds the text completer selected by cfg.Provider.
func New(cfg config.LLMConfig) (domain.TextCompleter, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.ServerURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
		}
		llm, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return NewLangchainCompleter(llm, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderOpenAI:
		opts := []openai.Option{openai.WithModel(cfg.Model), openai.WithToken(cfg.APIKey)}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return NewLangchainCompleter(llm, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderAnthropic:
		var opts []option.RequestOption
		if cfg.ServerURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.ServerURL))
		}
		return NewAnthropicCompleter(cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens, opts...)

	default:
		return nil, fmt.Errorf("unsupported llm.provider %q", cfg.Provider)
	}
}
