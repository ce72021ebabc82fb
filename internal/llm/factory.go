package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/flashai/internal/store"
)

// NewProvider builds the backend named by cfg.Provider and decorates it:
// timeout, then retry, then one event per attempt. The mock backend is
// returned bare.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *zap.Logger) (Provider, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		backend Provider
		err     error
	)
	switch cfg.Provider {
	case ProviderGemini:
		backend, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderAnthropic:
		backend, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		backend, err = NewOpenAIProvider(cfg.OpenAI, log)
	case ProviderOpenRouter:
		backend, err = NewOpenRouterProvider(cfg.OpenRouter, log)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(backend, cfg.Provider, events, log)
	return WithTimeout(WithRetry(logged, cfg.Retry, log), cfg.Timeout), nil
}
