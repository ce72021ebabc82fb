package llm

import (
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// Sent so OpenRouter attributes usage to the app.
	openRouterReferer = "https://github.com/abhisek/flashai"
	openRouterTitle   = "FlashAI"
)

// NewOpenRouterProvider creates a chat completions client for OpenRouter.
// Model IDs are OpenRouter's own, e.g. "google/gemini-2.5-flash", and are
// used as given.
func NewOpenRouterProvider(cfg OpenRouterConfig, log *zap.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = defaultOpenRouterBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Transport: headerTransport{
		base: http.DefaultTransport,
		headers: http.Header{
			"Http-Referer": {openRouterReferer},
			"X-Title":      {openRouterTitle},
		},
	}}
	return newChatProvider(ProviderOpenRouter, clientCfg, cfg.Model, log), nil
}
