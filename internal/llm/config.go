package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the deck generation backend. It is the
// `llm:` section of the config file.
type Config struct {
	Provider string `yaml:"provider" env:"FLASHAI_LLM_PROVIDER" env-default:"gemini"`

	Gemini     GeminiConfig     `yaml:"gemini"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds one generation, retries included. Large PDFs can take
	// a while, hence the generous default.
	Timeout time.Duration `yaml:"timeout" env:"FLASHAI_LLM_TIMEOUT" env-default:"90s"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"FLASHAI_GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"FLASHAI_GEMINI_MODEL" env-default:"gemini-flash"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key" env:"FLASHAI_ANTHROPIC_API_KEY"`
	Model  string `yaml:"model" env:"FLASHAI_ANTHROPIC_MODEL" env-default:"claude-haiku"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key" env:"FLASHAI_OPENAI_API_KEY"`
	Model   string `yaml:"model" env:"FLASHAI_OPENAI_MODEL" env-default:"gpt-4o-mini"`
	BaseURL string `yaml:"base_url" env:"FLASHAI_OPENAI_BASE_URL"`
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key" env:"FLASHAI_OPENROUTER_API_KEY"`
	Model   string `yaml:"model" env:"FLASHAI_OPENROUTER_MODEL" env-default:"google/gemini-2.5-flash"`
	BaseURL string `yaml:"base_url" env:"FLASHAI_OPENROUTER_BASE_URL"`
}

// RetryConfig is the backoff of RetryProvider.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" env:"FLASHAI_LLM_RETRY_ATTEMPTS" env-default:"3"`
	InitialWait time.Duration `yaml:"initial_wait" env:"FLASHAI_LLM_RETRY_INITIAL_WAIT" env-default:"1s"`
	MaxWait     time.Duration `yaml:"max_wait" env:"FLASHAI_LLM_RETRY_MAX_WAIT" env-default:"10s"`
	Multiplier  float64       `yaml:"multiplier" env:"FLASHAI_LLM_RETRY_MULTIPLIER" env-default:"2.0"`
}

// DefaultConfig is the configuration with every default applied and no keys.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry:      RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: 10 * time.Second, Multiplier: 2},
		Timeout:    90 * time.Second,
	}
}

// ConfigFromEnv reads FLASHAI_* variables over the defaults.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read LLM config from env: %w", err)
	}
	return cfg, nil
}

// keySources lists, in discovery order, the standard variables that hold a
// provider's API key, and the FLASHAI variable named in errors.
var keySources = []struct {
	provider string
	vars     []string
	setting  string
}{
	{ProviderGemini, []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}, "FLASHAI_GEMINI_API_KEY"},
	{ProviderOpenAI, []string{"OPENAI_API_KEY"}, "FLASHAI_OPENAI_API_KEY"},
	{ProviderAnthropic, []string{"ANTHROPIC_API_KEY"}, "FLASHAI_ANTHROPIC_API_KEY"},
	{ProviderOpenRouter, []string{"OPENROUTER_API_KEY"}, "FLASHAI_OPENROUTER_API_KEY"},
}

// key returns a pointer to the API key field of provider.
func (c *Config) key(provider string) *string {
	switch provider {
	case ProviderGemini:
		return &c.Gemini.APIKey
	case ProviderAnthropic:
		return &c.Anthropic.APIKey
	case ProviderOpenAI:
		return &c.OpenAI.APIKey
	case ProviderOpenRouter:
		return &c.OpenRouter.APIKey
	}
	return nil
}

// DiscoverConfig returns a default config for the first provider, in
// keySources order, whose standard API key variable is set.
func DiscoverConfig() (Config, bool) {
	for _, src := range keySources {
		for _, name := range src.vars {
			if v := os.Getenv(name); v != "" {
				cfg := DefaultConfig()
				cfg.Provider = src.provider
				*cfg.key(src.provider) = v
				return cfg, true
			}
		}
	}
	return Config{}, false
}

// Resolve returns cfg when it is usable, else a discovered config that
// keeps cfg's retry and timeout settings, else cfg's validation error.
func Resolve(cfg Config) (Config, error) {
	err := cfg.Validate()
	if err == nil {
		return cfg, nil
	}
	found, ok := DiscoverConfig()
	if !ok {
		return Config{}, err
	}
	found.Retry = cfg.Retry
	if cfg.Timeout > 0 {
		found.Timeout = cfg.Timeout
	}
	return found, nil
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	for _, src := range keySources {
		if src.provider != c.Provider {
			continue
		}
		if *c.key(src.provider) == "" {
			return fmt.Errorf("%s (or %s) is required for the %s provider", src.setting, src.vars[0], src.provider)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}

// Redacted masks every API key, for `flashai config`.
func (c Config) Redacted() Config {
	for _, src := range keySources {
		k := c.key(src.provider)
		*k = redact(*k)
	}
	return c
}

func redact(key string) string {
	switch {
	case key == "":
		return ""
	case len(key) <= 8:
		return "****"
	default:
		return key[:4] + "…" + key[len(key)-2:]
	}
}
