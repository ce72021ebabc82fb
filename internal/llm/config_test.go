package llm

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"FLASHAI_LLM_PROVIDER", "FLASHAI_GEMINI_API_KEY", "FLASHAI_GEMINI_MODEL", "FLASHAI_LLM_TIMEOUT",
		"FLASHAI_ANTHROPIC_API_KEY", "FLASHAI_OPENAI_API_KEY", "FLASHAI_OPENROUTER_API_KEY",
		"FLASHAI_LLM_RETRY_ATTEMPTS", "FLASHAI_LLM_RETRY_INITIAL_WAIT", "FLASHAI_LLM_RETRY_MAX_WAIT", "FLASHAI_LLM_RETRY_MULTIPLIER",
	} {
		unsetEnv(t, k)
	}
}

// unsetEnv removes k for the duration of the test. Empty values are not
// the same as unset: cleanenv only applies env-default to missing variables.
func unsetEnv(t *testing.T, k string) {
	t.Helper()
	t.Setenv(k, "") // registers restore of the original value
	os.Unsetenv(k)
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearKeyEnv(t)

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-flash", cfg.Gemini.Model)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.InitialWait)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("FLASHAI_LLM_PROVIDER", "anthropic")
	t.Setenv("FLASHAI_ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("FLASHAI_LLM_TIMEOUT", "5s")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestDiscoverConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		provider string
	}{
		{"gemini", map[string]string{"GEMINI_API_KEY": "g"}, ProviderGemini},
		{"google alias", map[string]string{"GOOGLE_API_KEY": "g"}, ProviderGemini},
		{"openai before anthropic", map[string]string{"OPENAI_API_KEY": "o", "ANTHROPIC_API_KEY": "a"}, ProviderOpenAI},
		{"anthropic", map[string]string{"ANTHROPIC_API_KEY": "a"}, ProviderAnthropic},
		{"openrouter", map[string]string{"OPENROUTER_API_KEY": "r"}, ProviderOpenRouter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearKeyEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, ok := DiscoverConfig()
			require.True(t, ok)
			assert.Equal(t, tt.provider, cfg.Provider)
			assert.NoError(t, cfg.Validate())
		})
	}

	t.Run("none", func(t *testing.T) {
		clearKeyEnv(t)
		_, ok := DiscoverConfig()
		assert.False(t, ok)
	})
}

func TestResolve(t *testing.T) {
	clearKeyEnv(t)

	explicit := DefaultConfig()
	explicit.Gemini.APIKey = "mine"
	got, err := Resolve(explicit)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Gemini.APIKey)

	_, err = Resolve(DefaultConfig())
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk-o")
	got, err = Resolve(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, got.Provider)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"gemini without key", Config{Provider: ProviderGemini}, "FLASHAI_GEMINI_API_KEY (or GEMINI_API_KEY)"},
		{"gemini", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, ""},
		{"anthropic without key", Config{Provider: ProviderAnthropic, Gemini: GeminiConfig{APIKey: "k"}}, "ANTHROPIC_API_KEY"},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, "FLASHAI_OPENROUTER_API_KEY"},
		{"openrouter", Config{Provider: ProviderOpenRouter, OpenRouter: OpenRouterConfig{APIKey: "k"}}, ""},
		{"mock needs nothing", Config{Provider: ProviderMock}, ""},
		{"unknown", Config{Provider: "ollama"}, `unknown LLM provider: "ollama"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_Redacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gemini.APIKey = "AIzaSyVerySecretKey42"
	cfg.OpenAI.APIKey = "short"

	r := cfg.Redacted()
	assert.Equal(t, "AIza…42", r.Gemini.APIKey)
	assert.Equal(t, "****", r.OpenAI.APIKey)
	assert.Equal(t, "", r.Anthropic.APIKey)
	assert.Equal(t, "AIzaSyVerySecretKey42", cfg.Gemini.APIKey, "original untouched")
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestNewProvider_OpenRouterWrapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "sk-or"

	p, err := NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", p.ModelID())
	timeout, ok := p.(*TimeoutProvider)
	require.True(t, ok)
	retry, ok := timeout.inner.(*RetryProvider)
	require.True(t, ok)
	logged, ok := retry.inner.(*LoggingProvider)
	require.True(t, ok)
	assert.Equal(t, ProviderOpenRouter, logged.provider)
}

func TestResolve_KeepsRetryAndTimeout(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg := DefaultConfig()
	cfg.Retry.MaxAttempts = 5
	cfg.Timeout = 3 * time.Minute
	got, err := Resolve(cfg)
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, got.Provider)
	assert.Equal(t, "sk-ant", got.Anthropic.APIKey)
	assert.Equal(t, 5, got.Retry.MaxAttempts)
	assert.Equal(t, 3*time.Minute, got.Timeout)
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil, nil)
	assert.Error(t, err)
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "block" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	assert.Equal(t, blockingProvider{}, WithTimeout(blockingProvider{}, 0))
}
