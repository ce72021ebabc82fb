package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		provider, name, want string
	}{
		{ProviderGemini, "gemini-flash", "gemini-2.5-flash"},
		{ProviderGemini, "gemini-pro", "gemini-2.5-pro"},
		{ProviderAnthropic, "claude-haiku", "claude-haiku-4-5-20251001"},
		{ProviderAnthropic, "claude-sonnet", "claude-sonnet-4-20250514"},
		{ProviderOpenAI, "gpt-4o", "gpt-4o"},
		{ProviderGemini, "gemini-2.0-flash-lite", "gemini-2.0-flash-lite"},
		// Aliases belong to their provider.
		{ProviderOpenAI, "claude-haiku", "claude-haiku"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.provider, tt.name); got != tt.want {
			t.Errorf("resolveModel(%s, %s) = %s, want %s", tt.provider, tt.name, got, tt.want)
		}
	}
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  ModelCost
		ok    bool
	}{
		{"gemini-2.5-flash", ModelCost{0.3, 2.5}, true},
		{"gemini-flash", ModelCost{0.3, 2.5}, true},
		{"claude-haiku-4-5-20251001", ModelCost{1, 5}, true},
		{"gpt-4o-mini-2024-07-18", ModelCost{0.15, 0.6}, true},
		{"gpt-4o-2024-08-06", ModelCost{2.5, 10}, true},
		{"google/gemini-2.5-flash", ModelCost{0.3, 2.5}, true},
		{"mock", ModelCost{}, false},
		{"llama-3-70b", ModelCost{}, false},
	}
	for _, tt := range tests {
		got, ok := LookupCost(tt.model)
		assert.Equal(t, tt.ok, ok, tt.model)
		assert.Equal(t, tt.want, got, tt.model)
	}
}

func TestModelCost_Cost(t *testing.T) {
	// One generation over a photographed page with the default model.
	c, _ := LookupCost("gemini-2.5-flash")
	assert.InDelta(t, 0.000975, c.Cost(1500, 210), 1e-9)
}
