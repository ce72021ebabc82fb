package llm

import "strings"

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost is the USD price of the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1_000_000
}

// model is an entry the config can select, by alias or by ID.
type model struct {
	provider string
	alias    string
	id       string
	cost     ModelCost
}

// catalog lists the defaults and aliases offered in config. Prices as of
// February 2026.
var catalog = []model{
	{ProviderGemini, "gemini-flash", "gemini-2.5-flash", ModelCost{0.3, 2.5}},
	{ProviderGemini, "gemini-pro", "gemini-2.5-pro", ModelCost{1.25, 10}},
	{ProviderAnthropic, "claude-haiku", "claude-haiku-4-5-20251001", ModelCost{1, 5}},
	{ProviderAnthropic, "claude-sonnet", "claude-sonnet-4-20250514", ModelCost{3, 15}},
	{ProviderOpenAI, "", "gpt-4o-mini", ModelCost{0.15, 0.6}},
	{ProviderOpenAI, "", "gpt-4o", ModelCost{2.5, 10}},
	{ProviderOpenRouter, "", "google/gemini-2.5-flash", ModelCost{0.3, 2.5}},
}

// resolveModel turns a configured alias into the provider's model ID.
// Unknown names are passed through so any model ID can be configured.
func resolveModel(provider, name string) string {
	for _, m := range catalog {
		if m.provider == provider && m.alias != "" && m.alias == name {
			return m.id
		}
	}
	return name
}

// LookupCost returns the price of a model as reported in responses. Dated
// snapshots such as "gpt-4o-mini-2024-07-18" match their base ID.
func LookupCost(modelID string) (ModelCost, bool) {
	var best *model
	for i := range catalog {
		m := &catalog[i]
		if m.id == modelID || m.alias == modelID {
			return m.cost, true
		}
		if strings.HasPrefix(modelID, m.id+"-") && (best == nil || len(m.id) > len(best.id)) {
			best = m
		}
	}
	if best == nil {
		return ModelCost{}, false
	}
	return best.cost, true
}
