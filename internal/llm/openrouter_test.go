package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouter_SendsAttributionAndModelAsGiven(t *testing.T) {
	var (
		header http.Header
		body   map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeCompletion(w, photosynthesisDeck, "stop")
	}))
	t.Cleanup(srv.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "anthropic/claude-haiku-4.5",
		BaseURL: srv.URL,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-haiku-4.5", p.ModelID())

	_, err = p.Generate(context.Background(), cardGenRequest(notesPhoto))
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-or-test", header.Get("Authorization"))
	assert.Equal(t, "https://github.com/abhisek/flashai", header.Get("Http-Referer"))
	assert.Equal(t, "FlashAI", header.Get("X-Title"))
	assert.Equal(t, "anthropic/claude-haiku-4.5", body["model"])
}

func TestOpenRouter_ErrorsNameTheProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeChatError(w, http.StatusPaymentRequired, "insufficient credits")
	}))
	t.Cleanup(srv.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "google/gemini-2.5-flash", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), cardGenRequest())
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "openrouter", rejected.Provider)
	assert.Equal(t, http.StatusPaymentRequired, rejected.Status)
}

func TestOpenRouter_RequiresKey(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{}, nil)
	assert.Error(t, err)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "google/gemini-2.5-flash"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "openrouter", p.name)
}
