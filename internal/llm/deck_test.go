package llm

import (
	"context"
	"encoding/json"
	"time"
)

// testDeckSchema mirrors the flashcard-deck schema card generation sends.
// A fresh value per test keeps the lazy compile independent.
func testDeckSchema() *Schema {
	card := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"front": map[string]any{"type": "string"},
			"back":  map[string]any{"type": "string"},
		},
		"required":             []any{"front", "back"},
		"additionalProperties": false,
	}
	return &Schema{
		Name:        "flashcard-deck",
		Description: "Question/answer flashcards",
		Definition: map[string]any{
			"type":                 "object",
			"properties":           map[string]any{"cards": map[string]any{"type": "array", "items": card}},
			"required":             []any{"cards"},
			"additionalProperties": false,
		},
	}
}

var (
	photosynthesisDeck = json.RawMessage(`{"cards":[` +
		`{"front":"Where does photosynthesis happen?","back":"In the chloroplasts"},` +
		`{"front":"Which gas is released?","back":"Oxygen"}]}`)

	// The second card lost its answer.
	deckMissingBack = json.RawMessage(`{"cards":[` +
		`{"front":"Where does photosynthesis happen?","back":"In the chloroplasts"},` +
		`{"front":"Which gas is released?"}]}`)

	deckCutOff = json.RawMessage(`{"cards":[{"front":"Where does photo`)

	// Not decodable as an image, but only the MIME type matters here.
	notesPhoto = Attachment{MIMEType: "image/png", Data: []byte("\x89PNG")}
	notesPDF   = Attachment{MIMEType: "application/pdf", Data: []byte("%PDF-1.7")}
)

// cardGenRequest is a deck request for photographed notes plus a PDF.
func cardGenRequest(attachments ...Attachment) Request {
	return Request{
		System:      "You write concise study flashcards.",
		Messages:    []Message{UserMessage("Make flashcards from these biology notes.", attachments...)},
		Schema:      testDeckSchema(),
		MaxTokens:   2048,
		Temperature: 0.4,
	}
}

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 2}
}

// instantRetry wraps p without real sleeps or jitter and records the waits.
func instantRetry(p Provider, cfg RetryConfig) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(p, cfg, nil)
	r.jitter = func() float64 { return 0 }
	r.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return r, &waits
}
