package cardgen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/flashai/internal/deck"
	"github.com/abhisek/flashai/internal/llm"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *LLMGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLMGenerator{
		provider: provider,
		config:   cfg,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// deckOutput is the raw LLM response before validation.
type deckOutput struct {
	Cards []Draft `json:"cards"`
}

// Generate produces a new deck for the given material.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) (*deck.Deck, error) {
	if !hasMaterial(input) {
		return nil, ErrEmptyInput
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeCardGen)

	msg, skipped := buildMessage(input)
	for _, name := range skipped {
		g.log.Warn("ignoring unsupported file", zap.String("file", name))
	}

	req := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{msg},
		Schema:      DeckSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: LLM generation failed: %w", ErrGeneration, err)
	}

	var raw deckOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse LLM response: %w", ErrGeneration, err)
	}

	// Run validators in order.
	for _, v := range g.config.Validators {
		if verr := v.Validate(raw.Cards); verr != nil {
			return nil, fmt.Errorf("%w: %w", ErrGeneration, verr)
		}
	}

	drafts := dedupe(raw.Cards)
	if n := len(raw.Cards) - len(drafts); n > 0 {
		g.log.Debug("dropped duplicate cards", zap.Int("count", n))
	}

	now := g.now()
	d := &deck.Deck{
		ID:        g.newID(),
		Name:      DeckName(now),
		CreatedAt: now,
		Cards:     make([]deck.Card, 0, len(drafts)),
	}
	for _, c := range drafts {
		d.Cards = append(d.Cards, deck.NewCard(g.newID(), c.Front, c.Back, now))
	}
	return d, nil
}

// DeckName is the default name of a deck generated at t.
func DeckName(t time.Time) string {
	return "Generated Deck " + t.Format("Jan 2, 2006")
}
