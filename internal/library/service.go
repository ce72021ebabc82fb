// Package library owns the in-memory deck library and keeps it in step
// with the store.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/flashai/internal/cardgen"
	"github.com/abhisek/flashai/internal/deck"
	"github.com/abhisek/flashai/internal/session"
	"github.com/abhisek/flashai/internal/spacedrep"
	"github.com/abhisek/flashai/internal/store"
)

var (
	// ErrGeneration means no deck could be produced from the material.
	ErrGeneration = errors.New("could not generate deck")

	// ErrPersistence means a change could not be saved. The in-memory
	// library is left as it was before the change.
	ErrPersistence = errors.New("could not save library")

	// ErrDeckNotFound is returned for an unknown deck ID.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrEmptyName is returned when renaming a deck to a blank name.
	ErrEmptyName = errors.New("deck name is empty")

	// ErrNoGenerator is wrapped by ErrGeneration when no LLM provider is configured.
	ErrNoGenerator = errors.New("no LLM provider configured")
)

// Service is safe for concurrent use.
type Service struct {
	repo store.LibraryRepo
	gen  cardgen.Generator
	log  *zap.Logger

	mu  sync.RWMutex
	lib deck.Library
}

// NewService creates a library service. Call Load before use.
func NewService(repo store.LibraryRepo, gen cardgen.Generator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, gen: gen, log: log}
}

// Load reads the library from the store, migrating a legacy deck if needed.
func (s *Service) Load(ctx context.Context) error {
	lib, err := s.repo.LoadLibrary(ctx)
	if err != nil {
		return fmt.Errorf("load library: %w", err)
	}
	s.mu.Lock()
	s.lib = lib
	s.mu.Unlock()
	s.log.Info("library loaded", zap.Int("decks", len(lib)))
	return nil
}

// Decks returns a copy of every deck, newest first.
func (s *Service) Decks() deck.Library {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(deck.Library, len(s.lib))
	for i, d := range s.lib {
		out[i] = d.Clone()
	}
	return out
}

// Deck returns a copy of the deck with the given ID.
func (s *Service) Deck(id string) (deck.Deck, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.lib.Find(id)
	if !ok {
		return deck.Deck{}, false
	}
	return d.Clone(), true
}

// Generate creates a deck from input and adds it to the front of the library.
func (s *Service) Generate(ctx context.Context, input cardgen.Input) (deck.Deck, error) {
	if s.gen == nil {
		return deck.Deck{}, fmt.Errorf("%w: %w", ErrGeneration, ErrNoGenerator)
	}
	d, err := s.gen.Generate(ctx, input)
	if err != nil {
		s.log.Warn("deck generation failed", zap.Error(err))
		return deck.Deck{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	err = s.commit(ctx, func(lib deck.Library) (deck.Library, error) {
		return lib.Prepend(*d), nil
	})
	if err != nil {
		return deck.Deck{}, err
	}
	s.log.Info("deck generated", zap.String("deck_id", d.ID), zap.Int("cards", len(d.Cards)))
	return d.Clone(), nil
}

// Delete removes a deck.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.commit(ctx, func(lib deck.Library) (deck.Library, error) {
		out, ok := lib.Remove(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, id)
		}
		return out, nil
	})
}

// Rename changes a deck's display name.
func (s *Service) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.commit(ctx, func(lib deck.Library) (deck.Library, error) {
		d, ok := lib.Find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, id)
		}
		d.Name = name
		out, _ := lib.Replace(d)
		return out, nil
	})
}

// ApplySession merges the cards reported by a study session into the deck
// and saves the library. Cards unknown to the deck are ignored.
func (s *Service) ApplySession(ctx context.Context, deckID string, cards []deck.Card) error {
	return s.commit(ctx, func(lib deck.Library) (deck.Library, error) {
		d, ok := lib.Find(deckID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, deckID)
		}
		out, _ := lib.Replace(d.Merge(cards))
		return out, nil
	})
}

// StudyQueue returns the cards to study in a deck: the due cards, most
// overdue first, or with all set the whole deck in study order.
func (s *Service) StudyQueue(deckID string, now time.Time, all bool) ([]deck.Card, error) {
	d, ok := s.Deck(deckID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, deckID)
	}
	if all {
		return spacedrep.SortForStudy(d.Cards, now), nil
	}
	return spacedrep.DueCards(d.Cards, now), nil
}

// Reporter returns a session reporter that saves progress into deckID.
func (s *Service) Reporter(ctx context.Context, deckID string) session.Reporter {
	return session.ReporterFunc(func(cards []deck.Card) error {
		return s.ApplySession(ctx, deckID, cards)
	})
}

// commit applies change to the current library, saves the result and only
// then makes it current.
func (s *Service) commit(ctx context.Context, change func(deck.Library) (deck.Library, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := change(s.lib)
	if err != nil {
		return err
	}
	if err := s.repo.SaveLibrary(ctx, next); err != nil {
		s.log.Error("saving library failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.lib = next
	return nil
}
