package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"github.com/abhisek/flashai/internal/deck"
)

const (
	// LibraryKey holds the current multi-deck library.
	LibraryKey = "smart_flashcards_library"

	// LegacyDeckKey holds the single deck written by older versions.
	LegacyDeckKey = "smart_flashcards_deck"

	// LegacyMigratedKey records the ID of the legacy deck once it has been
	// moved into the library.
	LegacyMigratedKey = "smart_flashcards_legacy_migrated"

	// LibraryFormat is the envelope version written by SaveLibrary.
	LibraryFormat = "v1.0.0"
)

type libraryEnvelope struct {
	Format string       `json:"format"`
	Decks  deck.Library `json:"decks"`
}

type libraryRepo struct {
	kv  *kvStore
	log *zap.Logger
}

func (r *libraryRepo) LoadLibrary(ctx context.Context) (deck.Library, error) {
	raw, ok, err := r.kv.Get(ctx, LibraryKey)
	if err != nil {
		return nil, err
	}
	if ok {
		lib, err := decodeLibrary([]byte(raw))
		switch {
		case errors.Is(err, ErrUnsupportedFormat):
			return nil, err
		case err != nil:
			r.log.Warn("stored library is unreadable, ignoring it", zap.Error(err))
		case len(lib) > 0:
			return lib, nil
		}
	}

	return r.migrateLegacy(ctx)
}

// migrateLegacy wraps the single legacy deck into a library and saves it.
// The legacy record is left in place and a marker stops it from being
// migrated again once the library has been emptied.
func (r *libraryRepo) migrateLegacy(ctx context.Context) (deck.Library, error) {
	if _, done, err := r.kv.Get(ctx, LegacyMigratedKey); err != nil {
		return nil, err
	} else if done {
		return deck.Library{}, nil
	}

	raw, ok, err := r.kv.Get(ctx, LegacyDeckKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return deck.Library{}, nil
	}

	d, err := decodeLegacyDeck([]byte(raw))
	if err != nil {
		r.log.Warn("legacy deck is unreadable, skipping migration", zap.Error(err))
		return deck.Library{}, nil
	}

	lib := deck.Library{d}
	if err := r.SaveLibrary(ctx, lib); err != nil {
		return nil, fmt.Errorf("save migrated library: %w", err)
	}
	if err := r.kv.Put(ctx, LegacyMigratedKey, d.ID); err != nil {
		return nil, fmt.Errorf("mark legacy deck migrated: %w", err)
	}
	r.log.Info("migrated legacy deck into library",
		zap.String("deck_id", d.ID),
		zap.Int("cards", len(d.Cards)),
	)
	return lib, nil
}

func (r *libraryRepo) SaveLibrary(ctx context.Context, lib deck.Library) error {
	if lib == nil {
		lib = deck.Library{}
	}
	data, err := json.Marshal(libraryEnvelope{Format: LibraryFormat, Decks: lib})
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	return r.kv.Put(ctx, LibraryKey, string(data))
}

func (r *libraryRepo) Reset(ctx context.Context) error {
	for _, key := range []string{LibraryKey, LegacyDeckKey, LegacyMigratedKey} {
		if err := r.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// decodeLibrary accepts the versioned envelope or a bare array of decks.
func decodeLibrary(data []byte) (deck.Library, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var lib deck.Library
		if err := json.Unmarshal(data, &lib); err != nil {
			return nil, fmt.Errorf("decode library: %w", err)
		}
		return lib, nil
	}

	var env libraryEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode library: %w", err)
	}
	if !semver.IsValid(env.Format) {
		return nil, fmt.Errorf("decode library: invalid format version %q", env.Format)
	}
	if semver.Major(env.Format) != semver.Major(LibraryFormat) {
		return nil, fmt.Errorf("%w: %s (this build reads %s)", ErrUnsupportedFormat, env.Format, semver.Major(LibraryFormat))
	}
	return env.Decks, nil
}

// decodeLegacyDeck requires a JSON object with a cards array.
func decodeLegacyDeck(data []byte) (deck.Deck, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return deck.Deck{}, fmt.Errorf("decode legacy deck: %w", err)
	}
	cards, ok := fields["cards"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(cards), []byte("[")) {
		return deck.Deck{}, errors.New("decode legacy deck: no cards list")
	}

	var d deck.Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return deck.Deck{}, fmt.Errorf("decode legacy deck: %w", err)
	}
	if d.Cards == nil {
		d.Cards = []deck.Card{}
	}
	return d, nil
}
