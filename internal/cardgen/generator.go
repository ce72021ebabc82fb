package cardgen

import (
	"context"
	"errors"

	"github.com/abhisek/flashai/internal/deck"
)

var (
	// ErrGeneration wraps every failure to turn content into a deck:
	// transport, auth, parse and validation errors alike.
	ErrGeneration = errors.New("card generation failed")

	// ErrEmptyInput is returned when there is no text and no usable file.
	ErrEmptyInput = errors.New("no text or usable files to generate from")
)

// Generator turns study material into a new deck of flashcards.
type Generator interface {
	// Generate produces a deck whose cards are all in the new state.
	// All configured validators are run before returning.
	Generate(ctx context.Context, input Input) (*deck.Deck, error)
}

// Input is the study material for one generation.
type Input struct {
	// Text is free-form notes. Sent as a context note when non-blank.
	Text string

	// Files are uploaded documents, images or text files.
	Files []FileBlob
}

// FileBlob is an in-memory file with its detected MIME type.
type FileBlob struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Draft is a card as returned by the model, before IDs and scheduling
// state are attached.
type Draft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}
