package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/flashai/internal/deck"
)

// ErrUnsupportedFormat is returned when the stored library was written by a
// newer, incompatible version.
var ErrUnsupportedFormat = errors.New("unsupported library format")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LibraryRepo persists the deck library as a single record.
type LibraryRepo interface {
	// LoadLibrary returns the stored library. When none is stored and a
	// single-deck record from older versions exists, that deck is migrated
	// into a one-deck library and saved. Unreadable data yields an empty
	// library rather than an error.
	LoadLibrary(ctx context.Context) (deck.Library, error)

	// SaveLibrary replaces the stored library.
	SaveLibrary(ctx context.Context, lib deck.Library) error

	// Reset removes the library and the legacy single-deck record.
	Reset(ctx context.Context) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls for one purpose.
type LLMUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM calls for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// Study event actions.
const (
	StudyActionStart = "start"
	StudyActionBatch = "batch"
	StudyActionExit  = "exit"
)

// StudyEventData captures one study session transition.
type StudyEventData struct {
	SessionID   string
	DeckID      string
	Action      string
	BatchNumber int
	BatchSize   int
	Correct     int
	ToReview    int
	Retry       bool
	CardsGraded int
}

// StudyEvent is a stored study event.
type StudyEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	StudyEventData
}

// StudyTotals aggregates batch events.
type StudyTotals struct {
	Sessions int
	Batches  int
	Cards    int
	Correct  int
	ToReview int
}

// Accuracy returns Correct over Cards, or 0 when nothing was studied.
func (t StudyTotals) Accuracy() float64 {
	if t.Cards == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Cards)
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendStudyEvent records a study session transition.
	AppendStudyEvent(ctx context.Context, data StudyEventData) error

	// QueryStudyEvents returns study events, newest first. An empty deckID matches all decks.
	QueryStudyEvents(ctx context.Context, deckID string, opts QueryOpts) ([]StudyEvent, error)

	// StudyTotals aggregates batch events. An empty deckID matches all decks.
	StudyTotals(ctx context.Context, deckID string) (StudyTotals, error)
}
