package deck

import (
	"encoding/json"
	"time"
)

const (
	// DefaultEaseFactor is the ease a new card starts with.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the floor for a card's ease factor.
	MinEaseFactor = 1.3
)

// Card is one reviewable question/answer unit.
type Card struct {
	ID             string
	Front          string
	Back           string
	Box            int
	Interval       int // days; 0 means new or reset
	EaseFactor     float64
	NextReviewDate time.Time
	History        []Grade
}

// NewCard returns a card in the "new" scheduling state, due at now.
func NewCard(id, front, back string, now time.Time) Card {
	return Card{
		ID:             id,
		Front:          front,
		Back:           back,
		Box:            0,
		Interval:       0,
		EaseFactor:     DefaultEaseFactor,
		NextReviewDate: now,
		History:        []Grade{},
	}
}

// IsNew reports whether the card has no interval yet (new or reset by Again).
func (c Card) IsNew() bool {
	return c.Interval == 0
}

// Clone returns a copy of c that shares no memory with it.
func (c Card) Clone() Card {
	out := c
	out.History = make([]Grade, len(c.History))
	copy(out.History, c.History)
	return out
}

// LastGrade returns the most recent grade, if any.
func (c Card) LastGrade() (Grade, bool) {
	if len(c.History) == 0 {
		return 0, false
	}
	return c.History[len(c.History)-1], true
}

// cardJSON is the persisted shape. Timestamps are unix milliseconds.
type cardJSON struct {
	ID             string  `json:"id"`
	Front          string  `json:"front"`
	Back           string  `json:"back"`
	Box            int     `json:"box"`
	NextReviewDate int64   `json:"nextReviewDate"`
	Interval       int     `json:"interval"`
	EaseFactor     float64 `json:"easeFactor"`
	History        []Grade `json:"history"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	history := c.History
	if history == nil {
		history = []Grade{}
	}
	return json.Marshal(cardJSON{
		ID:             c.ID,
		Front:          c.Front,
		Back:           c.Back,
		Box:            c.Box,
		NextReviewDate: toMillis(c.NextReviewDate),
		Interval:       c.Interval,
		EaseFactor:     c.EaseFactor,
		History:        history,
	})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Card{
		ID:             raw.ID,
		Front:          raw.Front,
		Back:           raw.Back,
		Box:            raw.Box,
		NextReviewDate: fromMillis(raw.NextReviewDate),
		Interval:       raw.Interval,
		EaseFactor:     raw.EaseFactor,
		History:        raw.History,
	}
	if c.History == nil {
		c.History = []Grade{}
	}
	return nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
