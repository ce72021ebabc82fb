package session

import (
	"github.com/samber/lo"

	"github.com/abhisek/flashai/internal/deck"
)

// Session runs batched study over a working copy of a deck's cards.
// It is single-threaded: every call runs to completion.
type Session struct {
	opts     Options
	reporter Reporter

	workingDeck []deck.Card
	batchQueue  []deck.Card // cards as they were when the batch started
	index       int
	revealed    bool
	phase       Phase

	sessionGrades map[string]deck.Grade
	batchNumber   int
	retrying      bool
	exhausted     bool

	// dirty is set when grades reached workingDeck after the last successful report.
	dirty bool
}

// Start copies cards into a new session and begins the first batch. The
// caller decides card order. A nil reporter discards progress.
func Start(cards []deck.Card, opts Options, reporter Reporter) *Session {
	if reporter == nil {
		reporter = nopReporter{}
	}
	s := &Session{
		opts:          opts.withDefaults(),
		reporter:      reporter,
		workingDeck:   cloneCards(cards),
		sessionGrades: make(map[string]deck.Grade),
		phase:         PhaseLoading,
	}
	s.startBatch(s.workingDeck)
	return s
}

func (s *Session) startBatch(pool []deck.Card) {
	if len(pool) == 0 {
		s.phase = PhaseExited
		s.exhausted = true
		return
	}
	n := min(s.opts.BatchSize, len(pool))
	s.batchQueue = cloneCards(pool[:n])
	s.index = 0
	s.revealed = false
	s.retrying = false
	clear(s.sessionGrades)
	s.batchNumber++
	s.phase = PhaseStudying
}

// Flip toggles whether the answer is shown.
func (s *Session) Flip() {
	if s.phase != PhaseStudying {
		return
	}
	s.revealed = !s.revealed
}

// Grade applies g to the current card. It does nothing unless a card is
// showing its answer. A scheduler contract error leaves the session
// unchanged. A reporter error at the end of a batch is returned after the
// session has moved to the summary; Exit retries the report.
func (s *Session) Grade(g deck.Grade) error {
	if s.phase != PhaseStudying || !s.revealed {
		return nil
	}

	current := s.batchQueue[s.index]

	if s.retrying && s.opts.Retry == RetryPractice {
		if !g.IsValid() {
			return deck.ErrInvalidGrade
		}
	} else {
		base := current
		if s.opts.Retry == RetryCompound {
			if wc, ok := s.findWorking(current.ID); ok {
				base = wc
			}
		}
		updated, err := s.opts.Scheduler.Next(base, g)
		if err != nil {
			return err
		}
		s.replaceWorking(updated)
		s.dirty = true
	}

	s.sessionGrades[current.ID] = g

	if s.index < len(s.batchQueue)-1 {
		s.index++
		s.revealed = false
		return nil
	}

	s.phase = PhaseBatchSummary
	s.revealed = false
	return s.flush()
}

// NextBatch starts a batch from the cards not in the current one, or exits
// when none remain.
func (s *Session) NextBatch() {
	if s.phase != PhaseBatchSummary {
		return
	}
	s.startBatch(s.remaining())
}

// RetryBatch studies the same cards again in the same order.
func (s *Session) RetryBatch() {
	if s.phase != PhaseBatchSummary {
		return
	}
	s.index = 0
	s.revealed = false
	clear(s.sessionGrades)
	s.retrying = true
	s.phase = PhaseStudying
}

// Exit ends the session, reporting progress not yet reported. Calling it
// again only retries a report that failed.
func (s *Session) Exit() error {
	if s.phase == PhaseExited && !s.dirty {
		return nil
	}
	s.phase = PhaseExited
	return s.flush()
}

func (s *Session) flush() error {
	if !s.dirty {
		return nil
	}
	if err := s.reporter.ReportProgress(cloneCards(s.workingDeck)); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

func (s *Session) remaining() []deck.Card {
	inBatch := lo.SliceToMap(s.batchQueue, func(c deck.Card) (string, struct{}) {
		return c.ID, struct{}{}
	})
	return lo.Filter(s.workingDeck, func(c deck.Card, _ int) bool {
		_, ok := inBatch[c.ID]
		return !ok
	})
}

func (s *Session) findWorking(id string) (deck.Card, bool) {
	return lo.Find(s.workingDeck, func(c deck.Card) bool { return c.ID == id })
}

func (s *Session) replaceWorking(updated deck.Card) {
	for i := range s.workingDeck {
		if s.workingDeck[i].ID == updated.ID {
			s.workingDeck[i] = updated
			return
		}
	}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Revealed reports whether the current card's answer is shown.
func (s *Session) Revealed() bool { return s.revealed }

// CurrentCard returns the card being studied, as it is in the working deck.
func (s *Session) CurrentCard() (deck.Card, bool) {
	if s.phase != PhaseStudying {
		return deck.Card{}, false
	}
	id := s.batchQueue[s.index].ID
	if c, ok := s.findWorking(id); ok {
		return c.Clone(), true
	}
	return s.batchQueue[s.index].Clone(), true
}

// Progress returns the 1-based position in the batch and the batch size.
func (s *Session) Progress() (pos, total int) {
	if len(s.batchQueue) == 0 {
		return 0, 0
	}
	return s.index + 1, len(s.batchQueue)
}

// BatchNumber returns the 1-based number of the current batch.
func (s *Session) BatchNumber() int { return s.batchNumber }

// Retrying reports whether the current batch is a retry pass.
func (s *Session) Retrying() bool { return s.retrying }

// Exhausted reports whether the session ended because no cards remained.
func (s *Session) Exhausted() bool { return s.exhausted }

// Dirty reports whether graded progress has not been reported yet.
func (s *Session) Dirty() bool { return s.dirty }

// WorkingDeck returns a copy of the session's cards with all grades applied.
func (s *Session) WorkingDeck() []deck.Card { return cloneCards(s.workingDeck) }

// Batch returns a copy of the current batch's cards as they were when it started.
func (s *Session) Batch() []deck.Card { return cloneCards(s.batchQueue) }

func cloneCards(cards []deck.Card) []deck.Card {
	return lo.Map(cards, func(c deck.Card, _ int) deck.Card { return c.Clone() })
}
