package spacedrep

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/flashai/internal/deck"
)

// ErrContractViolation marks scheduler input that well-formed callers never
// produce: negative intervals, a broken ease factor or an unknown grade.
var ErrContractViolation = errors.New("scheduler contract violation")

// ContractError describes which card and rule the input violated.
type ContractError struct {
	CardID string
	Reason string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%v: card %q: %s", ErrContractViolation, e.CardID, e.Reason)
}

func (e *ContractError) Unwrap() error { return ErrContractViolation }

// Scheduler computes a card's next review state from a grade.
type Scheduler struct {
	now func() time.Time
}

// NewScheduler creates a scheduler that reads the wall clock.
func NewScheduler() *Scheduler {
	return &Scheduler{now: time.Now}
}

// WithClock returns a scheduler that reads time from now instead of the wall clock.
func WithClock(now func() time.Time) *Scheduler {
	return &Scheduler{now: now}
}

// Next returns the state of card after it has been graded. The clock is
// read once. The input card is not modified; front, back and ID pass through.
func (s *Scheduler) Next(card deck.Card, grade deck.Grade) (deck.Card, error) {
	if err := checkInput(card, grade); err != nil {
		return deck.Card{}, err
	}

	now := s.now()
	isNew := card.IsNew()

	next := card.Clone()

	switch grade {
	case deck.Again:
		next.Interval = 0
		next.Box = 0
		next.EaseFactor = adjustEase(card.EaseFactor, -AgainEasePenalty)

	case deck.Hard:
		next.Interval = grow(card.Interval, isNew, NewHardInterval, HardMultiplier)
		next.EaseFactor = adjustEase(card.EaseFactor, -HardEasePenalty)

	case deck.Good:
		next.Interval = grow(card.Interval, isNew, NewGoodInterval, GoodMultiplier)
		next.Box = card.Box + 1

	case deck.Easy:
		next.Interval = grow(card.Interval, isNew, NewEasyInterval, EasyMultiplier)
		next.Box = card.Box + 1
		next.EaseFactor = adjustEase(card.EaseFactor, EasyEaseBonus)
	}

	if next.Interval == 0 {
		next.NextReviewDate = now.Add(RelearnDelay)
	} else {
		next.NextReviewDate = addDays(now, next.Interval)
	}

	next.History = append(next.History, grade)
	return next, nil
}

func checkInput(card deck.Card, grade deck.Grade) error {
	switch {
	case !grade.IsValid():
		return &ContractError{CardID: card.ID, Reason: fmt.Sprintf("unknown grade %d", int(grade))}
	case card.Interval < 0:
		return &ContractError{CardID: card.ID, Reason: fmt.Sprintf("negative interval %d", card.Interval)}
	case math.IsNaN(card.EaseFactor) || math.IsInf(card.EaseFactor, 0):
		return &ContractError{CardID: card.ID, Reason: "ease factor is not finite"}
	case card.EaseFactor < deck.MinEaseFactor:
		return &ContractError{CardID: card.ID, Reason: fmt.Sprintf("ease factor %.2f below %.2f", card.EaseFactor, deck.MinEaseFactor)}
	}
	return nil
}

// grow returns first for a new card, otherwise max(1, floor(interval*mult))
// saturated at MaxIntervalDays.
func grow(interval int, isNew bool, first int, mult float64) int {
	if isNew {
		return first
	}
	days := math.Floor(float64(interval) * mult)
	if days > MaxIntervalDays {
		return MaxIntervalDays
	}
	if days < 1 {
		return 1
	}
	return int(days)
}

// adjustEase applies delta, rounds to hundredths and re-clamps at the floor.
func adjustEase(ease, delta float64) float64 {
	adjusted := math.Round((ease+delta)*100) / 100
	return math.Max(deck.MinEaseFactor, adjusted)
}

// addDays adds whole days of fixed 24h length. UTC has no DST, so AddDate
// there is exact and avoids time.Duration overflow for long intervals.
func addDays(t time.Time, days int) time.Time {
	return t.UTC().AddDate(0, 0, days)
}
