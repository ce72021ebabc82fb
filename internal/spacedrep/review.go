package spacedrep

import (
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/flashai/internal/deck"
)

// IsDue returns true if the card is due (at or past its review date).
func IsDue(c deck.Card, now time.Time) bool {
	return !now.Before(c.NextReviewDate)
}

// OverdueDays returns how many days past due the card is. Returns 0 if not yet due.
func OverdueDays(c deck.Card, now time.Time) float64 {
	if now.Before(c.NextReviewDate) {
		return 0
	}
	return now.Sub(c.NextReviewDate).Hours() / 24.0
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func DaysUntilReview(c deck.Card, now time.Time) int {
	if IsDue(c, now) {
		return 0
	}
	return int(c.NextReviewDate.Sub(now).Hours()/24.0) + 1
}

// ReviewStatus describes a card's review status for display.
type ReviewStatus string

const (
	StatusNew       ReviewStatus = "new"
	StatusLearning  ReviewStatus = "learning"
	StatusDue       ReviewStatus = "due"
	StatusScheduled ReviewStatus = "scheduled"
)

// Status returns the review status for UI display.
func Status(c deck.Card, now time.Time) ReviewStatus {
	switch {
	case len(c.History) == 0:
		return StatusNew
	case IsDue(c, now):
		return StatusDue
	case c.IsNew():
		// Graded Again, waiting out the relearn delay.
		return StatusLearning
	default:
		return StatusScheduled
	}
}

// DueCards returns the cards that are due at now, most overdue first.
// Cards equally overdue keep their deck order.
func DueCards(cards []deck.Card, now time.Time) []deck.Card {
	var due []deck.Card
	for _, c := range cards {
		if IsDue(c, now) {
			due = append(due, c)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReviewDate.Before(due[j].NextReviewDate)
	})
	return due
}

// CountDue returns how many cards are due at now.
func CountDue(cards []deck.Card, now time.Time) int {
	n := 0
	for _, c := range cards {
		if IsDue(c, now) {
			n++
		}
	}
	return n
}

// SortForStudy returns all cards ordered for a full-deck session: due cards
// most overdue first, then the rest by next review date.
func SortForStudy(cards []deck.Card, now time.Time) []deck.Card {
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := IsDue(out[i], now), IsDue(out[j], now)
		if di != dj {
			return di
		}
		return out[i].NextReviewDate.Before(out[j].NextReviewDate)
	})
	return out
}

// NextDue returns the earliest review date among cards, or false if cards is empty.
func NextDue(cards []deck.Card) (time.Time, bool) {
	if len(cards) == 0 {
		return time.Time{}, false
	}
	earliest := cards[0].NextReviewDate
	for _, c := range cards[1:] {
		if c.NextReviewDate.Before(earliest) {
			earliest = c.NextReviewDate
		}
	}
	return earliest, true
}

// FormatInterval renders an interval for grade buttons: "< 1m" for a reset
// card, otherwise days, months or years.
func FormatInterval(days int) string {
	switch {
	case days <= 0:
		return "< 1m"
	case days < 30:
		return fmt.Sprintf("%dd", days)
	case days < 365:
		return fmt.Sprintf("%.1fmo", float64(days)/30.0)
	default:
		return fmt.Sprintf("%.1fy", float64(days)/365.0)
	}
}

// Preview returns the interval each grade would produce for card, in grade order.
// Cards that violate the scheduler contract produce no preview.
func (s *Scheduler) Preview(card deck.Card) map[deck.Grade]int {
	out := make(map[deck.Grade]int, len(deck.Grades))
	for _, g := range deck.Grades {
		next, err := s.Next(card, g)
		if err != nil {
			return nil
		}
		out[g] = next.Interval
	}
	return out
}
