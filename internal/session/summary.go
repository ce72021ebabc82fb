package session

import "github.com/abhisek/flashai/internal/deck"

// BatchSummary holds the data displayed after a batch.
type BatchSummary struct {
	BatchNumber int
	Total       int
	Correct     int
	ToReview    int
	Accuracy    float64 // 0.0-1.0
	Gaps        []deck.Card
	HasMore     bool
	Retry       bool
}

// MaxGapsShown is how many knowledge gaps the summary lists before "+N more".
const MaxGapsShown = 3

// VisibleGaps returns up to MaxGapsShown gaps and how many were left out.
func (s BatchSummary) VisibleGaps() ([]deck.Card, int) {
	if len(s.Gaps) <= MaxGapsShown {
		return s.Gaps, 0
	}
	return s.Gaps[:MaxGapsShown], len(s.Gaps) - MaxGapsShown
}

// Summary computes the summary of the current batch from the grades given
// in it. Cards not yet graded count against accuracy.
func (s *Session) Summary() BatchSummary {
	sum := BatchSummary{
		BatchNumber: s.batchNumber,
		Total:       len(s.batchQueue),
		HasMore:     len(s.remaining()) > 0,
		Retry:       s.retrying,
	}
	for _, c := range s.batchQueue {
		g, ok := s.sessionGrades[c.ID]
		if !ok {
			continue
		}
		if g.IsSuccess() {
			sum.Correct++
			continue
		}
		sum.ToReview++
		sum.Gaps = append(sum.Gaps, c.Clone())
	}
	if sum.Total > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Total)
	}
	return sum
}
