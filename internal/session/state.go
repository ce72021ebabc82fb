package session

import (
	"fmt"
	"strings"

	"github.com/abhisek/flashai/internal/deck"
	"github.com/abhisek/flashai/internal/spacedrep"
)

// DefaultBatchSize is the number of cards studied before a summary.
const DefaultBatchSize = 10

// Phase represents the current phase of the session.
type Phase int

const (
	PhaseLoading      Phase = iota // Waiting for cards
	PhaseStudying                  // Showing cards one at a time
	PhaseBatchSummary              // Batch finished, showing results
	PhaseExited                    // Terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseStudying:
		return "studying"
	case PhaseBatchSummary:
		return "batch-summary"
	case PhaseExited:
		return "exited"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// RetryPolicy controls what a retried batch does to the cards it re-grades.
type RetryPolicy int

const (
	// RetryRestore computes every grade from the card as it was when the
	// batch started. A retry pass replaces the first pass.
	RetryRestore RetryPolicy = iota

	// RetryCompound computes from the current working card, so a retry
	// pass is applied on top of the first.
	RetryCompound

	// RetryPractice records retry grades for the summary only.
	RetryPractice
)

var retryPolicyNames = map[RetryPolicy]string{
	RetryRestore:  "restore",
	RetryCompound: "compound",
	RetryPractice: "practice",
}

func (r RetryPolicy) String() string {
	if s, ok := retryPolicyNames[r]; ok {
		return s
	}
	return fmt.Sprintf("RetryPolicy(%d)", int(r))
}

// ParseRetryPolicy parses "restore", "compound" or "practice".
func ParseRetryPolicy(s string) (RetryPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range retryPolicyNames {
		if name == s {
			return p, nil
		}
	}
	return RetryRestore, fmt.Errorf("unknown retry policy %q", s)
}

// Options configures a session.
type Options struct {
	// BatchSize is the maximum number of cards per batch. Zero means DefaultBatchSize.
	BatchSize int

	// Retry decides how retried batches affect scheduling.
	Retry RetryPolicy

	// Scheduler computes next review state. Nil means spacedrep.NewScheduler().
	Scheduler *spacedrep.Scheduler
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Scheduler == nil {
		o.Scheduler = spacedrep.NewScheduler()
	}
	return o
}

// Reporter receives the full working deck when a batch completes and on exit.
type Reporter interface {
	ReportProgress(cards []deck.Card) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(cards []deck.Card) error

func (f ReporterFunc) ReportProgress(cards []deck.Card) error { return f(cards) }

type nopReporter struct{}

func (nopReporter) ReportProgress([]deck.Card) error { return nil }
