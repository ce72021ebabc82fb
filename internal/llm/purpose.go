package llm

import "context"

// Purpose labels a request in the LLM event log.
type Purpose string

// PurposeCardGen marks requests that generate a deck from study material.
const PurposeCardGen Purpose = "card-gen"

const purposeUnlabeled Purpose = "unlabeled"

type ctxKey int

const (
	purposeKey ctxKey = iota
	attemptKey
)

// WithPurpose labels every request made with ctx.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey, p)
}

// PurposeFrom returns the label set by WithPurpose, or "unlabeled".
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey).(Purpose); ok && p != "" {
		return p
	}
	return purposeUnlabeled
}

func withAttempt(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, attemptKey, n)
}

// attemptFrom returns the 1-based retry attempt, 1 outside a retry loop.
func attemptFrom(ctx context.Context) int {
	if n, ok := ctx.Value(attemptKey).(int); ok {
		return n
	}
	return 1
}
