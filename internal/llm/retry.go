package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider retries transient failures with exponential backoff. A
// reply that fails schema validation is retried once, since models often
// fix a malformed deck on a second try.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
	log   *zap.Logger

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() float64 // in [-1, 1)
}

// WithRetry wraps p. Each attempt's context carries its attempt number so
// the logging decorator can record it.
func WithRetry(p Provider, cfg RetryConfig, log *zap.Logger) *RetryProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &RetryProvider{
		inner:  p,
		cfg:    cfg,
		log:    log,
		sleep:  sleepCtx,
		jitter: func() float64 { return 2*rand.Float64() - 1 },
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.cfg.MaxAttempts, 1)
	retriedInvalid := false

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(withAttempt(ctx, attempt), req)
		if err == nil {
			return resp, nil
		}
		if attempt == attempts || !retryable(err, &retriedInvalid) {
			return nil, err
		}

		wait := r.delay(attempt, err)
		r.log.Info("retrying llm request",
			zap.String("purpose", string(PurposeFrom(ctx))),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func retryable(err error, retriedInvalid *bool) bool {
	var (
		rejected  *RejectedError
		truncated *TruncatedError
		invalid   *InvalidResponseError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &rejected), errors.As(err, &truncated):
		return false
	case errors.As(err, &invalid), errors.Is(err, ErrNoContent):
		if *retriedInvalid {
			return false
		}
		*retriedInvalid = true
		return true
	default:
		// Rate limits, outages and network errors.
		return true
	}
}

// delay is the wait after the given 1-based attempt. A rate limit's
// RetryAfter wins over the computed backoff.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt-1))
	wait = math.Min(wait, float64(r.cfg.MaxWait))
	wait += wait * 0.2 * r.jitter()
	return time.Duration(math.Max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
