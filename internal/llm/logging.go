package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/flashai/internal/store"
)

// LoggingProvider writes one LLM request event per attempt. A failed event
// write is logged and never fails the request.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	log      *zap.Logger
	now      func() time.Time
}

// WithLogging wraps p. events may be nil, in which case requests only go to log.
func WithLogging(p Provider, providerName string, events store.EventRepo, log *zap.Logger) *LoggingProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{inner: p, provider: providerName, events: events, log: log, now: time.Now}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	started := l.now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     string(PurposeFrom(ctx)),
		LatencyMs:   l.now().Sub(started).Milliseconds(),
		Success:     err == nil,
		RequestBody: describeRequest(req),
	}
	switch {
	case resp != nil:
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	case err != nil:
		ev.ErrorMessage = err.Error()
		ev.ResponseBody = rejectedContent(err)
	}

	fields := []zap.Field{
		zap.String("provider", ev.Provider),
		zap.String("model", ev.Model),
		zap.String("purpose", ev.Purpose),
		zap.Int("attempt", attemptFrom(ctx)),
		zap.Int64("latency_ms", ev.LatencyMs),
		zap.Int("input_tokens", ev.InputTokens),
		zap.Int("output_tokens", ev.OutputTokens),
	}
	if err != nil {
		l.log.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		l.log.Debug("llm request", fields...)
	}

	if l.events != nil {
		// The request context may be cancelled already.
		if werr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); werr != nil {
			l.log.Warn("failed to record LLM request event", zap.Error(werr))
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

// describeRequest renders the prompt for `flashai llm view`. Attachment
// bytes are summarized, never stored.
func describeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n", m.Role, m.Content)
		for _, a := range m.Attachments {
			fmt.Fprintf(&b, "[attachment %s, %d bytes]\n", a.MIMEType, len(a.Data))
		}
		b.WriteString("\n")
	}
	if req.Schema != nil {
		fmt.Fprintf(&b, "[schema %s]\n", req.Schema.Name)
	}
	return b.String()
}

// rejectedContent keeps the reply that failed validation so it can be inspected.
func rejectedContent(err error) string {
	var invalid *InvalidResponseError
	if errors.As(err, &invalid) {
		return string(invalid.Content)
	}
	var cut *TruncatedError
	if errors.As(err, &cut) {
		return string(cut.Content)
	}
	return ""
}
