package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNoContent is returned when a backend answers without a text part.
var ErrNoContent = errors.New("llm: response has no content")

// RateLimitError is returned for HTTP 429 answers. RetryAfter is zero when
// the backend did not say how long to wait.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited, retry after %s: %v", e.Provider, e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%s: rate limited: %v", e.Provider, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// UnavailableError covers transport failures and 5xx answers.
type UnavailableError struct {
	Provider string
	Status   int
	Err      error
}

func (e *UnavailableError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: unavailable (HTTP %d): %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// RejectedError is a 4xx answer other than 429: a bad key, an unknown model
// or a request the backend refuses. Retrying does not help.
type RejectedError struct {
	Provider string
	Status   int
	Err      error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: request rejected (HTTP %d): %v", e.Provider, e.Status, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

// InvalidResponseError carries a reply that is not JSON or does not match
// the requested schema.
type InvalidResponseError struct {
	Schema  string
	Content json.RawMessage
	Err     error
}

func (e *InvalidResponseError) Error() string {
	if e.Schema == "" {
		return fmt.Sprintf("invalid response: %v", e.Err)
	}
	return fmt.Sprintf("invalid %s response: %v", e.Schema, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// TruncatedError means the reply hit MaxTokens before the JSON was closed.
type TruncatedError struct {
	MaxTokens int
	Content   json.RawMessage
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("response truncated at %d tokens", e.MaxTokens)
}

// classifyStatus maps an SDK error with an HTTP status onto the error types
// above. A zero status means the request never got an answer.
func classifyStatus(provider string, status int, retryAfter time.Duration, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &RateLimitError{Provider: provider, RetryAfter: retryAfter, Err: err}
	case status >= 400 && status < 500:
		return &RejectedError{Provider: provider, Status: status, Err: err}
	default:
		return &UnavailableError{Provider: provider, Status: status, Err: err}
	}
}

// truncated returns a TruncatedError when the backend stopped on the token
// limit, since a cut-off deck never parses.
func truncated(stop StopReason, maxTokens int, content json.RawMessage) error {
	if stop != StopMaxTokens {
		return nil
	}
	return &TruncatedError{MaxTokens: maxTokens, Content: content}
}
