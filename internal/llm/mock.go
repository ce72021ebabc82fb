package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one scripted reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and records every request.
// Once the script runs out each call fails with UnavailableError, which is
// also what the "mock" provider in config does for every call.
type MockProvider struct {
	mu       sync.Mutex
	script   []MockResponse
	requests []Request
	strict   bool
}

// NewMockProvider scripts the given replies.
func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{script: replies}
}

// Strict makes the mock check replies against the request schema the way
// real backends do, so a malformed deck surfaces as InvalidResponseError.
func (m *MockProvider) Strict() *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strict = true
	return m
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.script) == 0 {
		return nil, &UnavailableError{Provider: ProviderMock, Err: errors.New("no scripted reply")}
	}

	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	if m.strict {
		return finish(req, next.Content, StopEnd, next.Usage, m.ModelID())
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      m.ModelID(),
		StopReason: StopEnd,
	}, nil
}

func (m *MockProvider) ModelID() string { return ProviderMock }

// Requests returns the requests received so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

// CallCount returns how many times Generate was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
