package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	m := UserMessage("notes", notesPhoto, notesPDF)
	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, "notes", m.Content)
	assert.Equal(t, []Attachment{notesPhoto, notesPDF}, m.Attachments)
}

func TestAttachment_Kind(t *testing.T) {
	tests := []struct {
		mime  string
		image bool
		pdf   bool
	}{
		{"image/png", true, false},
		{"image/jpeg", true, false},
		{"application/pdf", false, true},
		{"text/plain", false, false},
	}
	for _, tt := range tests {
		a := Attachment{MIMEType: tt.mime}
		if a.IsImage() != tt.image || a.IsPDF() != tt.pdf {
			t.Errorf("%s: IsImage=%v IsPDF=%v, want %v %v", tt.mime, a.IsImage(), a.IsPDF(), tt.image, tt.pdf)
		}
	}
}

func TestMock_ReplaysScriptAndRecordsRequests(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: photosynthesisDeck, Usage: Usage{InputTokens: 900, OutputTokens: 120}},
	)
	req := cardGenRequest(notesPhoto)

	resp, err := m.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, string(photosynthesisDeck), string(resp.Content))
	assert.Equal(t, 1020, resp.Usage.Total())
	assert.Equal(t, "mock", resp.Model)
	assert.Equal(t, StopEnd, resp.StopReason)

	require.Len(t, m.Requests(), 1)
	assert.Equal(t, "flashcard-deck", m.Requests()[0].Schema.Name)
	assert.Equal(t, []Attachment{notesPhoto}, m.Requests()[0].Messages[0].Attachments)

	_, err = m.Generate(context.Background(), req)
	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable, "script exhausted")
	assert.Equal(t, 2, m.CallCount())
}

func TestMock_StrictChecksDeck(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: deckMissingBack}).Strict()
	_, err := m.Generate(context.Background(), cardGenRequest())

	var invalid *InvalidResponseError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, err.Error(), "/cards/1")

	lenient := NewMockProvider(MockResponse{Content: deckMissingBack})
	_, err = lenient.Generate(context.Background(), cardGenRequest())
	assert.NoError(t, err)
}

func TestMock_CancelledContext(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: photosynthesisDeck})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Generate(ctx, cardGenRequest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, m.CallCount())
}

func TestFinish(t *testing.T) {
	req := cardGenRequest()

	resp, err := finish(req, photosynthesisDeck, StopEnd, Usage{InputTokens: 1}, "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)

	_, err = finish(req, deckCutOff, StopMaxTokens, Usage{}, "gemini-2.5-flash")
	var cut *TruncatedError
	require.ErrorAs(t, err, &cut, "the token limit wins over the parse error")
	assert.Equal(t, 2048, cut.MaxTokens)
	assert.Equal(t, string(deckCutOff), string(cut.Content))

	_, err = finish(req, deckMissingBack, StopEnd, Usage{}, "gemini-2.5-flash")
	var invalid *InvalidResponseError
	assert.ErrorAs(t, err, &invalid)
}

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("upstream said no")
	tests := []struct {
		status int
		want   any
	}{
		{0, &UnavailableError{}},
		{http.StatusTooManyRequests, &RateLimitError{}},
		{http.StatusUnauthorized, &RejectedError{}},
		{http.StatusNotFound, &RejectedError{}},
		{http.StatusBadRequest, &RejectedError{}},
		{http.StatusInternalServerError, &UnavailableError{}},
		{529, &UnavailableError{}},
	}
	for _, tt := range tests {
		err := classifyStatus("gemini", tt.status, 0, cause)
		assert.IsType(t, tt.want, err, "status %d", tt.status)
		assert.ErrorIs(t, err, cause, "status %d", tt.status)
	}

	var rl *RateLimitError
	require.ErrorAs(t, classifyStatus("anthropic", 429, 7*time.Second, cause), &rl)
	assert.Equal(t, 7*time.Second, rl.RetryAfter)
	assert.Contains(t, rl.Error(), "retry after 7s")
}
