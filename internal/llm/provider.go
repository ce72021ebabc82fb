// Package llm talks to the hosted models that turn study material into
// flashcards. Every backend answers the same single-turn Request and
// returns JSON checked against the request's schema.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates one structured reply per call.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model requests are sent to, after alias resolution.
	ModelID() string
}

// Request is a single prompt. Card generation sends one user message with
// the notes inlined and uploaded images or PDFs attached.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks the backend for native JSON output and is used
	// to validate the reply before it is returned.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role        Role
	Content     string
	Attachments []Attachment
}

// UserMessage builds a user turn carrying text and optional attachments.
func UserMessage(text string, attachments ...Attachment) Message {
	return Message{Role: RoleUser, Content: text, Attachments: attachments}
}

// Role is the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Attachment is an inline binary part such as a photographed page or a PDF.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// IsImage reports whether the attachment is an image.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.MIMEType, "image/")
}

// IsPDF reports whether the attachment is a PDF document.
func (a Attachment) IsPDF() bool {
	return a.MIMEType == "application/pdf"
}

// Response is a validated reply.
type Response struct {
	// Content is the JSON document. Without a schema it is the raw text.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// StopReason is why the model stopped, normalized across backends.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// finish applies the checks every backend shares: a reply cut off by the
// token limit is reported as such, then the JSON is validated.
func finish(req Request, content json.RawMessage, stop StopReason, usage Usage, model string) (*Response, error) {
	if err := truncated(stop, req.MaxTokens, content); err != nil {
		return nil, err
	}
	if err := req.Schema.Validate(content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}
