package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIProvider talks to the chat completions API of OpenAI and of
// compatible services such as OpenRouter. Chat completions accept images
// but not PDFs, so PDF attachments are skipped with a warning.
type OpenAIProvider struct {
	name   string
	client *openai.Client
	model  string
	log    *zap.Logger
}

// NewOpenAIProvider creates a client for the OpenAI API.
func NewOpenAIProvider(cfg OpenAIConfig, log *zap.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return newChatProvider(ProviderOpenAI, clientCfg, resolveModel(ProviderOpenAI, cfg.Model), log), nil
}

func newChatProvider(name string, cfg openai.ClientConfig, model string, log *zap.Logger) *OpenAIProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenAIProvider{
		name:   name,
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    log.With(zap.String("provider", name)),
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            p.chatMessages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("encode schema %s: %w", req.Schema.Name, err)
		}
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, p.classify(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrNoContent
	}

	choice := resp.Choices[0]
	stop := StopEnd
	if choice.FinishReason == openai.FinishReasonLength {
		stop = StopMaxTokens
	}
	usage := Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	return finish(req, json.RawMessage(choice.Message.Content), stop, usage, resp.Model)
}

func (p *OpenAIProvider) ModelID() string { return p.model }

// chatMessages puts the system prompt first and turns image attachments
// into data-URI parts.
func (p *OpenAIProvider) chatMessages(req Request) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}

	for _, m := range req.Messages {
		msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
		if m.Role == RoleAssistant {
			msg.Role = openai.ChatMessageRoleAssistant
		}

		var images []openai.ChatMessagePart
		for _, a := range m.Attachments {
			if !a.IsImage() {
				p.log.Warn("attachment not supported by chat completions, skipping",
					zap.String("mime_type", a.MIMEType),
					zap.Int("bytes", len(a.Data)),
				)
				continue
			}
			images = append(images, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    "data:" + a.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(a.Data),
					Detail: openai.ImageURLDetailAuto,
				},
			})
		}

		if len(images) == 0 {
			msg.Content = m.Content
		} else {
			text := openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: m.Content}
			msg.MultiContent = append([]openai.ChatMessagePart{text}, images...)
		}
		out = append(out, msg)
	}
	return out
}

func (p *OpenAIProvider) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(p.name, apiErr.HTTPStatusCode, 0, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(p.name, reqErr.HTTPStatusCode, 0, err)
	}
	return classifyStatus(p.name, 0, 0, err)
}

// headerTransport sets fixed headers on every request.
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	for k, v := range t.headers {
		r.Header[k] = v
	}
	return t.base.RoundTrip(r)
}
