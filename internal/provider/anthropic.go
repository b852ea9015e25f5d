// Package provider adapts hosted language models to agent.Provider.
package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/rcliao/twin-memory/internal/agent"
	"github.com/rcliao/twin-memory/internal/model"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5"

// Anthropic talks to the Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic builds a provider. An empty apiKey falls back to the
// ANTHROPIC_API_KEY environment variable; extra request options are passed
// to the SDK client unchanged.
func NewAnthropic(apiKey, modelName string, opts ...option.RequestOption) *Anthropic {
	if apiKey != "" {
		opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  modelName,
	}
}

// Model returns the configured model name.
func (a *Anthropic) Model() string { return a.model }

// Complete sends the request and joins the text blocks of the reply.
func (a *Anthropic) Complete(ctx context.Context, req agent.Request) (string, error) {
	resp, err := a.client.Messages.New(ctx, a.params(req))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("empty response")
	}
	return b.String(), nil
}

// Stream forwards text deltas to emit as they arrive.
func (a *Anthropic) Stream(ctx context.Context, req agent.Request, emit func(string) error) error {
	stream := a.client.Messages.NewStreaming(ctx, a.params(req))
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		switch evt := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := evt.Delta.AsAny().(anthropic.TextDelta); ok {
				if err := emit(delta.Text); err != nil {
					return err
				}
			}
		}
	}
	return stream.Err()
}

func (a *Anthropic) params(req agent.Request) anthropic.MessageNewParams {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = agent.DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(maxTokens),
		Messages:  toMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	return params
}

// toMessages converts chat history. System messages are skipped; they
// belong in the system prompt.
func toMessages(msgs []model.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case model.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case model.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return out
}
