// Package langchaingo adapts rageval services to the langchaingo
// interfaces, so chains, agents and evaluators built on langchaingo can
// drive a rageval backend or consume a rageval loader.
package langchaingo

import (
	"context"
	"strings"

	"github.com/fwojciec/rageval"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
)

var (
	_ llms.Model = (*Model)(nil)

	// rageval.Embedder has the same method set as embeddings.Embedder,
	// so every embedding backend plugs in without a wrapper.
	_ embeddings.Embedder = rageval.Embedder(nil)
)

// Model implements llms.Model on top of a rageval.LLM.
type Model struct {
	llm rageval.LLM
}

// NewModel creates a new Model.
func NewModel(llm rageval.LLM) *Model {
	return &Model{llm: llm}
}

// Call completes a single prompt.
func (m *Model) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// GenerateContent renders messages into one prompt and returns a single
// choice. Sampling options are not forwarded; the backend owns them.
// A streaming func receives the whole completion as one chunk.
func (m *Model) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}

	prompt, err := RenderMessages(messages)
	if err != nil {
		return nil, err
	}

	text, err := m.llm.Call(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if opts.StreamingFunc != nil {
		if err := opts.StreamingFunc(ctx, []byte(text)); err != nil {
			return nil, err
		}
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	}, nil
}

// RenderMessages flattens messages into one prompt. A single message is
// sent as its bare text. A conversation becomes one "Role: text" line per
// message. Only text parts are supported.
func RenderMessages(messages []llms.MessageContent) (string, error) {
	switch len(messages) {
	case 0:
		return "", rageval.Errorf(rageval.EINVALID, "at least one message required")
	case 1:
		return messageText(messages[0])
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		text, err := messageText(msg)
		if err != nil {
			return "", err
		}
		lines = append(lines, rolePrefix(msg.Role)+": "+text)
	}
	return strings.Join(lines, "\n"), nil
}

func messageText(msg llms.MessageContent) (string, error) {
	parts := make([]string, 0, len(msg.Parts))
	for _, part := range msg.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			parts = append(parts, p.Text)
		case *llms.TextContent:
			parts = append(parts, p.Text)
		default:
			return "", rageval.Errorf(rageval.EINVALID, "unsupported message part %T", part)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func rolePrefix(role llms.ChatMessageType) string {
	switch role {
	case llms.ChatMessageTypeSystem:
		return "System"
	case llms.ChatMessageTypeHuman:
		return "Human"
	case llms.ChatMessageTypeAI:
		return "AI"
	case llms.ChatMessageTypeTool:
		return "Tool"
	case llms.ChatMessageTypeFunction:
		return "Function"
	}
	return string(role)
}
