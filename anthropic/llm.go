// Package anthropic provides a rageval.LLM backed by the Anthropic Messages API.
package anthropic

import (
	"context"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fwojciec/rageval"
)

// Defaults used when Config leaves them unset.
const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 4096
)

// Ensure LLM implements both completion contracts at compile time.
var (
	_ rageval.LLM       = (*LLM)(nil)
	_ rageval.Generator = (*LLM)(nil)
)

// Config configures an LLM.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int64

	// HTTPClient overrides the SDK's default client.
	HTTPClient *http.Client
}

// LLM implements rageval.LLM using anthropic-sdk-go.
type LLM struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewLLM creates a new LLM. The SDK's automatic retries are disabled
// so a failed request surfaces immediately.
func NewLLM(cfg Config) (*LLM, error) {
	if cfg.APIKey == "" {
		return nil, rageval.Errorf(rageval.EINVALID, "anthropic API key required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &LLM{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Call sends the prompt as a single user message and joins the text blocks
// of the reply.
func (l *LLM) Call(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", rageval.Errorf(rageval.EINVALID, "prompt required")
	}

	msg, err := l.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(l.model),
		MaxTokens: l.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", rageval.Errorf(rageval.EUNAVAILABLE, "anthropic request failed: %v", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", rageval.Errorf(rageval.EREMOTE, "anthropic response has no text content")
	}

	return rageval.StripJSONFence(b.String()), nil
}

// Generate completes each prompt with one request per prompt.
func (l *LLM) Generate(ctx context.Context, prompts []string) (*rageval.LLMResult, error) {
	return rageval.Generate(ctx, l, prompts)
}
