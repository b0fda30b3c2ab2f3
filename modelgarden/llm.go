package modelgarden

import (
	"context"
	"net/http"

	"github.com/fwojciec/rageval"
)

// DefaultTemperature is the sampling temperature used unless overridden.
const DefaultTemperature = 0.4

// Ensure LLM implements both completion contracts at compile time.
var (
	_ rageval.LLM       = (*LLM)(nil)
	_ rageval.Generator = (*LLM)(nil)
)

// LLM completes prompts through the model-garden chat endpoint.
type LLM struct {
	url         string
	model       string
	temperature float64
	client      *http.Client
}

// NewLLM creates an LLM that posts to the chat endpoint at url.
func NewLLM(url, model string, opts ...Option) *LLM {
	o := newOptions(opts)
	return &LLM{
		url:         url,
		model:       model,
		temperature: o.temperature,
		client:      o.client,
	}
}

// Call sends one chat request and returns the first choice's content
// with any ```json fence removed.
func (l *LLM) Call(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", rageval.Errorf(rageval.EINVALID, "prompt required")
	}

	req := chatRequest{
		Model: l.model,
		Messages: []chatMessage{{
			Role:    "user",
			Content: []contentPart{{Type: "text", Text: prompt}},
		}},
		Temperature: l.temperature,
	}

	var resp chatResponse
	if err := postJSON(ctx, l.client, l.url, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", rageval.Errorf(rageval.EREMOTE, "model garden returned no choices")
	}

	return rageval.StripJSONFence(resp.Choices[0].Message.Content), nil
}

// Generate completes each prompt with one request per prompt.
func (l *LLM) Generate(ctx context.Context, prompts []string) (*rageval.LLMResult, error) {
	return rageval.Generate(ctx, l, prompts)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
