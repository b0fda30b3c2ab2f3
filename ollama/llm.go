package ollama

import (
	"context"

	"github.com/fwojciec/rageval"
)

var (
	_ rageval.LLM       = (*LLM)(nil)
	_ rageval.Generator = (*LLM)(nil)
)

// LLM completes prompts with Ollama's /api/generate endpoint.
type LLM struct {
	cfg Config
}

// NewLLM creates an LLM. Empty fields fall back to DefaultBaseURL and
// DefaultModel.
func NewLLM(cfg Config) *LLM {
	return &LLM{cfg: cfg.withDefaults(DefaultModel)}
}

// Call sends a non-streaming generate request.
func (l *LLM) Call(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", rageval.Errorf(rageval.EINVALID, "prompt required")
	}

	var resp generateResponse
	req := generateRequest{Model: l.cfg.Model, Prompt: prompt, Stream: false}
	if err := post(ctx, l.cfg, "/api/generate", req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Generate completes each prompt with one request per prompt.
func (l *LLM) Generate(ctx context.Context, prompts []string) (*rageval.LLMResult, error) {
	return rageval.Generate(ctx, l, prompts)
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}
