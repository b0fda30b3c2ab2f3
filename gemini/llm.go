// Package gemini provides rageval adapters backed by Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/rageval"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure LLM implements both completion contracts at compile time.
var (
	_ rageval.LLM       = (*LLM)(nil)
	_ rageval.Generator = (*LLM)(nil)
)

// LLM implements rageval.LLM using Google Gemini.
type LLM struct {
	client *genai.Client
	model  string
}

// NewLLM creates a new LLM. An empty model selects DefaultModel.
func NewLLM(client *genai.Client, model string) *LLM {
	if model == "" {
		model = DefaultModel
	}
	return &LLM{client: client, model: model}
}

// Call sends the prompt as a single user turn.
func (l *LLM) Call(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", rageval.Errorf(rageval.EINVALID, "prompt required")
	}

	result, err := l.client.Models.GenerateContent(ctx, l.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", rageval.Errorf(rageval.EUNAVAILABLE, "gemini request failed: %v", err)
	}
	if result == nil {
		return "", rageval.Errorf(rageval.EINTERNAL, "gemini returned nil result")
	}

	return rageval.StripJSONFence(result.Text()), nil
}

// Generate completes each prompt with one request per prompt.
func (l *LLM) Generate(ctx context.Context, prompts []string) (*rageval.LLMResult, error) {
	return rageval.Generate(ctx, l, prompts)
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		Temperature: &temp,
	}
}
