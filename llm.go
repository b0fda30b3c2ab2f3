package rageval

import (
	"context"
	"strings"
)

// LLM completes a single prompt.
// This is the contract orchestration code (chains, agents) builds on.
type LLM interface {
	// Call sends the prompt to the model and returns the completion text.
	Call(ctx context.Context, prompt string) (string, error)
}

// Generator completes a batch of prompts.
// This is the contract evaluation runs use when scoring many samples.
type Generator interface {
	Generate(ctx context.Context, prompts []string) (*LLMResult, error)
}

// Generation is a single completion candidate.
type Generation struct {
	Text string `json:"text"`
}

// LLMResult holds the completions for a batch of prompts.
// Generations[i] belongs to the i-th prompt.
type LLMResult struct {
	Generations [][]Generation `json:"generations"`
}

// Generate completes each prompt with llm, one call per prompt, in order.
// The first failure aborts the batch.
func Generate(ctx context.Context, llm LLM, prompts []string) (*LLMResult, error) {
	result := &LLMResult{Generations: make([][]Generation, 0, len(prompts))}
	for _, prompt := range prompts {
		text, err := llm.Call(ctx, prompt)
		if err != nil {
			return nil, err
		}
		result.Generations = append(result.Generations, []Generation{{Text: text}})
	}
	return result, nil
}

const (
	jsonFenceStart = "```json"
	fenceEnd       = "```"
)

// StripJSONFence unwraps a ```json fenced block from model output.
// Text without the opening marker is returned unchanged.
func StripJSONFence(s string) string {
	_, after, found := strings.Cut(s, jsonFenceStart)
	if !found {
		return s
	}
	body, _, _ := strings.Cut(after, fenceEnd)
	return strings.TrimSpace(body)
}
