package langchaingo

import (
	"context"

	"github.com/fwojciec/rageval"
	"github.com/tmc/langchaingo/llms"
)

// DefaultTokenizerModel selects the cl100k_base encoding.
const DefaultTokenizerModel = "gpt-4o"

var _ rageval.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens with langchaingo's tiktoken encodings, the
// vocabulary model-garden chat models use. Unknown models fall back to an
// approximate count.
type TokenCounter struct {
	Model string
}

// NewTokenCounter returns a tiktoken counter for model.
func NewTokenCounter(model string) *TokenCounter {
	if model == "" {
		model = DefaultTokenizerModel
	}
	return &TokenCounter{Model: model}
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return llms.CountTokens(tc.Model, text), nil
}
