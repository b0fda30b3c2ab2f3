package gemini

import (
	"context"

	"github.com/fwojciec/rageval"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// TokenizerModel is the model whose vocabulary the local tokenizer loads.
const TokenizerModel = "gemini-2.5-flash"

var _ rageval.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens offline with the Gemini SentencePiece vocabulary.
// Document content is counted as a single user turn.
type TokenCounter struct {
	model string
	tok   *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the local tokenizer for model. The vocabulary is
// fetched once and cached by the genai tokenizer package.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = TokenizerModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, rageval.Errorf(rageval.EINVALID, "gemini tokenizer for %q: %v", model, err)
	}
	return &TokenCounter{model: model, tok: tok}, nil
}

// Model returns the model whose vocabulary is used.
func (tc *TokenCounter) Model() string { return tc.model }

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, rageval.Errorf(rageval.EINTERNAL, "gemini tokenizer: %v", err)
	}
	return int(result.TotalTokens), nil
}
