package mock

import (
	"context"
	"strings"

	"github.com/fwojciec/rageval"
)

var _ rageval.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock rageval.TokenCounter. When CountTokensFn is nil
// every whitespace-separated word counts as one token.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if tc.CountTokensFn == nil {
		return len(strings.Fields(text)), nil
	}
	return tc.CountTokensFn(ctx, text)
}
