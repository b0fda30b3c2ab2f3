package mock

import (
	"context"

	"github.com/fwojciec/rageval"
)

var _ rageval.LLM = (*LLM)(nil)

// LLM is a mock implementation of rageval.LLM.
type LLM struct {
	CallFn func(ctx context.Context, prompt string) (string, error)
}

func (l *LLM) Call(ctx context.Context, prompt string) (string, error) {
	return l.CallFn(ctx, prompt)
}
