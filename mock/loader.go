package mock

import (
	"context"
	"iter"

	"github.com/fwojciec/rageval"
)

var _ rageval.DocumentLoader = (*DocumentLoader)(nil)

// DocumentLoader is a mock implementation of rageval.DocumentLoader.
type DocumentLoader struct {
	LoadFn func(ctx context.Context) iter.Seq2[*rageval.Document, error]
}

func (l *DocumentLoader) Load(ctx context.Context) iter.Seq2[*rageval.Document, error] {
	return l.LoadFn(ctx)
}
