package langchaingo

import (
	"context"

	"github.com/fwojciec/rageval"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Loader exposes a rageval.DocumentLoader with the method set of
// langchaingo's documentloaders.Loader.
type Loader struct {
	next rageval.DocumentLoader
}

// NewLoader creates a new Loader.
func NewLoader(next rageval.DocumentLoader) *Loader {
	return &Loader{next: next}
}

// Load drains the wrapped loader. Any failure returns no documents.
func (l *Loader) Load(ctx context.Context) ([]schema.Document, error) {
	docs, err := rageval.CollectDocuments(ctx, l.next)
	if err != nil {
		return nil, err
	}

	out := make([]schema.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, schema.Document{
			PageContent: doc.Content,
			Metadata:    doc.Metadata.Clone(),
		})
	}
	return out, nil
}

// LoadAndSplit loads all documents and splits each with splitter.
// Chunks keep the metadata of the document they came from.
func (l *Loader) LoadAndSplit(ctx context.Context, splitter textsplitter.TextSplitter) ([]schema.Document, error) {
	docs, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return textsplitter.SplitDocuments(splitter, docs)
}
