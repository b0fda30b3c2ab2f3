package mock

import (
	"context"

	"github.com/fwojciec/rageval"
)

var _ rageval.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock rageval.DocumentWriter. When CreateDocumentFn is
// nil every document is accepted and kept in Written.
type DocumentWriter struct {
	CreateDocumentFn func(ctx context.Context, doc *rageval.StoredDocument) error

	Written []*rageval.StoredDocument
}

func (w *DocumentWriter) CreateDocument(ctx context.Context, doc *rageval.StoredDocument) error {
	if w.CreateDocumentFn != nil {
		return w.CreateDocumentFn(ctx, doc)
	}
	w.Written = append(w.Written, doc)
	return nil
}
