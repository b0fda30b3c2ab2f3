package mock

import (
	"context"

	"github.com/fwojciec/rageval"
)

var _ rageval.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of rageval.DocumentService.
type DocumentService struct {
	CreateDocumentFn          func(ctx context.Context, doc *rageval.StoredDocument) error
	FindDocumentByIDFn        func(ctx context.Context, id string) (*rageval.StoredDocument, error)
	FindDocumentsFn           func(ctx context.Context, filter rageval.DocumentFilter) ([]*rageval.StoredDocument, error)
	DeleteDocumentsBySourceFn func(ctx context.Context, sourceID string) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *rageval.StoredDocument) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*rageval.StoredDocument, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter rageval.DocumentFilter) ([]*rageval.StoredDocument, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) DeleteDocumentsBySource(ctx context.Context, sourceID string) error {
	return s.DeleteDocumentsBySourceFn(ctx, sourceID)
}
