package mock

import (
	"context"

	"github.com/fwojciec/rageval"
)

var _ rageval.SourceService = (*SourceService)(nil)

// SourceService is a mock implementation of rageval.SourceService.
type SourceService struct {
	CreateSourceFn   func(ctx context.Context, source *rageval.Source) error
	FindSourceByIDFn func(ctx context.Context, id string) (*rageval.Source, error)
	FindSourcesFn    func(ctx context.Context, filter rageval.SourceFilter) ([]*rageval.Source, error)
	DeleteSourceFn   func(ctx context.Context, id string) error
}

func (s *SourceService) CreateSource(ctx context.Context, source *rageval.Source) error {
	return s.CreateSourceFn(ctx, source)
}

func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*rageval.Source, error) {
	return s.FindSourceByIDFn(ctx, id)
}

func (s *SourceService) FindSources(ctx context.Context, filter rageval.SourceFilter) ([]*rageval.Source, error) {
	return s.FindSourcesFn(ctx, filter)
}

func (s *SourceService) DeleteSource(ctx context.Context, id string) error {
	return s.DeleteSourceFn(ctx, id)
}
