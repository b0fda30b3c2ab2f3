package rageval

import (
	"context"
	"time"
)

// SourceKind identifies what a source token addresses.
type SourceKind string

// Supported source kinds.
const (
	SourceDoc   SourceKind = "doc"
	SourceWiki  SourceKind = "wiki"
	SourceSpace SourceKind = "space"
)

// ParseSourceKind validates s as a source kind.
func ParseSourceKind(s string) (SourceKind, error) {
	switch k := SourceKind(s); k {
	case SourceDoc, SourceWiki, SourceSpace:
		return k, nil
	}
	return "", Errorf(EINVALID, "unsupported source kind %q (want doc, wiki or space)", s)
}

// Source is a root locator that documents were loaded from.
type Source struct {
	ID        string     `json:"id"`
	Kind      SourceKind `json:"kind"`
	Token     string     `json:"token"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if _, err := ParseSourceKind(string(s.Kind)); err != nil {
		return err
	}
	if s.Token == "" {
		return Errorf(EINVALID, "source token required")
	}
	return nil
}

// SourceService represents a service for managing sources.
type SourceService interface {
	// CreateSource creates a new source.
	// Returns ECONFLICT if a source with the same kind and token exists.
	CreateSource(ctx context.Context, source *Source) error

	// FindSourceByID retrieves a source by ID.
	// Returns ENOTFOUND if source does not exist.
	FindSourceByID(ctx context.Context, id string) (*Source, error)

	// FindSources retrieves sources matching the filter.
	FindSources(ctx context.Context, filter SourceFilter) ([]*Source, error)

	// DeleteSource permanently removes a source and all associated documents.
	// Returns ENOTFOUND if source does not exist.
	DeleteSource(ctx context.Context, id string) error
}

// SourceFilter represents a filter for FindSources.
type SourceFilter struct {
	ID    *string     `json:"id"`
	Kind  *SourceKind `json:"kind"`
	Token *string     `json:"token"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
