package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fwojciec/rageval"
	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"
)

// Compile-time interface verification.
var _ rageval.SourceService = (*SourceService)(nil)

// SourceService implements rageval.SourceService using SQLite.
type SourceService struct {
	db *DB
}

// NewSourceService creates a new SourceService.
func NewSourceService(db *DB) *SourceService {
	return &SourceService{db: db}
}

// CreateSource creates a new source.
func (s *SourceService) CreateSource(ctx context.Context, source *rageval.Source) error {
	if err := source.Validate(); err != nil {
		return err
	}

	source.ID = uuid.New().String()
	now := s.db.now()
	source.CreatedAt = now
	source.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (id, kind, token, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, source.ID, string(source.Kind), source.Token, source.Name,
		formatTime(source.CreatedAt), formatTime(source.UpdatedAt))
	if errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) {
		return rageval.Errorf(rageval.ECONFLICT, "%s source %s already exists", source.Kind, source.Token)
	}
	return err
}

// FindSourceByID retrieves a source by ID.
func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*rageval.Source, error) {
	sources, err := s.FindSources(ctx, rageval.SourceFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, rageval.Errorf(rageval.ENOTFOUND, "source not found")
	}
	return sources[0], nil
}

// FindSources retrieves sources matching the filter, newest first.
func (s *SourceService) FindSources(ctx context.Context, filter rageval.SourceFilter) ([]*rageval.Source, error) {
	q := newSelectQuery("id, kind, token, name, created_at, updated_at", "sources")
	if filter.ID != nil {
		q.eq("id", *filter.ID)
	}
	if filter.Kind != nil {
		q.eq("kind", string(*filter.Kind))
	}
	if filter.Token != nil {
		q.eq("token", *filter.Token)
	}
	q.orderBy("created_at DESC, id")
	q.page(filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, q.String(), q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*rageval.Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// DeleteSource removes a source. Its documents are removed by cascade.
func (s *SourceService) DeleteSource(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return rageval.Errorf(rageval.ENOTFOUND, "source not found")
	}

	return nil
}

func scanSource(rows *sql.Rows) (*rageval.Source, error) {
	var source rageval.Source
	var kind, createdAt, updatedAt string

	if err := rows.Scan(&source.ID, &kind, &source.Token, &source.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	source.Kind = rageval.SourceKind(kind)

	var err error
	if source.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if source.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &source, nil
}
