package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/rageval"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ rageval.DocumentService = (*DocumentService)(nil)

// DocumentService implements rageval.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// hashContent returns the hex-encoded xxHash of content.
func hashContent(content string) string {
	b := binary.BigEndian.AppendUint64(nil, xxhash.Sum64String(content))
	return hex.EncodeToString(b)
}

// CreateDocument stores doc, assigning its ID, hash and fetch time.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *rageval.StoredDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	meta, err := json.Marshal(doc.Metadata.Clone())
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	doc.ID = uuid.New().String()
	doc.FetchedAt = s.db.now()
	doc.ContentHash = hashContent(doc.Content)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_id, document_id, title, content, content_hash, metadata, position, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.SourceID, doc.Metadata.String(rageval.MetaDocumentID), doc.Metadata.String(rageval.MetaTitle),
		doc.Content, doc.ContentHash, string(meta), doc.Position, formatTime(doc.FetchedAt))

	return err
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*rageval.StoredDocument, error) {
	docs, err := s.FindDocuments(ctx, rageval.DocumentFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, rageval.Errorf(rageval.ENOTFOUND, "document not found")
	}
	return docs[0], nil
}

// FindDocuments retrieves documents matching the filter in load order.
func (s *DocumentService) FindDocuments(ctx context.Context, filter rageval.DocumentFilter) ([]*rageval.StoredDocument, error) {
	q := newSelectQuery("id, source_id, content, content_hash, metadata, position, fetched_at", "documents")
	if filter.ID != nil {
		q.eq("id", *filter.ID)
	}
	if filter.SourceID != nil {
		q.eq("source_id", *filter.SourceID)
	}
	q.orderBy("source_id, position")
	q.page(filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, q.String(), q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*rageval.StoredDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// DeleteDocumentsBySource removes all documents for a source.
func (s *DocumentService) DeleteDocumentsBySource(ctx context.Context, sourceID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE source_id = ?", sourceID)
	return err
}

func scanDocument(rows *sql.Rows) (*rageval.StoredDocument, error) {
	var doc rageval.StoredDocument
	var meta, fetchedAt string

	if err := rows.Scan(&doc.ID, &doc.SourceID, &doc.Content, &doc.ContentHash,
		&meta, &doc.Position, &fetchedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(meta), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}

	var err error
	if doc.FetchedAt, err = parseTime(fetchedAt, "fetched_at"); err != nil {
		return nil, err
	}
	return &doc, nil
}
