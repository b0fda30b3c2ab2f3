package rageval

import (
	"context"
	"iter"
	"maps"
	"time"
)

// Metadata keys stamped on loaded documents.
const (
	MetaDocumentID = "document_id"
	MetaRevisionID = "revision_id"
	MetaTitle      = "title"
	MetaType       = "type"
	MetaSource     = "source"

	MetaOwner           = "lark_owner"
	MetaCreator         = "lark_creator"
	MetaSpaceID         = "lark_space_id"
	MetaNodeToken       = "lark_node_token"
	MetaParentNodeToken = "lark_parent_node_token"
	MetaHasChild        = "lark_has_child"
	MetaPath            = "lark_path"

	MetaSpaceName        = "space_name"
	MetaSpaceDescription = "space_description"
)

// Document type tags and source locator schemes.
const (
	TypeLarkDoc  = "lark-doc"
	TypeLarkWiki = "lark-wiki"

	SchemeLarkDoc   = "lark-doc://"
	SchemeLarkWiki  = "lark-wiki://"
	SchemeLarkSpace = "lark-space://"
)

// Metadata maps keys to string or boolean values.
type Metadata map[string]any

// String returns the value at key if it is a string.
func (m Metadata) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Bool returns the value at key if it is a bool.
func (m Metadata) Bool(key string) bool {
	b, _ := m[key].(bool)
	return b
}

// Clone returns a shallow copy. Values are scalars so this is a full copy.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	return maps.Clone(m)
}

// Document is page content plus metadata describing where it came from.
type Document struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// DocumentLoader produces documents from a source.
type DocumentLoader interface {
	// Load returns a lazy sequence of documents in source order.
	// The sequence ends after the first non-nil error.
	Load(ctx context.Context) iter.Seq2[*Document, error]
}

// CollectDocuments drains a loader. If any step fails, no documents
// are returned.
func CollectDocuments(ctx context.Context, loader DocumentLoader) ([]*Document, error) {
	var docs []*Document
	for doc, err := range loader.Load(ctx) {
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// StoredDocument is a document persisted under a source.
type StoredDocument struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"sourceId"`
	Position    int       `json:"position"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`

	Document
}

// Validate returns an error if the document contains invalid fields.
func (d *StoredDocument) Validate() error {
	if d.SourceID == "" {
		return Errorf(EINVALID, "document source ID required")
	}
	if d.Metadata.String(MetaDocumentID) == "" {
		return Errorf(EINVALID, "document ID metadata required")
	}
	return nil
}

// DocumentWriter writes documents to storage.
type DocumentWriter interface {
	CreateDocument(ctx context.Context, doc *StoredDocument) error
}

// DocumentService represents a service for managing stored documents.
type DocumentService interface {
	// CreateDocument creates a new document.
	CreateDocument(ctx context.Context, doc *StoredDocument) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*StoredDocument, error)

	// FindDocuments retrieves documents matching the filter, ordered by position.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*StoredDocument, error)

	// DeleteDocumentsBySource removes all documents for a source.
	DeleteDocumentsBySource(ctx context.Context, sourceID string) error
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID       *string `json:"id"`
	SourceID *string `json:"sourceId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
