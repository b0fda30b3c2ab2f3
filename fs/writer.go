// Package fs writes loaded documents to disk as markdown files.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/rageval"
	"gopkg.in/yaml.v3"
)

// DocumentPath returns the relative file path for a document, named
// after its document ID. Example: doxcnAbc → doxcnAbc.md
func DocumentPath(doc *rageval.Document) (string, error) {
	id := doc.Metadata.String(rageval.MetaDocumentID)
	if id == "" {
		return "", rageval.Errorf(rageval.EINVALID, "document ID metadata required")
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", rageval.Errorf(rageval.EINVALID, "invalid document ID %q", id)
	}
	return id + ".md", nil
}

// shortcutPath names the file for a second document sharing a document ID,
// as wiki shortcut nodes do: <document_id>.<lark_node_token>.md.
func shortcutPath(doc *rageval.Document) (string, bool) {
	node := doc.Metadata.String(rageval.MetaNodeToken)
	if node == "" || node == "." || node == ".." || strings.ContainsAny(node, `/\`) {
		return "", false
	}
	return doc.Metadata.String(rageval.MetaDocumentID) + "." + node + ".md", true
}

// FormatDocument formats a document with a YAML frontmatter block of its
// metadata, keys sorted, followed by the content.
func FormatDocument(doc *rageval.Document) (string, error) {
	meta := map[string]any(doc.Metadata)
	if meta == nil {
		meta = map[string]any{}
	}
	front, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(front)
	b.WriteString("---\n\n")
	b.WriteString(doc.Content)
	return b.String(), nil
}

// Ensure Writer implements rageval.DocumentWriter at compile time.
var _ rageval.DocumentWriter = (*Writer)(nil)

// Writer writes documents as markdown files to a directory. A Writer
// never overwrites a file it wrote itself; it is not safe for concurrent use.
type Writer struct {
	baseDir string
	// written maps each file name to the node token that claimed it.
	written map[string]string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, written: map[string]string{}}
}

// CreateDocument writes a stored document to disk as a markdown file.
func (w *Writer) CreateDocument(ctx context.Context, doc *rageval.StoredDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	return w.write(&doc.Document)
}

func (w *Writer) write(doc *rageval.Document) error {
	relPath, err := DocumentPath(doc)
	if err != nil {
		return err
	}
	node := doc.Metadata.String(rageval.MetaNodeToken)
	if owner, taken := w.written[relPath]; taken {
		alt, ok := shortcutPath(doc)
		_, altTaken := w.written[alt]
		if !ok || owner == node || altTaken {
			return rageval.Errorf(rageval.ECONFLICT, "document %s written twice", doc.Metadata.String(rageval.MetaDocumentID))
		}
		relPath = alt
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return err
	}

	content, err := FormatDocument(doc)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(w.baseDir, relPath), []byte(content), 0644); err != nil {
		return err
	}
	w.written[relPath] = node
	return nil
}
