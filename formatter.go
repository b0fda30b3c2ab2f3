package rageval

import (
	"io"
	"strings"
)

// FormatDocuments renders documents as one markdown context block, the form
// passed to an LLM or shown by "docs --full". Each document gets a heading
// from its title, document ID or source locator, in that order, and a
// Source line when the locator is not already the heading.
func FormatDocuments(docs []*Document) string {
	var b strings.Builder
	_ = WriteDocuments(&b, docs)
	return b.String()
}

// WriteDocuments writes the FormatDocuments rendering of docs to w.
func WriteDocuments(w io.Writer, docs []*Document) error {
	for i, doc := range docs {
		if i > 0 {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, formatDocument(doc)); err != nil {
			return err
		}
	}
	return nil
}

func formatDocument(doc *Document) string {
	source := doc.Metadata.String(MetaSource)
	heading := doc.Metadata.String(MetaTitle)
	if heading == "" {
		heading = doc.Metadata.String(MetaDocumentID)
	}

	var b strings.Builder
	b.WriteString("## Document: ")
	switch {
	case heading != "" && source != "":
		b.WriteString(heading + "\nSource: " + source)
	case heading != "":
		b.WriteString(heading)
	default:
		b.WriteString(source)
	}
	b.WriteString("\n")
	b.WriteString(doc.Content)
	return b.String()
}
