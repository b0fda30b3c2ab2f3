package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/rageval"
	"github.com/fwojciec/rageval/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newDoc(id, content string) *rageval.Document {
	return &rageval.Document{
		Content: content,
		Metadata: rageval.Metadata{
			rageval.MetaDocumentID: id,
			rageval.MetaTitle:      "Title " + id,
			rageval.MetaSource:     "lark-doc://" + id,
		},
	}
}

func TestDocumentPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		want    string
		wantErr bool
	}{
		{name: "document ID becomes file name", id: "doxcnAbc", want: "doxcnAbc.md"},
		{name: "missing ID", id: "", wantErr: true},
		{name: "rejects separators", id: "a/b", wantErr: true},
		{name: "rejects backslash", id: `a\b`, wantErr: true},
		{name: "rejects parent reference", id: "..", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.DocumentPath(newDoc(tt.id, ""))

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, rageval.EINVALID, rageval.ErrorCode(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// splitFrontmatter returns the decoded frontmatter block and the body.
func splitFrontmatter(t *testing.T, formatted string) (map[string]any, string) {
	t.Helper()
	rest, ok := strings.CutPrefix(formatted, "---\n")
	require.True(t, ok, "missing opening delimiter")
	front, body, ok := strings.Cut(rest, "---\n\n")
	require.True(t, ok, "missing closing delimiter")

	var meta map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(front), &meta))
	return meta, body
}

func TestFormatDocument(t *testing.T) {
	t.Parallel()

	t.Run("writes metadata as frontmatter before content", func(t *testing.T) {
		t.Parallel()

		doc := newDoc("doxA", "# Runbook\n\nSteps.")
		doc.Metadata[rageval.MetaHasChild] = true

		got, err := fs.FormatDocument(doc)
		require.NoError(t, err)

		meta, body := splitFrontmatter(t, got)
		assert.Equal(t, map[string]any{
			"document_id":    "doxA",
			"lark_has_child": true,
			"source":         "lark-doc://doxA",
			"title":          "Title doxA",
		}, meta)
		assert.Equal(t, "# Runbook\n\nSteps.", body)
	})

	t.Run("sorts keys", func(t *testing.T) {
		t.Parallel()

		got, err := fs.FormatDocument(newDoc("doxA", ""))
		require.NoError(t, err)

		assert.Less(t, strings.Index(got, "document_id:"), strings.Index(got, "source:"))
		assert.Less(t, strings.Index(got, "source:"), strings.Index(got, "title:"))
	})

	t.Run("preserves values that need quoting", func(t *testing.T) {
		t.Parallel()

		doc := &rageval.Document{Metadata: rageval.Metadata{
			rageval.MetaSpaceDescription: "line one\nline two",
			rageval.MetaTitle:            "FAQ: ---",
			rageval.MetaRevisionID:       "42",
		}}

		got, err := fs.FormatDocument(doc)
		require.NoError(t, err)

		meta, body := splitFrontmatter(t, got)
		assert.Equal(t, "line one\nline two", meta[rageval.MetaSpaceDescription])
		assert.Equal(t, "FAQ: ---", meta[rageval.MetaTitle])
		assert.Equal(t, "42", meta[rageval.MetaRevisionID])
		assert.Empty(t, body)
	})

	t.Run("formats empty metadata", func(t *testing.T) {
		t.Parallel()

		got, err := fs.FormatDocument(&rageval.Document{Content: "x"})
		require.NoError(t, err)
		assert.Equal(t, "---\n{}\n---\n\nx", got)
	})
}

func TestWriter_CreateDocument(t *testing.T) {
	t.Parallel()

	t.Run("writes document to disk", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		w := fs.NewWriter(baseDir)

		doc := &rageval.StoredDocument{SourceID: "src-1", Document: *newDoc("doxA", "# Hello")}
		require.NoError(t, w.CreateDocument(context.Background(), doc))

		content, err := os.ReadFile(filepath.Join(baseDir, "doxA.md"))
		require.NoError(t, err)
		want, err := fs.FormatDocument(&doc.Document)
		require.NoError(t, err)
		assert.Equal(t, want, string(content))
	})

	t.Run("creates base directory", func(t *testing.T) {
		t.Parallel()

		baseDir := filepath.Join(t.TempDir(), "nested", "out")
		w := fs.NewWriter(baseDir)

		doc := &rageval.StoredDocument{SourceID: "src-1", Document: *newDoc("doxA", "x")}
		require.NoError(t, w.CreateDocument(context.Background(), doc))

		_, err := os.Stat(filepath.Join(baseDir, "doxA.md"))
		require.NoError(t, err)
	})

	t.Run("same node written twice conflicts", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())
		doc := &rageval.StoredDocument{SourceID: "src-1", Document: *newDoc("dX", "x")}
		doc.Metadata[rageval.MetaNodeToken] = "wA"

		require.NoError(t, w.CreateDocument(context.Background(), doc))
		err := w.CreateDocument(context.Background(), doc)

		require.Error(t, err)
		assert.Equal(t, rageval.ECONFLICT, rageval.ErrorCode(err))
	})

	t.Run("validates document", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())

		err := w.CreateDocument(context.Background(), &rageval.StoredDocument{Document: *newDoc("doxA", "x")})

		require.Error(t, err)
		assert.Equal(t, rageval.EINVALID, rageval.ErrorCode(err))
	})
}
