package rageval_test

import (
	"bytes"
	"testing"

	"github.com/fwojciec/rageval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDocuments(t *testing.T) {
	t.Parallel()

	t.Run("heading from title with source line", func(t *testing.T) {
		t.Parallel()

		docs := []*rageval.Document{{
			Content:  "Welcome to the wiki.",
			Metadata: rageval.Metadata{rageval.MetaTitle: "Getting Started", rageval.MetaSource: "lark-wiki://wikcn1"},
		}}

		assert.Equal(t, "## Document: Getting Started\nSource: lark-wiki://wikcn1\nWelcome to the wiki.", rageval.FormatDocuments(docs))
	})

	t.Run("falls back to document ID then source locator", func(t *testing.T) {
		t.Parallel()

		docs := []*rageval.Document{
			{Content: "Untitled.", Metadata: rageval.Metadata{rageval.MetaDocumentID: "doxcn2"}},
			{Content: "Some content.", Metadata: rageval.Metadata{rageval.MetaSource: "lark-doc://doxcn1"}},
		}

		expected := "## Document: doxcn2\nUntitled.\n\n## Document: lark-doc://doxcn1\nSome content."
		assert.Equal(t, expected, rageval.FormatDocuments(docs))
	})

	t.Run("returns empty string for nil slice", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, rageval.FormatDocuments(nil))
	})
}

func TestWriteDocuments(t *testing.T) {
	t.Parallel()

	docs := []*rageval.Document{
		{Content: "First.", Metadata: rageval.Metadata{rageval.MetaTitle: "One"}},
		{Content: "Second.", Metadata: rageval.Metadata{rageval.MetaTitle: "Two"}},
	}

	var buf bytes.Buffer
	require.NoError(t, rageval.WriteDocuments(&buf, docs))

	assert.Equal(t, rageval.FormatDocuments(docs), buf.String())
	assert.Equal(t, "## Document: One\nFirst.\n\n## Document: Two\nSecond.", buf.String())
}
