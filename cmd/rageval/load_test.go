package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/rageval"
	main "github.com/fwojciec/rageval/cmd/rageval"
	"github.com/fwojciec/rageval/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocs() []*rageval.Document {
	return []*rageval.Document{
		{Content: "# A", Metadata: rageval.Metadata{
			rageval.MetaDocumentID: "doxA",
			rageval.MetaTitle:      "A",
			rageval.MetaSpaceName:  "Engineering",
		}},
		{Content: "# B", Metadata: rageval.Metadata{
			rageval.MetaDocumentID: "doxB",
			rageval.MetaTitle:      "B",
		}},
	}
}

// loaders returns a LoaderFunc yielding docs then err, recording the request.
func loaders(docs []*rageval.Document, err error, gotKind *rageval.SourceKind) main.LoaderFunc {
	return func(kind rageval.SourceKind, token string) (rageval.DocumentLoader, error) {
		if gotKind != nil {
			*gotKind = kind
		}
		return &mock.DocumentLoader{
			LoadFn: func(ctx context.Context) iter.Seq2[*rageval.Document, error] {
				return func(yield func(*rageval.Document, error) bool) {
					for _, d := range docs {
						if !yield(d, nil) {
							return
						}
					}
					if err != nil {
						yield(nil, err)
					}
				}
			},
		}, nil
	}
}

// recordingStore is an in-memory source and document store.
type recordingStore struct {
	sources   []*rageval.Source
	documents []*rageval.StoredDocument
	deleted   []string
	failAt    int
}

func (r *recordingStore) services() (*mock.SourceService, *mock.DocumentService) {
	sources := &mock.SourceService{
		FindSourcesFn: func(_ context.Context, filter rageval.SourceFilter) ([]*rageval.Source, error) {
			var out []*rageval.Source
			for _, s := range r.sources {
				if filter.Kind != nil && s.Kind != *filter.Kind {
					continue
				}
				if filter.Token != nil && s.Token != *filter.Token {
					continue
				}
				out = append(out, s)
			}
			return out, nil
		},
		CreateSourceFn: func(_ context.Context, s *rageval.Source) error {
			s.ID = "src-new"
			r.sources = append(r.sources, s)
			return nil
		},
		DeleteSourceFn: func(_ context.Context, id string) error {
			r.deleted = append(r.deleted, id)
			return nil
		},
	}
	documents := &mock.DocumentService{
		CreateDocumentFn: func(_ context.Context, d *rageval.StoredDocument) error {
			if r.failAt > 0 && len(r.documents)+1 == r.failAt {
				return rageval.Errorf(rageval.EINTERNAL, "disk full")
			}
			r.documents = append(r.documents, d)
			return nil
		},
	}
	return sources, documents
}

func TestLoadCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints JSON lines by default", func(t *testing.T) {
		t.Parallel()

		var kind rageval.SourceKind
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  stderr,
			Loaders: loaders(testDocs(), nil, &kind),
		}

		cmd := &main.LoadCmd{Kind: "wiki", Token: "wikA"}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, rageval.SourceWiki, kind)
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 2)

		var doc rageval.Document
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &doc))
		assert.Equal(t, "# B", doc.Content)
		assert.Equal(t, "doxB", doc.Metadata.String(rageval.MetaDocumentID))
		assert.Contains(t, stderr.String(), "Loaded 2 documents")
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr}

		err := (&main.LoadCmd{Kind: "sheet", Token: "x"}).Run(deps)
		require.Error(t, err)
		assert.Equal(t, rageval.EINVALID, rageval.ErrorCode(err))
		assert.Contains(t, stderr.String(), "unsupported source kind")
	})

	t.Run("failed load prints nothing", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  stderr,
			Loaders: loaders(testDocs(), rageval.Errorf(rageval.EREMOTE, "failed to fetch document content: forbidden"), nil),
		}

		err := (&main.LoadCmd{Kind: "space", Token: "sp1"}).Run(deps)
		require.Error(t, err)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "error loading space sp1: failed to fetch document content: forbidden")
	})

	t.Run("stores source and documents in order", func(t *testing.T) {
		t.Parallel()

		store := &recordingStore{}
		sources, documents := store.services()
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Sources:   sources,
			Documents: documents,
			Loaders:   loaders(testDocs(), nil, nil),
		}

		require.NoError(t, (&main.LoadCmd{Kind: "space", Token: "sp1", Store: true}).Run(deps))

		require.Len(t, store.sources, 1)
		assert.Equal(t, "Engineering", store.sources[0].Name)
		require.Len(t, store.documents, 2)
		assert.Equal(t, 0, store.documents[0].Position)
		assert.Equal(t, 1, store.documents[1].Position)
		assert.Equal(t, "src-new", store.documents[1].SourceID)
		assert.Contains(t, stdout.String(), "Stored source src-new")
	})

	t.Run("duplicate source without force is a conflict", func(t *testing.T) {
		t.Parallel()

		store := &recordingStore{sources: []*rageval.Source{{ID: "src-old", Kind: rageval.SourceSpace, Token: "sp1"}}}
		sources, documents := store.services()
		loaded := false
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    &bytes.Buffer{},
			Sources:   sources,
			Documents: documents,
			Loaders: func(kind rageval.SourceKind, token string) (rageval.DocumentLoader, error) {
				loaded = true
				return nil, errors.New("should not load")
			},
		}

		err := (&main.LoadCmd{Kind: "space", Token: "sp1", Store: true}).Run(deps)
		require.Error(t, err)
		assert.Equal(t, rageval.ECONFLICT, rageval.ErrorCode(err))
		assert.False(t, loaded)
	})

	t.Run("force replaces the stored source", func(t *testing.T) {
		t.Parallel()

		store := &recordingStore{sources: []*rageval.Source{{ID: "src-old", Kind: rageval.SourceSpace, Token: "sp1"}}}
		sources, documents := store.services()
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    &bytes.Buffer{},
			Sources:   sources,
			Documents: documents,
			Loaders:   loaders(testDocs(), nil, nil),
		}

		require.NoError(t, (&main.LoadCmd{Kind: "space", Token: "sp1", Store: true, Force: true}).Run(deps))
		assert.Equal(t, []string{"src-old"}, store.deleted)
		assert.Len(t, store.documents, 2)
	})

	t.Run("failed insert removes the new source", func(t *testing.T) {
		t.Parallel()

		store := &recordingStore{failAt: 2}
		sources, documents := store.services()
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    &bytes.Buffer{},
			Stderr:    &bytes.Buffer{},
			Sources:   sources,
			Documents: documents,
			Loaders:   loaders(testDocs(), nil, nil),
		}

		err := (&main.LoadCmd{Kind: "space", Token: "sp1", Store: true}).Run(deps)
		require.Error(t, err)
		assert.Equal(t, []string{"src-new"}, store.deleted)
	})

	t.Run("writes markdown files to the output directory", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "docs")
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Loaders: loaders(testDocs(), nil, nil),
		}

		require.NoError(t, (&main.LoadCmd{Kind: "space", Token: "sp1", Out: out}).Run(deps))

		content, err := os.ReadFile(filepath.Join(out, "doxB.md"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "title: B")
		assert.Contains(t, string(content), "# B")
		assert.Contains(t, stdout.String(), "Wrote 2 documents")
	})

	t.Run("reports token counts", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Loaders: loaders(testDocs(), nil, nil),
			TokenCounter: &mock.TokenCounter{
				CountTokensFn: func(ctx context.Context, text string) (int, error) {
					return 600, nil
				},
			},
		}

		require.NoError(t, (&main.LoadCmd{Kind: "space", Token: "sp1"}).Run(deps))
		assert.Contains(t, stderr.String(), "~1k tokens")
	})
}
