package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/rageval"
	"github.com/fwojciec/rageval/fs"
)

// Run executes the load command. Documents are collected in full before
// anything is stored, written or printed.
func (c *LoadCmd) Run(deps *Dependencies) error {
	kind, err := rageval.ParseSourceKind(c.Kind)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rageval.ErrorMessage(err))
		return err
	}

	var existing *rageval.Source
	if c.Store {
		existing, err = c.findExisting(deps, kind)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", rageval.ErrorMessage(err))
			return err
		}
	}

	loader, err := deps.Loaders(kind, c.Token)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rageval.ErrorMessage(err))
		return err
	}

	docs, err := rageval.CollectDocuments(deps.Ctx, loader)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error loading %s %s: %s\n", kind, c.Token, rageval.ErrorMessage(err))
		return err
	}

	tokens := -1
	if deps.TokenCounter != nil {
		if tokens, err = rageval.CountDocuments(deps.Ctx, deps.TokenCounter, docs); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", rageval.ErrorMessage(err))
			return err
		}
	}

	if c.Store {
		if err := c.store(deps, kind, existing, docs); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", rageval.ErrorMessage(err))
			return err
		}
	}
	if c.Out != "" {
		if err := c.write(deps, docs); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", rageval.ErrorMessage(err))
			return err
		}
	}
	if !c.Store && c.Out == "" {
		enc := json.NewEncoder(deps.Stdout)
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(deps.Stderr, loadSummary(docs, tokens))
	return nil
}

func (c *LoadCmd) findExisting(deps *Dependencies, kind rageval.SourceKind) (*rageval.Source, error) {
	sources, err := deps.Sources.FindSources(deps.Ctx, rageval.SourceFilter{Kind: &kind, Token: &c.Token})
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, nil
	}
	if !c.Force {
		return nil, rageval.Errorf(rageval.ECONFLICT,
			"%s %s is already stored as source %s. Use --force to replace it.", kind, c.Token, sources[0].ID)
	}
	return sources[0], nil
}

// store replaces existing, if any, with a new source holding docs. A
// failed insert removes the partially stored source.
func (c *LoadCmd) store(deps *Dependencies, kind rageval.SourceKind, existing *rageval.Source, docs []*rageval.Document) error {
	if existing != nil {
		if err := deps.Sources.DeleteSource(deps.Ctx, existing.ID); err != nil {
			return err
		}
	}

	source := &rageval.Source{Kind: kind, Token: c.Token, Name: sourceName(kind, docs)}
	if err := deps.Sources.CreateSource(deps.Ctx, source); err != nil {
		return err
	}

	for i, doc := range docs {
		stored := &rageval.StoredDocument{SourceID: source.ID, Position: i, Document: *doc}
		if err := deps.Documents.CreateDocument(deps.Ctx, stored); err != nil {
			_ = deps.Sources.DeleteSource(deps.Ctx, source.ID)
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Stored source %s (%s %s, %s)\n", source.ID, kind, c.Token, documents(len(docs)))
	return nil
}

func (c *LoadCmd) write(deps *Dependencies, docs []*rageval.Document) error {
	dir := filepath.Clean(c.Out)
	store := fs.NewFileStore(filepath.Dir(dir), filepath.Base(dir))
	for _, doc := range docs {
		if err := store.Save(deps.Ctx, doc); err != nil {
			_ = store.Abort()
			return err
		}
	}
	if err := store.Commit(); err != nil {
		_ = store.Abort()
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s to %s\n", documents(len(docs)), dir)
	return nil
}

// sourceName labels a source: the space name for spaces, otherwise the
// first document title.
func sourceName(kind rageval.SourceKind, docs []*rageval.Document) string {
	if len(docs) == 0 {
		return ""
	}
	if kind == rageval.SourceSpace {
		if name := docs[0].Metadata.String(rageval.MetaSpaceName); name != "" {
			return name
		}
	}
	return docs[0].Metadata.String(rageval.MetaTitle)
}
