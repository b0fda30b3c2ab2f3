package main

import (
	"fmt"

	"github.com/fwojciec/rageval"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	source, err := deps.Sources.FindSourceByID(deps.Ctx, c.SourceID)
	if err != nil {
		if rageval.ErrorCode(err) == rageval.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: source %q not found. Use 'rageval sources' to see stored sources.\n", c.SourceID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", rageval.ErrorMessage(err))
		}
		return err
	}

	stored, err := deps.Documents.FindDocuments(deps.Ctx, rageval.DocumentFilter{SourceID: &source.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rageval.ErrorMessage(err))
		return err
	}

	if len(stored) == 0 {
		fmt.Fprintf(deps.Stderr, "error: source %q has no documents. Reload it with 'rageval load %s %s --store --force'.\n", source.ID, source.Kind, source.Token)
		return rageval.Errorf(rageval.ENOTFOUND, "source %q has no documents", source.ID)
	}

	if c.Export != "" {
		return c.export(deps, stored)
	}

	if c.Full {
		docs := make([]*rageval.Document, len(stored))
		for i, d := range stored {
			docs[i] = &d.Document
		}
		if err := rageval.WriteDocuments(deps.Stdout, docs); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout)
		return nil
	}

	name := source.Name
	if name == "" {
		name = source.Token
	}
	fmt.Fprintf(deps.Stdout, "Documents for %s (%d total):\n\n", name, len(stored))
	for i, doc := range stored {
		title := doc.Metadata.String(rageval.MetaTitle)
		if title == "" {
			title = doc.Metadata.String(rageval.MetaDocumentID)
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s\n", i+1, title, doc.Metadata.String(rageval.MetaSource))
	}

	return nil
}

func (c *DocsCmd) export(deps *Dependencies, stored []*rageval.StoredDocument) error {
	if deps.Exporter == nil {
		return rageval.Errorf(rageval.EINTERNAL, "no document exporter configured")
	}
	w := deps.Exporter(c.Export)
	for _, doc := range stored {
		if err := w.CreateDocument(deps.Ctx, doc); err != nil {
			fmt.Fprintf(deps.Stderr, "error: export %s: %s\n", doc.ID, rageval.ErrorMessage(err))
			return err
		}
	}
	fmt.Fprintf(deps.Stdout, "Exported %s to %s\n", documents(len(stored)), c.Export)
	return nil
}
