package slog

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/fwojciec/rageval"
)

var _ rageval.DocumentLoader = (*LoggingLoader)(nil)

// LoggingLoader wraps a DocumentLoader and logs every yielded document.
type LoggingLoader struct {
	next   rageval.DocumentLoader
	logger *slog.Logger
}

// NewLoggingLoader creates a new LoggingLoader.
func NewLoggingLoader(next rageval.DocumentLoader, logger *slog.Logger) *LoggingLoader {
	return &LoggingLoader{next: next, logger: logger}
}

// Load passes through the wrapped sequence, logging each document and
// a summary when the sequence ends.
func (l *LoggingLoader) Load(ctx context.Context) iter.Seq2[*rageval.Document, error] {
	return func(yield func(*rageval.Document, error) bool) {
		begin := time.Now()
		var count int
		var loadErr error
		defer func() {
			l.logger.Info("load complete",
				"documents", count,
				"duration", time.Since(begin),
				"err", loadErr,
			)
		}()

		for doc, err := range l.next.Load(ctx) {
			if err != nil {
				loadErr = err
				yield(nil, err)
				return
			}
			count++
			l.logger.Info("document loaded",
				"document_id", doc.Metadata.String(rageval.MetaDocumentID),
				"title", doc.Metadata.String(rageval.MetaTitle),
				"chars", len(doc.Content),
			)
			if !yield(doc, nil) {
				return
			}
		}
	}
}
