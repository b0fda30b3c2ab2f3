package prometheus

import (
	"context"
	"iter"
	"time"

	"github.com/fwojciec/rageval"
)

var _ rageval.DocumentLoader = (*InstrumentedLoader)(nil)

// InstrumentedLoader counts documents and bytes yielded by the wrapped
// loader, and records one load outcome when the sequence ends.
type InstrumentedLoader struct {
	next    rageval.DocumentLoader
	kind    rageval.SourceKind
	metrics *Metrics
}

// NewInstrumentedLoader creates a new InstrumentedLoader labelled with kind.
func NewInstrumentedLoader(next rageval.DocumentLoader, kind rageval.SourceKind, m *Metrics) *InstrumentedLoader {
	return &InstrumentedLoader{next: next, kind: kind, metrics: m}
}

// Load passes through the wrapped sequence.
func (l *InstrumentedLoader) Load(ctx context.Context) iter.Seq2[*rageval.Document, error] {
	kind := string(l.kind)
	return func(yield func(*rageval.Document, error) bool) {
		var loadErr error
		defer func(begin time.Time) {
			l.metrics.LoadDuration.WithLabelValues(kind).Observe(time.Since(begin).Seconds())
			l.metrics.Loads.WithLabelValues(kind, status(loadErr)).Inc()
		}(time.Now())

		for doc, err := range l.next.Load(ctx) {
			if err != nil {
				loadErr = err
				yield(nil, err)
				return
			}
			l.metrics.LoadedDocs.WithLabelValues(kind).Inc()
			l.metrics.LoadedBytes.WithLabelValues(kind).Add(float64(len(doc.Content)))
			if !yield(doc, nil) {
				return
			}
		}
	}
}
