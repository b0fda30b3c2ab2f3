package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/rageval"
)

var (
	_ rageval.LLM       = (*InstrumentedLLM)(nil)
	_ rageval.Generator = (*InstrumentedLLM)(nil)
	_ rageval.Embedder  = (*InstrumentedEmbedder)(nil)
)

// InstrumentedLLM counts and times calls to the wrapped LLM.
type InstrumentedLLM struct {
	next    rageval.LLM
	backend string
	metrics *Metrics
}

// NewInstrumentedLLM creates a new InstrumentedLLM labelled with backend.
func NewInstrumentedLLM(next rageval.LLM, backend string, m *Metrics) *InstrumentedLLM {
	return &InstrumentedLLM{next: next, backend: backend, metrics: m}
}

// Call delegates to the wrapped LLM.
func (l *InstrumentedLLM) Call(ctx context.Context, prompt string) (text string, err error) {
	defer func(begin time.Time) {
		l.metrics.LLMDuration.WithLabelValues(l.backend).Observe(time.Since(begin).Seconds())
		l.metrics.LLMRequests.WithLabelValues(l.backend, status(err)).Inc()
	}(time.Now())
	return l.next.Call(ctx, prompt)
}

// Generate runs prompts through Call so each one is counted.
func (l *InstrumentedLLM) Generate(ctx context.Context, prompts []string) (*rageval.LLMResult, error) {
	return rageval.Generate(ctx, l, prompts)
}

// InstrumentedEmbedder counts embedding calls and texts.
type InstrumentedEmbedder struct {
	next    rageval.Embedder
	backend string
	metrics *Metrics
}

// NewInstrumentedEmbedder creates a new InstrumentedEmbedder labelled with backend.
func NewInstrumentedEmbedder(next rageval.Embedder, backend string, m *Metrics) *InstrumentedEmbedder {
	return &InstrumentedEmbedder{next: next, backend: backend, metrics: m}
}

// EmbedDocuments delegates to the wrapped embedder.
func (e *InstrumentedEmbedder) EmbedDocuments(ctx context.Context, texts []string) (vecs [][]float32, err error) {
	defer func() {
		e.metrics.EmbedBatches.WithLabelValues(e.backend, "documents", status(err)).Inc()
		e.metrics.EmbedTexts.WithLabelValues(e.backend).Add(float64(len(texts)))
	}()
	return e.next.EmbedDocuments(ctx, texts)
}

// EmbedQuery delegates to the wrapped embedder.
func (e *InstrumentedEmbedder) EmbedQuery(ctx context.Context, text string) (vec []float32, err error) {
	defer func() {
		e.metrics.EmbedBatches.WithLabelValues(e.backend, "query", status(err)).Inc()
		e.metrics.EmbedTexts.WithLabelValues(e.backend).Inc()
	}()
	return e.next.EmbedQuery(ctx, text)
}
