// Package prometheus records rageval call metrics with Prometheus collectors.
//
// The CLI runs once and exits, so metrics are written in the text
// exposition format to a file (for node_exporter's textfile collector)
// rather than served over HTTP.
package prometheus

import (
	"github.com/fwojciec/rageval"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StatusOK labels a call that returned no error.
const StatusOK = "ok"

// Metrics holds the collectors for one process.
type Metrics struct {
	Registry *prometheus.Registry

	LLMRequests  *prometheus.CounterVec
	LLMDuration  *prometheus.HistogramVec
	EmbedBatches *prometheus.CounterVec
	EmbedTexts   *prometheus.CounterVec

	Loads        *prometheus.CounterVec
	LoadDuration *prometheus.HistogramVec
	LoadedDocs   *prometheus.CounterVec
	LoadedBytes  *prometheus.CounterVec
}

// NewMetrics creates collectors registered on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		LLMRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rageval_llm_requests_total",
				Help: "Total number of LLM completion calls by backend and status",
			},
			[]string{"backend", "status"},
		),
		LLMDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rageval_llm_request_duration_seconds",
				Help:    "Duration of LLM completion calls in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"backend"},
		),
		EmbedBatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rageval_embedding_requests_total",
				Help: "Total number of embedding calls by backend, operation and status",
			},
			[]string{"backend", "operation", "status"},
		),
		EmbedTexts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rageval_embedded_texts_total",
				Help: "Total number of texts sent for embedding by backend",
			},
			[]string{"backend"},
		),

		Loads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rageval_loads_total",
				Help: "Total number of document loads by source kind and status",
			},
			[]string{"kind", "status"},
		),
		LoadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rageval_load_duration_seconds",
				Help:    "Duration of document loads in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 300, 900},
			},
			[]string{"kind"},
		),
		LoadedDocs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rageval_loaded_documents_total",
				Help: "Total number of documents yielded by source kind",
			},
			[]string{"kind"},
		),
		LoadedBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rageval_loaded_content_bytes_total",
				Help: "Total bytes of document content yielded by source kind",
			},
			[]string{"kind"},
		),
	}
}

// WriteToTextfile writes every collector to path atomically.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return rageval.Errorf(rageval.EINTERNAL, "write metrics to %s: %v", path, err)
	}
	return nil
}

// status maps err to a label value: "ok" or the rageval error code.
func status(err error) string {
	if err == nil {
		return StatusOK
	}
	return rageval.ErrorCode(err)
}
