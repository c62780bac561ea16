// Package metrics exposes Prometheus counters for the indexing pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// IndexRuns counts pipeline invocations by terminal outcome.
	IndexRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "indexing_runs_total",
		Help: "Indexing pipeline invocations by outcome.",
	}, []string{"outcome"})

	// ChunksPersisted counts chunk rows written to the index.
	ChunksPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "indexing_chunks_persisted_total",
		Help: "Chunk rows written to the search index.",
	})

	// EmbeddingFailures counts per-chunk embedding errors that were skipped.
	EmbeddingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "indexing_embedding_failures_total",
		Help: "Per-chunk embedding failures (chunk skipped, run continued).",
	})

	// ExtractionFallbacks counts PDF extraction failures recovered by the
	// structured-serialization fallback.
	ExtractionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "indexing_extraction_fallbacks_total",
		Help: "PDF text extractions that fell back to structured serialization.",
	})

	// CapTruncations counts documents whose chunk set hit the per-document cap.
	CapTruncations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "indexing_cap_truncations_total",
		Help: "Documents whose chunk list was truncated to the configured cap.",
	})
)

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
