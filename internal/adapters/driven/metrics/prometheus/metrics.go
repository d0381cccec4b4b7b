// Package prometheus records ingestion metrics in a private Prometheus registry.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
)

const namespace = "babix"

// Ensure Metrics implements the interface.
var _ driven.IngestMetrics = (*Metrics)(nil)

// Metrics holds the ingestion collectors.
type Metrics struct {
	registry *prometheus.Registry

	ingests  *prometheus.CounterVec
	duration prometheus.Histogram
	chunks   prometheus.Counter
	records  prometheus.Counter
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ingests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_total",
			Help:      "Ingested sources by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Time spent ingesting one source.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_indexed_total",
			Help:      "Chunks written to the index.",
		}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_indexed_total",
			Help:      "Records written to the index.",
		}),
	}
	m.registry.MustRegister(m.ingests, m.duration, m.chunks, m.records)
	return m
}

// ObserveIngest counts one outcome and records its duration.
func (m *Metrics) ObserveIngest(outcome domain.IngestOutcome, d time.Duration) {
	m.ingests.WithLabelValues(string(outcome)).Inc()
	m.duration.Observe(d.Seconds())
}

// AddChunks counts indexed chunks.
func (m *Metrics) AddChunks(n int) {
	if n > 0 {
		m.chunks.Add(float64(n))
	}
}

// AddRecords counts indexed records.
func (m *Metrics) AddRecords(n int) {
	if n > 0 {
		m.records.Add(float64(n))
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
