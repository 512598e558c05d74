// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seqqc-core/stats"
)

// Metrics holds the Prometheus instruments for one processing run. All
// observation happens at chunk completion, on the collector side, so the
// workers stay lock-free.
type Metrics struct {
	registry *prometheus.Registry

	ReadsValidated   prometheus.Counter
	BasesProcessed   prometheus.Counter
	RecordsDiscarded *prometheus.CounterVec
	ChunksCompleted  prometheus.Counter
	ChunksFailed     prometheus.Counter
}

// New creates a Metrics collection on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ReadsValidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seqqc", Name: "reads_validated_total",
			Help: "Validated FASTQ records folded into statistics.",
		}),
		BasesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seqqc", Name: "bases_processed_total",
			Help: "Bases across validated records.",
		}),
		RecordsDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seqqc", Name: "records_discarded_total",
			Help: "Structurally rejected records by reason.",
		}, []string{"reason"}),
		ChunksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seqqc", Name: "chunks_completed_total",
			Help: "Chunks that produced a result.",
		}),
		ChunksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seqqc", Name: "chunks_failed_total",
			Help: "Chunks abandoned on I/O failure.",
		}),
	}
	reg.MustRegister(m.ReadsValidated, m.BasesProcessed, m.RecordsDiscarded,
		m.ChunksCompleted, m.ChunksFailed)
	return m
}

// ObserveChunk records one completed chunk result. Nil-safe so callers can
// run without metrics.
func (m *Metrics) ObserveChunk(r stats.ChunkResult) {
	if m == nil {
		return
	}
	m.ChunksCompleted.Inc()
	m.ReadsValidated.Add(float64(r.Stats.Reads))
	m.BasesProcessed.Add(float64(r.Stats.Bases))
	for reason, n := range map[string]uint64{
		"invalid_header":    r.Discards.Header,
		"invalid_separator": r.Discards.Separator,
		"invalid_bases":     r.Discards.Bases,
		"length_mismatch":   r.Discards.LengthMismatch,
		"invalid_quality":   r.Discards.Quality,
	} {
		if n > 0 {
			m.RecordsDiscarded.WithLabelValues(reason).Add(float64(n))
		}
	}
}

// ObserveFailure records one abandoned chunk. Nil-safe.
func (m *Metrics) ObserveFailure() {
	if m == nil {
		return
	}
	m.ChunksFailed.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts a /metrics listener on addr in a goroutine. Best effort: a
// listen failure is reported on the returned channel and the run continues.
func (m *Metrics) Serve(addr string) <-chan error {
	errCh := make(chan error, 1)
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	go func() {
		errCh <- http.ListenAndServe(addr, mux)
	}()
	return errCh
}
