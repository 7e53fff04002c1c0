// Package metrics counts import and query activity with Prometheus
// collectors on a private registry.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Row outcomes recorded by the importer.
const (
	OutcomeCreated  = "created"
	OutcomeExisting = "existing"
	OutcomeSkipped  = "skipped"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	ImportRows         *prometheus.CounterVec
	ImportBatches      prometheus.Counter
	AssignmentWrites   prometheus.Counter
	CacheInvalidations prometheus.Counter
	InvalidationErrors prometheus.Counter
	Queries            *prometheus.CounterVec
	QueryDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ImportRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menuplan",
			Name:      "import_rows_total",
			Help:      "Spreadsheet rows processed, by outcome.",
		}, []string{"outcome"}),
		ImportBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menuplan",
			Name:      "import_batches_total",
			Help:      "Import batches processed.",
		}),
		AssignmentWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menuplan",
			Name:      "assignment_writes_total",
			Help:      "Per-item assignment sequence writes.",
		}),
		CacheInvalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menuplan",
			Name:      "cache_invalidations_total",
			Help:      "Query cache entries dropped by writes.",
		}),
		InvalidationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menuplan",
			Name:      "cache_invalidation_errors_total",
			Help:      "Committed writes whose query cache invalidation failed.",
		}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menuplan",
			Name:      "queries_total",
			Help:      "find_items queries, by answering tier.",
		}, []string{"tier"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "menuplan",
			Name:      "query_duration_seconds",
			Help:      "find_items latency, by answering tier.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"tier"}),
	}
	m.registry.MustRegister(
		m.ImportRows,
		m.ImportBatches,
		m.AssignmentWrites,
		m.CacheInvalidations,
		m.InvalidationErrors,
		m.Queries,
		m.QueryDuration,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// The recording methods below are no-ops on a nil *Metrics.

func (m *Metrics) RowOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ImportRows.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Batch() {
	if m == nil {
		return
	}
	m.ImportBatches.Inc()
}

func (m *Metrics) AssignmentWrite() {
	if m == nil {
		return
	}
	m.AssignmentWrites.Inc()
}

func (m *Metrics) Invalidated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CacheInvalidations.Add(float64(n))
}

func (m *Metrics) InvalidationFailed() {
	if m == nil {
		return
	}
	m.InvalidationErrors.Inc()
}

func (m *Metrics) Query(tier string, d time.Duration) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(tier).Inc()
	m.QueryDuration.WithLabelValues(tier).Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
