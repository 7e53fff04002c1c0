package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.RowOutcome(OutcomeCreated)
	m.RowOutcome(OutcomeCreated)
	m.RowOutcome(OutcomeNotFound)
	m.Query("index", 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ImportRows.WithLabelValues(OutcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportRows.WithLabelValues(OutcomeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues("index")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ImportBatches.Inc()
	path := filepath.Join(t.TempDir(), "menuplan.prom")

	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "menuplan_import_batches_total 1")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RowOutcome(OutcomeError)
		m.Batch()
		m.AssignmentWrite()
		m.Invalidated(3)
		m.InvalidationFailed()
		m.Query("scan", time.Second)
	})
}
