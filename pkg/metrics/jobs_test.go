package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestJobMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)

	m.IncSuccess("daily-backup")
	m.IncSuccess("daily-backup")
	m.IncFailure("sync-queue")
	m.ObserveDuration("daily-backup", 2*time.Second)

	require.Equal(t, float64(2), testutil.ToFloat64(m.success.WithLabelValues("daily-backup")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.failure.WithLabelValues("sync-queue")))
}

func TestJobMetricsNilSafe(t *testing.T) {
	var m *JobMetrics
	m.IncSuccess("x")
	m.IncFailure("x")
	m.ObserveDuration("x", time.Second)

	empty := NewJobMetrics(nil)
	empty.IncSuccess("")
	empty.ObserveDuration("", 0)
}

func TestNormalizeLabel(t *testing.T) {
	require.Equal(t, "unknown", normalizeLabel(""))
	require.Equal(t, "sync-queue", normalizeLabel("sync-queue"))
}
