package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveDecode(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDecode(10*time.Millisecond, 64, 3)
	m.ObserveDecode(5*time.Millisecond, 8, 4)

	assert.Equal(t, float64(72), testutil.ToFloat64(m.voxelsDecoded))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.importsTotal))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.paletteSize))
}

func TestMetrics_FailuresAndPicks(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveFailure(ReasonMalformed)
	m.ObserveFailure(ReasonMalformed)
	m.ObserveFailure(ReasonUnresolvable)
	m.ObservePick(true)
	m.ObservePick(false)
	m.ObservePick(false)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.importFailures.WithLabelValues(ReasonMalformed)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.importFailures.WithLabelValues(ReasonUnresolvable)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.picks.WithLabelValues("miss")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDecode(time.Second, 1, 1)
		m.ObserveFailure(ReasonOther)
		m.ObserveTraversal(10)
		m.ObservePick(true)
		m.ObserveCacheHit(1)
	})
}

func TestMetrics_RegisterTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
