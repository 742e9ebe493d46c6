package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveUpstream(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveUpstream("moz", time.Now(), nil)
	m.ObserveUpstream("moz", time.Now(), errors.New("boom"))
	m.ObserveUpstream("moz", time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("moz", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("moz", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.upstreamDuration))
}

func TestMetrics_CacheLookup(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CacheLookup("traffic", true)
	m.CacheLookup("traffic", false)
	m.CacheLookup("traffic", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("traffic", ResultHit)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("traffic", ResultMiss)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpstream("moz", time.Now(), nil)
		m.CacheLookup("authority", true)
	})
}

func TestNew_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
