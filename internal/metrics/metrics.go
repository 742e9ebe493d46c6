// Package metrics holds the Prometheus collectors for upstream API calls and
// cache lookups.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "domainscope"

// Cache lookup results.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Metrics bundles the collectors. A nil *Metrics is valid and records nothing,
// so callers never need to guard on it.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API request latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"provider"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Store lookups by record kind and result.",
		}, []string{"kind", "result"}),
	}

	reg.MustRegister(m.upstreamRequests, m.upstreamDuration, m.cacheLookups)
	return m
}

// ObserveUpstream records one upstream call that started at start.
func (m *Metrics) ObserveUpstream(provider string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.upstreamRequests.WithLabelValues(provider, outcome).Inc()
	m.upstreamDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

// CacheLookup records a store lookup for the given record kind.
func (m *Metrics) CacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	m.cacheLookups.WithLabelValues(kind, result).Inc()
}
