// Package metrics provides Prometheus metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GeocodeMetrics contains Prometheus metrics for the geocoding caches and
// their external provider. All recording methods are nil-receiver safe so
// callers can run without metrics wired.
type GeocodeMetrics struct {
	registry *prometheus.Registry

	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec
	cacheEvictions   *prometheus.CounterVec

	providerRequestsTotal *prometheus.CounterVec
	providerDuration      *prometheus.HistogramVec
}

// NewGeocodeMetrics creates and registers new geocode metrics
func NewGeocodeMetrics(registry *prometheus.Registry) (*GeocodeMetrics, error) {
	m := &GeocodeMetrics{registry: registry}
	m.initMetrics()
	if err := m.register(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *GeocodeMetrics) initMetrics() {
	m.cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_cache_hits_total",
			Help: "Total number of geocoding cache hits",
		},
		[]string{"cache"}, // cache: name, search
	)

	m.cacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_cache_misses_total",
			Help: "Total number of geocoding cache misses",
		},
		[]string{"cache"},
	)

	m.cacheEvictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_cache_evictions_total",
			Help: "Total number of full-cache evictions on insert",
		},
		[]string{"cache"},
	)

	m.providerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_provider_requests_total",
			Help: "Total number of external geocoding provider requests",
		},
		[]string{"operation", "status"}, // operation: reverse, search; status: success, error
	)

	m.providerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocode_provider_request_duration_seconds",
			Help:    "Duration of external geocoding provider requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
}

func (m *GeocodeMetrics) register() error {
	collectors := []prometheus.Collector{
		m.cacheHitsTotal,
		m.cacheMissesTotal,
		m.cacheEvictions,
		m.providerRequestsTotal,
		m.providerDuration,
	}
	for _, collector := range collectors {
		if err := m.registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// RecordCacheHit increments the hit counter for the named cache.
func (m *GeocodeMetrics) RecordCacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss increments the miss counter for the named cache.
func (m *GeocodeMetrics) RecordCacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordCacheEviction increments the full-eviction counter for the named cache.
func (m *GeocodeMetrics) RecordCacheEviction(cache string) {
	if m == nil {
		return
	}
	m.cacheEvictions.WithLabelValues(cache).Inc()
}

// RecordProviderRequest records one external provider call and its outcome.
func (m *GeocodeMetrics) RecordProviderRequest(operation, status string) {
	if m == nil {
		return
	}
	m.providerRequestsTotal.WithLabelValues(operation, status).Inc()
}

// RecordProviderDuration records the duration of one external provider call.
func (m *GeocodeMetrics) RecordProviderDuration(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.providerDuration.WithLabelValues(operation).Observe(seconds)
}
