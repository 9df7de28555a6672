// Package metrics provides Prometheus metrics for the advisory core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GatewayMetrics contains Prometheus metrics for geo-astronomy gateway
// operations. All recording methods are safe on a nil receiver so callers
// can run without metrics wired.
type GatewayMetrics struct {
	registry *prometheus.Registry

	providerRequestsTotal *prometheus.CounterVec
	providerErrorsTotal   *prometheus.CounterVec
	providerDuration      *prometheus.HistogramVec

	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	resolverMatchesTotal *prometheus.CounterVec
}

// NewGatewayMetrics creates and registers new gateway metrics.
func NewGatewayMetrics(registry *prometheus.Registry) (*GatewayMetrics, error) {
	m := &GatewayMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *GatewayMetrics) initMetrics() {
	m.providerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_provider_requests_total",
			Help: "Total number of external provider requests",
		},
		[]string{"provider", "status"}, // status: success, error
	)

	m.providerErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_provider_errors_total",
			Help: "Total number of external provider errors",
		},
		[]string{"provider", "error_type"},
	)

	m.providerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gateway_provider_duration_seconds",
			Help: "Time taken by external provider requests",
			// 100ms to ~50s covers fast responses through timeout scenarios
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"provider"},
	)

	m.cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_cache_hits_total",
			Help: "Total number of TTL cache hits",
		},
		[]string{"cache"},
	)

	m.cacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_cache_misses_total",
			Help: "Total number of TTL cache misses",
		},
		[]string{"cache"},
	)

	m.resolverMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "species_resolver_matches_total",
			Help: "Total number of species resolutions by ladder rule",
		},
		[]string{"rule"},
	)
}

// Describe implements the Collector interface
func (m *GatewayMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.providerRequestsTotal.Describe(ch)
	m.providerErrorsTotal.Describe(ch)
	m.providerDuration.Describe(ch)
	m.cacheHitsTotal.Describe(ch)
	m.cacheMissesTotal.Describe(ch)
	m.resolverMatchesTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *GatewayMetrics) Collect(ch chan<- prometheus.Metric) {
	m.providerRequestsTotal.Collect(ch)
	m.providerErrorsTotal.Collect(ch)
	m.providerDuration.Collect(ch)
	m.cacheHitsTotal.Collect(ch)
	m.cacheMissesTotal.Collect(ch)
	m.resolverMatchesTotal.Collect(ch)
}

// RecordProviderRequest records a provider request outcome
func (m *GatewayMetrics) RecordProviderRequest(provider, status string) {
	if m == nil {
		return
	}
	m.providerRequestsTotal.WithLabelValues(provider, status).Inc()
}

// RecordProviderError records a provider error by type
func (m *GatewayMetrics) RecordProviderError(provider, errorType string) {
	if m == nil {
		return
	}
	m.providerErrorsTotal.WithLabelValues(provider, errorType).Inc()
}

// RecordProviderDuration records the duration of a provider request in seconds
func (m *GatewayMetrics) RecordProviderDuration(provider string, seconds float64) {
	if m == nil {
		return
	}
	m.providerDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordCacheHit records a TTL cache hit
func (m *GatewayMetrics) RecordCacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a TTL cache miss
func (m *GatewayMetrics) RecordCacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordResolverMatch records a species resolution by ladder rule
func (m *GatewayMetrics) RecordResolverMatch(rule string) {
	if m == nil {
		return
	}
	m.resolverMatchesTotal.WithLabelValues(rule).Inc()
}
