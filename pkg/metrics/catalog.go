package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics records calls made against the catalog backend.
type CatalogMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	cache    *prometheus.CounterVec
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_request_duration_seconds",
		Help:    "Duration of catalog backend requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Catalog backend requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_lookups_total",
		Help: "Catalog cache lookups by kind and result.",
	}, []string{"kind", "result"})
	reg.MustRegister(duration, requests, cache)
	return &CatalogMetrics{
		duration: duration,
		requests: requests,
		cache:    cache,
	}
}

// ObserveRequest records one catalog request.
func (c *CatalogMetrics) ObserveRequest(endpoint, outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	endpoint = normalizeLabel(endpoint)
	c.duration.WithLabelValues(endpoint).Observe(duration.Seconds())
	c.requests.WithLabelValues(endpoint, normalizeLabel(outcome)).Inc()
}

// ObserveCache records a cache hit or miss for the given payload kind.
func (c *CatalogMetrics) ObserveCache(kind string, hit bool) {
	if c == nil || c.cache == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cache.WithLabelValues(normalizeLabel(kind), result).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
