package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics counts storefront cart mutations by outcome.
type CartMetrics struct {
	outcomes *prometheus.CounterVec
}

func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Storefront cart mutations by operation and outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(outcomes)
	return &CartMetrics{outcomes: outcomes}
}

// IncOutcome increments the counter for operation/outcome.
func (c *CartMetrics) IncOutcome(operation, outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}
