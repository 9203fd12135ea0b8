package metrics

import "github.com/prometheus/client_golang/prometheus"

// WizardMetrics tracks design-session transitions.
type WizardMetrics struct {
	transitions *prometheus.CounterVec
	stale       *prometheus.CounterVec
}

func NewWizardMetrics(reg prometheus.Registerer) *WizardMetrics {
	if reg == nil {
		return &WizardMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_transitions_total",
		Help: "Wizard events by kind and result.",
	}, []string{"event", "result"})
	stale := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_stale_fetches_total",
		Help: "Catalog fetch results discarded because a newer selection superseded them.",
	}, []string{"entity"})
	reg.MustRegister(transitions, stale)
	return &WizardMetrics{transitions: transitions, stale: stale}
}

// ObserveTransition counts an accepted or rejected wizard event.
func (w *WizardMetrics) ObserveTransition(event string, accepted bool) {
	if w == nil || w.transitions == nil {
		return
	}
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	w.transitions.WithLabelValues(normalizeLabel(event), result).Inc()
}

// IncStaleDiscard counts a fetch result dropped as stale.
func (w *WizardMetrics) IncStaleDiscard(entity string) {
	if w == nil || w.stale == nil {
		return
	}
	w.stale.WithLabelValues(normalizeLabel(entity)).Inc()
}
