package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions  *prometheus.CounterVec
	StoreError *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "swissshield_ratelimit_decisions_total",
			Help: "Rate limit decisions by scope and outcome (allowed, denied)",
		}, []string{"scope", "outcome"}),
		StoreError: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "swissshield_ratelimit_store_errors_total",
			Help: "Rate limit store failures; requests fail open",
		}, []string{"scope"}),
	}
}

func (m *Metrics) IncrementDecision(scope string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.Decisions.WithLabelValues(scope, outcome).Inc()
}

func (m *Metrics) IncrementStoreError(scope string) {
	if m == nil {
		return
	}
	m.StoreError.WithLabelValues(scope).Inc()
}
