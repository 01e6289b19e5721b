package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Checkouts      *prometheus.CounterVec
	Deliveries     *prometheus.CounterVec
	Matches        *prometheus.CounterVec
	RenderDuration prometheus.Histogram
}

// New registers the order metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Checkouts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "swissshield_order_checkouts_total",
			Help: "Checkout attempts by canton and outcome (started, rejected, failed)",
		}, []string{"canton", "outcome"}),
		Deliveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "swissshield_order_deliveries_total",
			Help: "Letters delivered by canton and confession",
		}, []string{"canton", "confession"}),
		Matches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "swissshield_order_address_matches_total",
			Help: "Address resolutions by match kind",
		}, []string{"kind"}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "swissshield_order_render_duration_seconds",
			Help:    "Time spent rendering the letter PDF",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		}),
	}
}

func (m *Metrics) IncrementCheckout(canton, outcome string) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(canton, outcome).Inc()
}

func (m *Metrics) IncrementDelivery(canton, confession string) {
	if m == nil {
		return
	}
	m.Deliveries.WithLabelValues(canton, confession).Inc()
}

func (m *Metrics) IncrementMatch(kind string) {
	if m == nil {
		return
	}
	m.Matches.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.RenderDuration.Observe(d.Seconds())
}
