package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		promosCreatedTotal,
		activationsTotal,
		activationLatencyMs,
	)
}

var (
	promosCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promos_created_total",
			Help: "Promos created, by mode (common/unique).",
		},
		[]string{"mode"},
	)

	activationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_activations_total",
			Help: "Activation attempts by outcome (redeemed or the rejection kind).",
		},
		[]string{"outcome"},
	)

	activationLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "promo_activation_latency_ms",
			Help:    "Activation transaction latency distribution in milliseconds.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 200, 400, 800},
		},
	)
)

func IncPromoCreated(mode string) {
	promosCreatedTotal.WithLabelValues(mode).Inc()
}

func ObserveActivation(outcome string, latencyMs int64) {
	activationsTotal.WithLabelValues(outcome).Inc()
	activationLatencyMs.Observe(float64(latencyMs))
}
