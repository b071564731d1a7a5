package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records fulfillment and returns engine activity.
type EngineMetrics struct {
	labelsGenerated *prometheus.CounterVec
	labelsFailed    *prometheus.CounterVec
	gatewayLatency  *prometheus.HistogramVec
	refundOutcomes  *prometheus.CounterVec
	batchSizes      prometheus.Histogram
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	labelsGenerated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_labels_generated_total",
		Help: "Shipping labels generated, by carrier.",
	}, []string{"carrier"})
	labelsFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_labels_failed_total",
		Help: "Label generation failures, by carrier.",
	}, []string{"carrier"})
	gatewayLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "carrier_gateway_latency_seconds",
		Help:    "Latency of carrier gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"carrier"})
	refundOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "refund_attempts_total",
		Help: "Refund gateway attempts, by outcome.",
	}, []string{"outcome"})
	batchSizes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "returns_consolidation_batch_size",
		Help:    "Return requests per consolidation batch.",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
	})
	reg.MustRegister(labelsGenerated, labelsFailed, gatewayLatency, refundOutcomes, batchSizes)
	return &EngineMetrics{
		labelsGenerated: labelsGenerated,
		labelsFailed:    labelsFailed,
		gatewayLatency:  gatewayLatency,
		refundOutcomes:  refundOutcomes,
		batchSizes:      batchSizes,
	}
}

// IncLabelGenerated increments the generated-label counter for a carrier.
func (m *EngineMetrics) IncLabelGenerated(carrier string) {
	if m == nil || m.labelsGenerated == nil {
		return
	}
	m.labelsGenerated.WithLabelValues(normalizeLabel(carrier)).Inc()
}

// IncLabelFailure increments the failed-label counter for a carrier.
func (m *EngineMetrics) IncLabelFailure(carrier string) {
	if m == nil || m.labelsFailed == nil {
		return
	}
	m.labelsFailed.WithLabelValues(normalizeLabel(carrier)).Inc()
}

// ObserveGatewayLatency records one carrier gateway round trip.
func (m *EngineMetrics) ObserveGatewayLatency(carrier string, duration time.Duration) {
	if m == nil || m.gatewayLatency == nil {
		return
	}
	m.gatewayLatency.WithLabelValues(normalizeLabel(carrier)).Observe(duration.Seconds())
}

// IncRefundOutcome counts one refund attempt by outcome.
func (m *EngineMetrics) IncRefundOutcome(outcome string) {
	if m == nil || m.refundOutcomes == nil {
		return
	}
	m.refundOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveBatchSize records the size of one consolidation batch.
func (m *EngineMetrics) ObserveBatchSize(size int) {
	if m == nil || m.batchSizes == nil {
		return
	}
	m.batchSizes.Observe(float64(size))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
