package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	eventsEnqueued *prometheus.CounterVec
	queueDepth     prometheus.Gauge
	batchesSent    prometheus.Counter
	sendFailures   prometheus.Counter
	batchItems     prometheus.Histogram
	sendLatency    prometheus.Histogram
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Gauge, prometheus.Counter, prometheus.Counter, prometheus.Histogram, prometheus.Histogram) {
	enq := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_enqueued_total",
			Help: "Number of events accepted by the submission API",
		},
		[]string{"kind"},
	)
	depth := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_queue_depth",
			Help: "Number of items currently buffered",
		},
	)
	sent := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_batches_sent_total",
			Help: "Number of batches delivered to the remote service",
		},
	)
	fail := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_send_failures_total",
			Help: "Number of batches dropped after a send error",
		},
	)
	items := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_batch_items",
			Help:    "Items per batch at send time",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
	lat := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_send_latency_seconds",
			Help:    "Latency of remote batch sends",
			Buckets: prometheus.DefBuckets,
		},
	)
	return enq, depth, sent, fail, items, lat
}

func init() {
	eventsEnqueued, queueDepth, batchesSent, sendFailures, batchItems, sendLatency = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(eventsEnqueued, queueDepth, batchesSent, sendFailures, batchItems, sendLatency)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	eventsEnqueued, queueDepth, batchesSent, sendFailures, batchItems, sendLatency = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
