package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// PutCounter tracks items successfully enqueued on bounded channels.
	PutCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "strand_put_total",
		Help: "Total number of items enqueued",
	})
	// TakeCounter tracks items successfully dequeued from bounded channels.
	TakeCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "strand_take_total",
		Help: "Total number of items dequeued",
	})
	// BlockedProducers reports producers currently parked on a full channel.
	BlockedProducers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "strand_blocked_producers",
		Help: "Current number of producers blocked on a full channel",
	})
	// BlockedConsumers reports consumers currently parked on an empty channel.
	BlockedConsumers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "strand_blocked_consumers",
		Help: "Current number of consumers blocked on an empty channel",
	})
	// CancelCounter tracks blocking calls that returned ErrCancelled.
	CancelCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "strand_cancelled_total",
		Help: "Total number of blocking calls aborted by cancellation",
	})
	// AcquireCounter tracks ordered lock-set acquisitions.
	AcquireCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "strand_ordered_acquire_total",
		Help: "Total number of ordered lock acquisitions",
	})
	// AcquireTimeoutCounter tracks bounded-wait acquisitions that expired.
	AcquireTimeoutCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "strand_ordered_acquire_timeout_total",
		Help: "Total number of ordered lock acquisitions that timed out",
	})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterCoreMetrics registers strand core metrics on the provided registry.
func RegisterCoreMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		PutCounter,
		TakeCounter,
		BlockedProducers,
		BlockedConsumers,
		CancelCounter,
		AcquireCounter,
		AcquireTimeoutCounter,
	)
}
