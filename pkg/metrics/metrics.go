package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tailer metrics
	RecordsConsumedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_consumer_records_consumed_total",
			Help: "Total number of admin log records read from the log stream",
		},
	)

	MalformedRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_consumer_malformed_records_total",
			Help: "Total number of admin log records skipped because they failed to decode",
		},
	)

	TailerCursor = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "admin_consumer_tailer_cursor",
			Help: "Offset of the most recently consumed admin log record",
		},
	)

	// Queue metrics
	QueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "admin_consumer_queue_depth",
			Help: "Number of pending operations in a store's queue",
		},
		[]string{"store"},
	)

	LiveQueuesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "admin_consumer_live_queues_total",
			Help: "Total number of live per-store queues",
		},
	)

	// Dispatch metrics
	DispatchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "admin_consumer_dispatch_latency_seconds",
			Help:    "Time taken to execute a handler, by operation kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	DispatchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_consumer_dispatch_outcomes_total",
			Help: "Total number of handler outcomes, by operation kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	FailedRetriableAdminConsumption = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_consumer_failed_retriable_total",
			Help: "Total number of retriable handler failures",
		},
	)

	FailedAdminConsumption = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_consumer_failed_fatal_total",
			Help: "Total number of fatal handler failures",
		},
	)

	DuplicateExecutionsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_consumer_duplicate_executions_skipped_total",
			Help: "Total number of records skipped because their execution id was already applied",
		},
	)

	// Coordinator / checkpoint metrics
	LeaderGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "admin_consumer_is_leader",
			Help: "Whether this process currently holds the activation gate (1 = leader, 0 = follower)",
		},
	)

	SafeOffset = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "admin_consumer_safe_offset",
			Help: "Current global safe checkpoint offset",
		},
	)

	CheckpointLagSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "admin_consumer_checkpoint_lag_seconds",
			Help: "Time elapsed since the last successful checkpoint",
		},
	)

	CheckpointDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "admin_consumer_checkpoint_duration_seconds",
			Help:    "Time taken to persist a checkpoint to the watermark store",
			Buckets: prometheus.DefBuckets,
		},
	)

	WorkerPoolActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "admin_consumer_worker_pool_active",
			Help: "Number of worker goroutines currently holding a store lease",
		},
	)
)

func init() {
	prometheus.MustRegister(RecordsConsumedTotal)
	prometheus.MustRegister(MalformedRecordsTotal)
	prometheus.MustRegister(TailerCursor)
	prometheus.MustRegister(QueueDepth)
	prometheus.MustRegister(LiveQueuesTotal)
	prometheus.MustRegister(DispatchLatency)
	prometheus.MustRegister(DispatchOutcomesTotal)
	prometheus.MustRegister(FailedRetriableAdminConsumption)
	prometheus.MustRegister(FailedAdminConsumption)
	prometheus.MustRegister(DuplicateExecutionsSkippedTotal)
	prometheus.MustRegister(LeaderGauge)
	prometheus.MustRegister(SafeOffset)
	prometheus.MustRegister(CheckpointLagSeconds)
	prometheus.MustRegister(CheckpointDuration)
	prometheus.MustRegister(WorkerPoolActive)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
