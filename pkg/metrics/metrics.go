package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	NodesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fabric_nodes_total",
			Help: "Total number of registered compute nodes by status",
		},
		[]string{"status"},
	)

	AgentsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fabric_agents_total",
			Help: "Total number of registered agents by status",
		},
		[]string{"status"},
	)

	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabric_mutations_total",
			Help: "Total number of accepted FabricManager mutations by operation",
		},
		[]string{"operation"},
	)

	PreconditionRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabric_precondition_rejections_total",
			Help: "Total number of operations aborted on precondition failure",
		},
		[]string{"operation"},
	)

	OutboundRPCDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fabric_outbound_rpc_duration_seconds",
			Help:    "Duration of outbound node-proxy RPCs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "outcome"},
	)

	SnapshotDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fabric_snapshot_duration_seconds",
			Help:    "Time taken to persist a registry snapshot",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fabric_snapshot_failures_total",
			Help: "Total number of failed snapshot writes (log-and-continue)",
		},
	)

	EventsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabric_events_dropped_total",
			Help: "Total number of events dropped due to subscriber lag or absence",
		},
		[]string{"bus"},
	)

	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabric_events_published_total",
			Help: "Total number of events published by type",
		},
		[]string{"event_type"},
	)

	ReconciliationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fabric_reconciliation_duration_seconds",
			Help:    "Time taken for a reaper prune cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReconciliationCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fabric_reconciliation_cycles_total",
			Help: "Total number of reaper prune cycles completed",
		},
	)

	PrunedEntitiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fabric_pruned_entities_total",
			Help: "Total number of entities removed by the reaper",
		},
		[]string{"entity"},
	)
)

func init() {
	prometheus.MustRegister(
		NodesTotal,
		AgentsTotal,
		MutationsTotal,
		PreconditionRejectionsTotal,
		OutboundRPCDuration,
		SnapshotDuration,
		SnapshotFailuresTotal,
		EventsDroppedTotal,
		EventsPublishedTotal,
		ReconciliationDuration,
		ReconciliationCyclesTotal,
		PrunedEntitiesTotal,
	)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
