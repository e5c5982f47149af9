// Package observability exposes the Prometheus series for the HTTP
// surface, the backend cache operations, the spatio-temporal cache, and
// the distributed query manager.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"method", "route", "status"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)

	cacheOpTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_op_total",
			Help: "Count of backend cache operations by op and result.",
		},
		[]string{"op", "result"},
	)

	cacheOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Duration of backend cache operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"op"},
	)

	stcCurrentBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stc_current_bytes",
			Help: "Bytes currently held by the spatio-temporal cache, per payload type.",
		},
		[]string{"payload_type"},
	)

	stcEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stc_entries",
			Help: "Live entry count in the spatio-temporal cache, per payload type.",
		},
		[]string{"payload_type"},
	)

	stcEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stc_evictions_total",
			Help: "Evictions performed by the eviction policy.",
		},
		[]string{"payload_type", "policy"},
	)

	stcResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stc_results_total",
			Help: "Cache get() results by outcome, per payload type.",
		},
		[]string{"payload_type", "outcome"},
	)

	dqmJobsPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dqm_jobs_pending",
			Help: "Jobs currently waiting for a worker.",
		},
	)

	dqmJobsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dqm_jobs_running",
			Help: "Jobs currently in flight on a worker.",
		},
	)

	dqmNodeFaultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dqm_node_faults_total",
			Help: "Worker faults observed, per node.",
		},
		[]string{"node_id"},
	)

	dqmAssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dqm_assignments_total",
			Help: "Jobs assigned to a node by the scheduler.",
		},
		[]string{"node_id", "strategy"},
	)
)

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}

func ObserveCacheOp(op string, err error, seconds float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	cacheOpTotal.WithLabelValues(op, result).Inc()
	cacheOpDuration.WithLabelValues(op).Observe(seconds)
}

func SetSTCSize(payloadType string, currentBytes int64, entries int) {
	stcCurrentBytes.WithLabelValues(payloadType).Set(float64(currentBytes))
	stcEntries.WithLabelValues(payloadType).Set(float64(entries))
}

func IncSTCEviction(payloadType, policy string) {
	stcEvictionsTotal.WithLabelValues(payloadType, policy).Inc()
}

func IncSTCHit(payloadType string) {
	stcResultsTotal.WithLabelValues(payloadType, "hit").Inc()
}

func IncSTCMiss(payloadType string) {
	stcResultsTotal.WithLabelValues(payloadType, "miss").Inc()
}

func IncSTCDropped(payloadType string) {
	stcResultsTotal.WithLabelValues(payloadType, "dropped_oversized").Inc()
}

func SetDQMQueueDepth(pending, running int) {
	dqmJobsPending.Set(float64(pending))
	dqmJobsRunning.Set(float64(running))
}

func IncNodeFault(nodeID string) {
	dqmNodeFaultsTotal.WithLabelValues(nodeID).Inc()
}

func IncAssignment(nodeID, strategy string) {
	dqmAssignmentsTotal.WithLabelValues(nodeID, strategy).Inc()
}
