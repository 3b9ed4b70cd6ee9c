package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Request metrics
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dms_requests_total",
			Help: "Total number of sync requests submitted",
		},
		[]string{"result"},
	)

	RequestsByState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dms_requests_by_state",
			Help: "Current number of requests in each state",
		},
		[]string{"state"},
	)

	RequestCompletionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dms_request_completion_duration_seconds",
			Help:    "Time from submission to COMPLETED or FAILED, in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RequestsReassignedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dms_requests_reassigned_total",
			Help: "Total number of reassign_request calls",
		},
	)

	// Worker metrics
	WorkersByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dms_workers_by_status",
			Help: "Current number of registered workers by status",
		},
		[]string{"status"},
	)

	WorkerHeartbeatsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dms_worker_heartbeats_total",
			Help: "Total number of heartbeats received by worker_id",
		},
		[]string{"worker_id"},
	)

	// Assignment / scheduling metrics
	AssignmentsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dms_assignments_in_flight",
			Help: "Number of assignments dispatched but not yet resolved",
		},
	)

	AssignmentsDispatchedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dms_assignments_dispatched_total",
			Help: "Total number of assignments delivered to a polling worker",
		},
	)

	ResultsReportedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dms_results_reported_total",
			Help: "Total number of assignment results reported by outcome",
		},
		[]string{"success"},
	)

	SchedulingPassDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dms_scheduling_pass_duration_seconds",
			Help:    "Time taken to run one scheduling pass over all requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dms_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dms_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Metadata store metrics
	MetadataStoreOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dms_metadata_store_op_duration_seconds",
			Help:    "Time taken by metadata store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	MetadataStoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dms_metadata_store_errors_total",
			Help: "Total number of metadata store operation failures",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestsByState)
	prometheus.MustRegister(RequestCompletionDuration)
	prometheus.MustRegister(RequestsReassignedTotal)

	prometheus.MustRegister(WorkersByStatus)
	prometheus.MustRegister(WorkerHeartbeatsTotal)

	prometheus.MustRegister(AssignmentsInFlight)
	prometheus.MustRegister(AssignmentsDispatchedTotal)
	prometheus.MustRegister(ResultsReportedTotal)
	prometheus.MustRegister(SchedulingPassDuration)

	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)

	prometheus.MustRegister(MetadataStoreOpDuration)
	prometheus.MustRegister(MetadataStoreErrorsTotal)
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

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
