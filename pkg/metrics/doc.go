/*
Package metrics defines and registers the DMS master's Prometheus metrics
and exposes them over HTTP for scraping.

# Catalog

Requests:

	dms_requests_total{result}                        counter, submit outcomes
	dms_requests_by_state{state}                       gauge, current count per lifecycle state
	dms_request_completion_duration_seconds            histogram, submit to COMPLETED/FAILED
	dms_requests_reassigned_total                       counter

Workers:

	dms_workers_by_status{status}                      gauge
	dms_worker_heartbeats_total{worker_id}              counter

Scheduling:

	dms_assignments_in_flight                           gauge
	dms_assignments_dispatched_total                    counter
	dms_results_reported_total{success}                 counter
	dms_scheduling_pass_duration_seconds                 histogram

HTTP:

	dms_http_requests_total{route,method,status}        counter
	dms_http_request_duration_seconds{route,method}      histogram

Metadata store:

	dms_metadata_store_op_duration_seconds{op}           histogram
	dms_metadata_store_errors_total{op}                  counter

# Collector

Collector polls a Source (the orchestrator's read-side accessors) on a
ticker and sets the requests-by-state and workers-by-status gauges from its
current snapshot; it does not touch counters or histograms, which callers
update inline at the point of the event (submit, report, HTTP handler).

# Usage

	timer := metrics.NewTimer()
	err := store.StoreRequest(ctx, progress)
	timer.ObserveDurationVec(metrics.MetadataStoreOpDuration, "store_request")

	http.Handle("/metrics", metrics.Handler())
*/
package metrics
