/*
Package api implements the DMS master's JSON-over-HTTP surface.

Server wraps an *orchestrator.Orchestrator behind a chi router: clients
submit and inspect sync requests, workers send heartbeats and results and
poll for assignments, and operators trigger reassignment — all as plain
JSON bodies over HTTP/1.1. /healthz and /metrics round out the surface for
operators and Prometheus scraping.

# Routes

	POST   /sync                    submit a request
	GET    /sync/{id}                read one request's progress
	GET    /sync                    list every request's progress
	DELETE /sync/{id}                forget a request
	POST   /sync/{id}/reassign       requeue a FAILED or QUEUED request onto a worker
	POST   /workers/heartbeat        agent self-report
	POST   /workers/{id}/assignment  agent long-poll for its next unit of work
	POST   /workers/result           agent-reported outcome
	GET    /workers/{id}/requests    requests on which a worker holds an active assignment
	GET    /healthz                  live metadata store reachability check; 503 when unreachable
	GET    /health                   overall health across every registered component
	GET    /ready                    readiness: critical components only (metadata_store)
	GET    /live                     liveness: always 200 while the process is running
	GET    /metrics                  Prometheus exposition

Invalid JSON or a failed field validation yields 422; a duplicate
request_id yields 409; a reassignment precondition failure yields 400.
*/
package api
