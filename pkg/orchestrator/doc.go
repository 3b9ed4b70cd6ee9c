/*
Package orchestrator implements the DMS master's core: request lifecycle,
the worker registry, scheduling passes that match pending files to idle
worker endpoints, and the per-request progress state machine.

# State

Orchestrator holds everything under one mutex: registered requests, the
most recent heartbeat per worker, a result log per request, and the set of
endpoint keys currently busy with an active assignment. Dispatch itself
happens outside the mutex, through a pkg/queue.Queue of per-worker
assignment channels.

# Request lifecycle

	        Submit
	  ∅ ─────────────▶ QUEUED
	                    │
	                    │ NextAssignment dequeues
	                    ▼
	                 PROGRESS
	               ┌───┴─────────┐
	  ReportResult  │             │ ReportResult
	  (success,     │             │ (failure, any chunk)
	   last file)   ▼             ▼
	           COMPLETED       FAILED
	                             │ ReassignRequest
	                             ▼
	                           QUEUED

ForgetRequest is terminal from any state.

# Scheduling pass

A scheduling pass walks requests with pending files in submission order.
For each request it resolves the eligible worker pool for both source and
destination paths (pkg/pathresolve), narrows to non-error, non-busy
endpoints, and asks the configured pkg/scheduler.Policy to pick an ordered
subset. Each chosen endpoint is handed one pending path as an Assignment,
pushed onto that worker's queue, and marked busy until a result or a
reassignment frees it.

A scheduling pass runs after every operation that can change what is
schedulable: a submission, a heartbeat, a reported result, and a
reassignment.
*/
package orchestrator
