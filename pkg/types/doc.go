/*
Package types defines the wire and in-memory data model for the DMS master
control plane.

This package contains every structure that crosses the HTTP boundary between
clients, workers, and the master (SyncRequest, WorkerHeartbeat, Assignment,
SyncResult, SyncProgress), plus the small set of derived value types the
orchestrator and scheduler use to reason about worker endpoints.

# Architecture

	┌──────────────────────────────────────────────────────────┐
	│                      types package                       │
	├──────────────────────────────────────────────────────────┤
	│  Client-supplied:                                         │
	│    SyncRequest       - what to copy, where, how chunked   │
	│  Agent-supplied:                                          │
	│    WorkerHeartbeat   - periodic self-report                │
	│    SyncResult        - per-assignment outcome              │
	│  Master-derived:                                          │
	│    WorkerEndpoint    - (worker_id, address) pair           │
	│    Assignment        - one unit of dispatched work         │
	│  Master-owned:                                             │
	│    SyncProgress      - durable per-request state           │
	└──────────────────────────────────────────────────────────┘

All types are plain structs with `json` tags; there is no hidden state and no
method does I/O. Validation (ValidateSyncRequest, ValidateWorkerHeartbeat) is
the only behavior beyond simple accessors, and it never mutates its argument.

# Timestamps

Every timestamp is produced in UTC and serializes as RFC3339 via time.Time's
default JSON marshaling.

# Endpoint keys

A WorkerEndpoint's identity is the composite string `worker_id + "::" +
address`, computed by EndpointKey. This is the unit of busy-ness tracked by
the orchestrator and must never be collapsed to worker_id alone — see
Assignment and the scheduler package.
*/
package types
