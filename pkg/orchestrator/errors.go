package orchestrator

import "errors"

var (
	// ErrDuplicateRequest is returned by SubmitRequest when request_id is
	// already registered.
	ErrDuplicateRequest = errors.New("orchestrator: request_id already exists")

	// ErrRequestNotFound is returned when an operation names an unknown
	// request_id.
	ErrRequestNotFound = errors.New("orchestrator: request not found")

	// ErrInvalidReassignState is returned by ReassignRequest when the
	// request is not in QUEUED or FAILED.
	ErrInvalidReassignState = errors.New("orchestrator: request is not in a reassignable state")

	// ErrWorkerNotRegistered is returned when an operation names a
	// worker_id with no heartbeat on record.
	ErrWorkerNotRegistered = errors.New("orchestrator: worker not registered")

	// ErrWorkerCannotReachSource is returned by ReassignRequest when the
	// target worker's storage_paths do not cover the request's source.
	ErrWorkerCannotReachSource = errors.New("orchestrator: worker cannot reach source path")
)
