package metadata

import (
	"context"

	"github.com/chahwansong/dms/pkg/metrics"
	"github.com/chahwansong/dms/pkg/types"
)

// Store is the durable metadata contract for the master. All writes are
// JSON-encoded values keyed under a namespace; failures are surfaced to the
// caller and never roll back in-memory orchestrator state.
type Store interface {
	// StoreRequest durably upserts a newly submitted request's progress.
	StoreRequest(ctx context.Context, progress types.SyncProgress) error

	// UpdateProgress durably upserts a request's current progress. Called
	// exactly once per mutation of an in-memory request's progress, right
	// after the orchestrator releases its lock.
	UpdateProgress(ctx context.Context, progress types.SyncProgress) error

	// AppendResult appends a worker-reported result to the per-request
	// result list.
	AppendResult(ctx context.Context, result types.SyncResult) error

	// RecordWorker durably upserts a worker's most recent heartbeat.
	RecordWorker(ctx context.Context, heartbeat types.WorkerHeartbeat) error

	// DeleteRequest removes both the progress record and the result list
	// for a request.
	DeleteRequest(ctx context.Context, requestID string) error

	// HealthCheck returns an error if the backing store is unreachable.
	HealthCheck(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// Namespace is the default key prefix used by both reference backends.
const Namespace = "dms"

func requestKey(namespace, requestID string) string {
	return namespace + ":requests:" + requestID
}

func resultKey(namespace, requestID string) string {
	return namespace + ":results:" + requestID
}

func workerKey(namespace, workerID string) string {
	return namespace + ":workers:" + workerID
}

// instrument times fn and records it against the metadata store operation
// histogram and error counter, labeled by op.
func instrument(op string, fn func() error) error {
	timer := metrics.NewTimer()
	err := fn()
	timer.ObserveDurationVec(metrics.MetadataStoreOpDuration, op)
	if err != nil {
		metrics.MetadataStoreErrorsTotal.WithLabelValues(op).Inc()
	}
	return err
}
