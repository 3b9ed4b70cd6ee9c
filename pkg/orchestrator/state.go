package orchestrator

import (
	"sync"
	"time"

	"github.com/chahwansong/dms/pkg/log"
	"github.com/chahwansong/dms/pkg/metadata"
	"github.com/chahwansong/dms/pkg/queue"
	"github.com/chahwansong/dms/pkg/scheduler"
	"github.com/chahwansong/dms/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultAssignmentTimeout is used by NextAssignment when the caller
// passes a non-positive timeout.
const DefaultAssignmentTimeout = time.Second

// requestState is the orchestrator's internal bookkeeping for one request.
type requestState struct {
	request  types.SyncRequest
	progress types.SyncProgress

	pendingFiles []string

	// activeAssignments and activeOrder together track this request's
	// in-flight assignments: the map for O(1) lookup by endpoint key, the
	// slice to preserve original dispatch order when a reassignment
	// restores their source paths to the front of pendingFiles.
	activeAssignments map[string]types.Assignment
	activeOrder       []string

	preferredWorker string
}

// Orchestrator is the DMS master's request/worker/assignment core.
type Orchestrator struct {
	mu sync.Mutex

	requests map[string]*requestState
	order    []string // request IDs in submission order

	workerStatus map[string]types.WorkerHeartbeat
	workerOrder  []string // worker IDs in first-heartbeat order

	resultLog     map[string][]types.SyncResult
	busyEndpoints map[string]string // endpoint key -> holding request_id

	store  metadata.Store
	policy scheduler.Policy
	queue  *queue.Queue

	heartbeatStaleAfter time.Duration
	logger              zerolog.Logger
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithLogger overrides the default logger, the package-level log.Logger
// (which discards output until log.Init has been called).
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithHeartbeatStaleness makes scheduling treat a worker whose most recent
// heartbeat is older than d as temporarily absent. Zero disables the
// filter. This never mutates the worker registry — it is applied only
// when building the candidate set for a scheduling pass.
func WithHeartbeatStaleness(d time.Duration) Option {
	return func(o *Orchestrator) { o.heartbeatStaleAfter = d }
}

// New constructs an Orchestrator backed by store for durability, policy
// for endpoint selection, and q for worker-facing assignment delivery.
func New(store metadata.Store, policy scheduler.Policy, q *queue.Queue, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		requests:      make(map[string]*requestState),
		workerStatus:  make(map[string]types.WorkerHeartbeat),
		resultLog:     make(map[string][]types.SyncResult),
		busyEndpoints: make(map[string]string),
		store:         store,
		policy:        policy,
		queue:         q,
		logger:        log.Logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// orderedHeartbeatsLocked returns the registered workers in first-heartbeat
// order, filtering out stale ones per heartbeatStaleAfter. Caller must hold
// o.mu.
func (o *Orchestrator) orderedHeartbeatsLocked() []types.WorkerHeartbeat {
	out := make([]types.WorkerHeartbeat, 0, len(o.workerOrder))
	now := time.Now()
	for _, id := range o.workerOrder {
		hb, ok := o.workerStatus[id]
		if !ok {
			continue
		}
		if o.heartbeatStaleAfter > 0 && now.Sub(hb.Timestamp) > o.heartbeatStaleAfter {
			continue
		}
		out = append(out, hb)
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func removeFromOrder(order []string, target string) []string {
	for i, v := range order {
		if v == target {
			return append(order[:i:i], order[i+1:]...)
		}
	}
	return order
}
