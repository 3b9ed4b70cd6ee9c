package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/chahwansong/dms/pkg/metrics"
	"github.com/chahwansong/dms/pkg/pathresolve"
	"github.com/chahwansong/dms/pkg/types"
)

// SubmitRequest registers a new sync request, persists its initial
// progress, and triggers a scheduling pass. It returns ErrDuplicateRequest
// if request_id is already known.
func (o *Orchestrator) SubmitRequest(ctx context.Context, req types.SyncRequest) (types.SyncProgress, error) {
	req, err := types.ValidateSyncRequest(req)
	if err != nil {
		return types.SyncProgress{}, err
	}

	now := time.Now().UTC()
	progress := types.SyncProgress{
		RequestID: req.RequestID,
		StartedAt: now,
		UpdatedAt: now,
		State:     types.StateQueued,
		Detail:    map[string]string{},
	}

	o.mu.Lock()
	if _, exists := o.requests[req.RequestID]; exists {
		o.mu.Unlock()
		return types.SyncProgress{}, ErrDuplicateRequest
	}
	o.requests[req.RequestID] = &requestState{
		request:           req,
		progress:          progress,
		pendingFiles:      types.PendingFiles(req),
		activeAssignments: make(map[string]types.Assignment),
	}
	o.order = append(o.order, req.RequestID)
	o.mu.Unlock()

	if err := o.store.StoreRequest(ctx, progress); err != nil {
		o.logger.Error().Err(err).Str("request_id", req.RequestID).Msg("store_request failed")
	}

	o.scheduleWork(ctx)
	return progress, nil
}

// WorkerHeartbeat upserts a worker's registry entry, persists it, and
// triggers a scheduling pass so newly-available capacity is used.
func (o *Orchestrator) WorkerHeartbeat(ctx context.Context, hb types.WorkerHeartbeat) error {
	if err := types.ValidateWorkerHeartbeat(hb); err != nil {
		return err
	}

	o.mu.Lock()
	if _, known := o.workerStatus[hb.WorkerID]; !known {
		o.workerOrder = append(o.workerOrder, hb.WorkerID)
	}
	o.workerStatus[hb.WorkerID] = hb
	o.mu.Unlock()

	if err := o.store.RecordWorker(ctx, hb); err != nil {
		o.logger.Error().Err(err).Str("worker_id", hb.WorkerID).Msg("record_worker failed")
	}

	o.scheduleWork(ctx)
	return nil
}

// NextAssignment blocks until an assignment is available for workerID, ctx
// is canceled, or timeout elapses. It returns (nil, nil) on a timed-out
// poll — callers are expected to poll again.
func (o *Orchestrator) NextAssignment(ctx context.Context, workerID string, timeout time.Duration) (*types.Assignment, error) {
	if timeout <= 0 {
		timeout = DefaultAssignmentTimeout
	}

	assignment, ok := o.queue.Pop(ctx, workerID, timeout)
	if !ok {
		return nil, nil
	}
	if assignment.WorkerID != workerID {
		// Per-worker queues should make this unreachable; guard anyway so
		// a misrouted assignment is never silently dropped.
		o.queue.Requeue(assignment.WorkerID, assignment)
		return nil, nil
	}

	o.mu.Lock()
	rs, known := o.requests[assignment.RequestID]
	var progress types.SyncProgress
	if known {
		if rs.progress.State == types.StateQueued {
			rs.progress.State = types.StateProgress
			if rs.progress.Detail == nil {
				rs.progress.Detail = map[string]string{}
			}
			rs.progress.Detail[assignment.EndpointKey()] = "PROGRESS"
			rs.progress.UpdatedAt = time.Now().UTC()
		}
		progress = rs.progress.Clone()
	}
	o.mu.Unlock()

	if known {
		if err := o.store.UpdateProgress(ctx, progress); err != nil {
			o.logger.Error().Err(err).Str("request_id", assignment.RequestID).Msg("update_progress failed")
		}
	}

	return &assignment, nil
}

// resolveDetailKey finds the progress-detail / busy-endpoint key a result
// belongs to: the endpoint key built from the reported address, or — if
// the agent omitted it — the first active assignment on the same worker.
func resolveDetailKey(rs *requestState, res types.SyncResult) string {
	if res.DataPlaneAddress != "" {
		return types.EndpointKey(res.WorkerID, res.DataPlaneAddress)
	}
	for _, key := range rs.activeOrder {
		if assignment, ok := rs.activeAssignments[key]; ok && assignment.WorkerID == res.WorkerID {
			return key
		}
	}
	return res.WorkerID
}

// ReportResult records a worker-reported outcome for one assignment,
// updates the owning request's progress and state, frees the endpoint for
// future scheduling, and triggers a scheduling pass. Results for unknown
// requests are logged and dropped.
func (o *Orchestrator) ReportResult(ctx context.Context, res types.SyncResult) error {
	o.mu.Lock()
	rs, ok := o.requests[res.RequestID]
	if !ok {
		o.mu.Unlock()
		o.logger.Warn().Str("request_id", res.RequestID).Str("worker_id", res.WorkerID).Msg("result reported for unknown request")
		return nil
	}

	key := resolveDetailKey(rs, res)
	if rs.progress.Detail == nil {
		rs.progress.Detail = map[string]string{}
	}
	if res.Success {
		rs.progress.Detail[key] = "COMPLETED"
	} else {
		rs.progress.State = types.StateFailed
		rs.progress.Detail[key] = res.Message
	}

	if _, wasActive := rs.activeAssignments[key]; wasActive {
		delete(rs.activeAssignments, key)
		rs.activeOrder = removeFromOrder(rs.activeOrder, key)
		delete(o.busyEndpoints, key)
		metrics.AssignmentsInFlight.Dec()
	}

	if len(rs.pendingFiles) == 0 && len(rs.activeAssignments) == 0 && rs.progress.State != types.StateFailed {
		rs.progress.State = types.StateCompleted
	}
	rs.progress.UpdatedAt = time.Now().UTC()
	if rs.progress.State == types.StateCompleted || rs.progress.State == types.StateFailed {
		metrics.RequestCompletionDuration.Observe(rs.progress.UpdatedAt.Sub(rs.progress.StartedAt).Seconds())
	}
	progress := rs.progress.Clone()

	o.resultLog[res.RequestID] = append(o.resultLog[res.RequestID], res)
	o.mu.Unlock()

	if err := o.store.AppendResult(ctx, res); err != nil {
		o.logger.Error().Err(err).Str("request_id", res.RequestID).Msg("append_result failed")
	}
	if err := o.store.UpdateProgress(ctx, progress); err != nil {
		o.logger.Error().Err(err).Str("request_id", res.RequestID).Msg("update_progress failed")
	}

	o.scheduleWork(ctx)
	return nil
}

// ReassignRequest moves a QUEUED or FAILED request onto a specific worker:
// any in-flight assignments are returned to the front of the pending list,
// their not-yet-delivered queue entries are dropped, and the request is
// requeued with workerID as its preferred target for the next scheduling
// pass.
func (o *Orchestrator) ReassignRequest(ctx context.Context, requestID, workerID string) error {
	o.mu.Lock()
	rs, ok := o.requests[requestID]
	if !ok {
		o.mu.Unlock()
		return ErrRequestNotFound
	}
	if rs.progress.State != types.StateQueued && rs.progress.State != types.StateFailed {
		o.mu.Unlock()
		return ErrInvalidReassignState
	}
	if _, registered := o.workerStatus[workerID]; !registered {
		o.mu.Unlock()
		return ErrWorkerNotRegistered
	}

	sourcePool := pathresolve.Resolve(rs.request.SourcePath, o.orderedHeartbeatsLocked())
	if !containsString(sourcePool, workerID) {
		o.mu.Unlock()
		return ErrWorkerCannotReachSource
	}

	affectedWorkers := map[string]bool{}
	restoredPaths := make([]string, 0, len(rs.activeOrder))
	for _, key := range rs.activeOrder {
		assignment := rs.activeAssignments[key]
		restoredPaths = append(restoredPaths, assignment.SourcePath)
		affectedWorkers[assignment.WorkerID] = true
		delete(o.busyEndpoints, key)
		metrics.AssignmentsInFlight.Dec()
	}
	rs.activeAssignments = make(map[string]types.Assignment)
	rs.activeOrder = nil

	rs.pendingFiles = append(append([]string{}, restoredPaths...), rs.pendingFiles...)
	if len(rs.pendingFiles) == 0 {
		rs.pendingFiles = types.PendingFiles(rs.request)
	}

	if msg, has := rs.progress.Detail[types.MasterDetailKey]; has && strings.HasPrefix(msg, "No workers have access") {
		delete(rs.progress.Detail, types.MasterDetailKey)
	}
	rs.preferredWorker = workerID
	rs.progress.State = types.StateQueued
	rs.progress.UpdatedAt = time.Now().UTC()
	progress := rs.progress.Clone()
	o.mu.Unlock()

	for w := range affectedWorkers {
		o.queue.DropMatching(w, func(a types.Assignment) bool { return a.RequestID == requestID })
	}

	if err := o.store.UpdateProgress(ctx, progress); err != nil {
		o.logger.Error().Err(err).Str("request_id", requestID).Msg("update_progress failed")
	}

	o.scheduleWork(ctx)
	return nil
}

// QueryProgress returns a snapshot of a request's progress.
func (o *Orchestrator) QueryProgress(requestID string) (types.SyncProgress, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	rs, ok := o.requests[requestID]
	if !ok {
		return types.SyncProgress{}, false
	}
	return rs.progress.Clone(), true
}

// ListRequests returns every request's progress, in submission order.
func (o *Orchestrator) ListRequests() []types.SyncProgress {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]types.SyncProgress, 0, len(o.order))
	for _, id := range o.order {
		if rs, ok := o.requests[id]; ok {
			out = append(out, rs.progress.Clone())
		}
	}
	return out
}

// ListRequestsForWorker returns the progress of every request on which
// workerID currently holds an active assignment.
func (o *Orchestrator) ListRequestsForWorker(workerID string) []types.SyncProgress {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]types.SyncProgress, 0)
	for _, id := range o.order {
		rs, ok := o.requests[id]
		if !ok {
			continue
		}
		for _, assignment := range rs.activeAssignments {
			if assignment.WorkerID == workerID {
				out = append(out, rs.progress.Clone())
				break
			}
		}
	}
	return out
}

// ListWorkers returns every registered worker's most recent heartbeat, in
// first-heartbeat order.
func (o *Orchestrator) ListWorkers() []types.WorkerHeartbeat {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]types.WorkerHeartbeat, 0, len(o.workerOrder))
	for _, id := range o.workerOrder {
		if hb, ok := o.workerStatus[id]; ok {
			out = append(out, hb)
		}
	}
	return out
}

// ForgetRequest removes a request from memory and durable storage. It is
// terminal and always succeeds for a request that exists; forgetting an
// unknown request is a no-op.
func (o *Orchestrator) ForgetRequest(ctx context.Context, requestID string) error {
	o.mu.Lock()
	rs, ok := o.requests[requestID]
	if !ok {
		o.mu.Unlock()
		return nil
	}
	for _, key := range rs.activeOrder {
		delete(o.busyEndpoints, key)
		metrics.AssignmentsInFlight.Dec()
	}
	delete(o.requests, requestID)
	o.order = removeFromOrder(o.order, requestID)
	delete(o.resultLog, requestID)
	o.mu.Unlock()

	if err := o.store.DeleteRequest(ctx, requestID); err != nil {
		o.logger.Error().Err(err).Str("request_id", requestID).Msg("delete_request failed")
	}
	return nil
}
