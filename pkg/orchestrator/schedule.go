package orchestrator

import (
	"context"
	"time"

	"github.com/chahwansong/dms/pkg/metrics"
	"github.com/chahwansong/dms/pkg/pathresolve"
	"github.com/chahwansong/dms/pkg/types"
)

// dispatchAction is one assignment ready to be pushed onto a worker's
// queue once the lock protecting orchestrator state is released.
type dispatchAction struct {
	workerID   string
	assignment types.Assignment
}

// scheduleWork walks every request with pending files, in submission
// order, and emits as many assignments as current worker availability
// allows. All state mutation happens under the lock; the resulting queue
// pushes and durable writes happen after it is released.
func (o *Orchestrator) scheduleWork(ctx context.Context) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.SchedulingPassDuration)

	o.mu.Lock()

	var dispatch []dispatchAction
	var persist []types.SyncProgress
	var appendResults []types.SyncResult

	workersRegistered := len(o.workerStatus) > 0
	heartbeats := o.orderedHeartbeatsLocked()

	for _, id := range o.order {
		rs, ok := o.requests[id]
		if !ok || len(rs.pendingFiles) == 0 {
			continue
		}
		if rs.progress.State == types.StateFailed {
			continue
		}

		sourcePool := pathresolve.Resolve(rs.request.SourcePath, heartbeats)
		if workersRegistered && len(sourcePool) == 0 {
			result := o.failRequestLocked(rs, "No workers have access to source path "+rs.request.SourcePath)
			persist = append(persist, rs.progress.Clone())
			appendResults = append(appendResults, result)
			continue
		}

		destinationPool := pathresolve.Resolve(rs.request.DestinationPath, heartbeats)
		if workersRegistered && len(destinationPool) == 0 {
			result := o.failRequestLocked(rs, "No workers have access to destination path "+rs.request.DestinationPath)
			persist = append(persist, rs.progress.Clone())
			appendResults = append(appendResults, result)
			continue
		}

		if !workersRegistered {
			continue
		}

		candidateWorkers := sourcePool
		if rs.preferredWorker != "" {
			if !containsString(sourcePool, rs.preferredWorker) {
				continue
			}
			candidateWorkers = []string{rs.preferredWorker}
		}

		available := o.availableEndpointsLocked(candidateWorkers)
		needed := len(rs.pendingFiles)
		if len(available) < needed {
			needed = len(available)
		}
		if needed == 0 {
			continue
		}

		chosen := o.policy.SelectWorkers(available, needed)
		for _, endpoint := range chosen {
			if len(rs.pendingFiles) == 0 {
				break
			}
			path := rs.pendingFiles[0]
			rs.pendingFiles = rs.pendingFiles[1:]

			assignment := types.Assignment{
				RequestID:             rs.request.RequestID,
				WorkerID:              endpoint.WorkerID,
				Address:               endpoint.Address,
				SourcePath:            path,
				DestinationPath:       rs.request.DestinationPath,
				ChunkOffset:           0,
				ChunkSize:             int64(rs.request.ChunkSizeMB) * (1 << 20),
				SourceWorkerPool:      sourcePool,
				DestinationWorkerPool: destinationPool,
			}

			key := endpoint.Key()
			rs.activeAssignments[key] = assignment
			rs.activeOrder = append(rs.activeOrder, key)
			o.busyEndpoints[key] = rs.request.RequestID

			dispatch = append(dispatch, dispatchAction{workerID: endpoint.WorkerID, assignment: assignment})
			metrics.AssignmentsInFlight.Inc()
		}
	}

	o.mu.Unlock()

	for _, action := range dispatch {
		o.queue.Push(action.workerID, action.assignment)
	}
	for _, progress := range persist {
		if err := o.store.UpdateProgress(ctx, progress); err != nil {
			o.logger.Error().Err(err).Str("request_id", progress.RequestID).Msg("update_progress failed")
		}
	}
	for _, result := range appendResults {
		if err := o.store.AppendResult(ctx, result); err != nil {
			o.logger.Error().Err(err).Str("request_id", result.RequestID).Msg("append_result failed")
		}
	}
}

// availableEndpointsLocked enumerates (worker_id, address) pairs for
// workers in candidateWorkers that are not in ERROR status and whose
// endpoint key is not already busy. Caller must hold o.mu.
func (o *Orchestrator) availableEndpointsLocked(candidateWorkers []string) []types.WorkerEndpoint {
	var available []types.WorkerEndpoint
	for _, workerID := range candidateWorkers {
		hb, ok := o.workerStatus[workerID]
		if !ok || hb.Status == types.WorkerError {
			continue
		}
		for _, endpoint := range hb.DataPlaneEndpoints {
			key := types.EndpointKey(workerID, endpoint.Address)
			if _, busy := o.busyEndpoints[key]; busy {
				continue
			}
			available = append(available, types.WorkerEndpoint{WorkerID: workerID, Address: endpoint.Address})
		}
	}
	return available
}

// failRequestLocked transitions rs to FAILED with a master-keyed detail,
// clears its pending work and active assignments, and returns the
// synthetic failure result to be durably appended once the lock is
// released. Caller must hold o.mu.
func (o *Orchestrator) failRequestLocked(rs *requestState, message string) types.SyncResult {
	rs.pendingFiles = nil
	for _, key := range rs.activeOrder {
		delete(o.busyEndpoints, key)
		metrics.AssignmentsInFlight.Dec()
	}
	rs.activeAssignments = make(map[string]types.Assignment)
	rs.activeOrder = nil

	rs.progress.State = types.StateFailed
	rs.progress.UpdatedAt = time.Now().UTC()
	metrics.RequestCompletionDuration.Observe(rs.progress.UpdatedAt.Sub(rs.progress.StartedAt).Seconds())
	if rs.progress.Detail == nil {
		rs.progress.Detail = map[string]string{}
	}
	rs.progress.Detail[types.MasterDetailKey] = message

	result := types.SyncResult{
		RequestID:   rs.request.RequestID,
		Success:     false,
		Message:     message,
		CompletedAt: rs.progress.UpdatedAt,
	}
	o.resultLog[rs.request.RequestID] = append(o.resultLog[rs.request.RequestID], result)
	return result
}
