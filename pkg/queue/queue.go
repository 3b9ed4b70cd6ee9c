package queue

import (
	"context"
	"sync"
	"time"

	"github.com/chahwansong/dms/pkg/types"
)

// perWorkerBuffer bounds how many assignments can sit pending for a single
// worker before Push starts blocking the scheduling pass that called it.
const perWorkerBuffer = 256

// Queue holds one FIFO channel of pending Assignments per worker_id.
type Queue struct {
	mu      sync.Mutex
	workers map[string]chan types.Assignment
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{workers: make(map[string]chan types.Assignment)}
}

func (q *Queue) channelFor(workerID string) chan types.Assignment {
	q.mu.Lock()
	defer q.mu.Unlock()
	ch, ok := q.workers[workerID]
	if !ok {
		ch = make(chan types.Assignment, perWorkerBuffer)
		q.workers[workerID] = ch
	}
	return ch
}

// Push enqueues an assignment for delivery to workerID, creating its queue
// if this is the first assignment for that worker. Push blocks only if the
// worker's queue is already at capacity.
func (q *Queue) Push(workerID string, assignment types.Assignment) {
	q.channelFor(workerID) <- assignment
}

// Pop blocks until an assignment is available for workerID, ctx is
// canceled, or timeout elapses — whichever comes first. The second return
// value is false if no assignment arrived before ctx/timeout won.
func (q *Queue) Pop(ctx context.Context, workerID string, timeout time.Duration) (types.Assignment, bool) {
	ch := q.channelFor(workerID)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case assignment := <-ch:
		return assignment, true
	case <-ctx.Done():
		return types.Assignment{}, false
	case <-timer.C:
		return types.Assignment{}, false
	}
}

// Len reports how many assignments are currently pending for workerID.
func (q *Queue) Len(workerID string) int {
	q.mu.Lock()
	ch, ok := q.workers[workerID]
	q.mu.Unlock()
	if !ok {
		return 0
	}
	return len(ch)
}

// Requeue puts an assignment back at the tail of workerID's queue, used
// when a dispatched assignment must be retried against the same worker.
func (q *Queue) Requeue(workerID string, assignment types.Assignment) {
	q.Push(workerID, assignment)
}

// Forget drops a worker's queue entirely, discarding any pending
// assignments. Used when a worker is known gone for good.
func (q *Queue) Forget(workerID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.workers, workerID)
}

// DropMatching drains every assignment currently buffered for workerID,
// discards the ones for which match returns true, and puts the rest back
// in their original order. Used when a request is reassigned: its
// not-yet-delivered assignments must not reach the worker once their
// source paths have been restored to the request's pending list.
func (q *Queue) DropMatching(workerID string, match func(types.Assignment) bool) {
	ch := q.channelFor(workerID)
	var keep []types.Assignment
	for {
		select {
		case a := <-ch:
			if !match(a) {
				keep = append(keep, a)
			}
		default:
			for _, a := range keep {
				ch <- a
			}
			return
		}
	}
}
