package scheduler

import (
	"sort"
	"sync"

	"github.com/chahwansong/dms/pkg/types"
)

func init() {
	Register("round_robin", func() Policy { return &RoundRobin{} })
}

// RoundRobin is the default scheduling policy. It is stateful: it remembers
// the endpoint key it last handed out and resumes from there, tolerating
// membership changes between calls.
type RoundRobin struct {
	mu      sync.Mutex
	lastKey string
}

// SelectWorkers sorts candidates deterministically by (worker_id, address),
// anchors on the last-assigned endpoint key, and returns up to required
// consecutive endpoints starting just after the anchor (wrapping).
//
// If the last-assigned key is absent from the current candidate set — the
// anchor worker churned out between calls — selection restarts at index 0.
func (r *RoundRobin) SelectWorkers(candidates []types.WorkerEndpoint, required int) []types.WorkerEndpoint {
	if required <= 0 || len(candidates) == 0 {
		return nil
	}

	sorted := make([]types.WorkerEndpoint, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].WorkerID != sorted[j].WorkerID {
			return sorted[i].WorkerID < sorted[j].WorkerID
		}
		return sorted[i].Address < sorted[j].Address
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	start := 0
	if r.lastKey != "" {
		for i, e := range sorted {
			if e.Key() == r.lastKey {
				start = (i + 1) % len(sorted)
				break
			}
		}
	}

	count := required
	if count > len(sorted) {
		count = len(sorted)
	}

	out := make([]types.WorkerEndpoint, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, sorted[(start+i)%len(sorted)])
	}
	r.lastKey = out[len(out)-1].Key()
	return out
}
