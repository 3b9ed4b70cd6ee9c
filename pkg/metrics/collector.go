package metrics

import (
	"time"

	"github.com/chahwansong/dms/pkg/types"
)

// Source is the read-side view of orchestrator state the Collector polls.
// *orchestrator.Orchestrator satisfies it; it is declared here rather than
// imported so pkg/metrics has no dependency on pkg/orchestrator, which in
// turn instruments the scheduling-pass and assignment metrics defined in
// this package.
type Source interface {
	ListRequests() []types.SyncProgress
	ListWorkers() []types.WorkerHeartbeat
}

// Collector periodically samples a Source's in-memory state into the
// requests-by-state and workers-by-status gauges.
type Collector struct {
	source Source
	stopCh chan struct{}
}

// NewCollector creates a new metrics collector.
func NewCollector(source Source) *Collector {
	return &Collector{
		source: source,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.collectRequestMetrics()
	c.collectWorkerMetrics()
}

func (c *Collector) collectRequestMetrics() {
	requests := c.source.ListRequests()

	counts := map[types.RequestLifecycle]int{
		types.StateQueued:    0,
		types.StateProgress:  0,
		types.StateCompleted: 0,
		types.StateFailed:    0,
	}
	for _, p := range requests {
		counts[p.State]++
	}
	for state, count := range counts {
		RequestsByState.WithLabelValues(string(state)).Set(float64(count))
	}
}

func (c *Collector) collectWorkerMetrics() {
	workers := c.source.ListWorkers()

	counts := map[types.WorkerStatus]int{
		types.WorkerIdle:         0,
		types.WorkerTransferring: 0,
		types.WorkerError:        0,
	}
	for _, hb := range workers {
		counts[hb.Status]++
	}
	for status, count := range counts {
		WorkersByStatus.WithLabelValues(string(status)).Set(float64(count))
	}
}
