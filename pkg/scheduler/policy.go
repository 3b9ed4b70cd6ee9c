package scheduler

import (
	"fmt"
	"sync"

	"github.com/chahwansong/dms/pkg/types"
)

// Policy selects an ordered subset of endpoints from a candidate list.
// Implementations are stateful and owned exclusively by one orchestrator.
type Policy interface {
	// SelectWorkers returns at most required endpoints from candidates, in
	// the order they should be assigned.
	SelectWorkers(candidates []types.WorkerEndpoint, required int) []types.WorkerEndpoint
}

// Factory constructs a fresh, independent Policy instance.
type Factory func() Policy

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a named policy factory to the registry. Called from
// package init functions (see round_robin.go); re-registering a name
// overwrites the previous factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New looks up a registered policy by name and returns a fresh instance.
func New(name string) (Policy, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("scheduler: unknown policy %q", name)
	}
	return factory(), nil
}

// Names returns the currently registered policy names, for validation and
// CLI help text.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}
