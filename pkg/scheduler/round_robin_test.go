package scheduler

import (
	"testing"

	"github.com/chahwansong/dms/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpoints(pairs ...[2]string) []types.WorkerEndpoint {
	out := make([]types.WorkerEndpoint, len(pairs))
	for i, p := range pairs {
		out[i] = types.WorkerEndpoint{WorkerID: p[0], Address: p[1]}
	}
	return out
}

func TestRoundRobin_FirstCallSortsByWorkerID(t *testing.T) {
	rr := &RoundRobin{}
	candidates := endpoints([2]string{"w-b", "1.1.1.1"}, [2]string{"w-a", "2.2.2.2"})
	got := rr.SelectWorkers(candidates, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "w-a", got[0].WorkerID)
}

func TestRoundRobin_EachEndpointOnceOverNConsecutiveCalls(t *testing.T) {
	rr := &RoundRobin{}
	candidates := endpoints(
		[2]string{"w-a", "10.0.0.1"},
		[2]string{"w-b", "10.0.0.2"},
		[2]string{"w-c", "10.0.0.3"},
	)
	seen := map[string]bool{}
	for i := 0; i < len(candidates); i++ {
		got := rr.SelectWorkers(candidates, 1)
		require.Len(t, got, 1)
		seen[got[0].Key()] = true
	}
	assert.Len(t, seen, len(candidates))
}

func TestRoundRobin_WrapsAfterFullCycle(t *testing.T) {
	rr := &RoundRobin{}
	candidates := endpoints([2]string{"w-a", "1.1.1.1"}, [2]string{"w-b", "2.2.2.2"})
	first := rr.SelectWorkers(candidates, 1)[0]
	second := rr.SelectWorkers(candidates, 1)[0]
	third := rr.SelectWorkers(candidates, 1)[0]
	assert.NotEqual(t, first.Key(), second.Key())
	assert.Equal(t, first.Key(), third.Key())
}

func TestRoundRobin_EmitsMinRequiredAndAvailable(t *testing.T) {
	rr := &RoundRobin{}
	candidates := endpoints([2]string{"w-a", "1.1.1.1"}, [2]string{"w-b", "2.2.2.2"})
	got := rr.SelectWorkers(candidates, 5)
	assert.Len(t, got, 2)
}

func TestRoundRobin_ZeroRequiredYieldsNothing(t *testing.T) {
	rr := &RoundRobin{}
	candidates := endpoints([2]string{"w-a", "1.1.1.1"})
	assert.Empty(t, rr.SelectWorkers(candidates, 0))
}

func TestRoundRobin_RestartsAtZeroWhenAnchorChurnsOut(t *testing.T) {
	rr := &RoundRobin{}
	// Round 1: w-a, w-b, w-c all present; sorted order is a,b,c and the
	// first call starts at 0, so required=2 picks w-a, w-b and anchors on w-b.
	candidates := endpoints(
		[2]string{"w-a", "1.1.1.1"},
		[2]string{"w-b", "2.2.2.2"},
		[2]string{"w-c", "3.3.3.3"},
	)
	got := rr.SelectWorkers(candidates, 2) // picks w-a, w-b; anchors on w-b
	require.Len(t, got, 2)
	assert.Equal(t, "w-a", got[0].WorkerID)
	assert.Equal(t, "w-b", got[1].WorkerID)

	// w-b churns out between calls, w-d joins.
	churned := endpoints(
		[2]string{"w-a", "1.1.1.1"},
		[2]string{"w-c", "3.3.3.3"},
		[2]string{"w-d", "4.4.4.4"},
	)
	got2 := rr.SelectWorkers(churned, 1)
	require.Len(t, got2, 1)
	// Anchor key "w-b::2.2.2.2" is absent, so selection restarts at index 0.
	assert.Equal(t, "w-a", got2[0].WorkerID)
}

func TestRoundRobin_ResumesFromLastAssignedWhenStillPresent(t *testing.T) {
	rr := &RoundRobin{}
	candidates := endpoints(
		[2]string{"w-a", "1.1.1.1"},
		[2]string{"w-b", "2.2.2.2"},
		[2]string{"w-c", "3.3.3.3"},
	)
	first := rr.SelectWorkers(candidates, 1)
	require.Len(t, first, 1)
	assert.Equal(t, "w-a", first[0].WorkerID)

	// w-a momentarily drops out, comes back; w-b/w-c unaffected. The anchor
	// is w-a's key, which is absent this round, so we restart at 0 again
	// over the reduced set.
	reduced := endpoints([2]string{"w-b", "2.2.2.2"}, [2]string{"w-c", "3.3.3.3"})
	second := rr.SelectWorkers(reduced, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "w-b", second[0].WorkerID)

	// Now resume with the full set again: anchor is w-b's key, which is
	// present, so selection continues from w-c.
	third := rr.SelectWorkers(candidates, 1)
	require.Len(t, third, 1)
	assert.Equal(t, "w-c", third[0].WorkerID)
}

func TestNew_UnknownPolicy(t *testing.T) {
	_, err := New("does-not-exist")
	require.Error(t, err)
}

func TestNew_RoundRobinRegistered(t *testing.T) {
	p, err := New("round_robin")
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Contains(t, Names(), "round_robin")
}
