package queue

import (
	"context"
	"testing"
	"time"

	"github.com/chahwansong/dms/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PushThenPopReturnsAssignment(t *testing.T) {
	q := New()
	want := types.Assignment{RequestID: "req-1", WorkerID: "w-a"}
	q.Push("w-a", want)

	got, ok := q.Pop(context.Background(), "w-a", time.Second)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestQueue_FIFOOrderPerWorker(t *testing.T) {
	q := New()
	first := types.Assignment{RequestID: "req-1", WorkerID: "w-a"}
	second := types.Assignment{RequestID: "req-2", WorkerID: "w-a"}
	q.Push("w-a", first)
	q.Push("w-a", second)

	got1, ok1 := q.Pop(context.Background(), "w-a", time.Second)
	require.True(t, ok1)
	got2, ok2 := q.Pop(context.Background(), "w-a", time.Second)
	require.True(t, ok2)

	assert.Equal(t, first, got1)
	assert.Equal(t, second, got2)
}

func TestQueue_PopTimesOutWhenEmpty(t *testing.T) {
	q := New()
	_, ok := q.Pop(context.Background(), "w-a", 10*time.Millisecond)
	assert.False(t, ok)
}

func TestQueue_PopReturnsFalseOnContextCancel(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := q.Pop(ctx, "w-a", time.Second)
	assert.False(t, ok)
}

func TestQueue_IsolatedAcrossWorkers(t *testing.T) {
	q := New()
	q.Push("w-a", types.Assignment{RequestID: "req-1", WorkerID: "w-a"})

	_, ok := q.Pop(context.Background(), "w-b", 10*time.Millisecond)
	assert.False(t, ok, "worker w-b must not see w-a's assignment")
}

func TestQueue_Len(t *testing.T) {
	q := New()
	assert.Equal(t, 0, q.Len("w-a"))
	q.Push("w-a", types.Assignment{RequestID: "req-1", WorkerID: "w-a"})
	q.Push("w-a", types.Assignment{RequestID: "req-2", WorkerID: "w-a"})
	assert.Equal(t, 2, q.Len("w-a"))
}

func TestQueue_RequeuePutsAssignmentBack(t *testing.T) {
	q := New()
	assignment := types.Assignment{RequestID: "req-1", WorkerID: "w-a"}
	q.Requeue("w-a", assignment)
	got, ok := q.Pop(context.Background(), "w-a", time.Second)
	require.True(t, ok)
	assert.Equal(t, assignment, got)
}

func TestQueue_ForgetDropsPendingAssignments(t *testing.T) {
	q := New()
	q.Push("w-a", types.Assignment{RequestID: "req-1", WorkerID: "w-a"})
	q.Forget("w-a")
	assert.Equal(t, 0, q.Len("w-a"))
}
