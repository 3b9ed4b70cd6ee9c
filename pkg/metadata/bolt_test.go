package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/chahwansong/dms/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(t.TempDir(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBoltStore_StoreAndRetrieveRequest(t *testing.T) {
	ctx := context.Background()
	store := newBoltStore(t)

	progress := types.SyncProgress{
		RequestID:        "req-1",
		TotalBytes:       1024,
		TransferredBytes: 0,
		State:            types.StateQueued,
		StartedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	require.NoError(t, store.StoreRequest(ctx, progress))

	var got types.SyncProgress
	found, err := store.get(bucketRequests, "req-1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, progress.RequestID, got.RequestID)
	assert.Equal(t, types.StateQueued, got.State)
}

func TestBoltStore_UpdateProgressOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newBoltStore(t)

	require.NoError(t, store.StoreRequest(ctx, types.SyncProgress{RequestID: "req-1", State: types.StateQueued}))
	require.NoError(t, store.UpdateProgress(ctx, types.SyncProgress{RequestID: "req-1", State: types.StateCompleted}))

	var got types.SyncProgress
	found, err := store.get(bucketRequests, "req-1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, types.StateCompleted, got.State)
}

func TestBoltStore_AppendResultAccumulates(t *testing.T) {
	ctx := context.Background()
	store := newBoltStore(t)

	require.NoError(t, store.AppendResult(ctx, types.SyncResult{RequestID: "req-1", WorkerID: "w-a", Success: true}))
	require.NoError(t, store.AppendResult(ctx, types.SyncResult{RequestID: "req-1", WorkerID: "w-b", Success: false}))

	results, err := store.Results(ctx, "req-1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "w-a", results[0].WorkerID)
	assert.Equal(t, "w-b", results[1].WorkerID)
}

func TestBoltStore_RecordWorker(t *testing.T) {
	ctx := context.Background()
	store := newBoltStore(t)

	hb := types.WorkerHeartbeat{WorkerID: "w-a", Status: types.WorkerIdle, StoragePaths: []string{"/data"}}
	require.NoError(t, store.RecordWorker(ctx, hb))

	var got types.WorkerHeartbeat
	found, err := store.get(bucketWorkers, "w-a", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, types.WorkerIdle, got.Status)
}

func TestBoltStore_DeleteRequestRemovesProgressAndResults(t *testing.T) {
	ctx := context.Background()
	store := newBoltStore(t)

	require.NoError(t, store.StoreRequest(ctx, types.SyncProgress{RequestID: "req-1"}))
	require.NoError(t, store.AppendResult(ctx, types.SyncResult{RequestID: "req-1", WorkerID: "w-a"}))

	require.NoError(t, store.DeleteRequest(ctx, "req-1"))

	var progress types.SyncProgress
	found, err := store.get(bucketRequests, "req-1", &progress)
	require.NoError(t, err)
	assert.False(t, found)

	results, err := store.Results(ctx, "req-1")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBoltStore_HealthCheck(t *testing.T) {
	store := newBoltStore(t)
	assert.NoError(t, store.HealthCheck(context.Background()))
}

func TestBoltStore_SweepExpiresOldEntries(t *testing.T) {
	store, err := NewBoltStore(t.TempDir(), time.Millisecond)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.StoreRequest(ctx, types.SyncProgress{RequestID: "req-old"}))

	time.Sleep(5 * time.Millisecond)
	store.sweepExpired()

	var got types.SyncProgress
	found, err := store.get(bucketRequests, "req-old", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
