package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSyncRequest_DefaultsChunkSize(t *testing.T) {
	req, err := ValidateSyncRequest(SyncRequest{
		RequestID:       "r-1",
		SourcePath:      "/a/src",
		DestinationPath: "/a/dst",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSizeMB, req.ChunkSizeMB)
}

func TestValidateSyncRequest_RejectsRelativeSource(t *testing.T) {
	_, err := ValidateSyncRequest(SyncRequest{
		RequestID:       "r-1",
		SourcePath:      "a/src",
		DestinationPath: "/a/dst",
	})
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "source_path", verr.Field)
}

func TestValidateSyncRequest_RejectsRelativeDestination(t *testing.T) {
	_, err := ValidateSyncRequest(SyncRequest{
		RequestID:       "r-1",
		SourcePath:      "/a/src",
		DestinationPath: "a/dst",
	})
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "destination_path", verr.Field)
}

func TestValidateSyncRequest_RejectsRelativeFileListEntry(t *testing.T) {
	_, err := ValidateSyncRequest(SyncRequest{
		RequestID:       "r-1",
		SourcePath:      "/a/src",
		DestinationPath: "/a/dst",
		FileList:        []string{"/a/src/f1", "relative/f2"},
	})
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "file_list", verr.Field)
}

func TestValidateSyncRequest_ChunkSizeRange(t *testing.T) {
	for _, size := range []int{0, -1, 2000} {
		req := SyncRequest{RequestID: "r-1", SourcePath: "/a", DestinationPath: "/b", ChunkSizeMB: size}
		if size == 0 {
			_, err := ValidateSyncRequest(req)
			assert.NoError(t, err)
			continue
		}
		_, err := ValidateSyncRequest(req)
		require.Error(t, err)
	}
}

func TestValidateWorkerHeartbeat_RejectsRelativeMount(t *testing.T) {
	err := ValidateWorkerHeartbeat(WorkerHeartbeat{
		WorkerID:     "w-a",
		StoragePaths: []string{"/mnt/a", "relative/mnt"},
	})
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "storage_paths", verr.Field)
}

func TestPendingFiles_DefaultsToSourcePath(t *testing.T) {
	files := PendingFiles(SyncRequest{SourcePath: "/a/src"})
	assert.Equal(t, []string{"/a/src"}, files)
}

func TestPendingFiles_UsesFileListWhenPresent(t *testing.T) {
	files := PendingFiles(SyncRequest{SourcePath: "/a/src", FileList: []string{"/a/src/f1", "/a/src/f2"}})
	assert.Equal(t, []string{"/a/src/f1", "/a/src/f2"}, files)
}

func TestEndpointKey_IsComposite(t *testing.T) {
	key := EndpointKey("worker-1", "192.168.1.10")
	assert.Equal(t, "worker-1::192.168.1.10", key)
}

func TestWorkerEndpoint_Key(t *testing.T) {
	e := WorkerEndpoint{WorkerID: "worker-1", Address: "192.168.1.10"}
	assert.Equal(t, "worker-1::192.168.1.10", e.Key())
}

func TestIsAbsolutePath(t *testing.T) {
	assert.True(t, IsAbsolutePath("/a/b"))
	assert.False(t, IsAbsolutePath("a/b"))
	assert.False(t, IsAbsolutePath(""))
}
