package pathresolve

import (
	"testing"

	"github.com/chahwansong/dms/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestCovers_ExactMatch(t *testing.T) {
	assert.True(t, Covers("/a/src", "/a/src"))
}

func TestCovers_ProperAncestor(t *testing.T) {
	assert.True(t, Covers("/a", "/a/src/proj"))
}

func TestCovers_NotAncestor(t *testing.T) {
	assert.False(t, Covers("/a/destination", "/a/source/proj"))
}

func TestCovers_PrefixButNotPathComponent(t *testing.T) {
	// "/data/source" must not be treated as covering "/data/sourcexyz"
	assert.False(t, Covers("/data/source", "/data/sourcexyz"))
}

func TestCovers_ChildIsNotAncestorOfParent(t *testing.T) {
	assert.False(t, Covers("/a/src/proj", "/a/src"))
}

func TestResolve_DedupesAndPreservesOrder(t *testing.T) {
	workers := []types.WorkerHeartbeat{
		{WorkerID: "w-b", StoragePaths: []string{"/data/source"}},
		{WorkerID: "w-a", StoragePaths: []string{"/data"}},
		{WorkerID: "w-c", StoragePaths: []string{"/other"}},
	}
	got := Resolve("/data/source/proj", workers)
	assert.Equal(t, []string{"w-b", "w-a"}, got)
}

func TestResolve_EmptyWhenNoWorkerCovers(t *testing.T) {
	workers := []types.WorkerHeartbeat{
		{WorkerID: "w-a", StoragePaths: []string{"/other"}},
	}
	got := Resolve("/data/source", workers)
	assert.Empty(t, got)
}

func TestResolve_PathEligibilityGatingScenario(t *testing.T) {
	// One worker covers source, a different worker covers destination,
	// and neither pool overlaps.
	workers := []types.WorkerHeartbeat{
		{WorkerID: "w-src", StoragePaths: []string{"/data/source"}},
		{WorkerID: "w-dst", StoragePaths: []string{"/data/destination"}},
	}
	source := Resolve("/data/source/proj", workers)
	destination := Resolve("/data/destination", workers)
	assert.Equal(t, []string{"w-src"}, source)
	assert.Equal(t, []string{"w-dst"}, destination)
}
