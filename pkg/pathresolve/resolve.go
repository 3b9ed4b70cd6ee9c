package pathresolve

import (
	"strings"

	"github.com/chahwansong/dms/pkg/types"
)

// Resolve returns the worker IDs whose advertised storage mounts cover the
// absolute path. Workers are considered in the order given; a worker that
// appears more than once (more than one covering mount) is returned once,
// at its first occurrence. Workers with no covering mount are absent from
// the result.
func Resolve(path string, workers []types.WorkerHeartbeat) []string {
	var out []string
	seen := make(map[string]bool, len(workers))
	for _, hb := range workers {
		if seen[hb.WorkerID] {
			continue
		}
		if coveredByAny(path, hb.StoragePaths) {
			out = append(out, hb.WorkerID)
			seen[hb.WorkerID] = true
		}
	}
	return out
}

func coveredByAny(path string, mounts []string) bool {
	for _, m := range mounts {
		if Covers(m, path) {
			return true
		}
	}
	return false
}

// Covers reports whether mount covers path: mount == path, or mount is a
// proper ancestor of path. Components are compared as-is — no symlink
// resolution, no case folding.
func Covers(mount, path string) bool {
	if mount == path {
		return true
	}
	mountParts := splitPath(mount)
	pathParts := splitPath(path)
	if len(mountParts) >= len(pathParts) {
		return false
	}
	for i, part := range mountParts {
		if pathParts[i] != part {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
