// Package gc implements mark-sweep collection over a content-addressed
// store (spec §4.8). It is a pure function of (store, roots): it does not
// know about commits or branches, matching pkg/repo's job of assembling the
// root set via Repository.Roots.
package gc

import (
	"log/slog"

	"github.com/chazu/astvc/pkg/store"
)

// Result reports what a GC pass found or removed.
type Result struct {
	Live    int
	Garbage int
	Hashes  []store.Hash // the garbage hashes, present on both DryRun and CollectGarbage
}

// DryRun computes which hashes in s are unreachable from roots without
// mutating s.
func DryRun(s *store.SnapshotStore, roots []store.Hash) Result {
	live := mark(s, roots)

	var garbage []store.Hash
	for _, h := range s.Keys() {
		if _, ok := live[h]; !ok {
			garbage = append(garbage, h)
		}
	}
	return Result{Live: len(live), Garbage: len(garbage), Hashes: garbage}
}

// CollectGarbage removes every hash in s unreachable from roots and returns
// the same report DryRun would have produced beforehand.
func CollectGarbage(s *store.SnapshotStore, roots []store.Hash) Result {
	result := DryRun(s, roots)
	for _, h := range result.Hashes {
		s.Remove(h)
	}
	slog.Debug("gc: collected", "live", result.Live, "garbage", result.Garbage)
	return result
}

// mark walks the Merkle DAG from roots via BFS, returning the set of
// reachable hashes.
func mark(s *store.SnapshotStore, roots []store.Hash) map[store.Hash]struct{} {
	live := make(map[store.Hash]struct{}, len(roots))
	queue := append([]store.Hash(nil), roots...)

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if _, seen := live[h]; seen {
			continue
		}
		live[h] = struct{}{}
		queue = append(queue, s.ChildHashes(h)...)
	}
	return live
}
