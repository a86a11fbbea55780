// Package merge implements the 3-way structural merge of spec §4.6: two
// operation scripts derived from a common ancestor are combined by grouping
// each by the node id they touch and comparing the groups as multisets. A
// node both sides agree on (equal op multiset) merges cleanly; anything
// else is a conflict the caller must resolve by hand.
package merge

import (
	"github.com/chazu/astvc/pkg/ast"
	"github.com/chazu/astvc/pkg/ops"
)

// Conflict is a node id where the two sides disagree. Both sides' ops are
// non-empty: both touched the node, but not identically (an id touched by
// only one side always merges cleanly).
type Conflict struct {
	NodeID ast.NodeId
	Ours   []ops.Op
	Theirs []ops.Op
}

// MergeResult is the output of MergePatches: Merged holds every op from a
// cleanly-resolved node (deduplicated against its counterpart), Conflicts
// holds the rest.
type MergeResult struct {
	Merged    []ops.Op
	Conflicts []Conflict
}

// IsClean reports whether the merge produced no conflicts.
func (r MergeResult) IsClean() bool { return len(r.Conflicts) == 0 }

// MergePatches merges ours and theirs, two scripts diffed against the same
// ancestor. Per spec §4.6, a node id is a clean merge when:
//   - only one side touches it (that side's ops are taken), or
//   - both sides touch it with equal op multisets (one copy is taken), or
//   - either side deletes it and the other doesn't touch it at all.
//
// Anything else — both sides touch the id with unequal op sets, including
// one side deleting and the other mutating — is a conflict.
func MergePatches(ours, theirs []ops.Op) MergeResult {
	oursByID := groupByID(ours)
	theirsByID := groupByID(theirs)

	ids := make(map[ast.NodeId]struct{}, len(oursByID)+len(theirsByID))
	for id := range oursByID {
		ids[id] = struct{}{}
	}
	for id := range theirsByID {
		ids[id] = struct{}{}
	}

	var result MergeResult
	for id := range ids {
		o := oursByID[id]
		t := theirsByID[id]

		switch {
		case len(o) == 0:
			result.Merged = append(result.Merged, t...)
		case len(t) == 0:
			result.Merged = append(result.Merged, o...)
		case multisetEqual(o, t):
			result.Merged = append(result.Merged, o...)
		default:
			result.Conflicts = append(result.Conflicts, Conflict{NodeID: id, Ours: o, Theirs: t})
		}
	}
	return result
}

// groupByID partitions script by the node id each op touches (spec §4.6
// step 1); an id may have more than one op (e.g. Update then Relabel of
// the same node in one script).
func groupByID(script []ops.Op) map[ast.NodeId][]ops.Op {
	out := make(map[ast.NodeId][]ops.Op)
	for _, op := range script {
		id := op.TouchedID()
		out[id] = append(out[id], op)
	}
	return out
}

// multisetEqual reports whether a and b contain the same ops with the same
// multiplicities, order-independent, via Op.Equal.
func multisetEqual(a, b []ops.Op) bool {
	if len(a) != len(b) {
		return false
	}
	usedB := make([]bool, len(b))
	for _, x := range a {
		found := false
		for j, y := range b {
			if usedB[j] {
				continue
			}
			if x.Equal(y) {
				usedB[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
