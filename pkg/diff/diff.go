// Package diff implements the tree differencing algorithm of spec §4.3: a
// root-anchored recursion with a per-level O(m+n) (kind,label) matcher. It
// deliberately does not attempt optimal tree edit distance or move
// detection — a relocation surfaces as Delete+Insert, which apply still
// round-trips correctly (spec §4.3 note 4).
package diff

import (
	"github.com/samber/lo"

	"github.com/chazu/astvc/pkg/ast"
	"github.com/chazu/astvc/pkg/codec"
	"github.com/chazu/astvc/pkg/ops"
)

// childKey is the (kind, label) a per-level match is keyed on.
type childKey struct {
	kind  ast.AstNodeKind
	label string
}

// DiffTrees produces a minimal operation script transforming old into new.
// Diff never fails: any two trees have a valid script (spec §7 policy).
func DiffTrees(oldTree, newTree *ast.AstTree) []ops.Op {
	var out []ops.Op

	oldRoot, _ := oldTree.GetNode(ast.RootID)
	newRoot, _ := newTree.GetNode(ast.RootID)
	if !oldRoot.Value.Equal(newRoot.Value) {
		out = append(out, ops.Update{NodeID: ast.RootID, OldValue: oldRoot.Value, NewValue: newRoot.Value})
	}
	if oldRoot.Label != newRoot.Label {
		out = append(out, ops.Relabel{NodeID: ast.RootID, OldLabel: oldRoot.Label, NewLabel: newRoot.Label})
	}

	diffChildren(oldTree, newTree, ast.RootID, ast.RootID, &out)
	return out
}

// matchedPair is a (old id, new id) pair the per-level matcher paired up.
type matchedPair struct {
	oldID, newID ast.NodeId
}

// diffChildren matches oldParent's children against newParent's children
// and appends the resulting Delete/Insert/Update/Relabel ops to out,
// recursing into matched pairs last — the ordering spec §4.3 requires.
func diffChildren(oldTree, newTree *ast.AstTree, oldParent, newParent ast.NodeId, out *[]ops.Op) {
	oldChildren := oldTree.Children(oldParent)
	newChildren := newTree.Children(newParent)

	keyOf := func(t *ast.AstTree, id ast.NodeId) childKey {
		n, _ := t.GetNode(id)
		return childKey{kind: n.Kind, label: n.Label}
	}

	// Bucket new-child indices by (kind,label); each bucket is consumed
	// front-to-back as old children claim a match, giving the O(m+n)
	// left-to-right matching spec §4.3 describes.
	candidates := lo.GroupBy(lo.Range(len(newChildren)), func(i int) childKey {
		return keyOf(newTree, newChildren[i])
	})

	matchedNew := make([]bool, len(newChildren))
	var pairs []matchedPair
	var deletedOld []ast.NodeId

	for _, oid := range oldChildren {
		k := keyOf(oldTree, oid)
		bucket := candidates[k]
		if len(bucket) == 0 {
			deletedOld = append(deletedOld, oid)
			continue
		}
		idx := bucket[0]
		candidates[k] = bucket[1:]
		matchedNew[idx] = true
		pairs = append(pairs, matchedPair{oldID: oid, newID: newChildren[idx]})
	}

	for _, oid := range deletedOld {
		*out = append(*out, ops.Delete{NodeID: oid})
	}

	for i, nid := range newChildren {
		if matchedNew[i] {
			continue
		}
		insertSubtree(newTree, newParent, nid, i, out)
	}

	for _, p := range pairs {
		on, _ := oldTree.GetNode(p.oldID)
		nn, _ := newTree.GetNode(p.newID)

		if !on.Value.Equal(nn.Value) {
			*out = append(*out, ops.Update{NodeID: p.oldID, OldValue: on.Value, NewValue: nn.Value})
		}
		if on.Label != nn.Label {
			*out = append(*out, ops.Relabel{NodeID: p.oldID, OldLabel: on.Label, NewLabel: nn.Label})
		}
		// Kinds of a matched pair are equal by construction (the match key
		// includes kind); differing kinds produce Delete+Insert instead.
		diffChildren(oldTree, newTree, p.oldID, p.newID, out)
	}
}

// insertSubtree appends an Insert for id as the index-th child of parentID,
// then recurses over id's own children in newTree: none of them have an old
// counterpart either, since their parent didn't exist in oldTree, so the
// whole subtree becomes Inserts rather than just its root.
func insertSubtree(newTree *ast.AstTree, parentID, id ast.NodeId, index int, out *[]ops.Op) {
	n, _ := newTree.GetNode(id)
	*out = append(*out, ops.Insert{
		NodeID: id, ParentID: parentID, Index: index,
		Kind: n.Kind, Label: n.Label, Value: n.Value,
	})
	for i, cid := range newTree.Children(id) {
		insertSubtree(newTree, id, cid, i, out)
	}
}

// PatchSizeBytes returns the encoded size of script, per spec §4.3.
func PatchSizeBytes(script []ops.Op) int {
	return codec.Size(script)
}
