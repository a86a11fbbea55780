// Package store implements the content-addressed snapshot store: a
// key→AST-node map keyed by a recursive Merkle hash (pkg/store.Hash), so
// identical subtrees share storage and any mutation produces a new hash
// path to the root. The store is append-only from its own API; pkg/gc is
// the sole deleter, via Remove.
package store

import (
	"github.com/pkg/errors"

	"github.com/chazu/astvc/pkg/ast"
)

// ErrUnknownHash is returned by Get/Materialize when a hash is not present.
var ErrUnknownHash = errors.New("store: unknown hash")

// StoredNode is one node's record as held in the store: its own fields
// plus the hashes of its children, in child order.
type StoredNode struct {
	Kind     ast.AstNodeKind
	Label    string
	Value    ast.NodeValue
	Children []Hash
}

// SnapshotStore is a content-addressed map from Hash to StoredNode.
type SnapshotStore struct {
	nodes map[Hash]StoredNode
}

// New returns an empty store.
func New() *SnapshotStore {
	return &SnapshotStore{nodes: make(map[Hash]StoredNode)}
}

// InsertTree hashes and stores every node of tree, memoized by hash, and
// returns the hash of its Root.
func (s *SnapshotStore) InsertTree(tree *ast.AstTree) Hash {
	return s.insertSubtree(tree, tree.Root())
}

func (s *SnapshotStore) insertSubtree(tree *ast.AstTree, id ast.NodeId) Hash {
	n, _ := tree.GetNode(id)
	childHashes := make([]Hash, 0, len(n.Children))
	for _, c := range n.Children {
		childHashes = append(childHashes, s.insertSubtree(tree, c))
	}
	h := hashNode(n, childHashes)
	if _, exists := s.nodes[h]; !exists {
		s.nodes[h] = StoredNode{
			Kind:     n.Kind,
			Label:    n.Label,
			Value:    n.Value.Clone(),
			Children: childHashes,
		}
	}
	return h
}

// Get returns the stored node for h.
func (s *SnapshotStore) Get(h Hash) (StoredNode, bool) {
	n, ok := s.nodes[h]
	return n, ok
}

// Contains reports whether h is present.
func (s *SnapshotStore) Contains(h Hash) bool {
	_, ok := s.nodes[h]
	return ok
}

// Len returns the number of stored entries.
func (s *SnapshotStore) Len() int { return len(s.nodes) }

// Keys returns every hash currently stored, in no particular order.
func (s *SnapshotStore) Keys() []Hash {
	out := make([]Hash, 0, len(s.nodes))
	for h := range s.nodes {
		out = append(out, h)
	}
	return out
}

// Remove deletes h's entry. Only pkg/gc calls this; the store itself never
// decides reachability.
func (s *SnapshotStore) Remove(h Hash) {
	delete(s.nodes, h)
}

// Materialize rebuilds a full AstTree from h by walking the stored DAG and
// allocating fresh ids, preserving structure and values. h is expected to
// reference a node stored with Kind == ast.KindRoot (a commit's snapshot
// hash); the new tree's Root fields are overwritten from it.
func (s *SnapshotStore) Materialize(h Hash) (*ast.AstTree, error) {
	root, ok := s.Get(h)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownHash, "materialize: %x", uint64(h))
	}

	t := ast.New()
	rootNode, _ := t.GetNode(ast.RootID)
	rootNode.Label = root.Label
	rootNode.Value = root.Value.Clone()

	for _, ch := range root.Children {
		if err := s.materializeInto(t, ast.RootID, ch); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (s *SnapshotStore) materializeInto(t *ast.AstTree, parent ast.NodeId, h Hash) error {
	sn, ok := s.Get(h)
	if !ok {
		return errors.Wrapf(ErrUnknownHash, "materialize: %x", uint64(h))
	}
	id, err := t.AddNodeWithValue(sn.Kind, sn.Label, sn.Value, parent)
	if err != nil {
		return err
	}
	for _, ch := range sn.Children {
		if err := s.materializeInto(t, id, ch); err != nil {
			return err
		}
	}
	return nil
}

// ChildHashes returns h's recorded child hashes, or nil if absent.
// Used by pkg/gc to walk the Merkle DAG during reachability marking.
func (s *SnapshotStore) ChildHashes(h Hash) []Hash {
	n, ok := s.nodes[h]
	if !ok {
		return nil
	}
	return n.Children
}
