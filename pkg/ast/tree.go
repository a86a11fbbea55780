package ast

import "github.com/chazu/astvc/pkg/vcserr"

// AstTree is the in-memory tree container. It owns its nodes exclusively;
// ids and hashes referencing it are plain values, never pointers into it.
type AstTree struct {
	nodes  map[NodeId]*AstNode
	root   NodeId
	nextID NodeId
}

// New returns a tree initialized with only the Root (id 0).
func New() *AstTree {
	t := &AstTree{
		nodes:  make(map[NodeId]*AstNode),
		root:   RootID,
		nextID: RootID + 1,
	}
	t.nodes[RootID] = &AstNode{ID: RootID, Kind: KindRoot, Parent: RootID}
	return t
}

// Root returns the tree's Root id (always 0).
func (t *AstTree) Root() NodeId { return t.root }

// NextID returns the id that the next AddNode call would allocate.
func (t *AstTree) NextID() NodeId { return t.nextID }

// AdvanceNextID raises NextID to at least id, never lowering it. Callers
// that materialize independent trees from a shared ancestor (pkg/repo, so
// two branches checked out from the same commit don't hand out colliding
// ids) use this to keep allocation watermarks in sync across trees that
// will later be diffed against each other.
func (t *AstTree) AdvanceNextID(id NodeId) {
	if id > t.nextID {
		t.nextID = id
	}
}

// Size returns the number of nodes in the tree, including Root.
func (t *AstTree) Size() int { return len(t.nodes) }

// GetNode returns the node with the given id, or (nil, false) if absent.
// The returned pointer aliases the tree's storage; callers may mutate
// Label/Value/Children through it (mirroring a GetNodeMut contract — Go has
// no separate const-view type, so there is only one accessor).
func (t *AstTree) GetNode(id NodeId) (*AstNode, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Parent returns id's parent, or (0, false) if id is absent.
func (t *AstTree) Parent(id NodeId) (NodeId, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return 0, false
	}
	return n.Parent, true
}

// Children returns a copy of id's child list in insertion order, or nil
// if id is absent.
func (t *AstTree) Children(id NodeId) []NodeId {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return append([]NodeId(nil), n.Children...)
}

// AddNode creates a new node as the last child of parent and returns its
// allocated id. Returns ErrInvalidParent if parent is absent.
func (t *AstTree) AddNode(kind AstNodeKind, label string, parent NodeId) (NodeId, error) {
	return t.AddNodeWithValue(kind, label, None, parent)
}

// AddNodeWithValue is AddNode with an explicit value payload. This is the
// entry point external parsers use per the §6 tree-import contract: a
// (kind, label, value, parent_id) tuple in, a freshly allocated NodeId out.
func (t *AstTree) AddNodeWithValue(kind AstNodeKind, label string, value NodeValue, parent NodeId) (NodeId, error) {
	p, ok := t.nodes[parent]
	if !ok {
		return 0, vcserr.Wrap(vcserr.ErrInvalidParent, "add_node: parent %d not found", parent)
	}
	id := t.nextID
	t.nextID++
	t.nodes[id] = &AstNode{
		ID:     id,
		Kind:   kind,
		Label:  label,
		Value:  value.Clone(),
		Parent: parent,
	}
	p.Children = append(p.Children, id)
	return id, nil
}

// InsertWithID creates a node with exactly id (not a freshly allocated one)
// as the index-th child of parent, clamping index into [0, len]. This is
// the semantics Apply's Insert op requires so later ops in the same script
// can reference ids the differ chose. NextID advances to max(NextID, id+1).
// Fails InvalidOp if id already exists and InvalidParent if parent is
// absent.
func (t *AstTree) InsertWithID(id NodeId, parent NodeId, index int, kind AstNodeKind, label string, value NodeValue) error {
	if _, exists := t.nodes[id]; exists {
		return vcserr.Wrap(vcserr.ErrInvalidOp, "insert: node %d already exists", id)
	}
	p, ok := t.nodes[parent]
	if !ok {
		return vcserr.Wrap(vcserr.ErrInvalidParent, "insert: parent %d not found", parent)
	}

	n := &AstNode{ID: id, Kind: kind, Label: label, Value: value.Clone(), Parent: parent}
	t.nodes[id] = n

	idx := clampIndex(index, len(p.Children))
	p.Children = spliceAt(p.Children, idx, id)

	if id+1 > t.nextID {
		t.nextID = id + 1
	}
	return nil
}

// RemoveSubtree deletes id and all of its descendants. Root cannot be
// removed. Descendant collection is a single BFS with O(1) membership
// testing, so the whole operation is linear in subtree size.
func (t *AstTree) RemoveSubtree(id NodeId) error {
	if id == t.root {
		return vcserr.Wrap(vcserr.ErrInvalidOp, "remove_subtree: cannot remove root")
	}
	n, ok := t.nodes[id]
	if !ok {
		return vcserr.Wrap(vcserr.ErrInvalidOp, "remove_subtree: node %d not found", id)
	}

	doomed := map[NodeId]struct{}{}
	queue := []NodeId{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, seen := doomed[cur]; seen {
			continue
		}
		doomed[cur] = struct{}{}
		if node, ok := t.nodes[cur]; ok {
			queue = append(queue, node.Children...)
		}
	}

	for victim := range doomed {
		delete(t.nodes, victim)
	}

	if parent, ok := t.nodes[n.Parent]; ok {
		parent.Children = removeID(parent.Children, id)
	}
	return nil
}

// Move detaches id from its current parent and splices it into
// newParent.Children at newIndex (clamped to [0, len]). Rejects moves that
// would create a cycle (newParent is id or a descendant of id) and moves
// of the Root.
func (t *AstTree) Move(id, newParent NodeId, newIndex int) error {
	if id == t.root {
		return vcserr.Wrap(vcserr.ErrInvalidOp, "move: cannot move root")
	}
	n, ok := t.nodes[id]
	if !ok {
		return vcserr.Wrap(vcserr.ErrInvalidOp, "move: node %d not found", id)
	}
	if _, ok := t.nodes[newParent]; !ok {
		return vcserr.Wrap(vcserr.ErrInvalidParent, "move: new parent %d not found", newParent)
	}
	if t.isDescendant(newParent, id) {
		return vcserr.Wrap(vcserr.ErrInvalidOp, "move: %d is a descendant of %d, would create a cycle", newParent, id)
	}

	if oldParent, ok := t.nodes[n.Parent]; ok {
		oldParent.Children = removeID(oldParent.Children, id)
	}

	newP := t.nodes[newParent]
	idx := clampIndex(newIndex, len(newP.Children))
	newP.Children = spliceAt(newP.Children, idx, id)
	n.Parent = newParent
	return nil
}

// isDescendant walks up from candidate via Parent looking for ancestor.
// Used to reject Move ops that would make a node its own ancestor.
func (t *AstTree) isDescendant(candidate, ancestor NodeId) bool {
	cur := candidate
	for {
		if cur == ancestor {
			return true
		}
		n, ok := t.nodes[cur]
		if !ok || cur == n.Parent {
			return false
		}
		cur = n.Parent
	}
}

// Walk performs a pre-order traversal starting at Root, stopping early if
// fn returns false.
func (t *AstTree) Walk(fn func(*AstNode) bool) {
	var visit func(id NodeId) bool
	visit = func(id NodeId) bool {
		n, ok := t.nodes[id]
		if !ok {
			return true
		}
		if !fn(n) {
			return false
		}
		for _, c := range n.Children {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	visit(t.root)
}

// Clone returns a deep, independent copy of the tree.
func (t *AstTree) Clone() *AstTree {
	c := &AstTree{
		nodes:  make(map[NodeId]*AstNode, len(t.nodes)),
		root:   t.root,
		nextID: t.nextID,
	}
	for id, n := range t.nodes {
		c.nodes[id] = n.clone()
	}
	return c
}

func clampIndex(index, length int) int {
	if index < 0 {
		return 0
	}
	if index > length {
		return length
	}
	return index
}

func spliceAt(ids []NodeId, idx int, id NodeId) []NodeId {
	out := make([]NodeId, 0, len(ids)+1)
	out = append(out, ids[:idx]...)
	out = append(out, id)
	out = append(out, ids[idx:]...)
	return out
}

func removeID(ids []NodeId, id NodeId) []NodeId {
	out := ids[:0:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
