// Package repo implements the git-like repository layer of spec §4.7: named
// branches pointing at commit hashes, commits chained to their parent and
// addressing a tree snapshot in the underlying store. It is the thinnest
// layer over pkg/store/pkg/diff/pkg/merge that gives them branch semantics;
// it owns no tree-editing logic of its own.
package repo

import (
	"log/slog"

	"github.com/samber/lo"

	"github.com/chazu/astvc/pkg/apply"
	"github.com/chazu/astvc/pkg/ast"
	"github.com/chazu/astvc/pkg/diff"
	"github.com/chazu/astvc/pkg/merge"
	"github.com/chazu/astvc/pkg/ops"
	"github.com/chazu/astvc/pkg/store"
	"github.com/chazu/astvc/pkg/vcserr"
)

// applyMerged applies a clean merge's combined op list to base in place.
func applyMerged(base *ast.AstTree, script []ops.Op) error {
	return apply.ApplyPatch(base, script)
}

// Branch is a named, mutable pointer to a commit.
type Branch struct {
	Name string
	Head CommitHash
}

// Repository owns a store, a set of commits, and a set of named branches.
// It is not safe for concurrent use without external synchronization (spec
// §5): callers serialize writers themselves, same as the teacher's engine
// guards its interpreter with a single mutex rather than making every
// method independently safe.
type Repository struct {
	store    *store.SnapshotStore
	commits  map[CommitHash]Commit
	branches map[string]*Branch
	current  string      // checked-out branch name
	nextID   ast.NodeId  // shared id watermark across every checked-out tree
}

// New returns a repository with a single branch, name, rooted at an empty
// tree with the given initial commit metadata.
func New(name, author, message string, timestamp int64) *Repository {
	s := store.New()
	tree := ast.New()
	snap := s.InsertTree(tree)

	h := computeCommitHash(snap, 0, false, message, author, timestamp)
	c := Commit{Hash: h, SnapshotHash: snap, Message: message, Author: author, Timestamp: timestamp}

	r := &Repository{
		store:    s,
		commits:  map[CommitHash]Commit{h: c},
		branches: map[string]*Branch{name: {Name: name, Head: h}},
		current:  name,
		nextID:   tree.NextID(),
	}
	slog.Debug("repo: initialized", "branch", name, "commit", h)
	return r
}

// Store exposes the underlying snapshot store, primarily for pkg/gc.
func (r *Repository) Store() *store.SnapshotStore { return r.store }

// Current returns the name of the checked-out branch.
func (r *Repository) Current() string { return r.current }

// Branches returns every branch name, sorted.
func (r *Repository) Branches() []string {
	return sortStrings(lo.Keys(r.branches))
}

// HeadHash returns the checked-out branch's current commit hash.
func (r *Repository) HeadHash() CommitHash {
	return r.branches[r.current].Head
}

// Commit stores tree as a snapshot, applies no edits itself — callers
// mutate a tree obtained via Checkout and pass it here — and records a new
// commit as the checked-out branch's head.
func (r *Repository) Commit(tree *ast.AstTree, author, message string, timestamp int64) CommitHash {
	snap := r.store.InsertTree(tree)
	parent := r.branches[r.current].Head
	h := computeCommitHash(snap, parent, true, message, author, timestamp)

	r.commits[h] = Commit{
		Hash: h, SnapshotHash: snap, Parent: parent, HasParent: true,
		Message: message, Author: author, Timestamp: timestamp,
	}
	r.branches[r.current].Head = h
	if tree.NextID() > r.nextID {
		r.nextID = tree.NextID()
	}
	slog.Debug("repo: commit", "branch", r.current, "commit", h, "parent", parent)
	return h
}

// Checkout switches the current branch and returns its materialized tree.
// The returned tree's id allocator starts from the repository-wide
// watermark, not from the tree's own node count: two branches checked out
// from the same ancestor commit must hand out disjoint ids for their new
// nodes, or diffing each against that ancestor and merging the two scripts
// would make unrelated inserts collide on NodeID.
func (r *Repository) Checkout(branch string) (*ast.AstTree, error) {
	b, ok := r.branches[branch]
	if !ok {
		return nil, vcserr.Wrap(vcserr.ErrUnknownBranch, "checkout: %q", branch)
	}
	r.current = branch
	c, ok := r.commits[b.Head]
	if !ok {
		return nil, vcserr.Wrap(vcserr.ErrUnknownCommit, "checkout: head %d", b.Head)
	}
	tree, err := r.store.Materialize(c.SnapshotHash)
	if err != nil {
		return nil, err
	}
	tree.AdvanceNextID(r.nextID)
	return tree, nil
}

// CreateBranch creates a new branch named name pointing at from's current
// head. It does not check it out.
func (r *Repository) CreateBranch(name, from string) error {
	if _, exists := r.branches[name]; exists {
		return vcserr.Wrap(vcserr.ErrBranchExists, "create_branch: %q", name)
	}
	src, ok := r.branches[from]
	if !ok {
		return vcserr.Wrap(vcserr.ErrUnknownBranch, "create_branch: from %q", from)
	}
	r.branches[name] = &Branch{Name: name, Head: src.Head}
	slog.Debug("repo: branch created", "name", name, "from", from, "head", src.Head)
	return nil
}

// DeleteBranch removes a branch by name. It cannot remove the checked-out
// branch or the last remaining branch, and fails UnknownBranch if name is
// absent. Its commits are not deleted; they simply stop contributing to
// Roots() until nothing else reaches them, at which point pkg/gc can reclaim
// their store entries.
func (r *Repository) DeleteBranch(name string) error {
	if _, ok := r.branches[name]; !ok {
		return vcserr.Wrap(vcserr.ErrUnknownBranch, "delete_branch: %q", name)
	}
	if name == r.current {
		return vcserr.Wrap(vcserr.ErrInvalidOp, "delete_branch: cannot delete checked-out branch %q", name)
	}
	if len(r.branches) <= 1 {
		return vcserr.Wrap(vcserr.ErrInvalidOp, "delete_branch: cannot delete the last branch")
	}
	delete(r.branches, name)
	slog.Debug("repo: branch deleted", "name", name)
	return nil
}

// Log returns the checked-out branch's commits from head to root, newest
// first.
func (r *Repository) Log() []Commit {
	var out []Commit
	cur := r.branches[r.current].Head
	for {
		c, ok := r.commits[cur]
		if !ok {
			break
		}
		out = append(out, c)
		if !c.HasParent {
			break
		}
		cur = c.Parent
	}
	return out
}

// Diff returns the operation script from one commit's tree to another's.
func (r *Repository) Diff(from, to CommitHash) ([]ops.Op, error) {
	oldTree, err := r.treeAt(from)
	if err != nil {
		return nil, err
	}
	newTree, err := r.treeAt(to)
	if err != nil {
		return nil, err
	}
	return diff.DiffTrees(oldTree, newTree), nil
}

// Merge 3-way merges branch into the checked-out branch, using the nearest
// common ancestor found by walking both branches' parent chains. On a clean
// merge it commits the result and returns the new head; otherwise it
// returns the conflicts and commits nothing.
func (r *Repository) Merge(branch, author, message string, timestamp int64) (CommitHash, merge.MergeResult, error) {
	ours := r.branches[r.current].Head
	theirs, ok := r.branches[branch]
	if !ok {
		return 0, merge.MergeResult{}, vcserr.Wrap(vcserr.ErrUnknownBranch, "merge: %q", branch)
	}

	base, ok := r.commonAncestor(ours, theirs.Head)
	if !ok {
		return 0, merge.MergeResult{}, vcserr.Wrap(vcserr.ErrUnknownCommit, "merge: no common ancestor")
	}

	ourScript, err := r.Diff(base, ours)
	if err != nil {
		return 0, merge.MergeResult{}, err
	}
	theirScript, err := r.Diff(base, theirs.Head)
	if err != nil {
		return 0, merge.MergeResult{}, err
	}

	result := merge.MergePatches(ourScript, theirScript)
	if !result.IsClean() {
		slog.Debug("repo: merge produced conflicts", "branch", branch, "conflicts", len(result.Conflicts))
		return 0, result, nil
	}

	baseTree, err := r.treeAt(base)
	if err != nil {
		return 0, result, err
	}
	if err := applyMerged(baseTree, result.Merged); err != nil {
		return 0, result, err
	}

	h := r.Commit(baseTree, author, message, timestamp)
	return h, result, nil
}

// Roots returns the snapshot hash of every commit each branch head reaches,
// the set of store.Hash values pkg/gc should treat as live (spec §4.8's root set is
// assembled here so pkg/gc stays a pure function of (store, roots)).
func (r *Repository) Roots() []store.Hash {
	var out []store.Hash
	for _, b := range r.branches {
		cur := b.Head
		for {
			c, ok := r.commits[cur]
			if !ok {
				break
			}
			out = append(out, c.SnapshotHash)
			if !c.HasParent {
				break
			}
			cur = c.Parent
		}
	}
	return lo.Uniq(out)
}

func (r *Repository) treeAt(h CommitHash) (*ast.AstTree, error) {
	c, ok := r.commits[h]
	if !ok {
		return nil, vcserr.Wrap(vcserr.ErrUnknownCommit, "tree_at: %d", h)
	}
	return r.store.Materialize(c.SnapshotHash)
}

// commonAncestor walks both chains to their roots and returns the first
// hash present on both, preferring the one closest to ours.
func (r *Repository) commonAncestor(a, b CommitHash) (CommitHash, bool) {
	seen := map[CommitHash]struct{}{}
	for cur, ok := a, true; ok; {
		seen[cur] = struct{}{}
		c, exists := r.commits[cur]
		if !exists || !c.HasParent {
			break
		}
		cur = c.Parent
	}
	for cur := b; ; {
		if _, ok := seen[cur]; ok {
			return cur, true
		}
		c, exists := r.commits[cur]
		if !exists || !c.HasParent {
			break
		}
		cur = c.Parent
	}
	return 0, false
}

func sortStrings(in []string) []string {
	out := append([]string(nil), in...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
