package store_test

import (
	"testing"

	"github.com/chazu/astvc/pkg/ast"
	"github.com/chazu/astvc/pkg/store"
)

func buildTree() *ast.AstTree {
	tree := ast.New()
	g, _ := tree.AddNode(ast.KindGroup, "scene", ast.RootID)
	tree.AddNodeWithValue(ast.KindPrimitive, "box", ast.IdentValue("box"), g)
	return tree
}

func TestInsertTreeIsContentAddressed(t *testing.T) {
	s := store.New()
	h1 := s.InsertTree(buildTree())
	h2 := s.InsertTree(buildTree())
	if h1 != h2 {
		t.Errorf("two identical trees hashed differently: %x vs %x", uint64(h1), uint64(h2))
	}
}

func TestInsertTreeSharesIdenticalSubtrees(t *testing.T) {
	tree := ast.New()
	g, _ := tree.AddNode(ast.KindGroup, "scene", ast.RootID)
	tree.AddNodeWithValue(ast.KindPrimitive, "box", ast.IdentValue("box"), g)
	tree.AddNodeWithValue(ast.KindPrimitive, "box", ast.IdentValue("box"), g)

	s := store.New()
	s.InsertTree(tree)

	// Root, group, and two identical primitives: the primitives collapse to
	// one stored entry.
	if s.Len() != 3 {
		t.Errorf("Len: got %d, want 3 (root+group+one shared primitive)", s.Len())
	}
}

func TestMaterializeRoundTrips(t *testing.T) {
	s := store.New()
	h := s.InsertTree(buildTree())

	got, err := s.Materialize(h)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if got.Size() != 3 {
		t.Errorf("materialized Size: got %d, want 3", got.Size())
	}

	// Re-inserting the materialized tree must produce the same hash.
	h2 := s.InsertTree(got)
	if h != h2 {
		t.Errorf("round-trip hash mismatch: %x vs %x", uint64(h), uint64(h2))
	}
}

func TestGetUnknownHash(t *testing.T) {
	s := store.New()
	if _, ok := s.Get(store.Hash(12345)); ok {
		t.Error("Get of unknown hash: got ok=true, want false")
	}
}

func TestMaterializeUnknownHash(t *testing.T) {
	s := store.New()
	if _, err := s.Materialize(store.Hash(12345)); err == nil {
		t.Error("Materialize of unknown hash: got nil error, want error")
	}
}

func TestChildHashesMatchesStoredChildren(t *testing.T) {
	s := store.New()
	h := s.InsertTree(buildTree())
	sn, _ := s.Get(h)
	if len(sn.Children) != 1 {
		t.Fatalf("root children: got %d, want 1", len(sn.Children))
	}
	groupHash := sn.Children[0]
	group, ok := s.Get(groupHash)
	if !ok {
		t.Fatal("group node not found")
	}
	if len(s.ChildHashes(groupHash)) != len(group.Children) {
		t.Errorf("ChildHashes mismatch with stored node's Children")
	}
}
