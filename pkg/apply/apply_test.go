package apply_test

import (
	"testing"

	"github.com/chazu/astvc/pkg/apply"
	"github.com/chazu/astvc/pkg/ast"
	"github.com/chazu/astvc/pkg/ops"
)

func TestApplyInsert(t *testing.T) {
	tree := ast.New()
	script := []ops.Op{
		ops.Insert{NodeID: 5, ParentID: ast.RootID, Index: 0, Kind: ast.KindPrimitive, Label: "box", Value: ast.IdentValue("box")},
	}
	if err := apply.ApplyPatch(tree, script); err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	n, ok := tree.GetNode(5)
	if !ok {
		t.Fatal("inserted node not found")
	}
	if n.Label != "box" || n.Kind != ast.KindPrimitive {
		t.Errorf("inserted node: got %+v", n)
	}
}

func TestApplyDeleteUpdateRelabelMove(t *testing.T) {
	tree := ast.New()
	a, _ := tree.AddNode(ast.KindGroup, "a", ast.RootID)
	b, _ := tree.AddNode(ast.KindGroup, "b", ast.RootID)
	c, _ := tree.AddNodeWithValue(ast.KindPrimitive, "c", ast.IntValue(1), a)

	script := []ops.Op{
		ops.Update{NodeID: c, OldValue: ast.IntValue(1), NewValue: ast.IntValue(2)},
		ops.Relabel{NodeID: c, OldLabel: "c", NewLabel: "c2"},
		ops.Move{NodeID: c, NewParentID: b, NewIndex: 0},
		ops.Delete{NodeID: a},
	}
	if err := apply.ApplyPatch(tree, script); err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}

	n, ok := tree.GetNode(c)
	if !ok {
		t.Fatal("node c missing after apply")
	}
	if !n.Value.Equal(ast.IntValue(2)) {
		t.Errorf("value after Update: got %v, want IntValue(2)", n.Value)
	}
	if n.Label != "c2" {
		t.Errorf("label after Relabel: got %q, want c2", n.Label)
	}
	if n.Parent != b {
		t.Errorf("parent after Move: got %d, want %d", n.Parent, b)
	}
	if _, ok := tree.GetNode(a); ok {
		t.Error("node a still present after Delete")
	}
}

func TestApplyUpdateOldValueMismatchStillApplies(t *testing.T) {
	tree := ast.New()
	id, _ := tree.AddNodeWithValue(ast.KindPrimitive, "x", ast.IntValue(1), ast.RootID)

	script := []ops.Op{
		ops.Update{NodeID: id, OldValue: ast.IntValue(999), NewValue: ast.IntValue(2)},
	}
	if err := apply.ApplyPatch(tree, script); err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	n, _ := tree.GetNode(id)
	if !n.Value.Equal(ast.IntValue(2)) {
		t.Errorf("value: got %v, want IntValue(2) despite old_value mismatch", n.Value)
	}
}

func TestApplyUnknownNodeFails(t *testing.T) {
	tree := ast.New()
	script := []ops.Op{ops.Delete{NodeID: 999}}
	if err := apply.ApplyPatch(tree, script); err == nil {
		t.Error("ApplyPatch of Delete on unknown node: got nil error, want error")
	}
}
