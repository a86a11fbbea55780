package diff_test

import (
	"testing"

	"github.com/chazu/astvc/pkg/apply"
	"github.com/chazu/astvc/pkg/ast"
	"github.com/chazu/astvc/pkg/diff"
	"github.com/chazu/astvc/pkg/ops"
)

func TestDiffIdenticalTreesIsEmpty(t *testing.T) {
	a := ast.New()
	a.AddNode(ast.KindPrimitive, "box", ast.RootID)
	b := a.Clone()

	script := diff.DiffTrees(a, b)
	if len(script) != 0 {
		t.Errorf("diff of identical trees: got %v, want empty", script)
	}
}

func TestDiffDetectsInsert(t *testing.T) {
	oldTree := ast.New()
	newTree := ast.New()
	newTree.AddNode(ast.KindPrimitive, "box", ast.RootID)

	script := diff.DiffTrees(oldTree, newTree)
	if len(script) != 1 {
		t.Fatalf("script: got %v, want 1 Insert", script)
	}
	if _, ok := script[0].(ops.Insert); !ok {
		t.Errorf("script[0]: got %T, want ops.Insert", script[0])
	}
}

func TestDiffDetectsDelete(t *testing.T) {
	oldTree := ast.New()
	oldTree.AddNode(ast.KindPrimitive, "box", ast.RootID)
	newTree := ast.New()

	script := diff.DiffTrees(oldTree, newTree)
	if len(script) != 1 {
		t.Fatalf("script: got %v, want 1 Delete", script)
	}
	if _, ok := script[0].(ops.Delete); !ok {
		t.Errorf("script[0]: got %T, want ops.Delete", script[0])
	}
}

func TestDiffDeletesBeforeInserts(t *testing.T) {
	oldTree := ast.New()
	oldTree.AddNode(ast.KindPrimitive, "gone", ast.RootID)

	newTree := ast.New()
	newTree.AddNode(ast.KindPrimitive, "new", ast.RootID)

	script := diff.DiffTrees(oldTree, newTree)
	if len(script) != 2 {
		t.Fatalf("script: got %v, want 2 ops", script)
	}
	if _, ok := script[0].(ops.Delete); !ok {
		t.Errorf("script[0]: got %T, want ops.Delete (must precede Insert)", script[0])
	}
	if _, ok := script[1].(ops.Insert); !ok {
		t.Errorf("script[1]: got %T, want ops.Insert", script[1])
	}
}

func TestDiffDetectsUpdateOnMatchedNode(t *testing.T) {
	oldTree := ast.New()
	id, _ := oldTree.AddNodeWithValue(ast.KindParameter, "radius", ast.FloatValue(1), ast.RootID)
	newTree := oldTree.Clone()
	n, _ := newTree.GetNode(id)
	n.Value = ast.FloatValue(2)

	script := diff.DiffTrees(oldTree, newTree)
	if len(script) != 1 {
		t.Fatalf("script: got %v, want 1 Update", script)
	}
	up, ok := script[0].(ops.Update)
	if !ok {
		t.Fatalf("script[0]: got %T, want ops.Update", script[0])
	}
	if !up.NewValue.Equal(ast.FloatValue(2)) {
		t.Errorf("Update.NewValue: got %v, want FloatValue(2)", up.NewValue)
	}
}

func TestDiffApplyRoundTrip(t *testing.T) {
	oldTree := ast.New()
	g, _ := oldTree.AddNode(ast.KindGroup, "scene", ast.RootID)
	oldTree.AddNode(ast.KindPrimitive, "box", g)

	newTree := ast.New()
	ng, _ := newTree.AddNode(ast.KindGroup, "scene", ast.RootID)
	newTree.AddNode(ast.KindPrimitive, "sphere", ng)
	newTree.AddNode(ast.KindPrimitive, "cylinder", ng)

	script := diff.DiffTrees(oldTree, newTree)
	if err := apply.ApplyPatch(oldTree, script); err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}

	// oldTree should now have the same shape as newTree: one group with two
	// primitive children labeled sphere and cylinder.
	children := oldTree.Children(g)
	if len(children) != 2 {
		t.Fatalf("children after apply: got %v, want 2", children)
	}
	var labels []string
	for _, c := range children {
		n, _ := oldTree.GetNode(c)
		labels = append(labels, n.Label)
	}
	if labels[0] != "sphere" || labels[1] != "cylinder" {
		t.Errorf("labels after apply: got %v, want [sphere cylinder]", labels)
	}
}

func TestDiffInsertsWholeNewSubtree(t *testing.T) {
	oldTree := ast.New()
	newTree := ast.New()
	opID, _ := newTree.AddNode(ast.KindCsgOp, "subtract", ast.RootID)
	newTree.AddNode(ast.KindPrimitive, "cube", opID)

	script := diff.DiffTrees(oldTree, newTree)
	if len(script) != 2 {
		t.Fatalf("script: got %v, want 2 Inserts (csg-op and its child)", script)
	}
	for _, op := range script {
		if _, ok := op.(ops.Insert); !ok {
			t.Errorf("op: got %T, want ops.Insert", op)
		}
	}

	target := oldTree.Clone()
	if err := apply.ApplyPatch(target, script); err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	children := target.Children(ast.RootID)
	if len(children) != 1 {
		t.Fatalf("root children after apply: got %v, want 1", children)
	}
	op, _ := target.GetNode(children[0])
	if op.Kind != ast.KindCsgOp || len(op.Children) != 1 {
		t.Fatalf("csg-op after apply: got %v, want 1 child", op)
	}
	cube, _ := target.GetNode(op.Children[0])
	if cube.Label != "cube" {
		t.Errorf("csg-op child label: got %q, want cube", cube.Label)
	}
}

func TestPatchSizeBytesIsPositiveForNonEmptyScript(t *testing.T) {
	script := []ops.Op{ops.Delete{NodeID: 1}}
	if diff.PatchSizeBytes(script) <= 0 {
		t.Error("PatchSizeBytes of a non-empty script: got <= 0")
	}
}
