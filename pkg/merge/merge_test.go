package merge_test

import (
	"testing"

	"github.com/chazu/astvc/pkg/ast"
	"github.com/chazu/astvc/pkg/merge"
	"github.com/chazu/astvc/pkg/ops"
)

func TestMergeDisjointEditsIsClean(t *testing.T) {
	ours := []ops.Op{ops.Update{NodeID: 1, OldValue: ast.IntValue(0), NewValue: ast.IntValue(1)}}
	theirs := []ops.Op{ops.Update{NodeID: 2, OldValue: ast.IntValue(0), NewValue: ast.IntValue(2)}}

	result := merge.MergePatches(ours, theirs)
	if !result.IsClean() {
		t.Fatalf("IsClean: got false, want true; conflicts: %v", result.Conflicts)
	}
	if len(result.Merged) != 2 {
		t.Errorf("Merged: got %v, want 2 ops", result.Merged)
	}
}

func TestMergeIdenticalEditsOfSameNodeIsClean(t *testing.T) {
	op := ops.Update{NodeID: 1, OldValue: ast.IntValue(0), NewValue: ast.IntValue(5)}
	result := merge.MergePatches([]ops.Op{op}, []ops.Op{op})

	if !result.IsClean() {
		t.Fatalf("IsClean: got false, want true; conflicts: %v", result.Conflicts)
	}
	if len(result.Merged) != 1 {
		t.Errorf("Merged: got %v, want 1 op (deduplicated)", result.Merged)
	}
}

func TestMergeConflictingEditsOfSameNode(t *testing.T) {
	ours := []ops.Op{ops.Update{NodeID: 1, OldValue: ast.IntValue(0), NewValue: ast.IntValue(1)}}
	theirs := []ops.Op{ops.Update{NodeID: 1, OldValue: ast.IntValue(0), NewValue: ast.IntValue(2)}}

	result := merge.MergePatches(ours, theirs)
	if result.IsClean() {
		t.Fatal("IsClean: got true, want false")
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("Conflicts: got %v, want 1", result.Conflicts)
	}
	if result.Conflicts[0].NodeID != 1 {
		t.Errorf("conflict NodeID: got %d, want 1", result.Conflicts[0].NodeID)
	}
}

func TestMergeDeleteVsUpdateConflicts(t *testing.T) {
	ours := []ops.Op{ops.Delete{NodeID: 1}}
	theirs := []ops.Op{ops.Update{NodeID: 1, OldValue: ast.IntValue(0), NewValue: ast.IntValue(9)}}

	result := merge.MergePatches(ours, theirs)
	if result.IsClean() {
		t.Fatal("IsClean: got true, want false for delete-vs-update")
	}
}

func TestMergeOneSidedEditIsClean(t *testing.T) {
	ours := []ops.Op{ops.Delete{NodeID: 1}}
	result := merge.MergePatches(ours, nil)

	if !result.IsClean() {
		t.Fatalf("IsClean: got false, want true; conflicts: %v", result.Conflicts)
	}
	if len(result.Merged) != 1 || !result.Merged[0].Equal(ours[0]) {
		t.Errorf("Merged: got %v, want %v", result.Merged, ours)
	}
}
