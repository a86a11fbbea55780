package ops_test

import (
	"testing"

	"github.com/chazu/astvc/pkg/ast"
	"github.com/chazu/astvc/pkg/ops"
)

func TestTouchedID(t *testing.T) {
	tests := []struct {
		name string
		op   ops.Op
		want ast.NodeId
	}{
		{"Insert", ops.Insert{NodeID: 7}, 7},
		{"Delete", ops.Delete{NodeID: 3}, 3},
		{"Update", ops.Update{NodeID: 4}, 4},
		{"Relabel", ops.Relabel{NodeID: 5}, 5},
		{"Move", ops.Move{NodeID: 6}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.TouchedID(); got != tt.want {
				t.Errorf("TouchedID: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEqualDistinguishesVariants(t *testing.T) {
	a := ops.Delete{NodeID: 1}
	b := ops.Insert{NodeID: 1}
	if a.Equal(b) {
		t.Error("Delete.Equal(Insert) of the same id: got true, want false")
	}
}

func TestEqualComparesOperands(t *testing.T) {
	a := ops.Update{NodeID: 1, OldValue: ast.IntValue(1), NewValue: ast.IntValue(2)}
	b := ops.Update{NodeID: 1, OldValue: ast.IntValue(1), NewValue: ast.IntValue(3)}
	if a.Equal(b) {
		t.Error("Updates with different NewValue: Equal got true, want false")
	}
	c := ops.Update{NodeID: 1, OldValue: ast.IntValue(1), NewValue: ast.IntValue(2)}
	if !a.Equal(c) {
		t.Error("identical Updates: Equal got false, want true")
	}
}

func TestOpTypeConstantsAreDistinct(t *testing.T) {
	seen := map[ops.OpType]bool{}
	for _, op := range []ops.Op{ops.Insert{}, ops.Delete{}, ops.Update{}, ops.Relabel{}, ops.Move{}} {
		if seen[op.Type()] {
			t.Errorf("duplicate OpType %v", op.Type())
		}
		seen[op.Type()] = true
	}
}
