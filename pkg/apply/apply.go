// Package apply reconstructs a target tree from a source tree plus an
// operation script (spec §4.4). Apply is deterministic and never panics on
// caller-controlled input; it surfaces the first offending op's error and
// leaves the tree partially mutated — callers that need atomicity clone
// first (spec §7).
package apply

import (
	"log/slog"

	"github.com/chazu/astvc/pkg/ast"
	"github.com/chazu/astvc/pkg/ops"
	"github.com/chazu/astvc/pkg/vcserr"
)

// ApplyPatch mutates tree in place, executing script in list order.
func ApplyPatch(tree *ast.AstTree, script []ops.Op) error {
	for i, op := range script {
		if err := applyOne(tree, op); err != nil {
			return vcserr.Wrap(err, "apply: op %d (%s)", i, op)
		}
	}
	return nil
}

func applyOne(tree *ast.AstTree, op ops.Op) error {
	switch o := op.(type) {
	case ops.Insert:
		return tree.InsertWithID(o.NodeID, o.ParentID, o.Index, o.Kind, o.Label, o.Value)

	case ops.Delete:
		return tree.RemoveSubtree(o.NodeID)

	case ops.Update:
		n, ok := tree.GetNode(o.NodeID)
		if !ok {
			return vcserr.Wrap(vcserr.ErrInvalidOp, "update: node %d not found", o.NodeID)
		}
		if !n.Value.Equal(o.OldValue) {
			slog.Warn("apply: update old_value mismatch, applying anyway",
				"node_id", o.NodeID, "expected", o.OldValue, "actual", n.Value)
		}
		n.Value = o.NewValue.Clone()
		return nil

	case ops.Relabel:
		n, ok := tree.GetNode(o.NodeID)
		if !ok {
			return vcserr.Wrap(vcserr.ErrInvalidOp, "relabel: node %d not found", o.NodeID)
		}
		n.Label = o.NewLabel
		return nil

	case ops.Move:
		return tree.Move(o.NodeID, o.NewParentID, o.NewIndex)

	default:
		return vcserr.Wrap(vcserr.ErrInvalidOp, "unknown op type %T", op)
	}
}
