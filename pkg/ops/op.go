// Package ops defines the operation script vocabulary shared by diff,
// apply, codec, and merge: an ordered sequence of edits that transforms
// one AST into another (spec §4.3). Each op kind is its own concrete type
// behind a closed interface, the same shape the teacher repo uses for its
// node-data variants.
package ops

import (
	"fmt"

	"github.com/chazu/astvc/pkg/ast"
)

// OpType is the one-byte wire discriminant for an Op (spec §4.5).
type OpType uint8

const (
	TypeInsert  OpType = 0
	TypeDelete  OpType = 1
	TypeUpdate  OpType = 2
	TypeRelabel OpType = 3
	TypeMove    OpType = 4
)

// Op is one edit in an operation script.
type Op interface {
	// Type returns the op's wire discriminant.
	Type() OpType
	// TouchedID returns the node id this op concerns: the inserted node's
	// id for Insert, otherwise the node_id operand. Merge uses this to find
	// candidate conflict sites (spec §4.6 step 1).
	TouchedID() ast.NodeId
	// Equal reports structural equality (same variant, equal operands),
	// used by merge's multiset-equality auto-resolve rule (spec §4.6).
	Equal(Op) bool
	String() string

	opMarker()
}

// Insert creates a node with NodeID as the Index-th child of ParentID.
type Insert struct {
	NodeID   ast.NodeId
	ParentID ast.NodeId
	Index    int
	Kind     ast.AstNodeKind
	Label    string
	Value    ast.NodeValue
}

func (Insert) opMarker()        {}
func (o Insert) Type() OpType   { return TypeInsert }
func (o Insert) TouchedID() ast.NodeId { return o.NodeID }
func (o Insert) String() string {
	return fmt.Sprintf("Insert{id:%d parent:%d index:%d kind:%s label:%q}", o.NodeID, o.ParentID, o.Index, o.Kind, o.Label)
}
func (o Insert) Equal(other Op) bool {
	p, ok := other.(Insert)
	return ok && o.NodeID == p.NodeID && o.ParentID == p.ParentID && o.Index == p.Index &&
		o.Kind == p.Kind && o.Label == p.Label && o.Value.Equal(p.Value)
}

// Delete removes NodeID and its subtree.
type Delete struct {
	NodeID ast.NodeId
}

func (Delete) opMarker()        {}
func (o Delete) Type() OpType   { return TypeDelete }
func (o Delete) TouchedID() ast.NodeId { return o.NodeID }
func (o Delete) String() string { return fmt.Sprintf("Delete{id:%d}", o.NodeID) }
func (o Delete) Equal(other Op) bool {
	p, ok := other.(Delete)
	return ok && o.NodeID == p.NodeID
}

// Update replaces NodeID's value. OldValue enables inverse construction and
// optional apply-time validation; apply never fails if it disagrees.
type Update struct {
	NodeID   ast.NodeId
	OldValue ast.NodeValue
	NewValue ast.NodeValue
}

func (Update) opMarker()        {}
func (o Update) Type() OpType   { return TypeUpdate }
func (o Update) TouchedID() ast.NodeId { return o.NodeID }
func (o Update) String() string {
	return fmt.Sprintf("Update{id:%d old:%v new:%v}", o.NodeID, o.OldValue, o.NewValue)
}
func (o Update) Equal(other Op) bool {
	p, ok := other.(Update)
	return ok && o.NodeID == p.NodeID && o.OldValue.Equal(p.OldValue) && o.NewValue.Equal(p.NewValue)
}

// Relabel replaces NodeID's label.
type Relabel struct {
	NodeID   ast.NodeId
	OldLabel string
	NewLabel string
}

func (Relabel) opMarker()        {}
func (o Relabel) Type() OpType   { return TypeRelabel }
func (o Relabel) TouchedID() ast.NodeId { return o.NodeID }
func (o Relabel) String() string {
	return fmt.Sprintf("Relabel{id:%d old:%q new:%q}", o.NodeID, o.OldLabel, o.NewLabel)
}
func (o Relabel) Equal(other Op) bool {
	p, ok := other.(Relabel)
	return ok && o.NodeID == p.NodeID && o.OldLabel == p.OldLabel && o.NewLabel == p.NewLabel
}

// Move reparents NodeID under NewParentID at NewIndex.
type Move struct {
	NodeID      ast.NodeId
	NewParentID ast.NodeId
	NewIndex    int
}

func (Move) opMarker()        {}
func (o Move) Type() OpType   { return TypeMove }
func (o Move) TouchedID() ast.NodeId { return o.NodeID }
func (o Move) String() string {
	return fmt.Sprintf("Move{id:%d newParent:%d newIndex:%d}", o.NodeID, o.NewParentID, o.NewIndex)
}
func (o Move) Equal(other Op) bool {
	p, ok := other.(Move)
	return ok && o.NodeID == p.NodeID && o.NewParentID == p.NewParentID && o.NewIndex == p.NewIndex
}
