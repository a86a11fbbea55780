package ast

import "fmt"

// AstNodeKind is a closed, one-byte-encoded tag for what a node represents.
// Values 8..254 are reserved and decode as Custom; adding a kind is a
// codec-and-hash-format change (bump the kind byte), not an open class
// hierarchy.
type AstNodeKind uint8

const (
	KindRoot      AstNodeKind = 0
	KindCsgOp     AstNodeKind = 1
	KindPrimitive AstNodeKind = 2
	KindTransform AstNodeKind = 3
	KindParameter AstNodeKind = 4
	KindGroup     AstNodeKind = 5
	KindMaterial  AstNodeKind = 6
	KindKeyframe  AstNodeKind = 7
	KindCustom    AstNodeKind = 255
)

// String renders the kind for logs and error messages.
func (k AstNodeKind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindCsgOp:
		return "CsgOp"
	case KindPrimitive:
		return "Primitive"
	case KindTransform:
		return "Transform"
	case KindParameter:
		return "Parameter"
	case KindGroup:
		return "Group"
	case KindMaterial:
		return "Material"
	case KindKeyframe:
		return "Keyframe"
	default:
		return "Custom"
	}
}

// DecodeKind maps a wire byte to an AstNodeKind, folding any value in
// 8..254 into Custom per spec.
func DecodeKind(b byte) AstNodeKind {
	switch b {
	case 0, 1, 2, 3, 4, 5, 6, 7, 255:
		return AstNodeKind(b)
	default:
		return KindCustom
	}
}

// GoString supports %#v and makes test failures readable.
func (k AstNodeKind) GoString() string {
	return fmt.Sprintf("ast.Kind%s", k.String())
}
