package ast

import "bytes"

// ValueTag discriminates the variants of NodeValue. The numeric values
// match the wire tag byte in the binary codec (spec §4.5).
type ValueTag uint8

const (
	TagNone  ValueTag = 0x00
	TagInt   ValueTag = 0x01
	TagFloat ValueTag = 0x02
	TagText  ValueTag = 0x03
	TagIdent ValueTag = 0x04
	TagBytes ValueTag = 0x05
)

func (t ValueTag) String() string {
	switch t {
	case TagNone:
		return "None"
	case TagInt:
		return "Int"
	case TagFloat:
		return "Float"
	case TagText:
		return "Text"
	case TagIdent:
		return "Ident"
	case TagBytes:
		return "Bytes"
	default:
		return "Unknown"
	}
}

// NodeValue is a tagged union over a node's payload. The zero value is
// None. Text and Ident differ only in tag; their byte content is
// equivalent, which is why both carry their payload in Str.
type NodeValue struct {
	Tag   ValueTag
	Int   int64
	Float float64
	Str   string
	Bytes []byte
}

// None is the empty NodeValue.
var None = NodeValue{Tag: TagNone}

// IntValue constructs a signed 64-bit integer value.
func IntValue(v int64) NodeValue { return NodeValue{Tag: TagInt, Int: v} }

// FloatValue constructs an IEEE-754 binary64 value.
func FloatValue(v float64) NodeValue { return NodeValue{Tag: TagFloat, Float: v} }

// TextValue constructs a UTF-8 text value.
func TextValue(s string) NodeValue { return NodeValue{Tag: TagText, Str: s} }

// IdentValue constructs a UTF-8 identifier value.
func IdentValue(s string) NodeValue { return NodeValue{Tag: TagIdent, Str: s} }

// BytesValue constructs an octet-sequence value.
func BytesValue(b []byte) NodeValue { return NodeValue{Tag: TagBytes, Bytes: b} }

// Equal reports whether two values carry the same tag and payload.
func (v NodeValue) Equal(o NodeValue) bool {
	if v.Tag != o.Tag {
		return false
	}
	switch v.Tag {
	case TagNone:
		return true
	case TagInt:
		return v.Int == o.Int
	case TagFloat:
		return v.Float == o.Float
	case TagText, TagIdent:
		return v.Str == o.Str
	case TagBytes:
		return bytes.Equal(v.Bytes, o.Bytes)
	default:
		return false
	}
}

// Clone returns a deep copy so mutating the result never aliases v.
func (v NodeValue) Clone() NodeValue {
	if len(v.Bytes) == 0 {
		return v
	}
	c := v
	c.Bytes = append([]byte(nil), v.Bytes...)
	return c
}
