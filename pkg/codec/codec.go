// Package codec implements the binary wire format for operation scripts
// (spec §4.5): a varint op count, then one tagged record per op. Decode is
// the exact inverse of Encode for every well-formed script (the round-trip
// law of spec §8 property 2).
package codec

import (
	"github.com/chazu/astvc/internal/varint"
	"github.com/chazu/astvc/internal/wireval"
	"github.com/chazu/astvc/pkg/ast"
	"github.com/chazu/astvc/pkg/ops"
	"github.com/chazu/astvc/pkg/vcserr"
)

// Encode serializes script into the spec §4.5 byte stream.
func Encode(script []ops.Op) []byte {
	buf := make([]byte, 0, 16*len(script)+4)
	buf = varint.Append(buf, uint64(len(script)))
	for _, op := range script {
		buf = encodeOp(buf, op)
	}
	return buf
}

// Size returns len(Encode(script)) without requiring callers to discard the
// intermediate buffer themselves; used by pkg/diff's patch-size estimate.
func Size(script []ops.Op) int {
	return len(Encode(script))
}

func encodeOp(buf []byte, op ops.Op) []byte {
	buf = append(buf, byte(op.Type()))
	switch o := op.(type) {
	case ops.Insert:
		buf = varint.Append(buf, uint64(o.NodeID))
		buf = varint.Append(buf, uint64(o.ParentID))
		buf = varint.Append(buf, uint64(o.Index))
		buf = append(buf, byte(o.Kind))
		buf = wireval.AppendString(buf, o.Label)
		buf = wireval.AppendValue(buf, o.Value)
	case ops.Delete:
		buf = varint.Append(buf, uint64(o.NodeID))
	case ops.Update:
		buf = varint.Append(buf, uint64(o.NodeID))
		buf = wireval.AppendValue(buf, o.OldValue)
		buf = wireval.AppendValue(buf, o.NewValue)
	case ops.Relabel:
		buf = varint.Append(buf, uint64(o.NodeID))
		buf = wireval.AppendString(buf, o.OldLabel)
		buf = wireval.AppendString(buf, o.NewLabel)
	case ops.Move:
		buf = varint.Append(buf, uint64(o.NodeID))
		buf = varint.Append(buf, uint64(o.NewParentID))
		buf = varint.Append(buf, uint64(o.NewIndex))
	}
	return buf
}

// Decode is the exact inverse of Encode. It fails with vcserr.ErrTruncated,
// ErrInvalidOpType, ErrInvalidValueTag, or ErrInvalidUtf8. It never fails
// with ErrInvalidKind: ast.DecodeKind folds every unknown kind byte into
// Custom.
func Decode(data []byte) ([]ops.Op, error) {
	count, n, err := varint.Read(data)
	if err != nil {
		return nil, vcserr.Wrap(vcserr.ErrTruncated, "decode: op count")
	}
	rest := data[n:]

	script := make([]ops.Op, 0, count)
	for i := uint64(0); i < count; i++ {
		op, consumed, err := decodeOp(rest)
		if err != nil {
			return nil, vcserr.Wrap(err, "decode: op %d", i)
		}
		script = append(script, op)
		rest = rest[consumed:]
	}
	return script, nil
}

func decodeOp(b []byte) (ops.Op, int, error) {
	if len(b) < 1 {
		return nil, 0, vcserr.Wrap(vcserr.ErrTruncated, "op type")
	}
	opType := ops.OpType(b[0])
	rest := b[1:]
	total := 1

	readVarint := func() (uint64, error) {
		v, n, err := varint.Read(rest)
		if err != nil {
			return 0, vcserr.Wrap(vcserr.ErrTruncated, "varint")
		}
		rest = rest[n:]
		total += n
		return v, nil
	}
	readString := func() (string, error) {
		s, n, err := wireval.ReadString(rest)
		if err != nil {
			return "", err
		}
		rest = rest[n:]
		total += n
		return s, nil
	}
	readValue := func() (ast.NodeValue, error) {
		v, n, err := wireval.ReadValue(rest)
		if err != nil {
			return ast.NodeValue{}, err
		}
		rest = rest[n:]
		total += n
		return v, nil
	}

	switch opType {
	case ops.TypeInsert:
		nodeID, err := readVarint()
		if err != nil {
			return nil, 0, err
		}
		parentID, err := readVarint()
		if err != nil {
			return nil, 0, err
		}
		index, err := readVarint()
		if err != nil {
			return nil, 0, err
		}
		if len(rest) < 1 {
			return nil, 0, vcserr.Wrap(vcserr.ErrTruncated, "insert: kind")
		}
		kind := ast.DecodeKind(rest[0])
		rest = rest[1:]
		total++
		label, err := readString()
		if err != nil {
			return nil, 0, err
		}
		value, err := readValue()
		if err != nil {
			return nil, 0, err
		}
		return ops.Insert{
			NodeID: ast.NodeId(nodeID), ParentID: ast.NodeId(parentID), Index: int(index),
			Kind: kind, Label: label, Value: value,
		}, total, nil

	case ops.TypeDelete:
		nodeID, err := readVarint()
		if err != nil {
			return nil, 0, err
		}
		return ops.Delete{NodeID: ast.NodeId(nodeID)}, total, nil

	case ops.TypeUpdate:
		nodeID, err := readVarint()
		if err != nil {
			return nil, 0, err
		}
		oldV, err := readValue()
		if err != nil {
			return nil, 0, err
		}
		newV, err := readValue()
		if err != nil {
			return nil, 0, err
		}
		return ops.Update{NodeID: ast.NodeId(nodeID), OldValue: oldV, NewValue: newV}, total, nil

	case ops.TypeRelabel:
		nodeID, err := readVarint()
		if err != nil {
			return nil, 0, err
		}
		oldL, err := readString()
		if err != nil {
			return nil, 0, err
		}
		newL, err := readString()
		if err != nil {
			return nil, 0, err
		}
		return ops.Relabel{NodeID: ast.NodeId(nodeID), OldLabel: oldL, NewLabel: newL}, total, nil

	case ops.TypeMove:
		nodeID, err := readVarint()
		if err != nil {
			return nil, 0, err
		}
		newParent, err := readVarint()
		if err != nil {
			return nil, 0, err
		}
		newIndex, err := readVarint()
		if err != nil {
			return nil, 0, err
		}
		return ops.Move{NodeID: ast.NodeId(nodeID), NewParentID: ast.NodeId(newParent), NewIndex: int(newIndex)}, total, nil

	default:
		return nil, 0, vcserr.Wrap(vcserr.ErrInvalidOpType, "op type 0x%02x", byte(opType))
	}
}
