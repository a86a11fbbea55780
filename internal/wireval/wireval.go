// Package wireval implements the shared byte encoding for ast.NodeValue and
// UTF-8 strings used by both the snapshot store's content hash (spec §4.2)
// and the operation-script codec (spec §4.5) — the two are required to
// agree bit-for-bit, so there is exactly one implementation.
package wireval

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/chazu/astvc/internal/varint"
	"github.com/chazu/astvc/pkg/ast"
	"github.com/chazu/astvc/pkg/vcserr"
)

// AppendString appends varint(byte_length) + UTF-8 bytes.
func AppendString(dst []byte, s string) []byte {
	dst = varint.Append(dst, uint64(len(s)))
	return append(dst, s...)
}

// ReadString decodes a length-prefixed UTF-8 string, validating it.
func ReadString(b []byte) (string, int, error) {
	n, nn, err := varint.Read(b)
	if err != nil {
		return "", 0, vcserr.Wrap(vcserr.ErrTruncated, "string: length")
	}
	total := nn + int(n)
	if total > len(b) || int(n) < 0 {
		return "", 0, vcserr.Wrap(vcserr.ErrTruncated, "string: body")
	}
	body := b[nn:total]
	if !utf8.Valid(body) {
		return "", 0, vcserr.Wrap(vcserr.ErrInvalidUtf8, "string: invalid utf-8")
	}
	return string(body), total, nil
}

// AppendValue appends the 1-byte tag + payload encoding of spec §4.5.
func AppendValue(dst []byte, v ast.NodeValue) []byte {
	dst = append(dst, byte(v.Tag))
	switch v.Tag {
	case ast.TagNone:
		// no payload
	case ast.TagInt:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v.Int))
		dst = append(dst, buf[:]...)
	case ast.TagFloat:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.Float))
		dst = append(dst, buf[:]...)
	case ast.TagText, ast.TagIdent:
		dst = AppendString(dst, v.Str)
	case ast.TagBytes:
		dst = varint.Append(dst, uint64(len(v.Bytes)))
		dst = append(dst, v.Bytes...)
	}
	return dst
}

// ReadValue decodes a tagged value, returning the value and bytes consumed.
func ReadValue(b []byte) (ast.NodeValue, int, error) {
	if len(b) < 1 {
		return ast.NodeValue{}, 0, vcserr.Wrap(vcserr.ErrTruncated, "value: tag")
	}
	tag := ast.ValueTag(b[0])
	rest := b[1:]
	switch tag {
	case ast.TagNone:
		return ast.None, 1, nil
	case ast.TagInt:
		if len(rest) < 8 {
			return ast.NodeValue{}, 0, vcserr.Wrap(vcserr.ErrTruncated, "value: int payload")
		}
		v := int64(binary.LittleEndian.Uint64(rest[:8]))
		return ast.IntValue(v), 9, nil
	case ast.TagFloat:
		if len(rest) < 8 {
			return ast.NodeValue{}, 0, vcserr.Wrap(vcserr.ErrTruncated, "value: float payload")
		}
		v := math.Float64frombits(binary.LittleEndian.Uint64(rest[:8]))
		return ast.FloatValue(v), 9, nil
	case ast.TagText:
		s, n, err := ReadString(rest)
		if err != nil {
			return ast.NodeValue{}, 0, err
		}
		return ast.TextValue(s), 1 + n, nil
	case ast.TagIdent:
		s, n, err := ReadString(rest)
		if err != nil {
			return ast.NodeValue{}, 0, err
		}
		return ast.IdentValue(s), 1 + n, nil
	case ast.TagBytes:
		ln, nn, err := varint.Read(rest)
		if err != nil {
			return ast.NodeValue{}, 0, vcserr.Wrap(vcserr.ErrTruncated, "value: bytes length")
		}
		total := nn + int(ln)
		if total > len(rest) {
			return ast.NodeValue{}, 0, vcserr.Wrap(vcserr.ErrTruncated, "value: bytes body")
		}
		buf := append([]byte(nil), rest[nn:total]...)
		return ast.BytesValue(buf), 1 + total, nil
	default:
		return ast.NodeValue{}, 0, vcserr.Wrap(vcserr.ErrInvalidValueTag, "value: tag 0x%02x", byte(tag))
	}
}
