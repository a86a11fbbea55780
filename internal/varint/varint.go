// Package varint implements unsigned LEB128 varints: 7 data bits per byte,
// little-endian base-128, continuation bit in the high bit. Shared by
// pkg/store (hashing) and pkg/codec (the operation-script wire format) so
// the two encodings can never drift apart.
package varint

import "github.com/pkg/errors"

// ErrTruncated is returned when a byte stream ends mid-varint.
var ErrTruncated = errors.New("varint: truncated")

// Append encodes v and appends it to dst, returning the grown slice.
func Append(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// Read decodes a varint from the front of b, returning the value and the
// number of bytes consumed.
func Read(b []byte) (uint64, int, error) {
	var v uint64
	var shift uint
	for i := 0; i < len(b); i++ {
		c := b[i]
		v |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, 0, errors.Wrap(ErrTruncated, "varint: too long")
		}
	}
	return 0, 0, ErrTruncated
}
