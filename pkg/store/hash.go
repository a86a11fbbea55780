package store

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/chazu/astvc/internal/varint"
	"github.com/chazu/astvc/internal/wireval"
	"github.com/chazu/astvc/pkg/ast"
)

// Hash is a 64-bit content address: FNV-1a with offset basis
// 0xcbf29ce484222325 and prime 0x100000001b3 (the exact constants spec §6
// pins down — Go's hash/fnv already uses them for the 64-bit variant, this
// is called out so the wire contract never silently depends on a stdlib
// implementation detail).
type Hash uint64

// hashNode hashes the canonical byte sequence for a single tree node, per
// spec §4.2:
//  1. kind discriminant byte
//  2. varint(label.len) + UTF-8 label bytes
//  3. value tag byte + payload
//  4. varint(children_count) + each child hash (8 bytes LE) in order
func hashNode(n *ast.AstNode, childHashes []Hash) Hash {
	buf := make([]byte, 0, 32+len(n.Label)+len(childHashes)*8)
	buf = append(buf, byte(n.Kind))
	buf = wireval.AppendString(buf, n.Label)
	buf = wireval.AppendValue(buf, n.Value)
	buf = varint.Append(buf, uint64(len(childHashes)))
	for _, ch := range childHashes {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(ch))
		buf = append(buf, b[:]...)
	}

	h := fnv.New64a()
	h.Write(buf) //nolint:errcheck // hash.Hash.Write never returns an error
	return Hash(h.Sum64())
}
