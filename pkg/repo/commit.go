package repo

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/chazu/astvc/pkg/store"
)

// CommitHash is the content address of a Commit record, distinct from
// store.Hash (which addresses tree nodes) even though both are FNV-1a/64.
type CommitHash uint64

// Commit is one point in a branch's history: a snapshot plus the metadata
// spec §3 requires to reconstruct a hash chain (spec §4.7).
type Commit struct {
	Hash         CommitHash
	SnapshotHash store.Hash
	Parent       CommitHash // zero for the repository's initial commit
	HasParent    bool
	Message      string
	Author       string
	Timestamp    int64 // unix seconds, supplied by the caller
}

// computeCommitHash hashes the canonical field sequence spec §4.7 pins:
// snapshot_hash, parent (0 if none), a has-parent flag byte, message,
// author, timestamp — each
// length-prefixed where variable, each fixed-width field little-endian.
func computeCommitHash(snapshotHash store.Hash, parent CommitHash, hasParent bool, message, author string, timestamp int64) CommitHash {
	h := fnv.New64a()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(snapshotHash))
	h.Write(buf[:]) //nolint:errcheck

	binary.LittleEndian.PutUint64(buf[:], uint64(parent))
	h.Write(buf[:]) //nolint:errcheck

	if hasParent {
		h.Write([]byte{1}) //nolint:errcheck
	} else {
		h.Write([]byte{0}) //nolint:errcheck
	}

	writeString := func(s string) {
		var lenBuf [8]byte
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s)))
		h.Write(lenBuf[:])    //nolint:errcheck
		h.Write([]byte(s))    //nolint:errcheck
	}
	writeString(message)
	writeString(author)

	var tsBuf [8]byte
	binary.LittleEndian.PutUint64(tsBuf[:], uint64(timestamp))
	h.Write(tsBuf[:]) //nolint:errcheck

	return CommitHash(h.Sum64())
}
