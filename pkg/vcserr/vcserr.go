// Package vcserr defines the categorized error kinds shared across astvc's
// core packages (ast, apply, codec, repo). Callers compare against the
// sentinel values with errors.Is; each raise site wraps the sentinel with
// github.com/pkg/errors so a stack trace survives across package boundaries
// without changing the identity errors.Is sees.
package vcserr

import "github.com/pkg/errors"

// Sentinel error kinds. See spec §7 for the authoritative list.
var (
	// ErrInvalidParent: an operation references a non-existent parent id.
	ErrInvalidParent = errors.New("vcserr: invalid parent")

	// ErrInvalidOp: an apply-time violation (deleting Root, inserting over
	// an occupied id, an op referencing an absent id).
	ErrInvalidOp = errors.New("vcserr: invalid op")

	// ErrTruncated: the codec ran out of bytes mid-value.
	ErrTruncated = errors.New("vcserr: truncated")

	// ErrInvalidOpType: an unrecognized op-type byte.
	ErrInvalidOpType = errors.New("vcserr: invalid op type")

	// ErrInvalidKind: an unrecognized kind discriminant byte.
	ErrInvalidKind = errors.New("vcserr: invalid kind")

	// ErrInvalidValueTag: an unrecognized value tag byte.
	ErrInvalidValueTag = errors.New("vcserr: invalid value tag")

	// ErrInvalidUtf8: a string field was not valid UTF-8.
	ErrInvalidUtf8 = errors.New("vcserr: invalid utf-8")

	// ErrUnknownBranch: checkout of a branch name that doesn't exist.
	ErrUnknownBranch = errors.New("vcserr: unknown branch")

	// ErrBranchExists: create-branch of a name that already exists.
	ErrBranchExists = errors.New("vcserr: branch exists")

	// ErrUnknownCommit: diff/merge given a hash not present in the repo.
	ErrUnknownCommit = errors.New("vcserr: unknown commit")
)

// Wrap attaches context to a sentinel error while preserving its identity
// for errors.Is. Wrap(nil, ...) returns nil.
func Wrap(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
