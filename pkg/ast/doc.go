// Package ast defines the in-memory tree container astvc diffs, patches,
// and snapshots: nodes, parent/child links, an O(1) id index, and the
// mutation primitives the rest of the engine builds on.
package ast
