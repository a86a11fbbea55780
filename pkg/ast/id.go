package ast

// NodeId identifies a node within a single AstTree. Ids are dense,
// assigned at insertion time, and never reused within a tree even after
// removal.
type NodeId uint64

// RootID is the reserved id of the Root node, always present.
const RootID NodeId = 0
