// Package piecetree implements an in-memory text buffer engine for arbitrary
// length documents: a piece table over one append-only change buffer and any
// number of immutable original buffers, indexed by a self-balancing
// order-statistic red-black tree so that offset<->(line,column) conversions,
// range reads, and edits all resolve in O(log n).
//
// The package is organized one concern per file:
//
//   - node.go         Piece, BufferCursor, treeNode, the shared sentinel
//   - buffer_store.go the append-only change buffer and read-only originals
//   - rbtree.go       rotations, insert/delete fix-up, aggregate refresh
//   - navigator.go    offset<->position resolution and the search cache
//   - crlf.go         the CR/LF boundary repair protocol
//   - edit.go         Insert and Delete
//   - reader.go       range/line/whole-document reads and Snapshot
//   - eol.go          SetEOL / line-ending normalization
//   - tree.go         PieceTreeBase itself, construction, top-level queries
//   - validate.go     the invariant checker used by tests
//
// A PieceTreeBase is not safe for concurrent use; callers that need
// concurrent readers during writes should wrap it the way
// internal/engine/buffer wraps it, with an RWMutex and an immutable
// Snapshot for readers.
package piecetree
