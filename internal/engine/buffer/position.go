package buffer

import (
	"sync/atomic"

	"github.com/dshills/pieceengine/internal/piecetree"
)

// Position is a 1-based line and column, the coordinate system every
// operation in this package that isn't a raw byte offset uses. It is an
// alias for piecetree.Position rather than a distinct type: callers moving
// between the two packages never need a conversion.
type Position = piecetree.Position

// Before reports whether p comes strictly before other in document order.
func Before(p, other Position) bool {
	if p.LineNumber != other.LineNumber {
		return p.LineNumber < other.LineNumber
	}
	return p.Column < other.Column
}

// RevisionID uniquely identifies a buffer revision. Each modification to
// the buffer produces a new one.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique revision ID, thread-safe via an
// atomic counter.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

var bufferIDCounter uint64

// newBufferID generates a unique, immutable identity for a Buffer, used to
// pick a consistent lock acquisition order across two different buffers
// (see Buffer.Equal) independent of their addresses.
func newBufferID() uint64 {
	return atomic.AddUint64(&bufferIDCounter, 1)
}
