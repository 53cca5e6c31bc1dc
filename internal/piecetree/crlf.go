package piecetree

// fixCRLF repairs the CR-LF-UNITY invariant at the boundary between two
// adjacent pieces: a \r at the very end of prev immediately followed by a
// \n at the very start of next must never be split across two pieces,
// because every other component treats "\r\n" as a single line break. It
// shrinks both neighbors by one byte (dropping the dangling \r / \n) and
// splices a fresh two-byte "\r\n" piece sourced from the change buffer
// between them, collapsing a neighbor that shrinks to nothing rather than
// leaving a zero-length piece in the tree.
func (t *PieceTreeBase) fixCRLF(prev, next *treeNode) {
	if prev == sentinel || next == sentinel {
		return
	}
	if prev.piece.Length == 0 || next.piece.Length == 0 {
		return
	}

	pb := t.buffers[prev.piece.BufferIndex]
	prevEndOff := pb.offsetOf(prev.piece.End)
	if pb.buffer[prevEndOff-1] != '\r' {
		return
	}
	nb := t.buffers[next.piece.BufferIndex]
	nextStartOff := nb.offsetOf(next.piece.Start)
	if nb.buffer[nextStartOff] != '\n' {
		return
	}

	t.deleteNodeTail(prev, pb.cursorAt(prevEndOff-1))
	t.deleteNodeHead(next, nb.cursorAt(nextStartOff+1))

	if prev.piece.Length < 0 || next.piece.Length < 0 {
		panicInvariant("fixCRLF: negative piece length after CRLF split (prev=%d, next=%d)", prev.piece.Length, next.piece.Length)
	}

	newPiece := t.appendChangeBufferPiece("\r\n")

	switch {
	case prev.piece.Length == 0 && next.piece.Length == 0:
		overwritePieceInPlace(prev, newPiece)
		t.removeNode(next)
	case prev.piece.Length == 0:
		overwritePieceInPlace(prev, newPiece)
	case next.piece.Length == 0:
		overwritePieceInPlace(next, newPiece)
	default:
		rbInsertRight(t, prev, newPiece)
	}

	t.searchCache.invalidate()
	t.computeBufferMetadata()
}

// overwritePieceInPlace replaces a now-empty node's piece with a fresh one,
// keeping the node's tree position so callers don't have to restructure.
func overwritePieceInPlace(node *treeNode, p Piece) {
	old := node.piece
	node.piece = p
	updateTreeMetadata(node, p.Length-old.Length, p.LineFeedCnt-old.LineFeedCnt)
}

// validateCRLFWithPrevNode checks and repairs the boundary between node
// and its in-order predecessor. A node an earlier fixCRLF already removed
// (parent cleared) has no boundary left to check.
func (t *PieceTreeBase) validateCRLFWithPrevNode(node *treeNode) {
	if node == sentinel || node.parent == nil {
		return
	}
	t.fixCRLF(prevNode(node), node)
}

// validateCRLFWithNextNode checks and repairs the boundary between node
// and its in-order successor. A node an earlier fixCRLF already removed
// (parent cleared) has no boundary left to check.
func (t *PieceTreeBase) validateCRLFWithNextNode(node *treeNode) {
	if node == sentinel || node.parent == nil {
		return
	}
	t.fixCRLF(node, nextNode(node))
}

// fixCRLFAfterConstruction sweeps every adjacent pair of initial pieces
// once, in order, repairing any CRLF pair a caller's chunk boundaries
// happened to split.
func (t *PieceTreeBase) fixCRLFAfterConstruction() {
	cur := leftmost(t.root)
	for cur != sentinel {
		next := nextNode(cur)
		if next != sentinel {
			t.fixCRLF(cur, next)
		}
		cur = nextNode(cur)
	}
}
