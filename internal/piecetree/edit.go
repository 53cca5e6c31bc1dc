package piecetree

// shouldCheckCRLF reports whether the CRLF boundary guard needs to run at
// all: once a document is fully normalized to "\n"-only there can be no \r
// byte left to straddle a boundary, so the guard is a pure no-op and is
// skipped.
func (t *PieceTreeBase) shouldCheckCRLF() bool {
	return !(t.eolNormalized && t.eol == "\n")
}

func (t *PieceTreeBase) startWithLF(node *treeNode) bool {
	if node == sentinel || node.piece.Length == 0 {
		return false
	}
	buf := t.buffers[node.piece.BufferIndex]
	return buf.buffer[buf.offsetOf(node.piece.Start)] == '\n'
}

func (t *PieceTreeBase) endWithCR(node *treeNode) bool {
	if node == sentinel || node.piece.Length == 0 {
		return false
	}
	buf := t.buffers[node.piece.BufferIndex]
	return buf.buffer[buf.offsetOf(node.piece.End)-1] == '\r'
}

// deleteNodeTail truncates node's piece to end at newEnd, recomputing
// length and lineFeedCnt and propagating the delta to every ancestor.
func (t *PieceTreeBase) deleteNodeTail(node *treeNode, newEnd BufferCursor) {
	piece := &node.piece
	buf := t.buffers[piece.BufferIndex]
	oldLength, oldLF := piece.Length, piece.LineFeedCnt

	newLength := buf.offsetOf(newEnd) - buf.offsetOf(piece.Start)
	newLF := newEnd.Line - piece.Start.Line

	piece.End = newEnd
	piece.Length = newLength
	piece.LineFeedCnt = newLF
	updateTreeMetadata(node, newLength-oldLength, newLF-oldLF)
}

// deleteNodeHead truncates node's piece to start at newStart.
func (t *PieceTreeBase) deleteNodeHead(node *treeNode, newStart BufferCursor) {
	piece := &node.piece
	buf := t.buffers[piece.BufferIndex]
	oldLength, oldLF := piece.Length, piece.LineFeedCnt

	newLength := buf.offsetOf(piece.End) - buf.offsetOf(newStart)
	newLF := piece.End.Line - newStart.Line

	piece.Start = newStart
	piece.Length = newLength
	piece.LineFeedCnt = newLF
	updateTreeMetadata(node, newLength-oldLength, newLF-oldLF)
}

func (t *PieceTreeBase) removeNode(node *treeNode) {
	rbDelete(t, node)
	t.searchCache.invalidate()
}

// isUTF8Continuation reports whether b is a UTF-8 continuation byte
// (10xxxxxx), i.e. not the first byte of an encoded rune.
func isUTF8Continuation(b byte) bool {
	return b&0xC0 == 0x80
}

// chunkText splits s into chunks of at most target bytes, never splitting
// a multi-byte UTF-8 rune and never splitting a "\r\n" pair across a
// boundary. See DESIGN.md for why this is a rune-boundary rule rather
// than a UTF-16 surrogate-pair rule.
func chunkText(s string, target int) []string {
	if target <= 0 {
		target = 65535
	}
	var chunks []string
	for len(s) > 0 {
		if len(s) <= target {
			chunks = append(chunks, s)
			break
		}
		cut := target
		for cut > 0 && isUTF8Continuation(s[cut]) {
			cut--
		}
		if cut > 0 && cut < len(s) && s[cut-1] == '\r' && s[cut] == '\n' {
			cut--
		}
		if cut == 0 {
			cut = target
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	return chunks
}

// appendChangeBufferPiece appends text to the change buffer and returns the
// Piece describing it, inserting the documented one-byte "_" filler first
// if text would otherwise place an \n immediately after an existing \r at
// the buffer's tail — preserving CR-LF-UNITY at the storage level without
// ever attaching that filler byte to any piece. See spec's design notes:
// this is deliberately not "fixed" to avoid the spurious byte.
func (t *PieceTreeBase) appendChangeBufferPiece(text string) Piece {
	cb := t.buffers[0]
	if len(cb.buffer) > 0 && cb.buffer[len(cb.buffer)-1] == '\r' && len(text) > 0 && text[0] == '\n' {
		cb.appendToChangeBuffer("_")
	}
	start, end, lf := cb.appendToChangeBuffer(text)
	t.lastChangeBufferPos = end
	return Piece{BufferIndex: 0, Start: start, End: end, Length: len(text), LineFeedCnt: lf}
}

// createNewPieces turns text into one or more Pieces: a single piece
// appended to the change buffer when text is small, or one fresh
// immutable original buffer per chunk when text exceeds AverageBufferSize.
func (t *PieceTreeBase) createNewPieces(text string) []Piece {
	if len(text) > t.tuning.AverageBufferSize {
		chunks := chunkText(text, t.tuning.AverageBufferSize)
		pieces := make([]Piece, 0, len(chunks))
		for _, c := range chunks {
			buf := &pieceBuffer{buffer: c, lineStarts: computeLineStarts(c)}
			idx := len(t.buffers)
			t.buffers = append(t.buffers, buf)
			pieces = append(pieces, Piece{
				BufferIndex: idx,
				Start:       BufferCursor{0, 0},
				End:         buf.cursorAt(len(c)),
				Length:      len(c),
				LineFeedCnt: buf.lineCount(),
			})
		}
		return pieces
	}
	return []Piece{t.appendChangeBufferPiece(text)}
}

func (t *PieceTreeBase) advanceCursorByOne(bufferIndex int, c BufferCursor) BufferCursor {
	buf := t.buffers[bufferIndex]
	return buf.cursorAt(buf.offsetOf(c) + 1)
}

// adjustCarriageReturnFromNext is used by the append fast path: if value
// ends with \r and the node it is extending has a successor that begins
// with \n, the \n is stolen into value so the \r\n pair ends up in one
// piece.
func (t *PieceTreeBase) adjustCarriageReturnFromNext(value string, node *treeNode) string {
	if !t.shouldCheckCRLF() {
		return value
	}
	if len(value) == 0 || value[len(value)-1] != '\r' {
		return value
	}
	next := nextNode(node)
	if !t.startWithLF(next) {
		return value
	}
	value += "\n"
	if next.piece.Length == 1 {
		t.removeNode(next)
	} else {
		t.deleteNodeHead(next, t.advanceCursorByOne(next.piece.BufferIndex, next.piece.Start))
	}
	return value
}

// Insert inserts text at offset. eolNormalized tells the engine whether the
// caller already knows every line break in text matches the tree's current
// EOL; the tree's own _EOLNormalized flag is the logical AND of every such
// claim it has ever received.
func (t *PieceTreeBase) Insert(offset int, text string, eolNormalized bool) {
	if len(text) == 0 {
		return
	}
	t.eolNormalized = t.eolNormalized && eolNormalized
	t.invalidateLineCache()

	if offset < 0 {
		offset = 0
	}
	if offset > t.length {
		offset = t.length
	}

	if t.root == sentinel {
		pieces := t.createNewPieces(text)
		var last *treeNode = sentinel
		for _, p := range pieces {
			last = rbInsertRight(t, last, p)
		}
		t.computeBufferMetadata()
		return
	}

	pos := t.nodeAt(offset)
	node := pos.node

	if t.tryAppendFastPath(pos, text) {
		return
	}

	switch {
	case pos.remainder == 0:
		t.insertPiecesAsLeftNeighbor(node, text)
	case pos.remainder == node.piece.Length:
		t.insertPiecesAsRightNeighbor(node, text)
	default:
		t.insertInMiddle(pos, text)
	}
	t.computeBufferMetadata()
}

// tryAppendFastPath extends the node at pos in place when it is the most
// recently written run in the change buffer, the insertion lands exactly
// at its end, and text is small enough to still count as an append rather
// than a new chunk.
func (t *PieceTreeBase) tryAppendFastPath(pos nodePosition, text string) bool {
	node := pos.node
	if node == sentinel || node.piece.BufferIndex != 0 {
		return false
	}
	if node.piece.End != t.lastChangeBufferPos {
		return false
	}
	if pos.remainder != node.piece.Length {
		return false
	}
	if len(text) >= t.tuning.AverageBufferSize {
		return false
	}
	// A \n appended right after the change buffer's trailing \r would be
	// scanned as a second line break rather than joining it; that case
	// takes the general insert path, whose appendChangeBufferPiece puts
	// the filler byte in between and whose CRLF guard rejoins the pair.
	cb := t.buffers[0]
	if text[0] == '\n' && len(cb.buffer) > 0 && cb.buffer[len(cb.buffer)-1] == '\r' {
		return false
	}

	adjusted := t.adjustCarriageReturnFromNext(text, node)

	_, end, lf := cb.appendToChangeBuffer(adjusted)

	node.piece.End = end
	node.piece.Length += len(adjusted)
	node.piece.LineFeedCnt += lf
	updateTreeMetadata(node, len(adjusted), lf)
	t.lastChangeBufferPos = end

	t.searchCache.invalidate()
	t.computeBufferMetadata()
	return true
}

func (t *PieceTreeBase) insertPiecesAsLeftNeighbor(node *treeNode, text string) {
	pieces := t.createNewPieces(text)
	anchor := node
	var firstNew *treeNode
	for i := len(pieces) - 1; i >= 0; i-- {
		anchor = rbInsertLeft(t, anchor, pieces[i])
		firstNew = anchor
	}
	lastNew := prevNode(node)
	t.validateCRLFWithPrevNode(firstNew)
	t.fixCRLF(lastNew, node)
	t.searchCache.invalidate()
}

func (t *PieceTreeBase) insertPiecesAsRightNeighbor(node *treeNode, text string) {
	pieces := t.createNewPieces(text)
	firstNew := sentinel
	anchor := node
	for _, p := range pieces {
		anchor = rbInsertRight(t, anchor, p)
		if firstNew == sentinel {
			firstNew = anchor
		}
	}
	t.fixCRLF(node, firstNew)
	t.validateCRLFWithNextNode(anchor)
	t.searchCache.invalidate()
}

// insertInMiddle splits node at pos.remainder and splices text between the
// two halves, repairing any CRLF pair exposed at either new boundary
// before committing to where the split actually falls.
func (t *PieceTreeBase) insertInMiddle(pos nodePosition, text string) {
	node := pos.node
	buf := t.buffers[node.piece.BufferIndex]
	pieceStartOffset := buf.offsetOf(node.piece.Start)
	pieceEndOffset := buf.offsetOf(node.piece.End)
	splitOffset := pieceStartOffset + pos.remainder

	leftEndOffset := splitOffset
	rightStartOffset := splitOffset

	if t.shouldCheckCRLF() && len(text) > 0 && text[len(text)-1] == '\r' &&
		splitOffset < pieceEndOffset && buf.buffer[splitOffset] == '\n' {
		text += "\n"
		rightStartOffset++
	}
	if t.shouldCheckCRLF() && len(text) > 0 && text[0] == '\n' &&
		splitOffset > pieceStartOffset && buf.buffer[splitOffset-1] == '\r' {
		text = "\r" + text
		leftEndOffset--
	}

	var rightPiece *Piece
	if rightStartOffset < pieceEndOffset {
		rightStart := buf.cursorAt(rightStartOffset)
		rightPiece = &Piece{
			BufferIndex: node.piece.BufferIndex,
			Start:       rightStart,
			End:         node.piece.End,
			Length:      pieceEndOffset - rightStartOffset,
			LineFeedCnt: node.piece.End.Line - rightStart.Line,
		}
	}

	leftEnd := buf.cursorAt(leftEndOffset)
	t.deleteNodeTail(node, leftEnd)

	newPieces := t.createNewPieces(text)

	keepLeft := node.piece.Length > 0
	anchor := node
	if !keepLeft {
		prev := prevNode(node)
		t.removeNode(node)
		anchor = prev
	}

	for _, p := range newPieces {
		anchor = rbInsertRight(t, anchor, p)
	}
	lastNode := anchor

	if rightPiece != nil {
		lastNode = rbInsertRight(t, anchor, *rightPiece)
	}

	if keepLeft {
		t.validateCRLFWithPrevNode(node)
	}
	t.validateCRLFWithNextNode(lastNode)
	t.searchCache.invalidate()
}

// Delete removes count bytes starting at offset, clamping both to the
// document's current bounds rather than failing. A non-positive count or
// an empty tree is a no-op.
func (t *PieceTreeBase) Delete(offset, count int) {
	if count <= 0 || t.root == sentinel {
		return
	}
	t.invalidateLineCache()

	if offset < 0 {
		offset = 0
	}
	if offset > t.length {
		offset = t.length
	}
	if offset+count > t.length {
		count = t.length - offset
	}
	if count <= 0 {
		return
	}

	startPos := t.nodeAt(offset)
	endPos := t.nodeAt(offset + count)

	if startPos.node == endPos.node {
		t.deleteWithinSameNode(startPos, endPos)
	} else {
		t.deleteAcrossNodes(startPos, endPos)
	}

	t.searchCache.invalidate()
	t.computeBufferMetadata()
}

func (t *PieceTreeBase) deleteWithinSameNode(startPos, endPos nodePosition) {
	node := startPos.node
	buf := t.buffers[node.piece.BufferIndex]
	pieceStartOffset := buf.offsetOf(node.piece.Start)
	startCursor := buf.cursorAt(pieceStartOffset + startPos.remainder)
	endCursor := buf.cursorAt(pieceStartOffset + endPos.remainder)

	switch {
	case startPos.remainder == 0 && endPos.remainder == node.piece.Length:
		prev := prevNode(node)
		t.removeNode(node)
		t.validateCRLFWithNextNode(prev)
	case startPos.remainder == 0:
		t.deleteNodeHead(node, endCursor)
		t.validateCRLFWithPrevNode(node)
	case endPos.remainder == node.piece.Length:
		t.deleteNodeTail(node, startCursor)
		t.validateCRLFWithNextNode(node)
	default:
		pieceEndOffset := buf.offsetOf(node.piece.End)
		rightPiece := Piece{
			BufferIndex: node.piece.BufferIndex,
			Start:       endCursor,
			End:         node.piece.End,
			Length:      pieceEndOffset - buf.offsetOf(endCursor),
			LineFeedCnt: node.piece.End.Line - endCursor.Line,
		}
		t.deleteNodeTail(node, startCursor)
		rightNode := rbInsertRight(t, node, rightPiece)
		t.validateCRLFWithPrevNode(node)
		t.fixCRLF(node, rightNode)
		t.validateCRLFWithNextNode(rightNode)
	}
}

func (t *PieceTreeBase) deleteAcrossNodes(startPos, endPos nodePosition) {
	startNode := startPos.node
	endNode := endPos.node

	survivingPred := sentinel
	if startPos.remainder == 0 {
		survivingPred = prevNode(startNode)
	} else {
		buf := t.buffers[startNode.piece.BufferIndex]
		cut := buf.cursorAt(buf.offsetOf(startNode.piece.Start) + startPos.remainder)
		t.deleteNodeTail(startNode, cut)
		survivingPred = startNode
	}

	survivingSucc := sentinel
	endWhole := endNode != sentinel && endPos.remainder == endNode.piece.Length
	if endNode != sentinel {
		if endWhole {
			survivingSucc = nextNode(endNode)
		} else {
			buf := t.buffers[endNode.piece.BufferIndex]
			cut := buf.cursorAt(buf.offsetOf(endNode.piece.Start) + endPos.remainder)
			t.deleteNodeHead(endNode, cut)
			survivingSucc = endNode
		}
	}

	var toRemove []*treeNode
	for cur := nextNode(startNode); cur != sentinel && cur != endNode; cur = nextNode(cur) {
		toRemove = append(toRemove, cur)
	}
	if startPos.remainder == 0 {
		toRemove = append(toRemove, startNode)
	}
	if endWhole {
		toRemove = append(toRemove, endNode)
	}
	for _, n := range toRemove {
		t.removeNode(n)
	}

	t.validateCRLFWithNextNode(survivingPred)
	t.validateCRLFWithPrevNode(survivingSucc)
}
