package piecetree

import "strings"

// lineCacheEntry remembers the last line a caller asked for, since editors
// overwhelmingly re-read the same line (e.g. to redraw a cursor) far more
// often than they jump around.
type lineCacheEntry struct {
	valid      bool
	lineNumber int
	content    string
}

func (t *PieceTreeBase) invalidateLineCache() {
	t.lineCache.valid = false
}

// GetValue returns the entire document content.
func (t *PieceTreeBase) GetValue() string {
	var b strings.Builder
	t.writeValueInRange(&b, 0, t.length)
	return b.String()
}

// GetValueInRange returns the document bytes between two 1-based
// (line, column) positions. eol, if non-empty, rewrites every line break
// in the result to that sequence.
func (t *PieceTreeBase) GetValueInRange(startLine, startColumn, endLine, endColumn int, eol string) string {
	startOffset := t.GetOffsetAt(startLine, startColumn)
	endOffset := t.GetOffsetAt(endLine, endColumn)
	var b strings.Builder
	t.writeValueInRange(&b, startOffset, endOffset)
	if eol == "" {
		return b.String()
	}
	return normalizeEOLBytes(b.String(), eol)
}

// writeValueInRange walks the tree between two byte offsets, writing the
// piece substrings in order: the tail of the start node's piece from the
// start remainder, every fully-covered node in between, and the head of
// the end node's piece up to its remainder.
func (t *PieceTreeBase) writeValueInRange(b *strings.Builder, startOffset, endOffset int) {
	if startOffset >= endOffset {
		return
	}
	startPos := t.nodeAt(startOffset)
	endPos := t.nodeAt(endOffset)

	if startPos.node == sentinel {
		return
	}

	if startPos.node == endPos.node {
		writePieceSubstring(b, t, startPos.node, startPos.remainder, endPos.remainder)
		return
	}

	writePieceSubstring(b, t, startPos.node, startPos.remainder, startPos.node.piece.Length)
	for n := nextNode(startPos.node); n != endPos.node && n != sentinel; n = nextNode(n) {
		writePieceSubstring(b, t, n, 0, n.piece.Length)
	}
	if endPos.node != sentinel {
		writePieceSubstring(b, t, endPos.node, 0, endPos.remainder)
	}
}

func writePieceSubstring(b *strings.Builder, t *PieceTreeBase, node *treeNode, from, to int) {
	if from >= to {
		return
	}
	buf := t.buffers[node.piece.BufferIndex]
	start := buf.offsetOf(node.piece.Start)
	b.WriteString(buf.buffer[start+from : start+to])
}

// GetLinesContent returns every line of the document as a slice of
// strings, line breaks stripped.
func (t *PieceTreeBase) GetLinesContent() []string {
	lines := make([]string, t.lineCnt)
	for i := 1; i <= t.lineCnt; i++ {
		lines[i-1] = t.GetLineContent(i)
	}
	return lines
}

// GetLineContent returns the bytes of lineNumber (1-based), line breaks
// stripped. The last line runs to the end of the document; every other
// line runs to the byte before its own terminator.
func (t *PieceTreeBase) GetLineContent(lineNumber int) string {
	if t.lineCache.valid && t.lineCache.lineNumber == lineNumber {
		return t.lineCache.content
	}
	if lineNumber < 1 {
		lineNumber = 1
	}
	if lineNumber > t.lineCnt {
		lineNumber = t.lineCnt
	}

	startOffset := t.GetOffsetAt(lineNumber, 1)
	var endOffset int
	if lineNumber == t.lineCnt {
		endOffset = t.length
	} else {
		endOffset = t.GetOffsetAt(lineNumber+1, 1)
		endOffset -= t.trailingEOLLength(endOffset)
	}

	var b strings.Builder
	t.writeValueInRange(&b, startOffset, endOffset)
	content := b.String()

	t.lineCache = lineCacheEntry{valid: true, lineNumber: lineNumber, content: content}
	return content
}

// trailingEOLLength returns the number of bytes the line terminator
// immediately before offset occupies: 2 for "\r\n", 1 for a lone "\r" or
// "\n", 0 otherwise. When the document is EOL-normalized this is always
// len(_EOL); otherwise mixed endings mean it must be measured byte by byte.
func (t *PieceTreeBase) trailingEOLLength(offset int) int {
	if t.eolNormalized {
		return t.eolLength
	}
	if offset >= 2 && t.byteAt(offset-2) == '\r' && t.byteAt(offset-1) == '\n' {
		return 2
	}
	if offset >= 1 {
		b := t.byteAt(offset - 1)
		if b == '\r' || b == '\n' {
			return 1
		}
	}
	return 0
}

// byteAt returns the byte at a 0-based document offset, or 0 outside the
// document. Used by trailingEOLLength and GetLineCharCode.
func (t *PieceTreeBase) byteAt(offset int) byte {
	if offset < 0 || offset >= t.length {
		return 0
	}
	pos := t.nodeAt(offset)
	node, rem := pos.node, pos.remainder
	// nodeAt resolves a piece boundary to the end of the earlier piece;
	// the byte itself lives at the start of a later one.
	for node != sentinel && rem >= node.piece.Length {
		rem -= node.piece.Length
		node = nextNode(node)
	}
	if node == sentinel {
		return 0
	}
	buf := t.buffers[node.piece.BufferIndex]
	return buf.buffer[buf.offsetOf(node.piece.Start)+rem]
}

// GetLineLength returns the byte length of lineNumber, terminator excluded.
func (t *PieceTreeBase) GetLineLength(lineNumber int) int {
	return len(t.GetLineContent(lineNumber))
}

// GetLineCharCode returns the byte at the 0-based index on lineNumber. If
// index equals the line's length exactly, the first byte of the line's own
// terminator is returned instead, letting a caller peek the line
// terminator. The last line has no terminator, so there (and anywhere past
// the end of the document) this returns 0 — documented, not "fixed": see
// spec's design notes.
func (t *PieceTreeBase) GetLineCharCode(lineNumber, index int) int {
	offset := t.GetOffsetAt(lineNumber, index+1)
	if offset >= t.length {
		return 0
	}
	return int(t.byteAt(offset))
}

// normalizeEOLBytes rewrites every "\r\n", lone "\r", and lone "\n" in s to
// newEOL.
func normalizeEOLBytes(s, newEOL string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			b.WriteString(newEOL)
		case '\n':
			b.WriteString(newEOL)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Snapshot is a read-only, pull-based view of the document captured at
// CreateSnapshot time: it holds, in order, the bytes of every piece that
// made up the tree at that instant, as Go substrings of the backing
// buffers. Go strings are immutable and Read never touches the tree, so a
// Snapshot can be read after further edits to the tree it came from,
// SetEOL included, without ever observing torn content.
type Snapshot struct {
	chunks  []string
	index   int
	bom     string
	bomSent bool
}

// CreateSnapshot captures the tree's current pieces in order. bom, if
// non-empty, is emitted as the first chunk of the very first Read call.
func (t *PieceTreeBase) CreateSnapshot(bom string) *Snapshot {
	chunks := make([]string, 0)
	for n := leftmost(t.root); n != sentinel; n = nextNode(n) {
		buf := t.buffers[n.piece.BufferIndex]
		chunks = append(chunks, buf.buffer[buf.offsetOf(n.piece.Start):buf.offsetOf(n.piece.End)])
	}
	return &Snapshot{chunks: chunks, bom: bom}
}

// Read returns the next chunk of the snapshot's content, one piece's
// worth per call, or ("", false) at end of stream.
func (s *Snapshot) Read() (string, bool) {
	if !s.bomSent {
		s.bomSent = true
		if s.bom != "" {
			return s.bom, true
		}
	}
	if s.index >= len(s.chunks) {
		return "", false
	}
	c := s.chunks[s.index]
	s.index++
	return c, true
}
