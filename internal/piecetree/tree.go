package piecetree

import (
	"github.com/dshills/pieceengine/internal/tuning"
)

// Position is a 1-based line and column. Column counts bytes from the
// start of the line, not runes or UTF-16 code units: grapheme clustering
// and bidi are out of scope, and Go's native string encoding is UTF-8, so
// byte-indexed columns are the idiomatic choice here. See DESIGN.md.
type Position struct {
	LineNumber int
	Column     int
}

// PieceTreeBase is the piece-table engine: one append-only change buffer,
// any number of immutable original buffers, and a red-black tree of Pieces
// ordered by byte offset and indexed additionally by line-feed count.
//
// PieceTreeBase is not safe for concurrent use. A snapshot taken with
// CreateSnapshot may be read concurrently with later edits to the tree it
// was taken from, because it holds its own immutable strings and never
// reads the tree again; only the *tree* mutates.
type PieceTreeBase struct {
	root    *treeNode
	buffers []*pieceBuffer // index 0 is the append-only change buffer

	length  int
	lineCnt int

	eol            string
	eolNormalized  bool
	eolLength      int

	lastChangeBufferPos BufferCursor
	lineCache           lineCacheEntry

	searchCache *searchCache
	tuning      tuning.Config
}

// NewPieceTreeBase builds a tree over chunks, each becoming one immutable
// original buffer and one initial Piece spanning it in full, in order. eol
// must be "\n" or "\r\n"; eolNormalized records whether the caller already
// knows every line break in chunks matches eol, letting line reads take
// every terminator to be len(eol) bytes instead of measuring each one.
func NewPieceTreeBase(chunks []string, eol string, eolNormalized bool, cfg tuning.Config) *PieceTreeBase {
	if eol != "\n" && eol != "\r\n" {
		eol = "\n"
	}
	t := &PieceTreeBase{
		root:          sentinel,
		buffers:       []*pieceBuffer{{buffer: "", lineStarts: []int{0}}},
		eol:           eol,
		eolNormalized: eolNormalized,
		eolLength:     len(eol),
		tuning:        cfg,
		searchCache:   newSearchCache(cfg.SearchCacheDepth),
	}

	last := sentinel
	for _, chunk := range chunks {
		if chunk == "" {
			continue
		}
		buf := &pieceBuffer{buffer: chunk, lineStarts: computeLineStarts(chunk)}
		idx := len(t.buffers)
		t.buffers = append(t.buffers, buf)

		p := Piece{
			BufferIndex: idx,
			Start:       BufferCursor{0, 0},
			End:         buf.cursorAt(len(chunk)),
			Length:      len(chunk),
			LineFeedCnt: buf.lineCount(),
		}
		last = rbInsertRight(t, last, p)
	}

	t.fixCRLFAfterConstruction()
	t.computeBufferMetadata()
	return t
}

// NewFromString is the common case: build a tree over a single string,
// chunked at the tuning config's AverageBufferSize boundary without
// splitting a CRLF pair or a multi-byte rune.
func NewFromString(text string, eol string, cfg tuning.Config) *PieceTreeBase {
	return NewPieceTreeBase(chunkText(text, cfg.AverageBufferSize), eol, false, cfg)
}

// computeBufferMetadata recomputes t.length and t.lineCnt from the tree
// root, used after construction and after any operation that doesn't
// maintain them incrementally.
func (t *PieceTreeBase) computeBufferMetadata() {
	t.length = subSizeOf(t.root)
	t.lineCnt = subLFOf(t.root) + 1
}

// GetLength returns the total byte length of the document.
func (t *PieceTreeBase) GetLength() int {
	return t.length
}

// GetLineCount returns the number of lines in the document. A document
// with no line breaks has exactly one line.
func (t *PieceTreeBase) GetLineCount() int {
	return t.lineCnt
}

// GetEOL returns the line-ending sequence new line breaks are normalized
// to, either "\n" or "\r\n".
func (t *PieceTreeBase) GetEOL() string {
	return t.eol
}

// lineStartOffset returns the 0-based byte offset of column 1 of the
// 0-based line line0, clamped to [0, length].
func (t *PieceTreeBase) lineStartOffset(line0 int) int {
	if line0 <= 0 {
		return 0
	}
	if line0 >= t.lineCnt {
		return t.length
	}
	pos := t.nodeAtLine(line0)
	if pos.node == sentinel {
		return t.length
	}
	buf := t.buffers[pos.node.piece.BufferIndex]
	targetLineInBuf := pos.node.piece.Start.Line + pos.remainder
	withinPiece := buf.lineStarts[targetLineInBuf] - buf.offsetOf(pos.node.piece.Start)
	return pos.nodeStartOffset + withinPiece
}

// GetOffsetAt converts a 1-based Position into a 0-based byte offset,
// clamping out-of-range lines and columns rather than failing.
func (t *PieceTreeBase) GetOffsetAt(lineNumber, column int) int {
	line := lineNumber - 1
	if line < 0 {
		line = 0
	}
	col := column - 1
	if col < 0 {
		col = 0
	}

	lineStart := t.lineStartOffset(line)
	if line+1 >= t.lineCnt {
		off := lineStart + col
		if off > t.length {
			off = t.length
		}
		return off
	}
	nextLineStart := t.lineStartOffset(line + 1)
	lineEnd := nextLineStart - t.trailingEOLLength(nextLineStart)
	off := lineStart + col
	if off > lineEnd {
		off = lineEnd
	}
	return off
}

// GetPositionAt converts a 0-based byte offset into a 1-based Position,
// clamping to [0, length] rather than failing.
func (t *PieceTreeBase) GetPositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > t.length {
		offset = t.length
	}
	if t.root == sentinel {
		return Position{LineNumber: 1, Column: 1}
	}
	pos := t.nodeAt(offset)
	if pos.node == sentinel {
		return Position{LineNumber: t.lineCnt, Column: t.lastLineLength() + 1}
	}
	lfCnt, col := t.getIndexOf(pos.node, pos.remainder)
	if lfCnt == 0 {
		// The line began before this piece: the buffer-line column from
		// getIndexOf does not count the bytes of earlier pieces.
		col = offset - t.lineStartOffset(pos.nodeStartLine)
	}
	return Position{LineNumber: pos.nodeStartLine + lfCnt + 1, Column: col + 1}
}

func (t *PieceTreeBase) lastLineLength() int {
	return t.GetLineLength(t.lineCnt)
}

// Equal reports whether two trees contain the same document content, byte
// for byte, regardless of how their pieces happen to be laid out.
func (t *PieceTreeBase) Equal(other *PieceTreeBase) bool {
	if t.length != other.length || t.lineCnt != other.lineCnt {
		return false
	}
	return t.GetValue() == other.GetValue()
}
