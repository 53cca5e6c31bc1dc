package piecetree

import "strings"

// pieceBuffer backs either the append-only change buffer (index 0) or one
// immutable original buffer (index >= 1). lineStarts[i] is the byte offset
// of the start of line i; lineStarts always begins with 0 and has one more
// entry than there are line breaks in buffer.
type pieceBuffer struct {
	buffer     string
	lineStarts []int
}

// computeLineStarts scans s once, treating "\r\n", "\r" and "\n" each as a
// single line break, and returns the offset of the first byte of every line,
// starting with 0.
func computeLineStarts(s string) []int {
	starts := make([]int, 1, len(s)/32+4)
	starts[0] = 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n':
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetOf converts a BufferCursor into a flat byte offset into buffer.
func (b *pieceBuffer) offsetOf(c BufferCursor) int {
	return b.lineStarts[c.Line] + c.Column
}

// lineCount returns the number of line breaks found by computeLineStarts,
// i.e. len(lineStarts)-1.
func (b *pieceBuffer) lineCount() int {
	return len(b.lineStarts) - 1
}

// cursorAt converts a flat byte offset within buffer into a BufferCursor by
// binary-searching lineStarts.
func (b *pieceBuffer) cursorAt(offset int) BufferCursor {
	lo, hi := 0, len(b.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return BufferCursor{Line: lo, Column: offset - b.lineStarts[lo]}
}

// appendToChangeBuffer appends text to the change buffer (buffer index 0),
// returning the cursor range the new bytes occupy and their line-feed count.
// It is the only buffer mutation in the engine; every other buffer is
// immutable once constructed.
func (b *pieceBuffer) appendToChangeBuffer(text string) (start, end BufferCursor, lfCount int) {
	startOffset := len(b.buffer)
	start = b.cursorAt(startOffset)

	newStarts := computeLineStarts(text)
	lfCount = len(newStarts) - 1

	b.buffer += text

	// newStarts[0] is always 0 (start of text); subsequent entries are new
	// line starts relative to text, which become absolute offsets once
	// shifted by startOffset. The very first entry would duplicate the
	// cursor we already have unless text itself starts a new line only
	// after some bytes, so we always append everything but the leading 0.
	for _, s := range newStarts[1:] {
		b.lineStarts = append(b.lineStarts, startOffset+s)
	}

	end = b.cursorAt(len(b.buffer))
	return start, end, lfCount
}

// substring returns the bytes of buffer between two cursors.
func (b *pieceBuffer) substring(start, end BufferCursor) string {
	return b.buffer[b.offsetOf(start):b.offsetOf(end)]
}

// lineContent returns the bytes of a single line of buffer, line breaks
// excluded, for 0-based line number.
func (b *pieceBuffer) lineContent(line int) string {
	startOff := b.lineStarts[line]
	var endOff int
	if line+1 < len(b.lineStarts) {
		endOff = b.lineStarts[line+1]
	} else {
		endOff = len(b.buffer)
	}
	content := b.buffer[startOff:endOff]
	return strings.TrimRight(content, "\r\n")
}
