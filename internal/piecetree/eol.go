package piecetree

import "strings"

// SetEOL rewrites every line break in the document to newEOL and rebuilds
// the tree from scratch, chunked to target the tuning config's
// EOLNormalize{Min,Max}Chunk bounds. newEOL must be "\n" or "\r\n".
func (t *PieceTreeBase) SetEOL(newEOL string) error {
	if newEOL != "\n" && newEOL != "\r\n" {
		return ErrInvalidEOL
	}

	var b strings.Builder
	t.writeValueInRange(&b, 0, t.length)
	full := normalizeEOLBytes(b.String(), newEOL)

	target := (t.tuning.EOLNormalizeMinChunk + t.tuning.EOLNormalizeMaxChunk) / 2
	chunks := chunkText(full, target)

	t.buffers = []*pieceBuffer{{buffer: "", lineStarts: []int{0}}}
	t.root = sentinel
	t.lastChangeBufferPos = BufferCursor{}
	t.searchCache.invalidate()
	t.invalidateLineCache()

	last := sentinel
	for _, c := range chunks {
		if c == "" {
			continue
		}
		buf := &pieceBuffer{buffer: c, lineStarts: computeLineStarts(c)}
		idx := len(t.buffers)
		t.buffers = append(t.buffers, buf)
		p := Piece{
			BufferIndex: idx,
			Start:       BufferCursor{0, 0},
			End:         buf.cursorAt(len(c)),
			Length:      len(c),
			LineFeedCnt: buf.lineCount(),
		}
		last = rbInsertRight(t, last, p)
	}

	t.eol = newEOL
	t.eolLength = len(newEOL)
	t.eolNormalized = true
	t.computeBufferMetadata()
	return nil
}
