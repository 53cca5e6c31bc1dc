package piecetree

import "github.com/dshills/pieceengine/internal/diag"

// nodePosition locates a point inside a specific piece: node is the piece's
// tree node, remainder is the byte offset from the start of node's own text
// (not the tree's global start), and nodeStartOffset/nodeStartLine are the
// global byte offset and 0-based line number where node's piece begins.
type nodePosition struct {
	node             *treeNode
	remainder        int
	nodeStartOffset  int
	nodeStartLine    int
}

// cacheEntry pins down a recently resolved node so repeated nearby lookups
// (typical of a user typing forward) skip the tree descent entirely.
type cacheEntry struct {
	node            *treeNode
	nodeStartOffset int
	nodeStartLine   int
}

// searchCache is a bounded LIFO stack of recently visited nodes. It is
// consulted before every descent and invalidated eagerly: every structural
// change drops all entries (invalidate), and a lookup skips any entry whose
// node has been detached from the tree (parent pointer cleared).
type searchCache struct {
	entries []cacheEntry
	limit   int
}

func newSearchCache(limit int) *searchCache {
	return &searchCache{limit: limit}
}

func (c *searchCache) get(offset int) (cacheEntry, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		if e.node.parent == nil {
			continue
		}
		if offset >= e.nodeStartOffset && offset < e.nodeStartOffset+e.node.piece.Length {
			return e, true
		}
	}
	return cacheEntry{}, false
}

func (c *searchCache) getForLine(line int) (cacheEntry, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		if e.node.parent == nil {
			continue
		}
		if line > e.nodeStartLine && line <= e.nodeStartLine+e.node.piece.LineFeedCnt {
			return e, true
		}
	}
	return cacheEntry{}, false
}

func (c *searchCache) put(e cacheEntry) {
	c.entries = append(c.entries, e)
	if len(c.entries) > c.limit {
		c.entries = c.entries[len(c.entries)-c.limit:]
	}
}

// invalidate drops every cached entry. Called on any structural change to
// the tree (insert, delete, CRLF repair) since a cached nodeStartOffset can
// silently go stale otherwise.
func (c *searchCache) invalidate() {
	if len(c.entries) == 0 {
		return
	}
	diag.L().Debug("search cache invalidated", diagInt("entries", len(c.entries)))
	c.entries = c.entries[:0]
}

// nodeAt descends from the root to the node containing byte offset, using
// size_left to decide whether to descend left, consume the current node, or
// continue right. offset must be in [0, tree length]; offset == length
// resolves to the last node, feeding the insert-at-end fast path.
func (t *PieceTreeBase) nodeAt(offset int) nodePosition {
	if entry, ok := t.searchCache.get(offset); ok {
		return nodePosition{
			node:            entry.node,
			remainder:       offset - entry.nodeStartOffset,
			nodeStartOffset: entry.nodeStartOffset,
			nodeStartLine:   entry.nodeStartLine,
		}
	}

	x := t.root
	nodeStartOffset := 0
	for x != sentinel {
		if x.sizeLeft > offset {
			x = x.left
			continue
		}
		if x.sizeLeft+x.piece.Length >= offset {
			nodeStartOffset += x.sizeLeft
			pos := nodePosition{
				node:            x,
				remainder:       offset - x.sizeLeft,
				nodeStartOffset: nodeStartOffset,
				nodeStartLine:   t.offsetToLine(x),
			}
			t.searchCache.put(cacheEntry{node: x, nodeStartOffset: pos.nodeStartOffset, nodeStartLine: pos.nodeStartLine})
			return pos
		}
		offset -= x.sizeLeft + x.piece.Length
		nodeStartOffset += x.sizeLeft + x.piece.Length
		x = x.right
	}
	return nodePosition{node: sentinel}
}

// offsetToLine returns the 0-based line number at which node's piece begins,
// derived from lf_left along the path from root to node.
func (t *PieceTreeBase) offsetToLine(node *treeNode) int {
	line := node.lfLeft
	for x := node; x.parent != sentinel; x = x.parent {
		if x.parent.right == x {
			line += x.parent.lfLeft + x.parent.piece.LineFeedCnt
		}
	}
	return line
}

// nodeAtLine descends to the node holding the line break that ends 0-based
// line line-1 (so line begins right after it), using lf_left to decide
// direction the way nodeAt uses size_left. line must be >= 1. The returned
// remainder is a count of line breaks, not bytes: the chosen break is the
// remainder-th one inside node's piece.
func (t *PieceTreeBase) nodeAtLine(line int) nodePosition {
	if entry, ok := t.searchCache.getForLine(line); ok {
		return nodePosition{
			node:            entry.node,
			remainder:       line - entry.nodeStartLine,
			nodeStartOffset: entry.nodeStartOffset,
			nodeStartLine:   entry.nodeStartLine,
		}
	}

	x := t.root
	nodeStartOffset := 0
	nodeStartLine := 0
	for x != sentinel {
		if x.lfLeft >= line {
			x = x.left
			continue
		}
		if x.lfLeft+x.piece.LineFeedCnt >= line {
			nodeStartOffset += x.sizeLeft
			nodeStartLine += x.lfLeft
			pos := nodePosition{
				node:            x,
				remainder:       line - x.lfLeft,
				nodeStartOffset: nodeStartOffset,
				nodeStartLine:   nodeStartLine,
			}
			t.searchCache.put(cacheEntry{node: x, nodeStartOffset: nodeStartOffset, nodeStartLine: nodeStartLine})
			return pos
		}
		line -= x.lfLeft + x.piece.LineFeedCnt
		nodeStartOffset += x.sizeLeft + x.piece.Length
		nodeStartLine += x.lfLeft + x.piece.LineFeedCnt
		x = x.right
	}
	return nodePosition{node: sentinel}
}

// getIndexOf returns the line-feed count and column consumed by the first
// remainder bytes of node's piece. Whether a lone trailing \r at the piece's
// own end joins an \n belonging to the next piece is crlf.go's concern, not
// this accounting: a piece's own Start/End/LineFeedCnt are always
// self-consistent by construction (fixCRLF keeps it that way).
func (t *PieceTreeBase) getIndexOf(node *treeNode, remainder int) (lineFeedCnt int, column int) {
	piece := node.piece
	buf := t.buffers[piece.BufferIndex]
	offset := buf.offsetOf(piece.Start) + remainder
	endCursor := buf.cursorAt(offset)
	return endCursor.Line - piece.Start.Line, endCursor.Column
}

func diagInt(key string, v int) diag.Field {
	return diag.Int(key, v)
}
