package piecetree

// BufferCursor addresses a byte within a specific buffer's line-oriented
// layout: Line is the 0-based line number within that buffer, Column is the
// 0-based byte offset from the start of that line.
type BufferCursor struct {
	Line   int
	Column int
}

// Piece is a contiguous run of bytes within one buffer (the change buffer at
// index 0, or an original buffer at index >= 1), addressed by a pair of
// BufferCursors rather than a flat offset so that splitting a piece never
// requires rescanning its bytes for line breaks.
type Piece struct {
	BufferIndex int
	Start       BufferCursor
	End         BufferCursor
	Length      int
	LineFeedCnt int
}

type color uint8

const (
	red color = iota
	black
)

// treeNode is one node of the order-statistic red-black tree. sizeLeft and
// lfLeft are the total byte length and line-feed count of the node's left
// subtree; they are kept consistent with subSize/subLF (the same totals for
// the node's own subtree, itself included) by refreshAggregates, which
// recomputes a node's aggregates from its two children in O(1): a
// recompute-from-children scheme for every structural change, with
// updateTreeMetadata's delta propagation kept for in-place piece resizes.
// Same O(log n) cost per rotation or insert/delete, no risk of drifting out
// of sync with the tree shape. See DESIGN.md.
type treeNode struct {
	piece  Piece
	color  color
	parent *treeNode
	left   *treeNode
	right  *treeNode

	sizeLeft int
	lfLeft   int

	subSize int
	subLF   int
}

// sentinel is the tree's single shared nil/leaf node, colored black per the
// red-black invariant that every leaf (nil) is black. parent is scratch space
// used during deletion fixup and is always reset to sentinel itself before
// rbDelete returns.
var sentinel = &treeNode{color: black}

func init() {
	sentinel.parent = sentinel
	sentinel.left = sentinel
	sentinel.right = sentinel
}

func newNode(p Piece, c color) *treeNode {
	n := &treeNode{
		piece:  p,
		color:  c,
		parent: sentinel,
		left:   sentinel,
		right:  sentinel,
	}
	refreshAggregates(n)
	return n
}

func subSizeOf(n *treeNode) int {
	if n == sentinel {
		return 0
	}
	return n.subSize
}

func subLFOf(n *treeNode) int {
	if n == sentinel {
		return 0
	}
	return n.subLF
}

// refreshAggregates recomputes n's aggregates from its two children, which
// must already be correct. It is the only place sizeLeft/lfLeft/subSize/subLF
// are derived from tree shape; updateTreeMetadata (below) is the
// complementary delta form used when a node's own piece shrinks or grows in
// place without any change to the tree's shape.
func refreshAggregates(n *treeNode) {
	if n == sentinel {
		return
	}
	n.sizeLeft = subSizeOf(n.left)
	n.lfLeft = subLFOf(n.left)
	n.subSize = n.sizeLeft + n.piece.Length + subSizeOf(n.right)
	n.subLF = n.lfLeft + n.piece.LineFeedCnt + subLFOf(n.right)
}

// propagateUp recomputes aggregates from start up to the root. start's
// children must already be correct; every node above it is derived in O(1)
// per step since each ancestor's other child is untouched.
func propagateUp(start *treeNode) {
	for cur := start; cur != sentinel; cur = cur.parent {
		refreshAggregates(cur)
	}
}

// updateTreeMetadata adjusts every ancestor's aggregates by a fixed delta
// after node's own piece length/line-feed count changed in place (no
// structural change to the tree). It is the O(log n) incremental twin of
// propagateUp+refreshAggregates, used by edit.go and crlf.go wherever a
// piece is resized without inserting or removing a node.
func updateTreeMetadata(node *treeNode, sizeDelta, lfDelta int) {
	if sizeDelta == 0 && lfDelta == 0 {
		return
	}
	for cur := node; cur != sentinel; cur = cur.parent {
		cur.subSize += sizeDelta
		cur.subLF += lfDelta
		if cur.subSize < 0 || cur.subLF < 0 {
			panicInvariant("updateTreeMetadata: negative aggregate (subSize=%d, subLF=%d)", cur.subSize, cur.subLF)
		}
		if cur.parent != sentinel && cur.parent.left == cur {
			cur.parent.sizeLeft += sizeDelta
			cur.parent.lfLeft += lfDelta
		}
	}
}

func leftmost(n *treeNode) *treeNode {
	if n == sentinel {
		return sentinel
	}
	for n.left != sentinel {
		n = n.left
	}
	return n
}

func rightmost(n *treeNode) *treeNode {
	if n == sentinel {
		return sentinel
	}
	for n.right != sentinel {
		n = n.right
	}
	return n
}

// nextNode returns n's in-order successor, or sentinel if n is the last node.
func nextNode(n *treeNode) *treeNode {
	if n == sentinel {
		return sentinel
	}
	if n.right != sentinel {
		return leftmost(n.right)
	}
	for n.parent != sentinel && n.parent.right == n {
		n = n.parent
	}
	return n.parent
}

// prevNode returns n's in-order predecessor, or sentinel if n is the first node.
func prevNode(n *treeNode) *treeNode {
	if n == sentinel {
		return sentinel
	}
	if n.left != sentinel {
		return rightmost(n.left)
	}
	for n.parent != sentinel && n.parent.left == n {
		n = n.parent
	}
	return n.parent
}
