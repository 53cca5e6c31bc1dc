package piecetree

// leftRotate and rightRotate are the standard CLRS rotations adapted to the
// shared sentinel. Each rotation preserves the total element count under the
// rotated subtree's root (same nodes, different shape), so only the two
// nodes that changed children need their aggregates refreshed; nothing above
// them needs to change.
func leftRotate(t *PieceTreeBase, x *treeNode) {
	y := x.right
	x.right = y.left
	if y.left != sentinel {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == sentinel {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y

	refreshAggregates(x)
	refreshAggregates(y)
}

func rightRotate(t *PieceTreeBase, y *treeNode) {
	x := y.left
	y.left = x.right
	if x.right != sentinel {
		x.right.parent = y
	}
	x.parent = y.parent
	if y.parent == sentinel {
		t.root = x
	} else if y == y.parent.left {
		y.parent.left = x
	} else {
		y.parent.right = x
	}
	x.right = y
	y.parent = x

	refreshAggregates(y)
	refreshAggregates(x)
}

// rbInsertLeft inserts p as the in-order predecessor of node: node's left
// child if it has none, otherwise the right child of the rightmost node in
// node's left subtree. Returns the new node, already fixed up.
func rbInsertLeft(t *PieceTreeBase, node *treeNode, p Piece) *treeNode {
	z := newNode(p, red)
	if t.root == sentinel {
		t.root = z
		z.color = black
		z.parent = sentinel
	} else if node.left == sentinel {
		node.left = z
		z.parent = node
	} else {
		prev := rightmost(node.left)
		prev.right = z
		z.parent = prev
	}
	propagateUp(z.parent)
	insertFixup(t, z)
	return z
}

// rbInsertRight inserts p as the in-order successor of node.
func rbInsertRight(t *PieceTreeBase, node *treeNode, p Piece) *treeNode {
	z := newNode(p, red)
	if t.root == sentinel {
		t.root = z
		z.color = black
		z.parent = sentinel
	} else if node.right == sentinel {
		node.right = z
		z.parent = node
	} else {
		next := leftmost(node.right)
		next.left = z
		z.parent = next
	}
	propagateUp(z.parent)
	insertFixup(t, z)
	return z
}

func insertFixup(t *PieceTreeBase, z *treeNode) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					leftRotate(t, z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				rightRotate(t, z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					rightRotate(t, z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				leftRotate(t, z.parent.parent)
			}
		}
	}
	t.root.color = black
}

// transplant replaces the subtree rooted at u with the subtree rooted at v,
// fixing up u's parent's child pointer and v's parent pointer (even when v is
// sentinel: v.parent is used as scratch during fixDelete).
func transplant(t *PieceTreeBase, u, v *treeNode) {
	if u.parent == sentinel {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

// rbDelete removes z from the tree. It follows the classic CLRS RB-DELETE
// pointer dance, then repairs aggregates along every path disturbed by the
// splice before running the color fixup (whose rotations repair themselves
// locally, per leftRotate/rightRotate above).
func rbDelete(t *PieceTreeBase, z *treeNode) {
	y := z
	yOriginalColor := y.color
	var x *treeNode

	switch {
	case z.left == sentinel:
		x = z.right
		transplant(t, z, z.right)
		propagateUp(x.parent)
	case z.right == sentinel:
		x = z.left
		transplant(t, z, z.left)
		propagateUp(x.parent)
	default:
		y = leftmost(z.right)
		yOriginalColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			transplant(t, y, y.right)
			y.right = z.right
			y.right.parent = y
			propagateUp(x.parent)
		}
		transplant(t, z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
		refreshAggregates(y)
		propagateUp(y.parent)
	}

	z.left = nil
	z.right = nil
	z.parent = nil

	if yOriginalColor == black {
		deleteFixup(t, x)
	}
	sentinel.parent = sentinel
}

func deleteFixup(t *PieceTreeBase, x *treeNode) {
	for x != t.root && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				w.color = black
				x.parent.color = red
				leftRotate(t, x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.right.color == black {
					w.left.color = black
					w.color = red
					rightRotate(t, w)
					w = x.parent.right
				}
				w.color = x.parent.color
				x.parent.color = black
				w.right.color = black
				leftRotate(t, x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.color == red {
				w.color = black
				x.parent.color = red
				rightRotate(t, x.parent)
				w = x.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.left.color == black {
					w.right.color = black
					w.color = red
					leftRotate(t, w)
					w = x.parent.left
				}
				w.color = x.parent.color
				x.parent.color = black
				w.left.color = black
				rightRotate(t, x.parent)
				x = t.root
			}
		}
	}
	x.color = black
}
