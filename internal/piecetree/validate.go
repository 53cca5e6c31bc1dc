package piecetree

import "fmt"

// ErrInvariant wraps every invariant violation ValidateInvariants reports,
// so callers that only care whether the tree is sound can match on it with
// errors.Is rather than parsing messages.
var ErrInvariant = fmt.Errorf("piecetree: invariant violation")

// ValidateInvariants walks the whole tree and checks every testable
// structural property except the coordinate-round-trip and
// search-cache-soundness properties, which are exercised directly by
// tests rather than by a static walk. It never panics; it is the checker
// tests call to get a list-of-one error rather than a fatal condition.
func ValidateInvariants(t *PieceTreeBase) error {
	if t.root != sentinel && t.root.color != black {
		return fmt.Errorf("%w: root is not black", ErrInvariant)
	}

	totalLength, totalLF, err := checkAggregates(t.root)
	if err != nil {
		return err
	}
	if totalLength != t.length {
		return fmt.Errorf("%w: tree length %d does not match sum of pieces %d", ErrInvariant, t.length, totalLength)
	}
	if totalLF+1 != t.lineCnt {
		return fmt.Errorf("%w: line count %d does not match 1+sum(lineFeedCnt) %d", ErrInvariant, t.lineCnt, totalLF+1)
	}

	if err := checkRedBlack(t.root); err != nil {
		return err
	}

	if err := checkCRLFUnity(t); err != nil {
		return err
	}

	return checkPieceDeterminism(t)
}

// checkAggregates verifies property 3 (size_left/lf_left correctness) at
// every node and returns the subtree's total length and line-feed count.
func checkAggregates(n *treeNode) (length, lf int, err error) {
	if n == sentinel {
		return 0, 0, nil
	}
	leftLen, leftLF, err := checkAggregates(n.left)
	if err != nil {
		return 0, 0, err
	}
	rightLen, rightLF, err := checkAggregates(n.right)
	if err != nil {
		return 0, 0, err
	}
	if n.sizeLeft != leftLen {
		return 0, 0, fmt.Errorf("%w: node size_left %d != left subtree length %d", ErrInvariant, n.sizeLeft, leftLen)
	}
	if n.lfLeft != leftLF {
		return 0, 0, fmt.Errorf("%w: node lf_left %d != left subtree lineFeedCnt %d", ErrInvariant, n.lfLeft, leftLF)
	}
	if n.piece.Length < 0 {
		return 0, 0, fmt.Errorf("%w: piece has negative length %d", ErrInvariant, n.piece.Length)
	}
	return leftLen + n.piece.Length + rightLen, leftLF + n.piece.LineFeedCnt + rightLF, nil
}

// checkRedBlack verifies property 4: no red node has a red child, and
// every root-to-sentinel path has the same black depth.
func checkRedBlack(root *treeNode) error {
	_, err := blackDepth(root)
	return err
}

func blackDepth(n *treeNode) (int, error) {
	if n == sentinel {
		return 0, nil
	}
	if n.color == red {
		if n.left.color == red || n.right.color == red {
			return 0, fmt.Errorf("%w: red node has a red child", ErrInvariant)
		}
	}
	leftDepth, err := blackDepth(n.left)
	if err != nil {
		return 0, err
	}
	rightDepth, err := blackDepth(n.right)
	if err != nil {
		return 0, err
	}
	if leftDepth != rightDepth {
		return 0, fmt.Errorf("%w: unequal black depth (%d vs %d)", ErrInvariant, leftDepth, rightDepth)
	}
	if n.color == black {
		return leftDepth + 1, nil
	}
	return leftDepth, nil
}

// checkCRLFUnity verifies property 6: no two adjacent pieces split a
// \r\n pair across their boundary.
func checkCRLFUnity(t *PieceTreeBase) error {
	for n := leftmost(t.root); n != sentinel; n = nextNode(n) {
		next := nextNode(n)
		if next == sentinel {
			break
		}
		if t.endWithCR(n) && t.startWithLF(next) {
			return fmt.Errorf("%w: CRLF pair split across adjacent pieces", ErrInvariant)
		}
	}
	return nil
}

// checkPieceDeterminism verifies property 5: every piece's length and
// lineFeedCnt are consistent with its own buffer range.
func checkPieceDeterminism(t *PieceTreeBase) error {
	for n := leftmost(t.root); n != sentinel; n = nextNode(n) {
		p := n.piece
		buf := t.buffers[p.BufferIndex]
		want := buf.offsetOf(p.End) - buf.offsetOf(p.Start)
		if p.Length != want {
			return fmt.Errorf("%w: piece length %d != offset(end)-offset(start) %d", ErrInvariant, p.Length, want)
		}
		wantLF := p.End.Line - p.Start.Line
		if p.LineFeedCnt != wantLF {
			return fmt.Errorf("%w: piece lineFeedCnt %d != end.Line-start.Line %d", ErrInvariant, p.LineFeedCnt, wantLF)
		}
	}
	return nil
}
