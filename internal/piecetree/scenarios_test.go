package piecetree

import (
	"strings"
	"testing"

	"github.com/dshills/pieceengine/internal/tuning"
)

// TestScenarioInsertSplitsPiece is S1: a single insert into the middle of
// one original buffer's piece, splitting it in two.
func TestScenarioInsertSplitsPiece(t *testing.T) {
	tr := NewPieceTreeBase([]string{"hello world"}, "\n", true, tuning.Default())
	tr.Insert(5, " there", false)

	if got := tr.GetLinesContent(); len(got) != 1 || got[0] != "hello there world" {
		t.Fatalf("GetLinesContent() = %v, want [\"hello there world\"]", got)
	}
	if tr.GetLength() != 17 {
		t.Errorf("GetLength() = %d, want 17", tr.GetLength())
	}
	if tr.GetLineCount() != 1 {
		t.Errorf("GetLineCount() = %d, want 1", tr.GetLineCount())
	}
	if err := ValidateInvariants(tr); err != nil {
		t.Errorf("invariants violated: %v", err)
	}
}

// TestScenarioCRLFSplitAtBoundary is S2: two inserts that would split a
// \r\n pair across adjacent pieces must be repaired by the CRLF guard.
func TestScenarioCRLFSplitAtBoundary(t *testing.T) {
	tr := NewPieceTreeBase(nil, "\r\n", false, tuning.Default())
	tr.Insert(0, "a\r", false)
	tr.Insert(2, "\nb", false)

	if err := ValidateInvariants(tr); err != nil {
		t.Fatalf("CR-LF-UNITY violated: %v", err)
	}
	if got := tr.GetLinesContent(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("GetLinesContent() = %v, want [\"a\" \"b\"]", got)
	}
	if tr.GetLineCount() != 2 {
		t.Errorf("GetLineCount() = %d, want 2", tr.GetLineCount())
	}
}

// TestScenarioAppendFastPath is S3: three consecutive inserts at the tail
// of the document should all land in a single change-buffer piece.
func TestScenarioAppendFastPath(t *testing.T) {
	tr := NewPieceTreeBase(nil, "\n", false, tuning.Default())
	tr.Insert(0, "abc", false)
	tr.Insert(3, "def", false)
	tr.Insert(6, "ghi", false)

	if tr.root == sentinel || tr.root.left != sentinel || tr.root.right != sentinel {
		t.Fatalf("expected a single node, tree has more structure")
	}
	if tr.root.piece.BufferIndex != 0 || tr.root.piece.Length != 9 {
		t.Fatalf("root piece = %+v, want buffer 0 length 9", tr.root.piece)
	}
	if got := tr.GetLinesContent(); len(got) != 1 || got[0] != "abcdefghi" {
		t.Fatalf("GetLinesContent() = %v, want [\"abcdefghi\"]", got)
	}
}

// TestScenarioLargeInsertChunking is S4: a 200000-byte insert with a \r\n
// straddling the default chunk boundary must never split that pair across
// two original buffers.
func TestScenarioLargeInsertChunking(t *testing.T) {
	const size = 200000
	b := make([]byte, size)
	for i := range b {
		b[i] = 'a'
	}
	b[65534] = '\r'
	b[65535] = '\n'
	x := string(b)

	tr := NewPieceTreeBase(nil, "\n", false, tuning.Default())
	tr.Insert(0, x, false)

	if tr.GetLength() != size {
		t.Errorf("GetLength() = %d, want %d", tr.GetLength(), size)
	}
	wantLines := strings.Count(x, "\n") + 1
	if tr.GetLineCount() != wantLines {
		t.Errorf("GetLineCount() = %d, want %d", tr.GetLineCount(), wantLines)
	}
	if err := ValidateInvariants(tr); err != nil {
		t.Fatalf("invariants violated (likely a split \\r\\n): %v", err)
	}
	if len(tr.buffers) < 2 {
		t.Fatalf("expected chunking to produce more than one original buffer, got %d", len(tr.buffers))
	}
}

// TestScenarioDeleteAcrossPieces is S5: deleting a range spanning three
// separate original-buffer pieces.
func TestScenarioDeleteAcrossPieces(t *testing.T) {
	tr := NewPieceTreeBase([]string{"foo\n", "bar\n", "baz"}, "\n", true, tuning.Default())
	tr.Delete(2, 7)

	if got := tr.GetValue(); got != "foaz" {
		t.Fatalf("GetValue() = %q, want %q", got, "foaz")
	}
	if tr.GetLineCount() != 1 {
		t.Errorf("GetLineCount() = %d, want 1", tr.GetLineCount())
	}
	if tr.GetLength() != 4 {
		t.Errorf("GetLength() = %d, want 4", tr.GetLength())
	}
}

// TestScenarioEOLNormalization is S6: setEOL over a document with mixed
// line endings normalizes every terminator and flips _EOLNormalized.
func TestScenarioEOLNormalization(t *testing.T) {
	tr := NewPieceTreeBase([]string{"a\r\nb\nc\rd"}, "\n", false, tuning.Default())

	if err := tr.SetEOL("\n"); err != nil {
		t.Fatalf("SetEOL failed: %v", err)
	}
	if got := tr.GetValue(); got != "a\nb\nc\nd" {
		t.Fatalf("GetValue() = %q, want %q", got, "a\nb\nc\nd")
	}
	if tr.GetLineCount() != 4 {
		t.Errorf("GetLineCount() = %d, want 4", tr.GetLineCount())
	}
	if !tr.eolNormalized {
		t.Error("eolNormalized should be true after SetEOL")
	}
	full := tr.GetValueInRange(1, 1, tr.GetLineCount(), tr.GetLineLength(tr.GetLineCount())+1, "")
	if full != "a\nb\nc\nd" {
		t.Errorf("GetValueInRange(full) = %q, want %q", full, "a\nb\nc\nd")
	}
}
