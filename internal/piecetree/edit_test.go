package piecetree

import (
	"testing"

	"github.com/dshills/pieceengine/internal/tuning"
)

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		offset   int
		text     string
		expected string
	}{
		{"insert at start", "world", 0, "hello ", "hello world"},
		{"insert at end", "hello", 5, " world", "hello world"},
		{"insert in middle", "helloworld", 5, " ", "hello world"},
		{"insert into empty", "", 0, "hello", "hello"},
		{"insert empty string", "hello", 3, "", "hello"},
		{"insert unicode", "hello", 5, " 世界", "hello 世界"},
		{"insert at unicode boundary", "世界", 3, "!", "世!界"},
		{"insert past end clamps to append", "hello", 100, "!", "hello!"},
		{"insert at negative offset clamps to start", "hello", -1, "X", "Xhello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewFromString(tt.initial, "\n", tuning.Default())
			tr.Insert(tt.offset, tt.text, false)
			if got := tr.GetValue(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			if err := ValidateInvariants(tr); err != nil {
				t.Errorf("invariants violated: %v", err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		start    int
		count    int
		expected string
	}{
		{"delete from start", "hello world", 0, 6, "world"},
		{"delete from end", "hello world", 5, 6, "hello"},
		{"delete in middle", "hello world", 5, 1, "helloworld"},
		{"delete nothing", "hello", 2, 0, "hello"},
		{"delete negative count is no-op", "hello", 2, -1, "hello"},
		{"delete entire buffer", "hello", 0, 5, ""},
		{"delete past end clamps", "hello", 3, 100, "hel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewFromString(tt.initial, "\n", tuning.Default())
			tr.Delete(tt.start, tt.count)
			if got := tr.GetValue(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			if err := ValidateInvariants(tr); err != nil {
				t.Errorf("invariants violated: %v", err)
			}
		})
	}
}

func TestInsertManySequential(t *testing.T) {
	tr := NewFromString("", "\n", tuning.Default())
	want := ""
	for i := 0; i < 200; i++ {
		s := "line" + string(rune('a'+i%26)) + "\n"
		tr.Insert(len(want), s, true)
		want += s
	}
	if got := tr.GetValue(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if err := ValidateInvariants(tr); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestInsertDeleteInterleaved(t *testing.T) {
	tr := NewFromString("0123456789", "\n", tuning.Default())
	tr.Insert(5, "ABCDE", false)
	tr.Delete(0, 3)
	tr.Insert(0, "XY", false)
	tr.Delete(4, 4)

	// Replay the same operations against a plain string to compute the
	// expected result rather than hardcoding it by hand.
	ref := "0123456789"
	ref = ref[:5] + "ABCDE" + ref[5:]
	ref = ref[3:]
	ref = "XY" + ref
	ref = ref[:4] + ref[8:]
	want := ref

	if got := tr.GetValue(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if err := ValidateInvariants(tr); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestCRLFNeverSplitAcrossInsertBoundary(t *testing.T) {
	tr := NewPieceTreeBase(nil, "\r\n", false, tuning.Default())
	tr.Insert(0, "line1\r", false)
	tr.Insert(6, "\nline2\r", false)
	tr.Insert(13, "\nline3", false)

	if err := ValidateInvariants(tr); err != nil {
		t.Fatalf("CR-LF-UNITY violated: %v", err)
	}
	if got := tr.GetValue(); got != "line1\r\nline2\r\nline3" {
		t.Fatalf("got %q", got)
	}
}

func TestCRLFNeverSplitAcrossDeleteBoundary(t *testing.T) {
	// Three original pieces: "a\r" | "Xb" | "\nc". Deleting the whole
	// middle piece makes the \r-ending piece and \n-starting piece direct
	// neighbors, exposing a CR-LF-UNITY violation the delete path must repair.
	tr := NewPieceTreeBase([]string{"a\r", "Xb", "\nc"}, "\r\n", true, tuning.Default())
	tr.Delete(2, 2)

	if err := ValidateInvariants(tr); err != nil {
		t.Fatalf("CR-LF-UNITY violated: %v", err)
	}
	if got := tr.GetValue(); got != "a\r\nc" {
		t.Fatalf("got %q, want %q", got, "a\r\nc")
	}
}

func TestDeleteEmptyTreeIsNoOp(t *testing.T) {
	tr := NewFromString("", "\n", tuning.Default())
	tr.Delete(0, 5)
	if tr.GetLength() != 0 {
		t.Fatalf("expected empty tree to remain empty, got length %d", tr.GetLength())
	}
}
