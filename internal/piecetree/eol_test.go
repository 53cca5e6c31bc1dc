package piecetree

import (
	"testing"

	"github.com/dshills/pieceengine/internal/tuning"
)

func TestSetEOLRejectsInvalidValue(t *testing.T) {
	tr := NewFromString("a\nb", "\n", tuning.Default())
	if err := tr.SetEOL("\r"); err != ErrInvalidEOL {
		t.Errorf("SetEOL(\\r) = %v, want ErrInvalidEOL", err)
	}
}

func TestSetEOLFromLFToCRLF(t *testing.T) {
	tr := NewFromString("one\ntwo\nthree", "\n", tuning.Default())
	if err := tr.SetEOL("\r\n"); err != nil {
		t.Fatalf("SetEOL failed: %v", err)
	}
	if got, want := tr.GetValue(), "one\r\ntwo\r\nthree"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if err := ValidateInvariants(tr); err != nil {
		t.Errorf("invariants violated: %v", err)
	}
}

func TestSetEOLPreservesLineCount(t *testing.T) {
	tr := NewFromString("a\rb\r\nc\nd", "\n", tuning.Default())
	before := tr.GetLineCount()
	if err := tr.SetEOL("\n"); err != nil {
		t.Fatalf("SetEOL failed: %v", err)
	}
	if after := tr.GetLineCount(); after != before {
		t.Errorf("line count changed from %d to %d across SetEOL", before, after)
	}
}
