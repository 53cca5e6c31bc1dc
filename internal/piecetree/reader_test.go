package piecetree

import (
	"testing"

	"github.com/dshills/pieceengine/internal/tuning"
)

func TestGetValueInRange(t *testing.T) {
	tr := NewFromString("abc\ndefgh\nij", "\n", tuning.Default())

	tests := []struct {
		name                               string
		sl, sc, el, ec                     int
		want                               string
	}{
		{"whole first line", 1, 1, 1, 4, "abc"},
		{"spanning two lines", 1, 2, 2, 4, "bc\ndef"},
		{"single point is empty", 2, 2, 2, 2, ""},
		{"whole document", 1, 1, 3, 3, "abc\ndefgh\nij"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.GetValueInRange(tt.sl, tt.sc, tt.el, tt.ec, "")
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetLinesContent(t *testing.T) {
	tr := NewFromString("first\nsecond\nthird", "\n", tuning.Default())
	want := []string{"first", "second", "third"}
	got := tr.GetLinesContent()
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGetLineLength(t *testing.T) {
	tr := NewFromString("ab\ncdef\ng", "\n", tuning.Default())
	tests := []struct {
		line int
		want int
	}{
		{1, 2},
		{2, 4},
		{3, 1},
	}
	for _, tt := range tests {
		if got := tr.GetLineLength(tt.line); got != tt.want {
			t.Errorf("GetLineLength(%d) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

// TestGetLineCharCodePastEndIsZero exercises the documented,
// deliberately-not-fixed behavior: asking for the character past the end
// of the final line returns 0 rather than clamping to the last real byte.
func TestGetLineCharCodePastEndIsZero(t *testing.T) {
	tr := NewFromString("abc", "\n", tuning.Default())
	if got := tr.GetLineCharCode(1, 3); got != 0 {
		t.Errorf("GetLineCharCode past end = %d, want 0", got)
	}
	if got := tr.GetLineCharCode(1, 0); got != 'a' {
		t.Errorf("GetLineCharCode(1,0) = %d, want %d", got, 'a')
	}
}

func TestOffsetPositionRoundTrip(t *testing.T) {
	text := "abc\ndefgh\nij"
	tr := NewFromString(text, "\n", tuning.Default())

	for offset := 0; offset <= len(text); offset++ {
		pos := tr.GetPositionAt(offset)
		back := tr.GetOffsetAt(pos.LineNumber, pos.Column)
		if back != offset {
			t.Errorf("offset %d -> %v -> %d, not a round trip", offset, pos, back)
		}
	}
}

func TestSnapshotIsolatedFromLaterEdits(t *testing.T) {
	tr := NewFromString("hello", "\n", tuning.Default())
	snap := tr.CreateSnapshot("")

	tr.Insert(5, " world", false)

	var got string
	for {
		chunk, ok := snap.Read()
		if !ok {
			break
		}
		got += chunk
	}
	if got != "hello" {
		t.Errorf("snapshot content = %q, want %q", got, "hello")
	}
	if tr.GetValue() != "hello world" {
		t.Errorf("tree content = %q, want %q", tr.GetValue(), "hello world")
	}
}

func TestSnapshotBOM(t *testing.T) {
	tr := NewFromString("hi", "\n", tuning.Default())
	snap := tr.CreateSnapshot("\ufeff")

	first, ok := snap.Read()
	if !ok || first != "\ufeff" {
		t.Fatalf("first chunk = %q, %v, want BOM first", first, ok)
	}
	second, ok := snap.Read()
	if !ok || second != "hi" {
		t.Fatalf("second chunk = %q, %v, want %q", second, ok, "hi")
	}
	if _, ok := snap.Read(); ok {
		t.Fatal("expected end of stream")
	}
}

func TestEqual(t *testing.T) {
	a := NewFromString("same", "\n", tuning.Default())
	b := NewPieceTreeBase([]string{"sa", "me"}, "\n", true, tuning.Default())
	c := NewFromString("different", "\n", tuning.Default())

	if !a.Equal(b) {
		t.Error("trees with identical content laid out in different pieces should be equal")
	}
	if a.Equal(c) {
		t.Error("trees with different content should not be equal")
	}
}
