package piecetree

import (
	"testing"
	"unicode/utf8"

	"github.com/dshills/pieceengine/internal/tuning"
)

// FuzzInsert checks that an arbitrary sequence of clamped inserts never
// violates a tree invariant and always matches a plain-string reference
// doing the same inserts.
func FuzzInsert(f *testing.F) {
	f.Add("hello", 0, "x")
	f.Add("hello", 5, "x")
	f.Add("", 0, "a\r\nb")
	f.Add("line1\r", 6, "\nline2")
	f.Add("日本語", 3, "x")

	f.Fuzz(func(t *testing.T, initial string, offset int, insert string) {
		if !utf8.ValidString(initial) || !utf8.ValidString(insert) {
			return
		}

		tr := NewFromString(initial, "\n", tuning.Default())

		if offset < 0 {
			offset = 0
		}
		if offset > len(initial) {
			offset = len(initial)
		}

		tr.Insert(offset, insert, false)

		want := initial[:offset] + insert + initial[offset:]
		if got := tr.GetValue(); got != want {
			t.Fatalf("content mismatch: got %q, want %q", got, want)
		}
		if err := ValidateInvariants(tr); err != nil {
			t.Fatalf("invariants violated: %v", err)
		}
	})
}

// FuzzDelete checks that an arbitrary clamped delete range matches a
// plain-string reference and never violates a tree invariant.
func FuzzDelete(f *testing.F) {
	f.Add("hello world", 0, 5)
	f.Add("a\r\nb\nc\rd", 1, 3)
	f.Add("", 0, 0)

	f.Fuzz(func(t *testing.T, initial string, start, count int) {
		if !utf8.ValidString(initial) {
			return
		}

		tr := NewFromString(initial, "\n", tuning.Default())

		if start < 0 {
			start = 0
		}
		if start > len(initial) {
			start = len(initial)
		}
		if count < 0 {
			count = 0
		}
		end := start + count
		if end > len(initial) {
			end = len(initial)
		}

		tr.Delete(start, end-start)

		want := initial[:start] + initial[end:]
		if got := tr.GetValue(); got != want {
			t.Fatalf("content mismatch: got %q, want %q", got, want)
		}
		if err := ValidateInvariants(tr); err != nil {
			t.Fatalf("invariants violated: %v", err)
		}
	})
}

// FuzzInsertDeleteSequence interleaves an insert and a delete against both
// the tree and a plain string, checking they never diverge.
func FuzzInsertDeleteSequence(f *testing.F) {
	f.Add("hello\r\nworld", 3, "\nX", 1, 4)

	f.Fuzz(func(t *testing.T, initial string, insertAt int, insertText string, delStart, delCount int) {
		if !utf8.ValidString(initial) || !utf8.ValidString(insertText) {
			return
		}

		tr := NewFromString(initial, "\n", tuning.Default())
		ref := initial

		if insertAt < 0 {
			insertAt = 0
		}
		if insertAt > len(ref) {
			insertAt = len(ref)
		}
		tr.Insert(insertAt, insertText, false)
		ref = ref[:insertAt] + insertText + ref[insertAt:]

		if delStart < 0 {
			delStart = 0
		}
		if delStart > len(ref) {
			delStart = len(ref)
		}
		if delCount < 0 {
			delCount = 0
		}
		delEnd := delStart + delCount
		if delEnd > len(ref) {
			delEnd = len(ref)
		}
		tr.Delete(delStart, delEnd-delStart)
		ref = ref[:delStart] + ref[delEnd:]

		if got := tr.GetValue(); got != ref {
			t.Fatalf("content mismatch: got %q, want %q", got, ref)
		}
		if err := ValidateInvariants(tr); err != nil {
			t.Fatalf("invariants violated: %v", err)
		}
	})
}
