package buffer

import (
	"errors"
	"io"
	"sync"

	"github.com/dshills/pieceengine/internal/piecetree"
	"github.com/dshills/pieceengine/internal/tuning"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
)

// Buffer wraps a piecetree.PieceTreeBase with the mutex-guarded access
// pattern every read/write entry point in this package follows: readers
// take the read lock, writers take the write lock, and a Snapshot lets a
// goroutine keep reading a consistent view after the buffer itself moves
// on. All methods are safe for concurrent use.
type Buffer struct {
	mu         sync.RWMutex
	id         uint64
	tree       *piecetree.PieceTreeBase
	revisionID RevisionID
	eol        string
	tabWidth   int
	tuning     tuning.Config
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		id:         newBufferID(),
		revisionID: NewRevisionID(),
		eol:        "\n",
		tabWidth:   4,
		tuning:     tuning.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.tree = piecetree.NewFromString("", b.eol, b.tuning)
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := &Buffer{
		id:         newBufferID(),
		revisionID: NewRevisionID(),
		eol:        "\n",
		tabWidth:   4,
		tuning:     tuning.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.tree = piecetree.NewFromString(s, b.eol, b.tuning)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader, reading it to
// completion first and then building it as NewBufferFromString does. The
// content is not scanned for a line ending; the EOL setting comes from
// opts alone (see WithDetectedEOL).
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// Read operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.GetValue()
}

// TextRange returns the document bytes in a 1-based position range,
// line-break terminators left as they are stored.
func (b *Buffer) TextRange(r PositionRange) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.GetValueInRange(r.Start.LineNumber, r.Start.Column, r.End.LineNumber, r.End.Column, "")
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.GetLength()
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.GetLineCount()
}

// LineText returns the content of a 1-based line, terminator stripped.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.GetLineContent(line)
}

// LineLen returns the byte length of a 1-based line, terminator excluded.
func (b *Buffer) LineLen(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.GetLineLength(line)
}

// LineCharCode returns the byte at a 0-based index on a 1-based line. Past
// the end of the document this returns 0, matching piecetree.GetLineCharCode.
func (b *Buffer) LineCharCode(line, index int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.GetLineCharCode(line, index)
}

// Lines returns every line of the document, terminators stripped.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.GetLinesContent()
}

// Coordinate conversion

// OffsetToPosition converts a 0-based byte offset to a 1-based Position.
func (b *Buffer) OffsetToPosition(offset int) Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.GetPositionAt(offset)
}

// PositionToOffset converts a 1-based Position to a 0-based byte offset.
func (b *Buffer) PositionToOffset(p Position) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.GetOffsetAt(p.LineNumber, p.Column)
}

// Write operations

// Insert inserts text at the given 0-based byte offset, returning the
// offset one past the inserted text.
func (b *Buffer) Insert(offset int, text string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > b.tree.GetLength() {
		return 0, ErrOffsetOutOfRange
	}

	b.tree.Insert(offset, text, false)
	b.revisionID = NewRevisionID()
	return offset + len(text), nil
}

// Delete removes the bytes in [start, end).
func (b *Buffer) Delete(start, end int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > b.tree.GetLength() {
		return ErrRangeInvalid
	}

	b.tree.Delete(start, end-start)
	b.revisionID = NewRevisionID()
	return nil
}

// Replace replaces the bytes in [start, end) with text, returning the
// offset one past the replacement text.
func (b *Buffer) Replace(start, end int, text string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > b.tree.GetLength() {
		return 0, ErrRangeInvalid
	}

	if end > start {
		b.tree.Delete(start, end-start)
	}
	if text != "" {
		b.tree.Insert(start, text, false)
	}
	b.revisionID = NewRevisionID()
	return start + len(text), nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	length := b.tree.GetLength()
	if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End || edit.Range.End > length {
		return EditResult{}, ErrRangeInvalid
	}

	var old string
	if edit.Range.Len() > 0 {
		startPos := b.tree.GetPositionAt(edit.Range.Start)
		endPos := b.tree.GetPositionAt(edit.Range.End)
		old = b.tree.GetValueInRange(startPos.LineNumber, startPos.Column, endPos.LineNumber, endPos.Column, "")
		b.tree.Delete(edit.Range.Start, edit.Range.Len())
	}
	if edit.NewText != "" {
		b.tree.Insert(edit.Range.Start, edit.NewText, false)
	}
	b.revisionID = NewRevisionID()

	newEnd := edit.Range.Start + len(edit.NewText)
	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: newEnd},
		OldText:  old,
		Delta:    edit.Delta(),
	}, nil
}

// ApplyEdits applies multiple edits atomically. Edits must be in reverse
// order (highest offset first) and non-overlapping so that applying one
// never shifts the offsets the others were computed against.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}

	length := b.tree.GetLength()
	for _, edit := range edits {
		if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End || edit.Range.End > length {
			return ErrRangeInvalid
		}
	}

	for _, edit := range edits {
		if edit.Range.Len() > 0 {
			b.tree.Delete(edit.Range.Start, edit.Range.Len())
		}
		if edit.NewText != "" {
			b.tree.Insert(edit.Range.Start, edit.NewText, false)
		}
	}
	b.revisionID = NewRevisionID()
	return nil
}

// Buffer state

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.GetLength() == 0
}

// EOL returns the line ending new line breaks are normalized to.
func (b *Buffer) EOL() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.GetEOL()
}

// SetEOL rewrites every line break in the document to newEOL and rebuilds
// the underlying tree. newEOL must be "\n" or "\r\n".
func (b *Buffer) SetEOL(newEOL string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.tree.SetEOL(newEOL); err != nil {
		return err
	}
	b.eol = newEOL
	b.revisionID = NewRevisionID()
	return nil
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetTabWidth sets the buffer's tab width.
func (b *Buffer) SetTabWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabWidth = width
}

// Equal reports whether two buffers contain the same document content.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == other {
		return true
	}
	// Lock in a fixed order across the two buffers (by identity, assigned
	// at construction) so that a.Equal(b) and b.Equal(a) racing on
	// different goroutines can never each hold one lock while waiting on
	// the other.
	first, second := b, other
	if b.id > other.id {
		first, second = other, b
	}
	first.mu.RLock()
	defer first.mu.RUnlock()
	second.mu.RLock()
	defer second.mu.RUnlock()
	return b.tree.Equal(other.tree)
}

// Snapshot returns a read-only, pull-based snapshot of the current buffer
// state. Safe for concurrent access from other goroutines even as this
// Buffer keeps mutating: a piecetree.Snapshot captures each piece's bytes
// as immutable strings and never reads the tree again, so later edits
// never touch what a snapshot already holds.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		inner:      b.tree.CreateSnapshot(""),
		revisionID: b.revisionID,
		eol:        b.eol,
		tabWidth:   b.tabWidth,
	}
}
