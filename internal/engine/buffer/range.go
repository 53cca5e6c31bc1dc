package buffer

import "fmt"

// Range is a half-open byte range in the buffer: [Start, End).
type Range struct {
	Start int
	End   int
}

// NewRange creates a Range from start and end offsets.
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if the range is valid (Start <= End).
func (r Range) IsValid() bool {
	return r.Start <= r.End
}

// Contains returns true if the given offset is within the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// ContainsRange returns true if the given range is entirely within this range.
func (r Range) ContainsRange(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Overlaps returns true if this range overlaps with another range.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Intersect returns the intersection of two ranges, or an empty range at
// the later start if they don't overlap.
func (r Range) Intersect(other Range) Range {
	start := r.Start
	if other.Start > start {
		start = other.Start
	}
	end := r.End
	if other.End < end {
		end = other.End
	}
	if start >= end {
		return Range{Start: start, End: start}
	}
	return Range{Start: start, End: end}
}

// Union returns the smallest range that contains both ranges.
func (r Range) Union(other Range) Range {
	start := r.Start
	if other.Start < start {
		start = other.Start
	}
	end := r.End
	if other.End > end {
		end = other.End
	}
	return Range{Start: start, End: end}
}

// Shift returns a new range shifted by the given delta.
func (r Range) Shift(delta int) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

// PositionRange is a range expressed in 1-based line/column positions
// rather than byte offsets, the coordinate system GetValueInRange takes.
type PositionRange struct {
	Start Position
	End   Position
}

// NewPositionRange creates a PositionRange from start and end positions.
func NewPositionRange(start, end Position) PositionRange {
	return PositionRange{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r PositionRange) String() string {
	return fmt.Sprintf("[%d:%d-%d:%d)", r.Start.LineNumber, r.Start.Column, r.End.LineNumber, r.End.Column)
}

// IsEmpty returns true if start equals end.
func (r PositionRange) IsEmpty() bool {
	return r.Start == r.End
}

// IsSingleLine returns true if the range spans only one line.
func (r PositionRange) IsSingleLine() bool {
	return r.Start.LineNumber == r.End.LineNumber
}
