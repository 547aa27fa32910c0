// Package position maps character ranges onto dense base-unit positions.
//
// An Index is built once per document from its base units (typically
// tokens). Position i is the i-th unit in text order. Any character range is
// resolved to the inclusive position range of the units it overlaps.
package position

import (
	"sort"

	apperrors "github.com/FocuswithJustin/annodex/core/errors"
)

// Range is a half-open character range [Begin, End).
type Range struct {
	Begin int
	End   int
}

// Index resolves character ranges to base-unit positions.
// It is immutable after New and safe for concurrent use.
type Index struct {
	units []Range
}

// New builds an index from base units. Units are sorted by (begin, end)
// unless already in that order; the input slice is never modified.
// Overlapping units and zero-width units are rejected with a
// *errors.SegmentationError.
func New(units []Range) (*Index, error) {
	sorted := make([]Range, len(units))
	copy(sorted, units)
	if !isSorted(sorted) {
		sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	}

	for i, u := range sorted {
		if u.End <= u.Begin {
			return nil, &apperrors.SegmentationError{
				Index:  i,
				Unit:   offsets(u),
				Reason: "empty",
			}
		}
		if i > 0 && u.Begin < sorted[i-1].End {
			return nil, &apperrors.SegmentationError{
				Index:    i,
				Previous: offsets(sorted[i-1]),
				Unit:     offsets(u),
				Reason:   "overlap",
			}
		}
	}

	return &Index{units: sorted}, nil
}

func less(a, b Range) bool {
	if a.Begin != b.Begin {
		return a.Begin < b.Begin
	}
	return a.End < b.End
}

func isSorted(units []Range) bool {
	for i := 1; i < len(units); i++ {
		if less(units[i], units[i-1]) {
			return false
		}
	}
	return true
}

func offsets(r Range) apperrors.Offsets {
	return apperrors.Offsets{Begin: r.Begin, End: r.End}
}

// Len returns the number of base units, which is the position count.
func (x *Index) Len() int {
	return len(x.units)
}

// Unit returns the character range of the unit at position i.
func (x *Index) Unit(i int) Range {
	return x.units[i]
}

// Resolve returns the inclusive position range [p0, p1] of the units
// overlapping [begin, end).
//
// A zero-width range resolves to the unit containing the point. A range
// overlapping no unit resolves to the nearest preceding unit, or to position
// 0 when none precedes. ok is false only when the index holds no units.
func (x *Index) Resolve(begin, end int) (p0, p1 int, ok bool) {
	if len(x.units) == 0 {
		return 0, 0, false
	}
	if first, last, hit := x.overlap(begin, end); hit {
		return first, last, true
	}
	p := x.preceding(begin)
	return p, p, true
}

// Degenerate reports whether [begin, end) overlaps no unit, so that
// Resolve falls back to the nearest preceding unit.
func (x *Index) Degenerate(begin, end int) bool {
	_, _, hit := x.overlap(begin, end)
	return !hit
}

// overlap finds the first unit with End > begin and the last unit with
// Begin < end. A zero-width range matches the unit containing the point.
func (x *Index) overlap(begin, end int) (first, last int, hit bool) {
	n := len(x.units)
	first = sort.Search(n, func(i int) bool { return x.units[i].End > begin })
	if end <= begin {
		if first < n && x.units[first].Begin <= begin {
			return first, first, true
		}
		return 0, 0, false
	}
	last = sort.Search(n, func(i int) bool { return x.units[i].Begin >= end }) - 1
	if first > last {
		return 0, 0, false
	}
	return first, last, true
}

// preceding returns the last unit ending at or before offset, or 0.
func (x *Index) preceding(offset int) int {
	i := sort.Search(len(x.units), func(i int) bool { return x.units[i].End > offset }) - 1
	if i < 0 {
		return 0
	}
	return i
}
