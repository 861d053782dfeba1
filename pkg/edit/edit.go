// Package edit models byte-range text edits and their atomic application.
// An EditSet either applies completely or not at all: overlapping edits are rejected
// at build time, so a validated set can always be applied in one pass.
package edit

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for edit building and application.
var (
	// ErrOverlap indicates two edits cover intersecting byte ranges.
	ErrOverlap = errors.New("edit: overlapping edits")

	// ErrOutOfRange indicates an edit extends past the source buffer.
	ErrOutOfRange = errors.New("edit: edit out of source range")

	// ErrInvalidRange indicates an edit with End before Start.
	ErrInvalidRange = errors.New("edit: invalid range")
)

// TextEdit replaces the byte range [Start, End) with NewText.
// A deletion has empty NewText; an insertion has Start == End.
type TextEdit struct {
	Start   uint   `json:"start"`
	End     uint   `json:"end"`
	NewText string `json:"new_text"`
}

// EditSet is an ordered, non-overlapping collection of edits against one
// buffer. The zero value is an empty, valid set.
type EditSet struct {
	edits []TextEdit
}

// Add appends an edit. The range is validated immediately; overlap against
// previously added edits is validated too, so a set never holds an
// unappliable state.
func (s *EditSet) Add(e TextEdit) error {
	if e.End < e.Start {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, e.Start, e.End)
	}

	for _, existing := range s.edits {
		if overlaps(existing, e) {
			return fmt.Errorf("%w: [%d, %d) and [%d, %d)",
				ErrOverlap, existing.Start, existing.End, e.Start, e.End)
		}
	}

	s.edits = append(s.edits, e)

	return nil
}

// Replace is shorthand for adding a replacement edit.
func (s *EditSet) Replace(start, end uint, newText string) error {
	return s.Add(TextEdit{Start: start, End: end, NewText: newText})
}

// Delete is shorthand for adding a deletion edit.
func (s *EditSet) Delete(start, end uint) error {
	return s.Add(TextEdit{Start: start, End: end})
}

// Len returns the number of edits in the set.
func (s *EditSet) Len() int {
	return len(s.edits)
}

// Edits returns the edits sorted by start offset.
func (s *EditSet) Edits() []TextEdit {
	sorted := make([]TextEdit, len(s.edits))
	copy(sorted, s.edits)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	return sorted
}

// Apply produces the edited buffer. The source is never modified; either
// every edit applies or an error is returned and nothing is produced.
func (s *EditSet) Apply(source []byte) ([]byte, error) {
	sorted := s.Edits()

	for _, e := range sorted {
		if e.End > uint(len(source)) {
			return nil, fmt.Errorf("%w: [%d, %d) against %d bytes",
				ErrOutOfRange, e.Start, e.End, len(source))
		}
	}

	out := make([]byte, 0, len(source))

	var cursor uint

	for _, e := range sorted {
		out = append(out, source[cursor:e.Start]...)
		out = append(out, e.NewText...)
		cursor = e.End
	}

	out = append(out, source[cursor:]...)

	return out, nil
}

// overlaps reports whether two half-open ranges intersect. Touching ranges
// do not overlap; two insertions at the same offset do.
func overlaps(a, b TextEdit) bool {
	if a.Start == a.End && b.Start == b.End {
		return a.Start == b.Start
	}

	return a.Start < b.End && b.Start < a.End
}
