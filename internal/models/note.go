package models

import (
	"fmt"

	"bandroom/internal/shared"
)

// NoteTag marks a note as attached to the first or last lyric line regardless
// of numbering. The tag is what persists and round-trips; the numeric line it
// resolves to is recomputed against the current lyric bounds at render time.
type NoteTag string

const (
	TagNone  NoteTag = ""
	TagStart NoteTag = "START"
	TagEnd   NoteTag = "END"
)

// Note is a practice note on a song. Three shapes are possible:
//
//   - line note: Anchored with LineStart <= LineEnd
//   - tagged note: Tag is START or END, resolved against current bounds
//   - free-form note: not anchored, preserved verbatim and not navigable
type Note struct {
	Content   string  `json:"content"`
	Anchored  bool    `json:"anchored"`
	LineStart int     `json:"line_start,omitempty"`
	LineEnd   int     `json:"line_end,omitempty"`
	IsRange   bool    `json:"is_range,omitempty"` // Parsed from N-M form; kept so N-N round-trips
	Tag       NoteTag `json:"tag,omitempty"`
}

// Validate checks the note's invariants.
func (n Note) Validate() error {
	if n.Anchored && n.LineStart > n.LineEnd {
		return fmt.Errorf("%w: note line_start %d exceeds line_end %d", shared.ErrInvalidInput, n.LineStart, n.LineEnd)
	}
	if n.Tag != TagNone && n.Tag != TagStart && n.Tag != TagEnd {
		return fmt.Errorf("%w: unknown note tag %q", shared.ErrInvalidInput, n.Tag)
	}
	return nil
}

// Span resolves the note's highlight span against the current lyric bounds.
// Tagged notes re-resolve on every call so they stay valid after lyrics are
// edited and renumbered. Free-form notes report ok=false.
func (n Note) Span(firstLine, lastLine int) (start, end int, ok bool) {
	switch n.Tag {
	case TagStart:
		return firstLine, firstLine, true
	case TagEnd:
		return lastLine, lastLine, true
	}
	if !n.Anchored {
		return 0, 0, false
	}
	return n.LineStart, n.LineEnd, true
}

// Navigable reports whether the note participates in note navigation.
func (n Note) Navigable() bool {
	return n.Anchored || n.Tag == TagStart || n.Tag == TagEnd
}
