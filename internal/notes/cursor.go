package notes

import (
	"time"

	"bandroom/internal/lyrics"
	"bandroom/internal/models"
)

// HighlightDwell is how long a highlighted note stays lit before it clears,
// unless superseded by another navigation.
const HighlightDwell = 3 * time.Second

// Edge selects a cursor jump target.
type Edge int

const (
	EdgeFirst Edge = iota
	EdgeLast
)

// Highlight is the transient UI state produced by a cursor move: the lyric
// line span to light up and when the highlight should clear.
type Highlight struct {
	Note      models.Note
	LineStart int
	LineEnd   int
	ExpiresAt time.Time
}

// Active reports whether the highlight is still lit at the given instant.
func (h Highlight) Active(at time.Time) bool {
	return at.Before(h.ExpiresAt)
}

// Cursor maintains a navigable position over a song's line-anchored notes.
// Free-form notes are editable but skipped entirely during navigation.
// Navigation only affects transient highlight state; it never mutates notes.
type Cursor struct {
	notes []models.Note
	order []int // indexes into notes, navigable only
	pos   int   // current index into order, -1 before first navigation
	now   func() time.Time
}

// NewCursor creates a cursor over the given notes.
func NewCursor(noteList []models.Note) *Cursor {
	c := &Cursor{
		notes: append([]models.Note(nil), noteList...),
		pos:   -1,
		now:   time.Now,
	}
	for i, note := range c.notes {
		if note.Navigable() {
			c.order = append(c.order, i)
		}
	}
	return c
}

// SetClock overrides the cursor's clock. Used by tests and callers that
// manage their own time source.
func (c *Cursor) SetClock(now func() time.Time) {
	c.now = now
}

// Len returns the number of navigable notes.
func (c *Cursor) Len() int {
	return len(c.order)
}

// Current returns the note under the cursor.
func (c *Cursor) Current() (models.Note, bool) {
	if c.pos < 0 || c.pos >= len(c.order) {
		return models.Note{}, false
	}
	return c.notes[c.order[c.pos]], true
}

// Navigate moves the cursor to the next (direction > 0) or previous
// (direction < 0) line-anchored note, wrapping at either end. Navigating
// with no anchored notes is a no-op.
func (c *Cursor) Navigate(direction int) (models.Note, bool) {
	if len(c.order) == 0 {
		return models.Note{}, false
	}

	step := 1
	if direction < 0 {
		step = -1
	}

	if c.pos < 0 {
		if step > 0 {
			c.pos = 0
		} else {
			c.pos = len(c.order) - 1
		}
	} else {
		c.pos = (c.pos + step + len(c.order)) % len(c.order)
	}

	return c.notes[c.order[c.pos]], true
}

// JumpToEdge moves directly to the first or last line-anchored note.
func (c *Cursor) JumpToEdge(edge Edge) (models.Note, bool) {
	if len(c.order) == 0 {
		return models.Note{}, false
	}
	if edge == EdgeFirst {
		c.pos = 0
	} else {
		c.pos = len(c.order) - 1
	}
	return c.notes[c.order[c.pos]], true
}

// Highlight resolves the current note against the numbered lyrics and
// returns the line span to light up. Tagged notes re-resolve against the
// current bounds, so they stay valid after the lyrics are renumbered. When
// the target lines are not currently rendered (stale references), the move
// is a no-op rather than an error.
func (c *Cursor) Highlight(numbered string) (Highlight, bool) {
	note, ok := c.Current()
	if !ok {
		return Highlight{}, false
	}

	first, last := lyrics.Bounds(numbered)
	start, end, ok := note.Span(first, last)
	if !ok {
		return Highlight{}, false
	}

	rendered := lyrics.Lines(numbered)
	if _, ok := rendered[start]; !ok {
		return Highlight{}, false
	}
	if _, ok := rendered[end]; !ok {
		return Highlight{}, false
	}

	return Highlight{
		Note:      note,
		LineStart: start,
		LineEnd:   end,
		ExpiresAt: c.now().Add(HighlightDwell),
	}, true
}
