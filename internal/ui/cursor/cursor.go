// Package cursor computes the visible window of a scrollable list.
package cursor

// Cursor is a list position plus the scroll offset that keeps it visible.
// The list length and viewport height are passed to methods rather than
// stored. Cursor values are derived, never carried between frames: the same
// position, length and height always give the same window.
type Cursor struct {
	pos    int // cursor position (0-indexed)
	offset int // first visible item index
	margin int // items to keep visible above/below the cursor
}

// New creates a new Cursor with the specified scroll margin.
func New(margin int) Cursor {
	return Cursor{margin: margin}
}

// At returns a cursor on pos with the offset scrolled just enough to keep
// the margin around it.
func At(pos, margin, listLen, height int) Cursor {
	c := New(margin)
	c.Jump(pos, listLen, height)
	return c
}

// Centered returns a cursor on pos with pos in the middle of the viewport
// where the list allows it.
func Centered(pos, listLen, height int) Cursor {
	c := New(0)
	c.Jump(pos, listLen, height)
	c.Center(listLen, height)
	return c
}

// Pos returns the current cursor position.
func (c Cursor) Pos() int {
	return c.pos
}

// Offset returns the current scroll offset.
func (c Cursor) Offset() int {
	return c.offset
}

// Jump sets the cursor to an absolute position, clamped to the list, and
// adjusts the offset for visibility. If listLen is 0, this is a no-op.
func (c *Cursor) Jump(pos, listLen, height int) {
	if listLen == 0 {
		return
	}
	c.pos = clamp(pos, listLen-1)
	c.ensureVisible(listLen, height)
}

func (c *Cursor) ensureVisible(listLen, height int) {
	if height <= 0 || listLen == 0 {
		return
	}
	// The margin cannot exceed half the viewport or the cursor would never rest.
	margin := min(c.margin, (height-1)/2)

	if c.pos < c.offset+margin {
		c.offset = max(c.pos-margin, 0)
	}
	if c.pos >= c.offset+height-margin {
		c.offset = c.pos - height + margin + 1
	}
	c.offset = clamp(c.offset, max(listLen-height, 0))
}

// Center centers the cursor in the viewport.
func (c *Cursor) Center(listLen, height int) {
	if height <= 0 || listLen == 0 {
		return
	}
	c.offset = clamp(c.pos-height/2, max(listLen-height, 0))
}

// VisibleRange returns the range of visible indices [start, end).
func (c Cursor) VisibleRange(listLen, height int) (start, end int) {
	if listLen == 0 || height <= 0 {
		return 0, 0
	}
	return c.offset, min(c.offset+height, listLen)
}

func clamp(v, maxVal int) int {
	if v < 0 {
		return 0
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
