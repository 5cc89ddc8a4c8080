package buffer

// Cursor is a (line, column) position. Column may equal the line length,
// meaning "after the last character".
type Cursor struct {
	Line int
	Col  int
}

// Move applies the deltas and clamps the result to s. The line is clamped
// first; the column is then clamped against the length of the resulting
// line, so moving onto a shorter line pulls the column left.
func (c *Cursor) Move(s LineStorage, dLine, dCol int) {
	c.SetTo(s, c.Line+dLine, c.Col+dCol)
}

// SetTo places the cursor at (line, col) clamped to s.
func (c *Cursor) SetTo(s LineStorage, line, col int) {
	c.Line = clamp(line, 0, s.LineCount()-1)
	c.Col = clamp(col, 0, s.LineLen(c.Line))
}

// Valid reports whether the cursor lies inside s.
func (c Cursor) Valid(s LineStorage) bool {
	if c.Line < 0 || c.Line >= s.LineCount() {
		return false
	}
	return c.Col >= 0 && c.Col <= s.LineLen(c.Line)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
