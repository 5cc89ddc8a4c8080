package buffer

import (
	"fmt"
	"unicode/utf8"
)

// Buffer is an ordered, mutable sequence of text lines. It always holds at
// least one line; an empty document is a single empty line.
//
// Indices passed to the mutating methods must be in range. Callers clamp
// through Cursor first; an out-of-range index panics.
type Buffer struct {
	lines []string
}

// New returns a buffer holding a single empty line.
func New() *Buffer {
	return &Buffer{lines: []string{""}}
}

// FromLines returns a buffer loaded with a copy of lines.
func FromLines(lines []string) *Buffer {
	b := &Buffer{}
	b.Load(lines)
	return b
}

// Load replaces the buffer contents. An empty slice yields [""].
func (b *Buffer) Load(lines []string) {
	if len(lines) == 0 {
		b.lines = []string{""}
		return
	}
	b.lines = append(make([]string, 0, len(lines)), lines...)
}

// Lines returns a copy of the buffer contents in document order.
func (b *Buffer) Lines() []string {
	return append([]string(nil), b.lines...)
}

// LineCount returns the number of lines (always >= 1).
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns the text of line i.
func (b *Buffer) Line(i int) string {
	b.checkLine(i)
	return b.lines[i]
}

// LineLen returns the length of line i in runes.
func (b *Buffer) LineLen(i int) int {
	b.checkLine(i)
	return utf8.RuneCountInString(b.lines[i])
}

// InsertChar inserts c before column col of line.
func (b *Buffer) InsertChar(line, col int, c rune) {
	runes := b.runes(line, col)
	out := make([]rune, 0, len(runes)+1)
	out = append(out, runes[:col]...)
	out = append(out, c)
	out = append(out, runes[col:]...)
	b.lines[line] = string(out)
}

// SplitAt keeps [0,col) of line in place and inserts [col,end) as a new
// line immediately after it.
func (b *Buffer) SplitAt(line, col int) {
	runes := b.runes(line, col)
	prefix, suffix := string(runes[:col]), string(runes[col:])
	b.lines[line] = prefix
	b.lines = append(b.lines, "")
	copy(b.lines[line+2:], b.lines[line+1:])
	b.lines[line+1] = suffix
}

// JoinWithPrevious removes line and appends its content to line-1. It is a
// no-op returning false for the first line.
func (b *Buffer) JoinWithPrevious(line int) bool {
	b.checkLine(line)
	if line == 0 {
		return false
	}
	b.lines[line-1] += b.lines[line]
	b.lines = append(b.lines[:line], b.lines[line+1:]...)
	return true
}

// DeleteChar removes the character before column col. It is a no-op
// returning false when col is 0.
func (b *Buffer) DeleteChar(line, col int) bool {
	runes := b.runes(line, col)
	if col == 0 {
		return false
	}
	b.lines[line] = string(runes[:col-1]) + string(runes[col:])
	return true
}

// DeleteLine removes line. Removing the last remaining line is refused and
// reports false.
func (b *Buffer) DeleteLine(line int) bool {
	b.checkLine(line)
	if len(b.lines) == 1 {
		return false
	}
	b.lines = append(b.lines[:line], b.lines[line+1:]...)
	return true
}

func (b *Buffer) checkLine(i int) {
	if i < 0 || i >= len(b.lines) {
		panic(fmt.Sprintf("buffer: line %d out of range [0,%d)", i, len(b.lines)))
	}
}

// runes returns line as runes after checking that col is a legal column.
func (b *Buffer) runes(line, col int) []rune {
	b.checkLine(line)
	runes := []rune(b.lines[line])
	if col < 0 || col > len(runes) {
		panic(fmt.Sprintf("buffer: column %d out of range [0,%d] on line %d", col, len(runes), line))
	}
	return runes
}
