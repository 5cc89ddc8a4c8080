package render

import (
	"fmt"
	"strings"
	"testing"
)

type recordSink struct {
	w, h    int
	cells   map[int]string
	styles  map[int]Style
	cx, cy  int
	cleared int
	shown   int
}

func newRecordSink(w, h int) *recordSink {
	return &recordSink{w: w, h: h, cells: map[int]string{}, styles: map[int]Style{}}
}

func (s *recordSink) Size() (int, int) { return s.w, s.h }
func (s *recordSink) Clear() {
	s.cleared++
	s.cells = map[int]string{}
}
func (s *recordSink) WriteText(x, y int, text string, style Style) {
	s.cells[y] = text
	s.styles[y] = style
}
func (s *recordSink) SetCursor(x, y int) { s.cx, s.cy = x, y }
func (s *recordSink) Show()              { s.shown++ }

func sampleFrame() Frame {
	help := []string{"Title"}
	for i := 1; i < 7; i++ {
		help = append(help, fmt.Sprintf("help %d", i))
	}
	return Frame{
		Help:     help,
		Filename: "notes.txt",
		Mode:     "Insert",
		Lines:    []string{"first", "second"},
	}
}

func TestStatus(t *testing.T) {
	f := sampleFrame()
	if got := Status(f); got != "File: notes.txt | Mode: Insert" {
		t.Fatalf("unexpected clean status %q", got)
	}
	f.Dirty = true
	f.Mode = "Command"
	if got := Status(f); got != "File: notes.txt [Modified] | Mode: Command" {
		t.Fatalf("unexpected dirty status %q", got)
	}
}

func TestDrawLayout(t *testing.T) {
	f := sampleFrame()
	f.CursorLine, f.CursorCol = 1, 3
	f.Message = "File saved: notes.txt"
	f.MessageStyle = StyleMessage
	s := newRecordSink(40, 20)
	Draw(f, s)

	if s.cells[0] != "Title" || s.styles[0] != StyleHelpTitle {
		t.Fatalf("help title not drawn on row 0: %q", s.cells[0])
	}
	if !strings.HasPrefix(s.cells[7], "File: notes.txt") || s.styles[7] != StyleStatus {
		t.Fatalf("status not on row 7: %q", s.cells[7])
	}
	if s.cells[8] != strings.Repeat("-", 40) {
		t.Fatalf("separator not on row 8: %q", s.cells[8])
	}
	if s.cells[HeaderHeight] != "first" || s.cells[HeaderHeight+1] != "second" {
		t.Fatalf("buffer lines misplaced: %q / %q", s.cells[HeaderHeight], s.cells[HeaderHeight+1])
	}
	if s.cells[19] != "File saved: notes.txt" || s.styles[19] != StyleMessage {
		t.Fatalf("message not on last row: %q", s.cells[19])
	}
	if s.cx != 3 || s.cy != 1+HeaderHeight {
		t.Fatalf("cursor at (%d,%d), want (3,%d)", s.cx, s.cy, 1+HeaderHeight)
	}
	if s.cleared != 1 || s.shown != 1 {
		t.Fatalf("expected one clear and one show, got %d/%d", s.cleared, s.shown)
	}
}

func TestDrawDoesNotMutateFrame(t *testing.T) {
	f := sampleFrame()
	lines := append([]string(nil), f.Lines...)
	Draw(f, newRecordSink(3, 12))
	for i := range lines {
		if f.Lines[i] != lines[i] {
			t.Fatalf("frame line %d changed to %q", i, f.Lines[i])
		}
	}
}

func TestDrawClipsAndScrolls(t *testing.T) {
	f := sampleFrame()
	f.Lines = []string{"0", "1", "2", "abcdefghij"}
	f.Top = 2
	f.CursorLine = 3
	s := newRecordSink(5, HeaderHeight+3)
	Draw(f, s)
	if s.cells[HeaderHeight] != "2" {
		t.Fatalf("expected line 2 at first text row, got %q", s.cells[HeaderHeight])
	}
	if s.cells[HeaderHeight+1] != "abcde" {
		t.Fatalf("expected clipped line, got %q", s.cells[HeaderHeight+1])
	}
	if s.cy != HeaderHeight+1 {
		t.Fatalf("cursor row should account for scroll, got %d", s.cy)
	}
}

func TestScrollTop(t *testing.T) {
	cases := []struct{ top, line, rows, want int }{
		{0, 0, 5, 0},
		{0, 4, 5, 0},
		{0, 5, 5, 1},
		{3, 1, 5, 1},
		{2, 20, 10, 11},
	}
	for _, tc := range cases {
		if got := ScrollTop(tc.top, tc.line, tc.rows); got != tc.want {
			t.Fatalf("ScrollTop(%d,%d,%d) = %d, want %d", tc.top, tc.line, tc.rows, got, tc.want)
		}
	}
	if VisibleRows(5) != 1 {
		t.Fatalf("tiny screens still show one line")
	}
}
