// Package render turns a snapshot of editor state into drawing
// instructions on a Sink. It never mutates the state it is given.
package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// HeaderHeight is the number of screen rows above the first buffer line:
// seven help rows, the status row and a separator.
const HeaderHeight = 9

const (
	statusRow    = 7
	separatorRow = 8
	helpRows     = 7
)

// Style is a drawing role; sinks map roles to concrete colors.
type Style int

const (
	StyleText Style = iota
	StyleHelpTitle
	StyleHelp
	StyleStatus
	StyleSeparator
	StyleMessage
	StyleError
	StylePrompt
)

// Sink accepts cursor-positioning and text-write instructions.
type Sink interface {
	Size() (width, height int)
	Clear()
	WriteText(x, y int, text string, style Style)
	SetCursor(x, y int)
	Show()
}

// Frame is everything needed to draw one screen.
type Frame struct {
	Help         []string
	Filename     string
	Dirty        bool
	Mode         string
	Lines        []string
	CursorLine   int
	CursorCol    int
	Top          int
	Message      string
	MessageStyle Style
}

// Status returns the status row text.
func Status(f Frame) string {
	var b strings.Builder
	b.WriteString("File: ")
	b.WriteString(f.Filename)
	if f.Dirty {
		b.WriteString(" [Modified]")
	}
	b.WriteString(" | Mode: ")
	b.WriteString(f.Mode)
	return b.String()
}

// VisibleRows returns how many buffer lines fit on a screen of the given
// height; the last row is reserved for messages.
func VisibleRows(height int) int {
	rows := height - HeaderHeight - 1
	if rows < 1 {
		return 1
	}
	return rows
}

// ScrollTop returns the first buffer line to show so that cursorLine is
// inside a window of rows lines starting at top.
func ScrollTop(top, cursorLine, rows int) int {
	if cursorLine < top {
		return cursorLine
	}
	if cursorLine >= top+rows {
		return cursorLine - rows + 1
	}
	return top
}

// Draw writes f to s: help, status, separator, the visible buffer lines,
// the message row, and finally the cursor position.
func Draw(f Frame, s Sink) {
	width, height := s.Size()
	s.Clear()
	for i := 0; i < helpRows && i < len(f.Help); i++ {
		style := StyleHelp
		if i == 0 {
			style = StyleHelpTitle
		}
		s.WriteText(0, i, clip(f.Help[i], width), style)
	}
	s.WriteText(0, statusRow, clip(Status(f), width), StyleStatus)
	s.WriteText(0, separatorRow, strings.Repeat("-", width), StyleSeparator)

	rows := VisibleRows(height)
	for i := 0; i < rows && f.Top+i < len(f.Lines); i++ {
		s.WriteText(0, HeaderHeight+i, clip(f.Lines[f.Top+i], width), StyleText)
	}
	if f.Message != "" && height > HeaderHeight {
		s.WriteText(0, height-1, clip(f.Message, width), f.MessageStyle)
	}
	s.SetCursor(CursorX(f), f.CursorLine-f.Top+HeaderHeight)
	s.Show()
}

// CursorX returns the screen column of the cursor, measured in display
// cells of the text before it.
func CursorX(f Frame) int {
	if f.CursorLine < 0 || f.CursorLine >= len(f.Lines) {
		return f.CursorCol
	}
	runes := []rune(f.Lines[f.CursorLine])
	col := f.CursorCol
	if col > len(runes) {
		col = len(runes)
	}
	return runewidth.StringWidth(string(runes[:col]))
}

func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}
