package editor

import (
	"errors"
	"strings"
	"testing"

	"example.com/eblanshell/pkg/buffer"
	"example.com/eblanshell/pkg/config"
	"example.com/eblanshell/pkg/keys"
	"github.com/google/go-cmp/cmp"
)

// newSession builds an in-memory session with the given lines, cursor and mode.
func newSession(t *testing.T, lines []string, cur buffer.Cursor, mode Mode) (*Session, *memFiles) {
	t.Helper()
	files := newMemFiles()
	files.data["doc.txt"] = lines
	s := Open("doc.txt", Options{Files: files})
	s.Cursor = cur
	s.Mode = mode
	return s, files
}

func assertLines(t *testing.T, s *Session, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, s.Buf.Lines()); diff != "" {
		t.Fatalf("buffer mismatch (-want +got):\n%s", diff)
	}
}

func assertCursor(t *testing.T, s *Session, line, col int) {
	t.Helper()
	if s.Cursor != (buffer.Cursor{Line: line, Col: col}) {
		t.Fatalf("expected cursor (%d,%d), got (%d,%d)", line, col, s.Cursor.Line, s.Cursor.Col)
	}
}

func TestEnterAtEndOfLine(t *testing.T) {
	s, _ := newSession(t, []string{"abc"}, buffer.Cursor{Line: 0, Col: 3}, ModeInsert)
	s.Handle(keys.Enter())
	assertLines(t, s, "abc", "")
	assertCursor(t, s, 1, 0)
	if !s.Dirty() {
		t.Fatalf("enter should mark the buffer dirty")
	}
}

func TestRepeatedEnterKeepsOrder(t *testing.T) {
	s, _ := newSession(t, []string{"ab"}, buffer.Cursor{Line: 0, Col: 1}, ModeInsert)
	s.Handle(keys.Enter())
	s.Handle(keys.Enter())
	s.Handle(keys.Printable('x'))
	assertLines(t, s, "a", "", "xb")
	assertCursor(t, s, 2, 1)
}

func TestBackspaceAtColumnZeroJoins(t *testing.T) {
	s, _ := newSession(t, []string{"ab", "cd"}, buffer.Cursor{Line: 1, Col: 0}, ModeInsert)
	s.Handle(keys.Backspace())
	assertLines(t, s, "abcd")
	assertCursor(t, s, 0, 2)
}

func TestBackspaceDeletesPreviousChar(t *testing.T) {
	s, _ := newSession(t, []string{"abc"}, buffer.Cursor{Line: 0, Col: 2}, ModeInsert)
	s.Handle(keys.Backspace())
	assertLines(t, s, "ac")
	assertCursor(t, s, 0, 1)
}

func TestBackspaceAtOriginIsNoop(t *testing.T) {
	s, _ := newSession(t, []string{"abc"}, buffer.Cursor{}, ModeInsert)
	s.Handle(keys.Backspace())
	assertLines(t, s, "abc")
	if s.Dirty() {
		t.Fatalf("no-op backspace must not mark dirty")
	}
}

func TestDeleteOnlyLineRefused(t *testing.T) {
	s, _ := newSession(t, []string{"only"}, buffer.Cursor{}, ModeCommand)
	s.Handle(keys.Control('d'))
	assertLines(t, s, "only")
	if s.Dirty() {
		t.Fatalf("refused delete-line must leave dirty unchanged")
	}
}

func TestDeleteLastLineClampsCursor(t *testing.T) {
	s, _ := newSession(t, []string{"one", "two"}, buffer.Cursor{Line: 1, Col: 3}, ModeCommand)
	s.Handle(keys.Control('d'))
	assertLines(t, s, "one")
	assertCursor(t, s, 0, 3)
	if !s.Dirty() {
		t.Fatalf("delete-line should mark dirty")
	}
}

func TestQuitDirtyDeclined(t *testing.T) {
	s, _ := newSession(t, []string{"x"}, buffer.Cursor{}, ModeCommand)
	s.Tracker.MarkDirty()
	s.Source = keys.NewScript(keys.Printable('n'))
	if s.Handle(keys.Printable('q')) {
		t.Fatalf("declined confirmation must not end the session")
	}
	if !s.Dirty() {
		t.Fatalf("dirty must remain true")
	}
	if s.Mode != ModeCommand {
		t.Fatalf("expected to stay in command mode")
	}
}

func TestQuitDirtyConfirmed(t *testing.T) {
	s, files := newSession(t, []string{"x"}, buffer.Cursor{}, ModeCommand)
	s.Tracker.MarkDirty()
	s.Source = keys.NewScript(keys.Wake(), keys.Printable('Y'))
	if !s.Handle(keys.Printable('q')) {
		t.Fatalf("explicit Y should confirm the discard")
	}
	if files.writeCount() != 0 {
		t.Fatalf("quit must not save implicitly")
	}
}

func TestQuitConfirmationWithoutAnswer(t *testing.T) {
	s, _ := newSession(t, []string{"x"}, buffer.Cursor{}, ModeCommand)
	s.Tracker.MarkDirty()
	s.Source = keys.NewScript()
	if s.Handle(keys.Printable('q')) {
		t.Fatalf("no answer must block the quit")
	}
}

func TestQuitClean(t *testing.T) {
	s, _ := newSession(t, []string{"x"}, buffer.Cursor{}, ModeCommand)
	if !s.Handle(keys.Printable('q')) {
		t.Fatalf("clean quit should end the session")
	}
}

func TestInsertPrintable(t *testing.T) {
	s, _ := newSession(t, []string{"ac"}, buffer.Cursor{Line: 0, Col: 1}, ModeInsert)
	s.Handle(keys.Printable('b'))
	assertLines(t, s, "abc")
	assertCursor(t, s, 0, 2)
}

func TestInsertIgnoresNonPrintable(t *testing.T) {
	s, _ := newSession(t, []string{"ac"}, buffer.Cursor{Line: 0, Col: 1}, ModeInsert)
	for _, ev := range []keys.Event{
		keys.Printable('\t'),
		keys.Printable('é'),
		keys.Printable(127),
		keys.Control('s'),
		keys.Nav(keys.Left),
		keys.Unmapped(),
	} {
		s.Handle(ev)
	}
	assertLines(t, s, "ac")
	assertCursor(t, s, 0, 1)
	if s.Dirty() {
		t.Fatalf("ignored keys must not mark dirty")
	}
}

func TestModeTransitions(t *testing.T) {
	s, _ := newSession(t, []string{""}, buffer.Cursor{}, ModeCommand)
	s.Handle(keys.Printable('i'))
	if s.Mode != ModeInsert {
		t.Fatalf("i should enter insert mode")
	}
	s.Handle(keys.Printable('q'))
	if s.Mode != ModeInsert || s.Buf.Line(0) != "q" {
		t.Fatalf("q in insert mode is text, got mode %v line %q", s.Mode, s.Buf.Line(0))
	}
	s.Handle(keys.Escape())
	if s.Mode != ModeCommand {
		t.Fatalf("escape should return to command mode")
	}
	s.Handle(keys.Escape())
	if s.Mode != ModeCommand {
		t.Fatalf("escape in command mode is ignored")
	}
}

func TestNavigationCommandMode(t *testing.T) {
	s, _ := newSession(t, []string{"hello", "hi"}, buffer.Cursor{Line: 0, Col: 4}, ModeCommand)
	s.Handle(keys.Nav(keys.Down))
	assertCursor(t, s, 1, 2)
	s.Handle(keys.Nav(keys.Up))
	assertCursor(t, s, 0, 2)
	s.Handle(keys.Nav(keys.Right))
	s.Handle(keys.Nav(keys.Left))
	s.Handle(keys.Nav(keys.Left))
	assertCursor(t, s, 0, 1)
}

func TestSaveClearsDirtyAndIsIdempotent(t *testing.T) {
	s, files := newSession(t, []string{"a"}, buffer.Cursor{Line: 0, Col: 1}, ModeInsert)
	s.Handle(keys.Printable('b'))
	s.Handle(keys.Escape())
	s.Handle(keys.Control('s'))
	if s.Dirty() {
		t.Fatalf("save should clear dirty")
	}
	s.Handle(keys.Control('s'))
	if s.Dirty() {
		t.Fatalf("second save should leave dirty false")
	}
	if files.writeCount() != 2 {
		t.Fatalf("expected two writes, got %d", files.writeCount())
	}
	if diff := cmp.Diff(files.writes[0], files.writes[1]); diff != "" {
		t.Fatalf("repeated saves differ (-first +second):\n%s", diff)
	}
	if s.Message != "File saved: doc.txt" {
		t.Fatalf("unexpected status message %q", s.Message)
	}
}

func TestSaveFailureKeepsDirty(t *testing.T) {
	s, files := newSession(t, []string{"a"}, buffer.Cursor{}, ModeCommand)
	files.writeErr = errors.New("disk full")
	s.Tracker.MarkDirty()
	if s.Handle(keys.Control('s')) {
		t.Fatalf("save must not end the session")
	}
	if !s.Dirty() {
		t.Fatalf("failed save must leave dirty set")
	}
	if s.Message != "Error saving file: disk full" {
		t.Fatalf("unexpected status message %q", s.Message)
	}
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	s := Open("new.txt", Options{Files: newMemFiles()})
	if !s.IsNew {
		t.Fatalf("expected new document")
	}
	assertLines(t, s, "")
	if s.Dirty() || s.Mode != ModeCommand {
		t.Fatalf("new session should be clean and in command mode")
	}
}

func TestOpenReadErrorStartsEmpty(t *testing.T) {
	files := newMemFiles()
	files.readErr = errors.New("permission denied")
	s := Open("secret.txt", Options{Files: files})
	assertLines(t, s, "")
	if !strings.Contains(s.Message, "permission denied") {
		t.Fatalf("expected read error on status line, got %q", s.Message)
	}
}

func TestRunTypingSaveQuit(t *testing.T) {
	files := newMemFiles()
	src := keys.NewScript(keys.Printable('i')).Type("hi").Push(
		keys.Enter(),
	).Type("there").Push(
		keys.Escape(),
		keys.Control('s'),
		keys.Printable('q'),
	)
	s := Open("out.txt", Options{Files: files, Source: src})
	if err := s.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{"hi", "there"}, files.data["out.txt"]); diff != "" {
		t.Fatalf("saved content mismatch (-want +got):\n%s", diff)
	}
	if src.Remaining() != 0 {
		t.Fatalf("expected all events consumed, %d left", src.Remaining())
	}
}

func TestRunSourceClosed(t *testing.T) {
	s := Open("x.txt", Options{Files: newMemFiles(), Source: keys.NewScript(keys.Printable('i'))})
	if err := s.Run(); !errors.Is(err, ErrSourceClosed) {
		t.Fatalf("expected ErrSourceClosed, got %v", err)
	}
}

func TestHelpFollowsKeymap(t *testing.T) {
	km := config.DefaultKeymap()
	kb, err := config.ParseKeybinding("Ctrl+X")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	km[config.ActionQuit] = kb
	s := Open("x.txt", Options{Files: newMemFiles(), Keymap: km})
	help := s.Frame().Help
	if len(help) != 7 {
		t.Fatalf("expected 7 help rows, got %d", len(help))
	}
	if help[4] != "Ctrl+X - quit" {
		t.Fatalf("help should show remapped quit, got %q", help[4])
	}
	if s.Handle(keys.Printable('q')) {
		t.Fatalf("q should not quit after remap")
	}
	if !s.Handle(keys.Control('x')) {
		t.Fatalf("Ctrl+X should quit after remap")
	}
}
