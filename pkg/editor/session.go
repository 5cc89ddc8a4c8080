// Package editor implements the modal line editor: the Command/Insert
// state machine, dirty tracking, and the session loop that feeds key
// events through them and redraws after each one.
package editor

import (
	"errors"
	"fmt"

	"example.com/eblanshell/pkg/buffer"
	"example.com/eblanshell/pkg/config"
	"example.com/eblanshell/pkg/keys"
	"example.com/eblanshell/pkg/logs"
	"example.com/eblanshell/pkg/render"
	"github.com/google/uuid"
)

// ErrSourceClosed is returned by Run when the key source ends before the
// user quits.
var ErrSourceClosed = errors.New("key source closed")

const confirmPrompt = "There are unsaved changes. Quit without saving? (y/n)"

// Options configures a Session. Zero values select OSFiles, the default
// keymap, a disabled logger and synchronous saves.
type Options struct {
	Files  Files
	Keymap config.Keymap
	Logger *logs.Logger
	Source keys.Source
	Sink   render.Sink
	// AsyncSave writes on a background goroutine; Notify is called from
	// that goroutine when the write finishes so the source can wake the
	// loop (typically by emitting keys.Wake).
	AsyncSave bool
	Notify    func()
}

// Session is one editing session over a single file.
type Session struct {
	Path    string
	IsNew   bool
	Buf     *buffer.Buffer
	Cursor  buffer.Cursor
	Mode    Mode
	Tracker *Tracker
	Keymap  config.Keymap
	Source  keys.Source
	Sink    render.Sink
	Logger  *logs.Logger

	Message      string
	MessageStyle render.Style

	asyncSave bool
	notify    func()
	pending   *PendingSave
	top       int
}

// Open starts a session on path. An existing file is loaded; a missing or
// unreadable file yields a new single-empty-line document.
func Open(path string, o Options) *Session {
	if o.Files == nil {
		o.Files = OSFiles{}
	}
	if o.Keymap == nil {
		o.Keymap = config.DefaultKeymap()
	}
	logger := o.Logger.With(map[string]any{"session": uuid.NewString()})
	s := &Session{
		Path:      path,
		Buf:       buffer.New(),
		Tracker:   NewTracker(path, o.Files, logger),
		Keymap:    o.Keymap,
		Source:    o.Source,
		Sink:      o.Sink,
		Logger:    logger,
		asyncSave: o.AsyncSave,
		notify:    o.Notify,
	}
	lines, err := o.Files.ReadLines(path)
	switch {
	case err == nil:
		s.Buf.Load(lines)
		logger.Event("open.success", map[string]any{"file": path, "lines": s.Buf.LineCount()})
	case errors.Is(err, ErrNotFound):
		s.IsNew = true
		logger.Event("open.new", map[string]any{"file": path})
	default:
		s.IsNew = true
		s.setError("Error reading file: " + err.Error())
		logger.Error("open.error", err, map[string]any{"file": path})
	}
	return s
}

// Dirty reports whether the buffer has unsaved changes.
func (s *Session) Dirty() bool { return s.Tracker.Dirty() }

// Run draws the screen, then processes one event at a time until the quit
// transition completes. It returns ErrSourceClosed if the source ends
// first. A save still in flight is waited for before returning; quitting
// never saves implicitly.
func (s *Session) Run() error {
	s.Logger.Event("run.start", map[string]any{"file": s.Path, "new": s.IsNew})
	defer s.Logger.Event("run.end", map[string]any{"file": s.Path, "dirty": s.Dirty()})
	for {
		s.collectSave(false)
		s.Draw()
		ev, ok := s.next()
		if !ok {
			s.collectSave(true)
			return ErrSourceClosed
		}
		if s.Handle(ev) {
			s.collectSave(true)
			return nil
		}
	}
}

// Handle applies one event and reports whether the session should end.
func (s *Session) Handle(ev keys.Event) bool {
	if ev.Kind == keys.KindWake {
		return false
	}
	s.Logger.Debug("key", map[string]any{"key": ev.String(), "mode": s.Mode.String()})
	s.Message = ""
	if s.Mode == ModeInsert {
		s.handleInsert(ev)
		return false
	}
	return s.handleCommand(ev)
}

func (s *Session) handleCommand(ev keys.Event) bool {
	if ev.Kind == keys.KindNavigation {
		switch ev.Dir {
		case keys.Up:
			s.Cursor.Move(s.Buf, -1, 0)
		case keys.Down:
			s.Cursor.Move(s.Buf, 1, 0)
		case keys.Left:
			s.Cursor.Move(s.Buf, 0, -1)
		case keys.Right:
			s.Cursor.Move(s.Buf, 0, 1)
		}
		return false
	}
	action, ok := s.Keymap.Action(ev)
	if !ok {
		return false
	}
	s.Logger.Event("action", map[string]any{"name": action, "line": s.Cursor.Line, "col": s.Cursor.Col})
	switch action {
	case config.ActionInsert:
		s.Mode = ModeInsert
	case config.ActionQuit:
		// Wait for an in-flight save so its result decides the prompt.
		if s.collectSave(true) != nil {
			return false
		}
		if !s.Dirty() {
			return true
		}
		return s.confirmDiscard()
	case config.ActionSave:
		s.save()
	case config.ActionDeleteLine:
		if s.Buf.DeleteLine(s.Cursor.Line) {
			s.Cursor.SetTo(s.Buf, s.Cursor.Line, s.Cursor.Col)
			s.Tracker.MarkDirty()
		}
	}
	return false
}

func (s *Session) handleInsert(ev keys.Event) {
	c := &s.Cursor
	switch {
	case ev.Kind == keys.KindEscape:
		s.Mode = ModeCommand
	case ev.Kind == keys.KindEnter:
		s.Buf.SplitAt(c.Line, c.Col)
		c.SetTo(s.Buf, c.Line+1, 0)
		s.Tracker.MarkDirty()
	case ev.Kind == keys.KindBackspace:
		if c.Col > 0 {
			s.Buf.DeleteChar(c.Line, c.Col)
			c.Move(s.Buf, 0, -1)
			s.Tracker.MarkDirty()
		} else if c.Line > 0 {
			joinCol := s.Buf.LineLen(c.Line - 1)
			s.Buf.JoinWithPrevious(c.Line)
			c.SetTo(s.Buf, c.Line-1, joinCol)
			s.Tracker.MarkDirty()
		}
	case ev.IsPrintableASCII():
		s.Buf.InsertChar(c.Line, c.Col, ev.Char)
		c.Move(s.Buf, 0, 1)
		s.Tracker.MarkDirty()
	}
}

// confirmDiscard asks whether to quit without saving. Only an explicit
// y/Y counts as yes; any other key, or a closed source, is no.
func (s *Session) confirmDiscard() bool {
	s.Message, s.MessageStyle = confirmPrompt, render.StylePrompt
	s.Draw()
	ev, ok := s.next()
	s.Message = ""
	yes := ok && ev.Kind == keys.KindPrintable && (ev.Char == 'y' || ev.Char == 'Y')
	s.Logger.Event("quit.confirm", map[string]any{"discard": yes})
	return yes
}

// save writes the buffer. A finished async save is collected first; if it
// failed, its error is shown and no new save starts.
func (s *Session) save() {
	if s.collectSave(false) != nil {
		return
	}
	if s.pending != nil {
		s.setError("Error saving file: " + ErrSaveInProgress.Error())
		return
	}
	lines := s.Buf.Lines()
	if s.asyncSave {
		p, err := s.Tracker.StartSave(lines, s.notify)
		if err != nil {
			s.setError("Error saving file: " + err.Error())
			return
		}
		s.pending = p
		s.setMessage("Saving " + s.Path + "...")
		return
	}
	s.reportSave(s.Tracker.Save(lines))
}

// collectSave applies the result of a finished async save and returns its
// error. With wait set it blocks until the pending save completes.
func (s *Session) collectSave(wait bool) error {
	if s.pending == nil {
		return nil
	}
	if !wait {
		select {
		case <-s.pending.Done():
		default:
			return nil
		}
	}
	err := s.Tracker.Finish(s.pending)
	s.pending = nil
	s.reportSave(err)
	return err
}

func (s *Session) reportSave(err error) {
	if err != nil {
		s.setError("Error saving file: " + cause(err).Error())
		return
	}
	s.setMessage("File saved: " + s.Path)
}

// cause strips the "save <path>" context the tracker adds, since the
// status line already names the file.
func cause(err error) error {
	if u := errors.Unwrap(err); u != nil {
		return u
	}
	return err
}

// next returns the next non-wake event, collecting finished saves and
// redrawing on every wake-up.
func (s *Session) next() (keys.Event, bool) {
	if s.Source == nil {
		return keys.Event{}, false
	}
	for {
		ev, ok := s.Source.Next()
		if !ok || ev.Kind != keys.KindWake {
			return ev, ok
		}
		s.collectSave(false)
		s.Draw()
	}
}

// Notice shows an informational message on the next redraw.
func (s *Session) Notice(msg string) { s.setMessage(msg) }

func (s *Session) setMessage(msg string) {
	s.Message, s.MessageStyle = msg, render.StyleMessage
}

func (s *Session) setError(msg string) {
	s.Message, s.MessageStyle = msg, render.StyleError
}

// Frame snapshots the session for the renderer.
func (s *Session) Frame() render.Frame {
	return render.Frame{
		Help:         s.help(),
		Filename:     s.Path,
		Dirty:        s.Dirty(),
		Mode:         s.Mode.String(),
		Lines:        s.Buf.Lines(),
		CursorLine:   s.Cursor.Line,
		CursorCol:    s.Cursor.Col,
		Top:          s.top,
		Message:      s.Message,
		MessageStyle: s.MessageStyle,
	}
}

// Draw redraws the whole screen if a sink is attached.
func (s *Session) Draw() {
	if s.Sink == nil {
		return
	}
	_, h := s.Sink.Size()
	s.top = render.ScrollTop(s.top, s.Cursor.Line, render.VisibleRows(h))
	render.Draw(s.Frame(), s.Sink)
}

func (s *Session) help() []string {
	km := s.Keymap
	return []string{
		"Eblan Editor - Commands:",
		"ESC - command mode",
		fmt.Sprintf("%s - insert mode", km[config.ActionInsert]),
		fmt.Sprintf("%s - save file", km[config.ActionSave]),
		fmt.Sprintf("%s - quit", km[config.ActionQuit]),
		fmt.Sprintf("%s - delete line", km[config.ActionDeleteLine]),
		"Arrows - move cursor",
	}
}
