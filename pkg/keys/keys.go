// Package keys defines the terminal-independent key events consumed by the
// editor and the source that produces them.
package keys

import "fmt"

// Kind identifies the logical key carried by an Event.
type Kind int

const (
	KindNone Kind = iota
	KindNavigation
	KindEscape
	KindEnter
	KindBackspace
	KindPrintable
	KindControl
	// KindWake carries no key. Sources emit it to let the event loop pick
	// up work that finished in the background.
	KindWake
)

// Direction is the arrow of a navigation event.
type Direction int

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

// Event is a single input event. Char is set for printable and control
// events; Dir only for navigation.
type Event struct {
	Kind Kind
	Dir  Direction
	Char rune
	Ctrl bool
}

func Nav(d Direction) Event  { return Event{Kind: KindNavigation, Dir: d} }
func Escape() Event          { return Event{Kind: KindEscape} }
func Enter() Event           { return Event{Kind: KindEnter} }
func Backspace() Event       { return Event{Kind: KindBackspace} }
func Wake() Event            { return Event{Kind: KindWake} }
func Printable(c rune) Event { return Event{Kind: KindPrintable, Char: c} }
func Unmapped() Event        { return Event{Kind: KindNone} }

// Control returns a Ctrl+<c> event. Letters are normalized to lower case.
func Control(c rune) Event {
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	return Event{Kind: KindControl, Char: c, Ctrl: true}
}

// IsPrintableASCII reports whether the event is a literal character in the
// printable ASCII range 32..126.
func (e Event) IsPrintableASCII() bool {
	return e.Kind == KindPrintable && e.Char >= 32 && e.Char <= 126
}

func (e Event) String() string {
	switch e.Kind {
	case KindNavigation:
		switch e.Dir {
		case Up:
			return "Up"
		case Down:
			return "Down"
		case Left:
			return "Left"
		case Right:
			return "Right"
		}
		return "Nav?"
	case KindEscape:
		return "Esc"
	case KindEnter:
		return "Enter"
	case KindBackspace:
		return "Backspace"
	case KindPrintable:
		return fmt.Sprintf("%q", e.Char)
	case KindControl:
		c := e.Char
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		return fmt.Sprintf("Ctrl+%c", c)
	case KindWake:
		return "Wake"
	}
	return "None"
}

// Source delivers key events one at a time. Next blocks until an event is
// available and reports ok=false once the source is closed.
type Source interface {
	Next() (ev Event, ok bool)
}

// Script is a Source that replays a fixed list of events and then reports
// itself closed.
type Script struct {
	events []Event
}

// NewScript returns a Script over evs.
func NewScript(evs ...Event) *Script {
	return &Script{events: append([]Event(nil), evs...)}
}

// Type appends one Printable event per rune of s.
func (s *Script) Type(text string) *Script {
	for _, r := range text {
		s.events = append(s.events, Printable(r))
	}
	return s
}

// Push appends events to the script.
func (s *Script) Push(evs ...Event) *Script {
	s.events = append(s.events, evs...)
	return s
}

// Next implements Source.
func (s *Script) Next() (Event, bool) {
	if len(s.events) == 0 {
		return Event{}, false
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, true
}

// Remaining returns how many events have not been consumed yet.
func (s *Script) Remaining() int { return len(s.events) }
