package app

import (
	"example.com/eblanshell/pkg/keys"
	"github.com/gdamore/tcell/v2"
)

// keySource adapts tcell's event queue to keys.Source. Interrupt events
// carrying a string are shown as notices before waking the loop.
type keySource struct {
	screen tcell.Screen
	notice func(string)
}

func (k *keySource) Next() (keys.Event, bool) {
	for {
		switch ev := k.screen.PollEvent().(type) {
		case nil:
			return keys.Event{}, false
		case *tcell.EventKey:
			return translateKey(ev), true
		case *tcell.EventResize:
			k.screen.Sync()
			return keys.Wake(), true
		case *tcell.EventInterrupt:
			if msg, ok := ev.Data().(string); ok && k.notice != nil {
				k.notice(msg)
			}
			return keys.Wake(), true
		}
	}
}

// translateKey maps a tcell key event to the editor's key vocabulary.
func translateKey(ev *tcell.EventKey) keys.Event {
	switch ev.Key() {
	case tcell.KeyUp:
		return keys.Nav(keys.Up)
	case tcell.KeyDown:
		return keys.Nav(keys.Down)
	case tcell.KeyLeft:
		return keys.Nav(keys.Left)
	case tcell.KeyRight:
		return keys.Nav(keys.Right)
	case tcell.KeyEsc:
		return keys.Escape()
	case tcell.KeyEnter:
		return keys.Enter()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return keys.Backspace()
	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			return keys.Control(ev.Rune())
		}
		return keys.Printable(ev.Rune())
	}
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return keys.Control('a' + rune(k-tcell.KeyCtrlA))
	}
	return keys.Unmapped()
}
