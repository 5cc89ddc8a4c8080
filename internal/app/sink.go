package app

import (
	"example.com/eblanshell/pkg/config"
	"example.com/eblanshell/pkg/render"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// screenSink draws render instructions on a tcell screen.
type screenSink struct {
	screen tcell.Screen
	styles map[render.Style]tcell.Style
}

func newScreenSink(s tcell.Screen, th config.Theme) *screenSink {
	fg := func(c tcell.Color) tcell.Style { return tcell.StyleDefault.Foreground(c) }
	return &screenSink{
		screen: s,
		styles: map[render.Style]tcell.Style{
			render.StyleText:      fg(th.TextDefault),
			render.StyleHelpTitle: fg(th.HelpTitle).Bold(true),
			render.StyleHelp:      fg(th.Help),
			render.StyleStatus:    fg(th.StatusForeground).Background(th.StatusBackground),
			render.StyleSeparator: fg(th.Separator),
			render.StyleMessage:   fg(th.Message),
			render.StyleError:     fg(th.Error),
			render.StylePrompt:    fg(th.Prompt),
		},
	}
}

func (s *screenSink) Size() (int, int) { return s.screen.Size() }
func (s *screenSink) Clear()           { s.screen.Clear() }
func (s *screenSink) Show()            { s.screen.Show() }

func (s *screenSink) SetCursor(x, y int) { s.screen.ShowCursor(x, y) }

func (s *screenSink) WriteText(x, y int, text string, style render.Style) {
	st := s.styles[style]
	for _, r := range text {
		s.screen.SetContent(x, y, r, nil, st)
		w := runewidth.RuneWidth(r)
		if w < 1 {
			w = 1
		}
		x += w
	}
}
