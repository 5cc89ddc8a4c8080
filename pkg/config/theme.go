package config

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Theme represents configurable colors for the editor screen.
type Theme struct {
	Help      tcell.Color
	HelpTitle tcell.Color

	StatusBackground tcell.Color
	StatusForeground tcell.Color
	Separator        tcell.Color

	TextDefault tcell.Color

	Message tcell.Color
	Error   tcell.Color
	Prompt  tcell.Color
}

// DefaultTheme returns the built-in theme matching the classic console
// colors of the shell.
func DefaultTheme() Theme {
	return Theme{
		Help:      tcell.ColorWhite,
		HelpTitle: tcell.ColorAqua,

		StatusBackground: tcell.ColorDefault,
		StatusForeground: tcell.ColorYellow,
		Separator:        tcell.ColorGray,

		TextDefault: tcell.ColorWhite,

		Message: tcell.ColorGreen,
		Error:   tcell.ColorRed,
		Prompt:  tcell.ColorRed,
	}
}

// TerminalTheme leverages terminal-provided defaults so the editor follows
// the user's terminal palette.
func TerminalTheme() Theme {
	return Theme{
		Help:      tcell.ColorDefault,
		HelpTitle: tcell.ColorTeal,

		StatusBackground: tcell.ColorGray,
		StatusForeground: tcell.ColorDefault,
		Separator:        tcell.ColorDefault,

		TextDefault: tcell.ColorDefault,

		Message: tcell.ColorGreen,
		Error:   tcell.ColorMaroon,
		Prompt:  tcell.ColorMaroon,
	}
}

// BuiltinThemes exposes the presets by name.
var BuiltinThemes = map[string]Theme{
	"default":  DefaultTheme(),
	"terminal": TerminalTheme(),
	"mono": {
		Help:             tcell.ColorDefault,
		HelpTitle:        tcell.ColorDefault,
		StatusBackground: tcell.ColorWhite,
		StatusForeground: tcell.ColorBlack,
		Separator:        tcell.ColorDefault,
		TextDefault:      tcell.ColorDefault,
		Message:          tcell.ColorDefault,
		Error:            tcell.ColorDefault,
		Prompt:           tcell.ColorDefault,
	},
}

// ResolveTheme returns the named preset (default when unknown) with the
// per-role color overrides of cfg applied.
func (c *Config) ResolveTheme() Theme {
	th, ok := BuiltinThemes[strings.ToLower(c.Theme)]
	if !ok {
		th = DefaultTheme()
	}
	for role, value := range c.Colors {
		switch strings.ToLower(role) {
		case "help":
			th.Help = ParseColor(value, th.Help)
		case "help_title":
			th.HelpTitle = ParseColor(value, th.HelpTitle)
		case "status_bg":
			th.StatusBackground = ParseColor(value, th.StatusBackground)
		case "status_fg":
			th.StatusForeground = ParseColor(value, th.StatusForeground)
		case "separator":
			th.Separator = ParseColor(value, th.Separator)
		case "text":
			th.TextDefault = ParseColor(value, th.TextDefault)
		case "message":
			th.Message = ParseColor(value, th.Message)
		case "error":
			th.Error = ParseColor(value, th.Error)
		case "prompt":
			th.Prompt = ParseColor(value, th.Prompt)
		}
	}
	return th
}

// ParseColor returns a tcell.Color from a name or hex like "#aabbcc".
// If parsing fails, it returns the provided fallback.
func ParseColor(s string, fallback tcell.Color) tcell.Color {
	if s == "" {
		return fallback
	}
	// tcell.GetColor supports W3C names or #RRGGBB (case-insensitive)
	c := tcell.GetColor(strings.ToLower(s))
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
