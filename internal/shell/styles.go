package shell

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const banner = `
  ________  __        __
 /        |/  |      /  |
 $$$$$$$$/ $$ |____  $$ |  ______   _______
 $$ |__    $$      \ $$ | /      \ /       \
 $$    |   $$$$$$$  |$$ | $$$$$$  |$$$$$$$  |
 $$$$$/    $$ |  $$ |$$ | /    $$ |$$ |  $$ |
 $$ |_____ $$ |__$$ |$$ |/$$$$$$$ |$$ |  $$ |
 $$       |$$    $$/ $$ |$$    $$ |$$ |  $$ |
 $$$$$$$$/ $$$$$$$/  $$/  $$$$$$$/ $$/   $$/
`

// styles holds the console colors of the shell. Colors are dropped
// automatically when the output is not a terminal.
type styles struct {
	title   lipgloss.Style
	info    lipgloss.Style
	plain   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	dir     lipgloss.Style
	name    lipgloss.Style
	match   lipgloss.Style
	rainbow []lipgloss.Style
	blocks  []lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }
	st := styles{
		title: fg("11"),
		info:  fg("14"),
		plain: fg("15"),
		ok:    fg("10"),
		err:   fg("9"),
		warn:  fg("11"),
		dir:   fg("12"),
		name:  fg("13"),
		match: fg("10").Bold(true),
	}
	for _, c := range []string{"9", "11", "10", "14", "12", "13"} {
		st.rainbow = append(st.rainbow, fg(c))
	}
	for _, c := range []string{"4", "9", "10", "11", "12", "13", "14", "15"} {
		st.blocks = append(st.blocks, fg(c))
	}
	return st
}

// paintRainbow cycles the rainbow colors over the visible characters of
// text. Spaces and newlines are kept uncolored.
func (st styles) paintRainbow(text string) string {
	var b strings.Builder
	i := 0
	for _, r := range text {
		if r == ' ' || r == '\n' {
			b.WriteRune(r)
			continue
		}
		b.WriteString(st.rainbow[i%len(st.rainbow)].Render(string(r)))
		i++
	}
	return b.String()
}

func (st styles) colorBlocks() string {
	var b strings.Builder
	for _, s := range st.blocks {
		b.WriteString(s.Render("███"))
	}
	return b.String()
}
