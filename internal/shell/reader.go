package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// LineReader reads one line of user input after showing prompt. It
// returns io.EOF when input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

type scanReader struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewScanReader reads lines from in, echoing prompts to out. It is used
// when stdin is not a terminal and in tests.
func NewScanReader(in io.Reader, out io.Writer) LineReader {
	return &scanReader{sc: bufio.NewScanner(in), out: out}
}

func (r *scanReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

// termReader edits lines on a raw terminal with x/term, which also gives
// arrow-key history. The terminal is raw only while a line is read.
type termReader struct {
	fd int
	t  *term.Terminal
}

// NewTermReader returns a terminal line editor for in when it is a TTY,
// otherwise a plain scanning reader.
func NewTermReader(in *os.File, out io.Writer) LineReader {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return NewScanReader(in, out)
	}
	rw := struct {
		io.Reader
		io.Writer
	}{in, out}
	return &termReader{fd: fd, t: term.NewTerminal(rw, "")}
}

func (r *termReader) ReadLine(prompt string) (string, error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return "", err
	}
	defer term.Restore(r.fd, state)
	if w, h, err := term.GetSize(r.fd); err == nil {
		_ = r.t.SetSize(w, h)
	}
	r.t.SetPrompt(prompt)
	return r.t.ReadLine()
}
