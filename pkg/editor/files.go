package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by ReadLines when the file does not exist.
var ErrNotFound = errors.New("file not found")

// FileReader loads a document as an ordered list of lines.
type FileReader interface {
	ReadLines(path string) ([]string, error)
}

// FileWriter stores an ordered list of lines at path.
type FileWriter interface {
	WriteLines(path string, lines []string) error
}

// Files combines both collaborators.
type Files interface {
	FileReader
	FileWriter
}

// OSFiles reads and writes documents on the local file system. Every line
// is written with a trailing newline.
type OSFiles struct{}

// ReadLines reads path, normalizing CRLF and lone CR to LF. A trailing
// newline does not produce an extra empty line, so WriteLines followed by
// ReadLines returns the same lines.
func (OSFiles) ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits text into lines the way ReadLines does.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// WriteLines replaces path atomically: the lines go to a temporary file in
// the same directory which is then renamed over the target. An existing
// file keeps its permission bits; new files get 0644.
func (OSFiles) WriteLines(path string, lines []string) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
