// Package history records the command lines entered in the shell.
package history

import "strings"

// DefaultLimit bounds the number of remembered lines.
const DefaultLimit = 1000

// History keeps entered lines oldest first. When the limit is reached the
// oldest entries are dropped.
type History struct {
	entries []string
	limit   int
}

// New creates an empty History with DefaultLimit.
func New() *History { return &History{limit: DefaultLimit} }

// NewWithLimit creates an empty History keeping at most limit entries. A
// limit <= 0 means unbounded.
func NewWithLimit(limit int) *History { return &History{limit: limit} }

// Add records line. Blank lines are ignored.
func (h *History) Add(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	h.entries = append(h.entries, line)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = append([]string(nil), h.entries[len(h.entries)-h.limit:]...)
	}
}

// Len reports the number of recorded lines.
func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy of all recorded lines, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Last returns the most recent n lines, oldest first.
func (h *History) Last(n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(h.entries) {
		n = len(h.entries)
	}
	return append([]string(nil), h.entries[len(h.entries)-n:]...)
}

// Clear forgets every entry.
func (h *History) Clear() { h.entries = nil }
