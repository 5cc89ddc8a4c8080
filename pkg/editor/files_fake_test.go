package editor

import (
	"fmt"
	"sync"
)

// memFiles is an in-memory Files used by the session and tracker tests.
type memFiles struct {
	mu       sync.Mutex
	data     map[string][]string
	writes   [][]string
	readErr  error
	writeErr error
	gate     chan struct{}
}

func newMemFiles() *memFiles {
	return &memFiles{data: map[string][]string{}}
}

func (m *memFiles) ReadLines(path string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	lines, ok := m.data[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return append([]string(nil), lines...), nil
}

func (m *memFiles) WriteLines(path string, lines []string) error {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	cp := append([]string(nil), lines...)
	m.data[path] = cp
	m.writes = append(m.writes, cp)
	return nil
}

func (m *memFiles) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}
