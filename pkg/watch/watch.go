// Package watch reports changes made to a single file by other programs
// while it is open in the editor.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"example.com/eblanshell/pkg/logs"
	"github.com/fsnotify/fsnotify"
)

// Change describes a settled modification of the watched file.
type Change struct {
	Path string
	Op   string // "modified" or "removed"
}

// Watcher watches the directory of one file so that atomic replacements
// (write to temp, rename over) are seen as well as in-place writes.
type Watcher struct {
	path     string
	base     string
	fs       *fsnotify.Watcher
	onChange func(Change)
	logger   *logs.Logger
	debounce time.Duration

	mu        sync.Mutex
	pending   string
	lastEvent time.Time
	muteUntil time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// New creates a watcher for path. onChange is called from the watcher's
// goroutine once events have been quiet for the debounce interval.
func New(path string, onChange func(Change), logger *logs.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		path:     abs,
		base:     filepath.Base(abs),
		fs:       fw,
		onChange: onChange,
		logger:   logger,
		debounce: 150 * time.Millisecond,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce changes the quiet interval. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Mute drops events for the next d. The editor calls it around its own
// saves so they are not reported back as external changes.
func (w *Watcher) Mute(d time.Duration) {
	w.mu.Lock()
	w.muteUntil = time.Now().Add(d)
	w.pending = ""
	w.mu.Unlock()
}

// Start runs the event loop until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Close stops the loop and releases the underlying watcher. It is safe to
// call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
	})
	return err
}

// Wait blocks until the event loop has exited.
func (w *Watcher) Wait() { <-w.done }

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	tick := time.NewTicker(w.debounce / 3)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch.error", err, map[string]any{"file": w.path})
		case <-tick.C:
			w.flush()
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Base(ev.Name) != w.base {
		return
	}
	var op string
	switch {
	case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
		op = "modified"
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		op = "removed"
	default:
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	if now.Before(w.muteUntil) {
		return
	}
	w.pending = op
	w.lastEvent = now
}

func (w *Watcher) flush() {
	w.mu.Lock()
	op := w.pending
	if op == "" || time.Since(w.lastEvent) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = ""
	w.mu.Unlock()
	w.logger.Event("watch.change", map[string]any{"file": w.path, "op": op})
	if w.onChange != nil {
		w.onChange(Change{Path: w.path, Op: op})
	}
}
