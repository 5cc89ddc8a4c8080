package editor

import (
	"errors"
	"fmt"

	"example.com/eblanshell/pkg/logs"
	"golang.org/x/sync/semaphore"
)

// ErrSaveInProgress is returned when a save is requested while another one
// has not finished yet.
var ErrSaveInProgress = errors.New("save already in progress")

// Tracker owns the dirty flag of a document and the protocol for writing
// it back. At most one save runs at a time; further requests are rejected.
//
// MarkDirty, Dirty, Save, StartSave and Finish must be called from the
// event loop. Only the file write of StartSave runs on another goroutine.
type Tracker struct {
	path   string
	writer FileWriter
	sem    *semaphore.Weighted
	dirty  bool
	rev    uint64
	logger *logs.Logger
}

// NewTracker returns a clean tracker saving to path through w.
func NewTracker(path string, w FileWriter, logger *logs.Logger) *Tracker {
	return &Tracker{path: path, writer: w, sem: semaphore.NewWeighted(1), logger: logger}
}

// Path returns the file the tracker saves to.
func (t *Tracker) Path() string { return t.path }

// MarkDirty records an unsaved mutation.
func (t *Tracker) MarkDirty() {
	t.dirty = true
	t.rev++
}

// Dirty reports whether there are unsaved mutations.
func (t *Tracker) Dirty() bool { return t.dirty }

// Save writes lines synchronously. On success the dirty flag is cleared;
// on failure it is left untouched and the error returned.
func (t *Tracker) Save(lines []string) error {
	if !t.sem.TryAcquire(1) {
		return ErrSaveInProgress
	}
	defer t.sem.Release(1)
	if err := t.writer.WriteLines(t.path, lines); err != nil {
		t.logger.Error("save.error", err, map[string]any{"file": t.path})
		return fmt.Errorf("save %s: %w", t.path, err)
	}
	t.dirty = false
	t.logger.Event("save.success", map[string]any{"file": t.path, "lines": len(lines)})
	return nil
}

// PendingSave is a write started by StartSave.
type PendingSave struct {
	rev   uint64
	lines int
	done  chan struct{}
	err   error
}

// Done is closed once the write has finished.
func (p *PendingSave) Done() <-chan struct{} { return p.done }

// StartSave snapshots lines and writes them on a new goroutine. notify, if
// not nil, is called from that goroutine after the write finished and the
// tracker accepts new saves again. The result must be collected with
// Finish on the event loop.
func (t *Tracker) StartSave(lines []string, notify func()) (*PendingSave, error) {
	if !t.sem.TryAcquire(1) {
		return nil, ErrSaveInProgress
	}
	snapshot := append([]string(nil), lines...)
	p := &PendingSave{rev: t.rev, lines: len(snapshot), done: make(chan struct{})}
	go func() {
		p.err = t.writer.WriteLines(t.path, snapshot)
		t.sem.Release(1)
		close(p.done)
		if notify != nil {
			notify()
		}
	}()
	return p, nil
}

// Finish waits for p and applies its result. The dirty flag is cleared
// only if the write succeeded and nothing was edited after the snapshot.
func (t *Tracker) Finish(p *PendingSave) error {
	<-p.done
	if p.err != nil {
		t.logger.Error("save.error", p.err, map[string]any{"file": t.path, "async": true})
		return fmt.Errorf("save %s: %w", t.path, p.err)
	}
	if t.rev == p.rev {
		t.dirty = false
	}
	t.logger.Event("save.success", map[string]any{"file": t.path, "lines": p.lines, "async": true, "dirty": t.dirty})
	return nil
}
