// Package app connects the editor to a real terminal through tcell.
package app

import (
	"context"
	"time"

	"example.com/eblanshell/pkg/config"
	"example.com/eblanshell/pkg/editor"
	"example.com/eblanshell/pkg/logs"
	"example.com/eblanshell/pkg/watch"
	"github.com/gdamore/tcell/v2"
)

const changedOnDisk = "File changed on disk"

// Runner owns the terminal lifecycle for editing sessions.
type Runner struct {
	Screen tcell.Screen
	Config *config.Config
	Logger *logs.Logger
	Files  editor.Files
	// Watch enables external change notices for the edited file.
	Watch bool
}

// New returns a Runner using cfg, falling back to the default config.
func New(cfg *config.Config, logger *logs.Logger) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Runner{Config: cfg, Logger: logger, Files: editor.OSFiles{}, Watch: true}
}

// InitScreen initializes a tcell screen if one is not already set.
func (r *Runner) InitScreen() error {
	if r.Screen != nil {
		return nil
	}
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.SetStyle(tcell.StyleDefault)
	s.Clear()
	r.Screen = s
	return nil
}

// Fini finalizes the screen if initialized.
func (r *Runner) Fini() {
	if r.Screen != nil {
		r.Screen.Fini()
		r.Screen = nil
	}
}

// Edit runs one editing session on path and returns when the user quits.
// A screen created here is finalized before returning.
func (r *Runner) Edit(path string) error {
	if r.Screen == nil {
		if err := r.InitScreen(); err != nil {
			return err
		}
		defer r.Fini()
	}
	if r.Config == nil {
		r.Config = config.Default()
	}
	if r.Files == nil {
		r.Files = editor.OSFiles{}
	}
	screen := r.Screen
	wake := func(data any) {
		// PostEvent fails only when the queue is full; a dropped wake-up
		// is recovered by the next key press.
		_ = screen.PostEvent(tcell.NewEventInterrupt(data))
	}

	src := &keySource{screen: screen}
	files := &mutedFiles{Files: r.Files}
	s := editor.Open(path, editor.Options{
		Files:     files,
		Keymap:    r.Config.Keymap,
		Logger:    r.Logger,
		Source:    src,
		Sink:      newScreenSink(screen, r.Config.ResolveTheme()),
		AsyncSave: true,
		Notify:    func() { wake(nil) },
	})
	src.notice = s.Notice

	if r.Watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		w, err := watch.New(path, func(watch.Change) { wake(changedOnDisk) }, s.Logger)
		if err != nil {
			s.Logger.Error("watch.start", err, map[string]any{"file": path})
		} else {
			files.watcher = w
			w.Start(ctx)
			defer func() {
				w.Close()
				w.Wait()
			}()
		}
	}
	return s.Run()
}

// mutedFiles silences the watcher while the editor writes its own file.
type mutedFiles struct {
	editor.Files
	watcher *watch.Watcher
}

func (m *mutedFiles) WriteLines(path string, lines []string) error {
	if m.watcher != nil {
		m.watcher.Mute(time.Second)
	}
	return m.Files.WriteLines(path, lines)
}
