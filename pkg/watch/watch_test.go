package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) (*Watcher, chan Change) {
	t.Helper()
	changes := make(chan Change, 8)
	w, err := New(path, func(c Change) { changes <- c }, nil)
	require.NoError(t, err)
	w.SetDebounce(30 * time.Millisecond)
	w.Start(context.Background())
	t.Cleanup(func() {
		w.Close()
		w.Wait()
	})
	return w, changes
}

func TestWatcherReportsExternalWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0644))
	_, changes := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("b\n"), 0644))
	select {
	case c := <-changes:
		require.Equal(t, "modified", c.Op)
		require.Equal(t, "notes.txt", filepath.Base(c.Path))
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	_, changes := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	select {
	case c := <-changes:
		t.Fatalf("unexpected change %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherMute(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	w, changes := startWatcher(t, path)

	w.Mute(time.Second)
	require.NoError(t, os.WriteFile(path, []byte("own save\n"), 0644))
	select {
	case c := <-changes:
		t.Fatalf("muted write reported: %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")
	w, err := New(path, nil, nil)
	require.NoError(t, err)
	w.Start(context.Background())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	w.Wait()
}
