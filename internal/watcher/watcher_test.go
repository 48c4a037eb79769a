package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/airdesk/internal/watcher"
)

func writeSeats(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seats.yaml")
	writeSeats(t, path, "occupied: []\n")

	w, err := watcher.New(watcher.Config{Path: path, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	for i := range 10 {
		writeSeats(t, path, fmt.Sprintf("occupied: [%dA]\n", i+1))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seats.yaml")
	other := filepath.Join(dir, "notes.txt")
	writeSeats(t, path, "occupied: []\n")
	writeSeats(t, other, "initial")

	w, err := watcher.New(watcher.Config{Path: path, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	writeSeats(t, other, "changed")

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_SeesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seats.yaml")
	writeSeats(t, path, "occupied: []\n")

	w, err := watcher.New(watcher.Config{Path: path, DebounceDur: 30 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	tmp := filepath.Join(dir, ".seats.yaml.swp")
	writeSeats(t, tmp, "occupied: [12C]\n")
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification after rename into place")
	}
}

func TestWatcher_Stop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seats.yaml")
	writeSeats(t, path, "occupied: []\n")

	w, err := watcher.New(watcher.DefaultConfig(path))
	require.NoError(t, err)
	_, err = w.Start()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := watcher.New(watcher.Config{})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/etc/airdesk/seats.yaml")

	assert.Equal(t, "/etc/airdesk/seats.yaml", cfg.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.DebounceDur)
}
