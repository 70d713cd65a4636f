package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "products.csv")
	require.NoError(t, os.WriteFile(path, []byte("Gruppe\nObst\n"), 0o600))

	loader := &scriptedLoader{steps: []loadStep{{}}}
	s := New(loader, path)

	w, err := NewWatcher(path, s, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx), "second start is a no-op")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("Gruppe\nGemüse\n"), 0o600))

	require.Eventually(t, func() bool { return loader.Calls() >= 1 }, 2*time.Second, 10*time.Millisecond)

	w.Stop()
	w.Stop()
}

func TestWatcherRunStopsWithContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "products.csv")
	require.NoError(t, os.WriteFile(path, []byte("Gruppe\n"), 0o600))

	w, err := NewWatcher(path, NewStatic(nil), 0, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherRunFailsForMissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "products.csv")
	s := New(&scriptedLoader{}, path)
	w, err := NewWatcher(path, s, time.Millisecond, nil)
	require.NoError(t, err)

	require.Error(t, w.Run(context.Background()))
}
