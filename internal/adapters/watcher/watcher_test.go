package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modpack/internal/adapters/watcher"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/modpack/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func collect(t *testing.T, w *watcher.Watcher) <-chan ports.WatchEvent {
	t.Helper()
	ch := make(chan ports.WatchEvent, 64)
	go func() {
		defer close(ch)
		for ev := range w.Events() {
			ch <- ev
		}
	}()
	return ch
}

func waitFor(t *testing.T, ch <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			require.True(t, ok, "event stream closed before %s", path)
			if ev.Path == path {
				return ev
			}
		case <-deadline:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcher_ReportsChangesRecursively(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "com", "example"), 0o750))

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, root))
	events := collect(t, w)

	main := filepath.Join(root, "com", "example", "Main.class")
	require.NoError(t, os.WriteFile(main, []byte("x"), 0o600))
	ev := waitFor(t, events, main)
	assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)

	// Directories created after Start are picked up.
	nested := filepath.Join(root, "com", "example", "util")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	waitFor(t, events, nested)
	time.Sleep(50 * time.Millisecond)

	helper := filepath.Join(nested, "Helper.class")
	require.NoError(t, os.WriteFile(helper, []byte("y"), 0o600))
	waitFor(t, events, helper)

	require.NoError(t, os.Remove(main))
	assert.Equal(t, ports.OpRemove, waitFor(t, events, main).Operation)
}

func TestWatcher_IgnoresScratchFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	root := t.TempDir()
	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, root))
	events := collect(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(root, "A.class.tmp"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".#A.java"), nil, 0o600))
	marker := filepath.Join(root, "A.class")
	require.NoError(t, os.WriteFile(marker, nil, 0o600))

	select {
	case first := <-events:
		assert.Equal(t, marker, first.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}
}

func TestWatcher_StopEndsEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), t.TempDir()))
	events := collect(t, w)

	require.NoError(t, w.Stop())
	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("events did not end after Stop")
	}
}
