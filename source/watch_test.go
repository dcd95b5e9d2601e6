// FILE: lixenwraith/resolver/source/watch_test.go
package source

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval:      MinPollInterval,
		Debounce:          50 * time.Millisecond,
		MaxWatchers:       10,
		VerifyPermissions: true,
	}
}

// waitForEvent reads from ch until want arrives or the timeout expires
func waitForEvent(t *testing.T, ch <-chan string, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed before %q arrived", want)
			}
			if event == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func waitForWatching(t *testing.T, w *Watcher, expected bool) {
	t.Helper()
	for i := 0; i < 100; i++ {
		if w.IsWatching() == expected {
			return
		}
		time.Sleep(SpinWaitInterval)
	}
	t.Fatalf("watcher state did not become %v", expected)
}

func TestWatcherDetectsChange(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "template.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": "{{b}}"}`), 0644))

	w := NewWatcher(fastWatchOptions(), path, "")
	changes := w.Subscribe()
	w.Start(context.Background())
	defer w.Stop()
	waitForWatching(t, w, true)

	// Ensure a distinct mod time on coarse filesystems
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"a": "{{b}}", "c": "{{d}}"}`), 0644))

	waitForEvent(t, changes, path, 2*time.Second)
}

func TestWatcherDebounce(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("v: 0\n"), 0644))

	opts := fastWatchOptions()
	opts.Debounce = 400 * time.Millisecond
	w := NewWatcher(opts, path)
	changes := w.Subscribe()
	w.Start(context.Background())
	defer w.Stop()

	// Several writes inside one debounce window coalesce into one event
	for i := 1; i <= 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("v: "+string(rune('0'+i))+"0\n"), 0644))
		time.Sleep(MinPollInterval + 20*time.Millisecond)
	}

	waitForEvent(t, changes, path, 2*time.Second)
	select {
	case event := <-changes:
		t.Fatalf("unexpected second event %q", event)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcherDeletion(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "data.toml")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0644))

	w := NewWatcher(fastWatchOptions(), path)
	changes := w.Subscribe()
	w.Start(context.Background())
	defer w.Stop()

	require.NoError(t, os.Remove(path))
	waitForEvent(t, changes, EventDeleted, 2*time.Second)
}

func TestWatcherPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0600))

	w := NewWatcher(fastWatchOptions(), path)
	changes := w.Subscribe()
	w.Start(context.Background())
	defer w.Stop()

	require.NoError(t, os.Chmod(path, 0666))
	waitForEvent(t, changes, EventPermissionsChanged, 2*time.Second)
}

func TestWatcherLifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	opts := fastWatchOptions()
	opts.MaxWatchers = 2
	opts.PollInterval = time.Millisecond // clamped to MinPollInterval
	w := NewWatcher(opts, path)
	assert.Equal(t, MinPollInterval, w.opts.PollInterval)

	ch1 := w.Subscribe()
	ch2 := w.Subscribe()
	overflow := w.Subscribe()
	assert.Equal(t, 2, w.SubscriberCount())

	_, ok := <-overflow
	assert.False(t, ok, "subscriptions past MaxWatchers are closed")

	// Stop before Start is a no-op
	w.Stop()
	assert.False(t, w.IsWatching())

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	w.Start(ctx)
	waitForWatching(t, w, true)

	cancel()
	waitForWatching(t, w, false)

	for _, ch := range []<-chan string{ch1, ch2} {
		select {
		case _, ok := <-ch:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("subscriber channel not closed after shutdown")
		}
	}
	assert.Equal(t, 0, w.SubscriberCount())
}
