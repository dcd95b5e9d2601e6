// FILE: lixenwraith/resolver/source/watch.go
package source

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultMaxWatchers = 100 // Prevent resource exhaustion

// Watcher event names for conditions other than a content change
const (
	EventDeleted            = "file_deleted"
	EventPermissionsChanged = "permissions_changed"
)

// WatchOptions configures file watching behavior
type WatchOptions struct {
	// PollInterval for file stat checks (minimum 100ms)
	PollInterval time.Duration

	// Debounce duration to coalesce rapid changes
	Debounce time.Duration

	// MaxWatchers limits concurrent subscriber channels
	MaxWatchers int

	// VerifyPermissions suppresses change events when group/world permissions change
	VerifyPermissions bool
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval:      DefaultPollInterval,
		Debounce:          DefaultDebounce,
		MaxWatchers:       DefaultMaxWatchers,
		VerifyPermissions: true,
	}
}

// fileState is the last observed stat of a watched file
type fileState struct {
	modTime time.Time
	size    int64
	mode    os.FileMode
	exists  bool
}

// Watcher polls a set of files and notifies subscribers with the path of each changed file.
// Changes are debounced per file.
type Watcher struct {
	mu             sync.RWMutex
	opts           WatchOptions
	files          map[string]fileState
	subscribers    map[int64]chan string
	subscriberID   atomic.Int64
	debounceTimers map[string]*time.Timer
	watching       atomic.Bool
	cancel         context.CancelFunc
	done           chan struct{}
}

// NewWatcher creates a watcher for paths. Empty paths are ignored.
func NewWatcher(opts WatchOptions, paths ...string) *Watcher {
	if opts.PollInterval < MinPollInterval {
		opts.PollInterval = MinPollInterval
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	if opts.MaxWatchers <= 0 {
		opts.MaxWatchers = DefaultMaxWatchers
	}

	w := &Watcher{
		opts:           opts,
		files:          make(map[string]fileState),
		subscribers:    make(map[int64]chan string),
		debounceTimers: make(map[string]*time.Timer),
	}
	for _, path := range paths {
		if path != "" {
			w.files[path] = statFile(path)
		}
	}
	return w
}

// Subscribe returns a channel receiving changed file paths or event names.
// The channel is closed when the watcher stops. Past MaxWatchers a closed channel is returned.
func (w *Watcher) Subscribe() <-chan string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.subscribers) >= w.opts.MaxWatchers {
		ch := make(chan string)
		close(ch)
		return ch
	}

	// Buffered to keep the poll loop from blocking
	ch := make(chan string, 10)
	id := w.subscriberID.Add(1)
	w.subscribers[id] = ch
	return ch
}

// SubscriberCount returns the number of active subscriber channels
func (w *Watcher) SubscriberCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.subscribers)
}

// Start begins polling until ctx is done or Stop is called
func (w *Watcher) Start(ctx context.Context) {
	if !w.watching.CompareAndSwap(false, true) {
		return // Already watching
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	w.mu.Lock()
	w.cancel = cancel
	w.done = done
	w.mu.Unlock()

	go w.watchLoop(ctx, done)
}

// IsWatching reports whether the poll loop is running
func (w *Watcher) IsWatching() bool {
	return w.watching.Load()
}

// Stop terminates polling and closes every subscriber channel
func (w *Watcher) Stop() {
	w.mu.RLock()
	cancel, done := w.cancel, w.done
	w.mu.RUnlock()

	if cancel == nil {
		return
	}
	cancel()

	select {
	case <-done:
	case <-time.After(ShutdownTimeout):
	}
}

// watchLoop is the main file watching loop
func (w *Watcher) watchLoop(ctx context.Context, done chan struct{}) {
	ticker := time.NewTicker(w.opts.PollInterval)
	defer func() {
		ticker.Stop()
		w.shutdown()
		w.watching.Store(false)
		close(done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check compares each file with its last state
func (w *Watcher) check() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, last := range w.files {
		current := statFile(path)

		if !current.exists {
			if last.exists {
				w.files[path] = current
				w.notify(EventDeleted)
			}
			continue
		}

		// Group/world permission changes are reported, not reloaded
		if w.opts.VerifyPermissions && last.exists && last.mode != 0 &&
			(current.mode&0077) != (last.mode&0077) {
			w.files[path] = current
			w.notify(EventPermissionsChanged)
			continue
		}

		if last.exists && current.modTime.Equal(last.modTime) && current.size == last.size {
			continue
		}
		w.files[path] = current
		w.debounce(path)
	}
}

// debounce coalesces rapid changes of one file into a single notification.
// Caller holds w.mu.
func (w *Watcher) debounce(path string) {
	if timer, ok := w.debounceTimers[path]; ok {
		timer.Stop()
	}
	w.debounceTimers[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if !w.watching.Load() {
			return
		}
		delete(w.debounceTimers, path)
		w.notify(path)
	})
}

// notify sends to every subscriber without blocking. Caller holds w.mu.
func (w *Watcher) notify(event string) {
	for _, ch := range w.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}

// shutdown stops pending timers and closes subscriber channels
func (w *Watcher) shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, timer := range w.debounceTimers {
		timer.Stop()
		delete(w.debounceTimers, path)
	}
	for id, ch := range w.subscribers {
		close(ch)
		delete(w.subscribers, id)
	}
	w.cancel = nil
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{
		modTime: info.ModTime(),
		size:    info.Size(),
		mode:    info.Mode(),
		exists:  true,
	}
}
