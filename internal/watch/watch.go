// Package watch reports changes to a fixed set of files using fsnotify with a
// polling fallback.
//
// The parent directories are watched rather than the files themselves so that
// atomic replacements (write to temp, rename over) and files that do not exist
// yet are still observed.
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the stat interval used after falling back to polling.
const DefaultPollInterval = 2 * time.Second

// ///////////////////////////////////////////////
// Watcher
// ///////////////////////////////////////////////

// Watcher monitors files for changes.
type Watcher struct {
	// files is the set of cleaned absolute paths being monitored.
	files map[string]bool
	// events delivers a signal each time a monitored file changes.
	// The channel is buffered to 1 so back-to-back writes coalesce.
	events chan struct{}
	// done is closed by [Watcher.Close] to signal goroutines to exit.
	done chan struct{}
	// mu guards fsw, which is replaced with nil when falling back to polling.
	mu  sync.Mutex
	fsw *fsnotify.Watcher
	// once ensures [Watcher.Close] is idempotent.
	once sync.Once
	// polling is true when the watcher uses stat-based polling.
	polling atomic.Bool
	// pollInterval is the duration between stat calls in polling mode.
	pollInterval time.Duration
	logger       *slog.Logger
}

// New starts watching files. Empty entries are ignored. It returns an error
// only when no file is given; fsnotify failures switch to polling.
func New(files []string, logger *slog.Logger) (*Watcher, error) {
	w, err := newWatcher(files, DefaultPollInterval, logger)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Info("fsnotify unavailable, falling back to polling", "error", err)
		w.startPolling()
		return w, nil
	}
	for _, dir := range w.dirs() {
		if err := fsw.Add(dir); err != nil {
			w.logger.Info("cannot watch directory, falling back to polling", "path", dir, "error", err)
			fsw.Close()
			w.startPolling()
			return w, nil
		}
	}

	w.fsw = fsw
	go w.watch(fsw)
	return w, nil
}

// NewPolling starts a watcher that only polls, checking every interval.
func NewPolling(files []string, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	w, err := newWatcher(files, interval, logger)
	if err != nil {
		return nil, err
	}
	w.startPolling()
	return w, nil
}

func newWatcher(files []string, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{
		files:        make(map[string]bool, len(files)),
		events:       make(chan struct{}, 1),
		done:         make(chan struct{}),
		pollInterval: interval,
		logger:       logger,
	}
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = true
	}
	if len(w.files) == 0 {
		return nil, errors.New("watch: no files to watch")
	}
	return w, nil
}

// dirs returns the distinct parent directories of the watched files.
func (w *Watcher) dirs() []string {
	seen := map[string]bool{}
	var out []string
	for f := range w.files {
		d := filepath.Dir(f)
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// Polling reports whether the watcher is using polling instead of fsnotify.
func (w *Watcher) Polling() bool {
	return w.polling.Load()
}

// Events returns a channel that receives a signal when a watched file changes.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.fsw != nil {
			if closeErr := w.fsw.Close(); closeErr != nil {
				err = fmt.Errorf("closing fsnotify watcher: %w", closeErr)
			}
			w.fsw = nil
		}
	})
	return err
}

// watch forwards fsnotify events for watched files to the events channel. On
// an fsnotify error it closes the native watcher and falls back to polling.
func (w *Watcher) watch(fsw *fsnotify.Watcher) {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
				w.notify()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Info("fsnotify error, switching to polling", "error", err)
			w.mu.Lock()
			if w.fsw != nil {
				w.fsw.Close()
				w.fsw = nil
			}
			w.mu.Unlock()
			w.startPolling()
			return
		}
	}
}

func (w *Watcher) startPolling() {
	w.polling.Store(true)
	go w.poll()
}

// poll stats each watched file every pollInterval and signals when any
// modification time advances or a missing file appears.
func (w *Watcher) poll() {
	last := w.modTimes()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			cur := w.modTimes()
			changed := false
			for f, mod := range cur {
				if prev, ok := last[f]; !ok || mod.After(prev) {
					changed = true
				}
			}
			last = cur
			if changed {
				w.notify()
			}
		}
	}
}

// modTimes returns the modification time of every watched file that exists.
func (w *Watcher) modTimes() map[string]time.Time {
	out := make(map[string]time.Time, len(w.files))
	for f := range w.files {
		if info, err := os.Stat(f); err == nil {
			out[f] = info.ModTime()
		}
	}
	return out
}

// notify sends a single signal to the events channel. If a signal is already
// pending the call is a no-op, coalescing rapid successive changes.
func (w *Watcher) notify() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}
