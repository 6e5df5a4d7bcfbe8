package theme

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write before
// reloading. Editors often write a file in several steps.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches a theme file for changes and reloads it.
type Watcher struct {
	mu     sync.Mutex
	logger *slog.Logger

	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration

	onChange func(doc *Document)

	done    chan struct{}
	running bool
}

// NewWatcher creates a watcher for the theme document at path.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		logger:   logger,
		watcher:  watcher,
		path:     path,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce sets the quiet period before a reload.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// SetChangeCallback sets the callback invoked with each reloaded document.
func (w *Watcher) SetChangeCallback(callback func(doc *Document)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Start begins watching. It returns once the watch is registered;
// events are handled on a separate goroutine until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory containing the file (editors replace files on save)
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.watch(ctx)

	w.logger.Debug("theme watcher started", "path", w.path)
	return nil
}

// watch is the main watch loop.
func (w *Watcher) watch(ctx context.Context) {
	filename := filepath.Base(w.path)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only care about our file
			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.mu.Lock()
				debounce := w.debounce
				w.mu.Unlock()

				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(debounce)
				fire = timer.C
			}

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)

		case <-ctx.Done():
			return

		case <-w.done:
			return
		}
	}
}

// reload loads the theme and hands it to the callback.
func (w *Watcher) reload() {
	doc, err := Load(w.path)
	if err != nil {
		w.logger.Warn("failed to reload theme", "path", w.path, "error", err)
		return
	}

	w.logger.Info("theme file changed, reloading", "path", w.path, "name", doc.Name)

	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()

	if callback != nil {
		callback(doc)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return w.watcher.Close()
	}

	w.running = false
	close(w.done)
	return w.watcher.Close()
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
