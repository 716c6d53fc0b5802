// Package watch reports Markdown files that are created or modified in a
// directory, coalescing the bursts of events editors produce on save.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
)

// DefaultDebounce is the quiet period required before a file is reported.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called once per settled file change.
type Handler func(ctx context.Context, path string)

// Watcher monitors one directory.
type Watcher struct {
	fs       *fsnotify.Watcher
	dir      string
	debounce time.Duration
	log      logr.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	running sync.WaitGroup
}

// New creates a Watcher on dir. A non-positive debounce uses DefaultDebounce.
func New(dir string, debounce time.Duration, logger logr.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	return &Watcher{
		fs:       fsWatcher,
		dir:      dir,
		debounce: debounce,
		log:      logger.WithValues("dir", dir),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Run dispatches settled changes to handle until ctx is done, then waits for
// running handlers and closes the watcher. Each handler runs on its timer's
// goroutine; callers bound their concurrency.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer func() {
		w.stop()
		w.running.Wait()
		_ = w.fs.Close()
	}()

	w.log.Info("Watching for Markdown changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !Relevant(event) {
				continue
			}
			w.log.V(1).Info("File event", "file", event.Name, "op", event.Op.String())
			w.schedule(ctx, event.Name, handle)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error(err, "Watcher error")
		}
	}
}

// schedule (re)starts the debounce timer for path.
func (w *Watcher) schedule(ctx context.Context, path string, handle Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.timers[path]; exists {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		if w.stopped {
			w.mu.Unlock()
			return
		}
		// Add under the lock so stop() cannot race the WaitGroup.
		w.running.Add(1)
		w.mu.Unlock()

		defer w.running.Done()
		handle(ctx, path)
	})
}

// stop cancels pending timers and refuses new dispatches.
func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopped = true
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// Pending returns the number of files waiting for their debounce period.
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

// Relevant reports whether event is a create or write of a visible Markdown file.
func Relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	return IsMarkdown(event.Name)
}

// IsMarkdown reports whether path names a visible .md or .markdown file.
func IsMarkdown(path string) bool {
	base := filepath.Base(path)
	if base == "" || strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}
