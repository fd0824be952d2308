// Package watcher triggers a refresh when source files under a project
// tree change. Changes are debounced: a burst of events produces a single
// refresh once the tree has been quiet for the debounce window.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when no debounce window is configured.
const DefaultDebounce = 500 * time.Millisecond

// RefreshFunc is called after a debounced batch of changes.
type RefreshFunc func(ctx context.Context) error

// Watcher watches a project tree with fsnotify.
type Watcher struct {
	root      string
	extension string
	debounce  time.Duration
	refresh   RefreshFunc
	logger    *slog.Logger

	mu      sync.Mutex
	pending time.Time // zero when nothing is pending
}

// New creates a Watcher for files under root ending with extension.
func New(root, extension string, debounce time.Duration, refresh RefreshFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		root:      root,
		extension: extension,
		debounce:  debounce,
		refresh:   refresh,
		logger:    slog.Default().With("component", "watcher"),
	}
}

// Run watches until ctx is cancelled. Refresh errors are logged, not
// returned; the watch keeps going.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	w.addRecursive(fw, w.root)

	ticker := time.NewTicker(w.debounce / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-ticker.C:
			if w.due(time.Now()) {
				w.fire(ctx)
			}
		}
	}
}

// addRecursive adds a directory and all its subdirectories to the watch list
func (w *Watcher) addRecursive(fw *fsnotify.Watcher, dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if err := fw.Add(path); err != nil {
			w.logger.Debug("cannot watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addRecursive(fw, event.Name)
			w.mark()
			return
		}
	}
	if !strings.HasSuffix(filepath.Base(event.Name), w.extension) {
		return
	}
	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.mark()
	}
}

func (w *Watcher) mark() {
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) due(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending.IsZero() || now.Sub(w.pending) < w.debounce {
		return false
	}
	w.pending = time.Time{}
	return true
}

func (w *Watcher) fire(ctx context.Context) {
	start := time.Now()
	if err := w.refresh(ctx); err != nil {
		w.logger.Error("refresh failed", "root", w.root, "error", err)
		return
	}
	w.logger.Info("refreshed", "root", w.root, "duration", time.Since(start))
}
