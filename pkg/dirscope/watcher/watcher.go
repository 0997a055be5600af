// Package watcher keeps a directory cache in sync with filesystem changes.
//
// Removals and renames are applied to the cache directly via RemoveItem.
// Creations and writes cannot be applied incrementally (the cache holds
// aggregated sizes, not a live index), so they only mark the cache stale;
// callers decide when to rescan.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/dirscope/dirscope/pkg/dirscope/cache"
	"github.com/dirscope/dirscope/pkg/dirscope/logging"
)

// Watcher mirrors filesystem events into a DirectoryCache.
type Watcher struct {
	cache   *cache.DirectoryCache
	watcher *fsnotify.Watcher
	paths   map[string]bool
	mu      sync.Mutex
	closed  bool
	stale   atomic.Bool
	log     *logging.Logger
}

// New creates a Watcher bound to the given cache.
func New(c *cache.DirectoryCache) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		cache:   c,
		watcher: fsw,
		paths:   make(map[string]bool),
		log:     logging.Get("watcher"),
	}, nil
}

// WatchScanned adds watches for every directory currently held in the cache.
// Call it after a scan completes. Directories that disappeared since the
// scan are skipped.
func (w *Watcher) WatchScanned() error {
	for _, dir := range w.cache.Directories() {
		if err := w.addWatch(dir); err != nil {
			w.log.Warn("failed to add watch", "path", dir, "error", err)
		}
	}
	return nil
}

func (w *Watcher) addWatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.paths[path] {
		return nil
	}

	if err := w.watcher.Add(path); err != nil {
		return err
	}

	w.paths[path] = true
	return nil
}

// Stale reports whether filesystem changes have occurred that the cache
// could not absorb incrementally. A rescan clears it via Reset.
func (w *Watcher) Stale() bool {
	return w.stale.Load()
}

// Reset clears the stale flag, typically after a rescan.
func (w *Watcher) Reset() {
	w.stale.Store(false)
}

// Run starts the event loop. It blocks until the context is cancelled or
// the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	switch {
	case event.Op&fsnotify.Remove != 0:
		w.handleRemove(event.Name)
	case event.Op&fsnotify.Rename != 0:
		// A rename out of a watched directory is a removal from the
		// cache's point of view.
		w.handleRemove(event.Name)
	case event.Op&fsnotify.Create != 0, event.Op&fsnotify.Write != 0:
		w.stale.Store(true)
	}
}

func (w *Watcher) handleRemove(path string) {
	w.mu.Lock()
	if w.paths[path] {
		_ = w.watcher.Remove(path)
		delete(w.paths, path)
	}
	for child := range w.paths {
		if isSubPath(child, path) {
			_ = w.watcher.Remove(child)
			delete(w.paths, child)
		}
	}
	w.mu.Unlock()

	if w.cache.IsInScope(path) {
		w.cache.RemoveItem(path)
		w.log.Debug("removed from cache", "path", path)
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true
	w.paths = make(map[string]bool)
	return w.watcher.Close()
}

func isSubPath(path, parent string) bool {
	return len(path) > len(parent) && path[:len(parent)+1] == parent+string(filepath.Separator)
}
