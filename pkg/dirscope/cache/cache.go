// Package cache implements the in-memory directory tree cache at the core
// of dirscope. One recursive scan populates it; filtered and sorted views,
// duplicate detection, search, and incremental removals are all served
// from memory afterwards without touching the filesystem again.
//
// The cache is process-lifetime only and is never persisted.
package cache

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dirscope/dirscope/pkg/dirscope/scanner"
	"github.com/dirscope/dirscope/pkg/dirscope/types"
)

// DirectoryCache holds the results of the most recent tree scan together
// with the view state used to render them. All methods are safe for
// concurrent use: the dashboard reads it from request handlers while the
// command layer may mutate it.
type DirectoryCache struct {
	mu sync.RWMutex

	// scanRoot is the root of the last successful scan, or "" when no
	// scan data is held. It is set and cleared together with the maps.
	scanRoot string

	// children maps each scanned directory to its immediate children,
	// with aggregate sizes and mtimes already materialized.
	children map[string][]types.ScanEntry

	// sizes and mtimes cover every path visited during the scan. A path
	// with a children entry is a directory; anything else is a file (a
	// symlinked directory is recorded but never walked, so it counts as
	// a file of size zero).
	sizes  map[string]int64
	mtimes map[string]int64

	// View state, orthogonal to scan state.
	showHidden bool
	sortMode   types.SortMode
	filterText string
}

// New creates an empty cache with default view state: hidden entries
// shown, sorted by size.
func New() *DirectoryCache {
	return &DirectoryCache{
		children:   make(map[string][]types.ScanEntry),
		sizes:      make(map[string]int64),
		mtimes:     make(map[string]int64),
		showHidden: true,
		sortMode:   types.SortBySize,
	}
}

// ScanDirectoryTree discards all scan state and repopulates the cache
// from a fresh walk rooted at rootPath. It returns the filtered and
// sorted view of the root's own children. On failure the cache is left
// empty with no scan root set.
//
// onProgress may be nil; when set it receives best-effort progress
// snapshots from the walk.
func (c *DirectoryCache) ScanDirectoryTree(ctx context.Context, rootPath string, onProgress func(types.ScanProgress)) ([]types.ScanEntry, error) {
	c.mu.Lock()
	c.clearLocked()
	c.mu.Unlock()

	s := scanner.New(scanner.Options{Root: rootPath, OnProgress: onProgress})
	res, err := s.Scan(ctx)
	if err != nil {
		// State was already cleared: callers observe "no cache root set".
		return nil, err
	}

	children, sizes, mtimes := aggregate(res)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = children
	c.sizes = sizes
	c.mtimes = mtimes
	c.scanRoot = res.Root
	return applyFiltersAndSort(children[res.Root], c.viewStateLocked()), nil
}

// GetDirectory returns the filtered and sorted children of path. The
// second return value is false when the path was never scanned, which is
// distinct from an existing directory that is empty.
func (c *DirectoryCache) GetDirectory(path string) ([]types.ScanEntry, bool) {
	path = normalize(path)

	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, ok := c.children[path]
	if !ok {
		return nil, false
	}
	return applyFiltersAndSort(raw, c.viewStateLocked()), true
}

// IsInScope reports whether path equals the scan root or descends from it.
// Always false when no scan data is held.
func (c *DirectoryCache) IsInScope(path string) bool {
	path = normalize(path)

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inScopeLocked(path)
}

// Root returns the current scan root, or "" when nothing is cached.
func (c *DirectoryCache) Root() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scanRoot
}

// Invalidate discards all scan state. View state is preserved.
func (c *DirectoryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

// RemoveItem removes a single path from the cache after its backing
// filesystem object was deleted or moved. The entry's own records are
// dropped, it is removed from its parent's child list by name, and its
// size is subtracted from every in-scope ancestor.
//
// Removing a path that is not cached is a no-op. Ancestor mtimes are
// deliberately not recomputed; they can report a time newer than any
// remaining child until the next full scan.
func (c *DirectoryCache) RemoveItem(path string) {
	path = normalize(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	size := c.sizes[path]

	delete(c.sizes, path)
	delete(c.mtimes, path)
	delete(c.children, path)

	parent := filepath.Dir(path)
	name := filepath.Base(path)
	if siblings, ok := c.children[parent]; ok {
		kept := siblings[:0]
		for _, e := range siblings {
			if e.Name != name {
				kept = append(kept, e)
			}
		}
		c.children[parent] = kept
	}

	for current := parent; c.inScopeLocked(current); {
		if _, ok := c.sizes[current]; ok {
			c.sizes[current] -= size
		}
		next := filepath.Dir(current)
		if next == current {
			break
		}
		current = next
	}
}

// SetFilter sets the substring filter applied to views. An empty string
// clears it. Scan data is not touched.
func (c *DirectoryCache) SetFilter(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filterText = text
}

// ToggleHidden flips hidden-entry visibility and returns the new value.
func (c *DirectoryCache) ToggleHidden() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showHidden = !c.showHidden
	return c.showHidden
}

// CycleSortMode advances to the next sort mode and returns it.
func (c *DirectoryCache) CycleSortMode() types.SortMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortMode = c.sortMode.Next()
	return c.sortMode
}

// SetSortMode sets the listing order directly.
func (c *DirectoryCache) SetSortMode(mode types.SortMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortMode = mode
}

// SetShowHidden sets hidden-entry visibility directly.
func (c *DirectoryCache) SetShowHidden(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showHidden = show
}

// ShowHidden reports the current hidden-entry visibility.
func (c *DirectoryCache) ShowHidden() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.showHidden
}

// SortMode reports the current sort mode.
func (c *DirectoryCache) SortMode() types.SortMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortMode
}

// FilterText reports the current substring filter, "" when unset.
func (c *DirectoryCache) FilterText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filterText
}

// SizeOf returns the cached aggregate size of path.
func (c *DirectoryCache) SizeOf(path string) (int64, bool) {
	path = normalize(path)

	c.mu.RLock()
	defer c.mu.RUnlock()
	size, ok := c.sizes[path]
	return size, ok
}

// MtimeOf returns the cached aggregate mtime of path as UnixNano.
func (c *DirectoryCache) MtimeOf(path string) (int64, bool) {
	path = normalize(path)

	c.mu.RLock()
	defer c.mu.RUnlock()
	mtime, ok := c.mtimes[path]
	return mtime, ok
}

// Directories returns every cached directory path. The watcher uses this
// to establish its watch set.
func (c *DirectoryCache) Directories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dirs := make([]string, 0, len(c.children))
	for dir := range c.children {
		dirs = append(dirs, dir)
	}
	return dirs
}

// Totals summarizes the cached tree: entry counts by kind and the scan
// root's aggregate size.
func (c *DirectoryCache) Totals() Totals {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var t Totals
	for _, entries := range c.children {
		for _, e := range entries {
			if e.IsDir {
				t.Dirs++
			} else {
				t.Files++
			}
		}
	}
	t.Size = c.sizes[c.scanRoot]
	return t
}

// clearLocked resets all scan state. Callers hold c.mu.
func (c *DirectoryCache) clearLocked() {
	c.scanRoot = ""
	c.children = make(map[string][]types.ScanEntry)
	c.sizes = make(map[string]int64)
	c.mtimes = make(map[string]int64)
}

// inScopeLocked checks scope on a separator boundary so that /data2 is
// never judged in scope for a root of /data. Callers hold c.mu.
func (c *DirectoryCache) inScopeLocked(path string) bool {
	if c.scanRoot == "" {
		return false
	}
	return underTarget(path, c.scanRoot)
}

// viewStateLocked snapshots the view state. Callers hold c.mu.
func (c *DirectoryCache) viewStateLocked() viewState {
	return viewState{
		showHidden: c.showHidden,
		filterText: c.filterText,
		sortMode:   c.sortMode,
	}
}

// isFileLocked reports whether a cached path is a file. Every walked
// directory owns a children entry, so absence marks a file. Callers hold
// c.mu.
func (c *DirectoryCache) isFileLocked(path string) bool {
	_, isDir := c.children[path]
	return !isDir
}

// underTarget reports whether path equals target or descends from it,
// comparing on a path separator boundary.
func underTarget(path, target string) bool {
	if path == target {
		return true
	}
	return strings.HasPrefix(path, target+string(filepath.Separator))
}

// normalize converts a query path to the canonical absolute form used as
// the cache key.
func normalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
