package cache

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dirscope/dirscope/pkg/dirscope/scanner"
)

// maxSearchResults caps name searches; the largest hits win.
const maxSearchResults = 100

// SearchFiles scans every cached path under scope for a case-insensitive
// substring match on the base name. It returns at most maxSearchResults
// hits sorted by size descending. An empty scope targets the scan root.
// The cache is never refreshed: results reflect the last scan, which may
// be stale relative to the live filesystem.
func (c *DirectoryCache) SearchFiles(text, scope string) []SearchResult {
	if text == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	target := c.scanRoot
	if scope != "" {
		target = normalize(scope)
	}
	if target == "" {
		return nil
	}

	needle := strings.ToLower(text)
	var results []SearchResult
	for path, size := range c.sizes {
		if !underTarget(path, target) {
			continue
		}
		name := filepath.Base(path)
		if !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		results = append(results, SearchResult{
			Path:    path,
			Name:    name,
			Size:    size,
			IsDir:   !c.isFileLocked(path),
			Hidden:  scanner.IsHidden(path),
			ModTime: c.mtimes[path],
			RelDir:  relDir(path, target),
		})
	}

	sortBySizeDesc(results)
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results
}

// LargestFiles returns the limit largest cached files under scope,
// excluding directories, sorted by size descending. An empty scope
// targets the scan root.
func (c *DirectoryCache) LargestFiles(scope string, limit int) []SearchResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	target := c.scanRoot
	if scope != "" {
		target = normalize(scope)
	}
	if target == "" || limit <= 0 {
		return nil
	}

	var results []SearchResult
	for path, size := range c.sizes {
		if !underTarget(path, target) || !c.isFileLocked(path) {
			continue
		}
		results = append(results, SearchResult{
			Path:    path,
			Name:    filepath.Base(path),
			Size:    size,
			Hidden:  scanner.IsHidden(path),
			ModTime: c.mtimes[path],
			RelDir:  relDir(path, target),
		})
	}

	sortBySizeDesc(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// relDir rewrites a hit's containing directory relative to the search
// target, "." for direct children.
func relDir(path, target string) string {
	dir := filepath.Dir(path)
	if dir == target {
		return "."
	}
	return "." + strings.TrimPrefix(dir, target)
}

// sortBySizeDesc orders results by size descending, breaking ties by path
// for deterministic output.
func sortBySizeDesc(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Size != results[j].Size {
			return results[i].Size > results[j].Size
		}
		return results[i].Path < results[j].Path
	})
}
