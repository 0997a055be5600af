// Package scanner performs the single recursive filesystem walk that
// feeds the directory cache. It uses fastwalk for parallel traversal,
// absorbs per-entry I/O errors into zero-valued records, and reports
// best-effort progress through atomic counters.
package scanner

import "github.com/dirscope/dirscope/pkg/dirscope/types"

// Options configures a scan.
type Options struct {
	// Root is the directory the walk starts from. It is resolved to an
	// absolute path before scanning.
	Root string

	// OnProgress, when non-nil, is called periodically with progress
	// snapshots. It must be safe to call from multiple goroutines and
	// must not block.
	OnProgress func(types.ScanProgress)
}
