package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/dirscope/dirscope/pkg/dirscope/types"
)

// ErrRootUnavailable is returned when the scan root does not exist, is
// not a directory, or cannot be opened at all. Callers must treat this as
// "no cache root" rather than a fatal condition.
var ErrRootUnavailable = errors.New("scan root unavailable")

// Meta holds the raw metadata recorded for one visited path. Directory
// sizes and mtimes here are placeholders; aggregation finalizes them.
type Meta struct {
	Size  int64
	Mtime int64
	IsDir bool
}

// ChildRef identifies one immediate child of a visited directory, before
// sizes are known.
type ChildRef struct {
	Name  string
	Path  string
	IsDir bool
}

// Result is the raw output of a walk: per-path metadata and the
// parent-to-children index the aggregator consumes.
type Result struct {
	// Root is the resolved absolute path the walk started from.
	Root string

	// Meta maps every visited absolute path to its raw metadata.
	Meta map[string]Meta

	// Children maps each visited directory to its immediate children in
	// directory order. Every walked directory has an entry, so empty
	// directories are distinguishable from unvisited paths.
	Children map[string][]ChildRef

	// Errors lists per-entry failures that were absorbed during the walk.
	Errors []types.ScanError

	Dirs    int64
	Files   int64
	Bytes   int64
	Elapsed time.Duration
}

// Scanner walks one directory subtree. A Scanner is single-use: create a
// new one for each scan.
type Scanner struct {
	opts Options

	// Atomic counters for thread-safe progress reporting.
	dirsScanned  atomic.Int64
	filesScanned atomic.Int64
	bytesScanned atomic.Int64

	// currentPath is the directory currently being walked (for progress).
	currentPath atomic.Value

	// lastProgress throttles progress callbacks.
	lastProgress atomic.Int64

	walkComplete atomic.Bool

	mu       sync.Mutex
	meta     map[string]Meta
	children map[string][]ChildRef
	errs     []types.ScanError

	root string
}

// New creates a Scanner with the given options.
func New(opts Options) *Scanner {
	s := &Scanner{
		opts:     opts,
		meta:     make(map[string]Meta),
		children: make(map[string][]ChildRef),
	}
	s.currentPath.Store("")
	return s
}

// Scan walks the tree rooted at Options.Root and returns the raw result.
// It blocks until the walk completes or the context is cancelled. A root
// that cannot be opened yields ErrRootUnavailable and no result;
// per-entry failures below the root never abort the walk.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	start := time.Now()

	root, err := s.validateRoot()
	if err != nil {
		return nil, err
	}
	s.root = root

	s.currentPath.Store(root)
	s.reportProgressForce()

	if err := s.executeWalk(ctx); err != nil {
		return nil, err
	}

	s.walkComplete.Store(true)
	s.reportProgressForce()

	return &Result{
		Root:     root,
		Meta:     s.meta,
		Children: s.children,
		Errors:   s.errs,
		Dirs:     s.dirsScanned.Load(),
		Files:    s.filesScanned.Load(),
		Bytes:    s.bytesScanned.Load(),
		Elapsed:  time.Since(start),
	}, nil
}

// validateRoot resolves the root to an absolute path and verifies it is a
// readable directory.
func (s *Scanner) validateRoot() (string, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRootUnavailable, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRootUnavailable, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrRootUnavailable, root)
	}

	return root, nil
}

// executeWalk runs fastwalk rooted at s.root.
func (s *Scanner) executeWalk(ctx context.Context) error {
	conf := fastwalk.Config{
		Follow: false, // Symlinks are recorded, never followed.
	}

	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		<-walkCtx.Done()
		close(done)
	}()

	err := fastwalk.Walk(&conf, s.root, s.walkCallback(done))
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, fastwalk.ErrSkipFiles) {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// walkCallback returns the fastwalk visitor. It records every entry
// exactly once and degrades per-entry failures to zero-valued records.
func (s *Scanner) walkCallback(done <-chan struct{}) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		select {
		case <-done:
			return fastwalk.ErrSkipFiles
		default:
		}

		// Failures opening a directory or statting an entry are absorbed:
		// the entry keeps its zero-valued record and the walk continues.
		if err != nil {
			s.addError(path, err)
			return nil
		}

		if d.IsDir() {
			s.handleDirectory(path)
			return nil
		}

		s.handleFile(path, d)
		return nil
	}
}

// handleDirectory registers a visited directory. Its size and mtime stay
// zero until aggregation; an entry in children marks it as walked.
func (s *Scanner) handleDirectory(path string) {
	s.dirsScanned.Add(1)
	s.currentPath.Store(path)
	s.reportProgress()

	s.mu.Lock()
	s.meta[path] = Meta{IsDir: true}
	if _, ok := s.children[path]; !ok {
		s.children[path] = []ChildRef{}
	}
	s.mu.Unlock()

	if path != s.root {
		s.addChildToParent(path, true)
	}
}

// handleFile records a file or symlink entry. Symlinks and entries whose
// metadata cannot be read contribute zero size and zero mtime.
func (s *Scanner) handleFile(path string, d fs.DirEntry) {
	var size, mtime int64

	if d.Type()&fs.ModeSymlink == 0 {
		info, err := d.Info()
		if err != nil {
			s.addError(path, err)
		} else {
			size = info.Size()
			mtime = info.ModTime().UnixNano()
		}
	}

	s.filesScanned.Add(1)
	s.bytesScanned.Add(size)

	s.mu.Lock()
	s.meta[path] = Meta{Size: size, Mtime: mtime}
	s.mu.Unlock()

	s.addChildToParent(path, false)
	s.reportProgress()
}

// addChildToParent appends an entry to its parent directory's child list.
func (s *Scanner) addChildToParent(path string, isDir bool) {
	parent := filepath.Dir(path)

	s.mu.Lock()
	s.children[parent] = append(s.children[parent], ChildRef{
		Name:  filepath.Base(path),
		Path:  path,
		IsDir: isDir,
	})
	s.mu.Unlock()
}

// addError records an absorbed per-entry failure and keeps a zero-valued
// record for the path so it still appears in the tree.
func (s *Scanner) addError(path string, err error) {
	s.mu.Lock()
	s.errs = append(s.errs, types.ScanError{Path: path, Error: err.Error()})
	if _, ok := s.meta[path]; !ok {
		s.meta[path] = Meta{}
	}
	s.mu.Unlock()
}

// reportProgress calls the progress callback, throttled to every 10ms.
func (s *Scanner) reportProgress() {
	if s.opts.OnProgress == nil {
		return
	}

	now := time.Now().UnixMilli()
	last := s.lastProgress.Load()
	if now-last < 10 {
		return
	}
	if !s.lastProgress.CompareAndSwap(last, now) {
		return // Another goroutine got there first.
	}

	s.sendProgress()
}

// reportProgressForce bypasses the throttle for important state changes.
func (s *Scanner) reportProgressForce() {
	if s.opts.OnProgress == nil {
		return
	}
	s.lastProgress.Store(time.Now().UnixMilli())
	s.sendProgress()
}

func (s *Scanner) sendProgress() {
	currentPath, _ := s.currentPath.Load().(string)

	s.opts.OnProgress(types.ScanProgress{
		DirsScanned:  s.dirsScanned.Load(),
		FilesScanned: s.filesScanned.Load(),
		BytesScanned: s.bytesScanned.Load(),
		CurrentPath:  currentPath,
		WalkComplete: s.walkComplete.Load(),
	})
}
