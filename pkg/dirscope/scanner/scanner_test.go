package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirscope/dirscope/pkg/dirscope/types"
)

func TestScanCountsEntries(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), make([]byte, 10), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), make([]byte, 20), 0o644))

	s := New(Options{Root: root})
	res, err := s.Scan(context.Background())
	require.NoError(t, err)

	abs, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, abs, res.Root)

	assert.Equal(t, int64(3), res.Dirs) // root, sub, nested
	assert.Equal(t, int64(2), res.Files)
	assert.Equal(t, int64(30), res.Bytes)
	assert.Empty(t, res.Errors)
}

func TestScanBuildsChildrenIndex(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), make([]byte, 10), 0o644))

	s := New(Options{Root: root})
	res, err := s.Scan(context.Background())
	require.NoError(t, err)

	rootChildren := res.Children[res.Root]
	require.Len(t, rootChildren, 2)

	names := map[string]bool{}
	for _, ref := range rootChildren {
		names[ref.Name] = ref.IsDir
	}
	assert.Equal(t, map[string]bool{"a.txt": false, "sub": true}, names)

	// Every walked directory owns an entry, even when empty.
	sub, ok := res.Children[filepath.Join(res.Root, "sub")]
	require.True(t, ok)
	assert.Empty(t, sub)
}

func TestScanRootUnavailable(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		s := New(Options{Root: filepath.Join(t.TempDir(), "missing")})
		_, err := s.Scan(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRootUnavailable)
	})

	t.Run("root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		s := New(Options{Root: file})
		_, err := s.Scan(context.Background())
		assert.ErrorIs(t, err, ErrRootUnavailable)
	})
}

func TestScanSymlinksNotFollowed(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "big.bin"), make([]byte, 4096), 0o644))

	link := filepath.Join(root, "link")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	s := New(Options{Root: root})
	res, err := s.Scan(context.Background())
	require.NoError(t, err)

	// The link is recorded with zero size and its target is never walked.
	meta, ok := res.Meta[link]
	require.True(t, ok)
	assert.Equal(t, int64(0), meta.Size)
	assert.Equal(t, int64(0), meta.Mtime)
	assert.Equal(t, int64(0), res.Bytes)

	_, walked := res.Children[link]
	assert.False(t, walked)
}

func TestScanCancellation(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(Options{Root: root})
	_, err := s.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanReportsProgress(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), make([]byte, 10), 0o644))

	var mu sync.Mutex
	var snapshots []types.ScanProgress
	s := New(Options{
		Root: root,
		OnProgress: func(p types.ScanProgress) {
			mu.Lock()
			snapshots = append(snapshots, p)
			mu.Unlock()
		},
	})

	_, err := s.Scan(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, snapshots)

	// The forced final report carries the complete totals.
	last := snapshots[len(snapshots)-1]
	assert.True(t, last.WalkComplete)
	assert.Equal(t, int64(1), last.FilesScanned)
	assert.Equal(t, int64(10), last.BytesScanned)
}
