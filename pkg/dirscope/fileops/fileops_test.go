package fileops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirscope/dirscope/pkg/dirscope/cache"
)

func scannedCache(t *testing.T, root string) *cache.DirectoryCache {
	t.Helper()
	c := cache.New()
	_, err := c.ScanDirectoryTree(context.Background(), root, nil)
	require.NoError(t, err)
	return c
}

func TestDeleteUpdatesCache(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "doomed.txt")
	require.NoError(t, os.WriteFile(target, make([]byte, 100), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), make([]byte, 10), 0o644))

	c := scannedCache(t, root)
	ops := New(c)

	// Permanent delete; trash backends vary by host.
	require.NoError(t, ops.Delete(context.Background(), target, false))

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))

	_, ok := c.SizeOf(target)
	assert.False(t, ok)

	rootSize, ok := c.SizeOf(root)
	require.True(t, ok)
	assert.Equal(t, int64(10), rootSize)
}

func TestDeleteMissingPathLeavesCacheAlone(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), make([]byte, 10), 0o644))

	c := scannedCache(t, root)
	ops := New(c)

	err := ops.Delete(context.Background(), filepath.Join(root, "ghost.txt"), false)
	require.Error(t, err)

	rootSize, ok := c.SizeOf(root)
	require.True(t, ok)
	assert.Equal(t, int64(10), rootSize, "failed delete must not change cached sizes")
}

func TestDeleteDirectory(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "inner.txt"), make([]byte, 25), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), make([]byte, 5), 0o644))

	c := scannedCache(t, root)
	ops := New(c)

	require.NoError(t, ops.Delete(context.Background(), sub, false))

	_, err := os.Stat(sub)
	assert.True(t, os.IsNotExist(err))

	rootSize, ok := c.SizeOf(root)
	require.True(t, ok)
	assert.Equal(t, int64(5), rootSize)
}

func TestMove(t *testing.T) {
	root := t.TempDir()
	destDir := t.TempDir()
	source := filepath.Join(root, "move-me.txt")
	require.NoError(t, os.WriteFile(source, []byte("payload"), 0o644))

	c := scannedCache(t, root)
	ops := New(c)

	moved, err := ops.Move(context.Background(), source, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "move-me.txt"), moved)

	data, err := os.ReadFile(moved)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	_, err = os.Stat(source)
	assert.True(t, os.IsNotExist(err))

	_, ok := c.SizeOf(source)
	assert.False(t, ok)
}

func TestCopyLeavesSourceAndCache(t *testing.T) {
	root := t.TempDir()
	destDir := t.TempDir()
	source := filepath.Join(root, "copy-me.txt")
	require.NoError(t, os.WriteFile(source, []byte("payload"), 0o644))

	c := scannedCache(t, root)
	ops := New(c)

	copied, err := ops.Copy(context.Background(), source, destDir)
	require.NoError(t, err)

	data, err := os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	// Source untouched, cache untouched.
	_, err = os.Stat(source)
	require.NoError(t, err)
	size, ok := c.SizeOf(source)
	require.True(t, ok)
	assert.Equal(t, int64(len("payload")), size)
}

func TestCopyDirectoryTree(t *testing.T) {
	root := t.TempDir()
	destDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tree", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tree", "nested", "f.txt"), []byte("deep"), 0o644))

	c := scannedCache(t, root)
	ops := New(c)

	copied, err := ops.Copy(context.Background(), filepath.Join(root, "tree"), destDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(copied, "nested", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "deep", string(data))
}
