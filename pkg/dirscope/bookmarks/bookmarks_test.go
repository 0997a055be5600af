package bookmarks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "bookmarks.json"))
}

func TestEmptyStore(t *testing.T) {
	s := newTestStore(t)

	marks, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, marks)
}

func TestAddAndList(t *testing.T) {
	s := newTestStore(t)

	idx, err := s.Add("/data/photos")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = s.Add("/data/music")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	marks, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/photos", "/data/music"}, marks)
}

func TestAddDuplicate(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Add("/data/photos")
	require.NoError(t, err)

	_, err = s.Add("/data/photos")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add("/a")
	require.NoError(t, err)
	_, err = s.Add("/b")
	require.NoError(t, err)

	removed, err := s.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "/a", removed)

	marks, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"/b"}, marks)
}

func TestRemoveInvalidIndex(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add("/a")
	require.NoError(t, err)

	for _, idx := range []int{0, -1, 2} {
		_, err := s.Remove(idx)
		assert.ErrorIs(t, err, ErrInvalidIndex)
	}
}

func TestGet(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add("/a")
	require.NoError(t, err)

	path, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "/a", path)

	_, err = s.Get(5)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")

	s1 := NewStore(path)
	_, err := s1.Add("/persisted")
	require.NoError(t, err)

	s2 := NewStore(path)
	marks, err := s2.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"/persisted"}, marks)

	// The file on disk is plain JSON.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/persisted")
}
