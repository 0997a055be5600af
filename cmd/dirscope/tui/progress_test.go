package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirscope/dirscope/pkg/dirscope/types"
)

func TestProgressModelUpdate(t *testing.T) {
	t.Run("progress message updates counters", func(t *testing.T) {
		m := NewProgressModel("/data")

		updated, cmd := m.Update(ProgressMsg{
			FilesScanned: 42,
			DirsScanned:  7,
			BytesScanned: 1 << 20,
			CurrentPath:  "/data/photos",
		})
		assert.Nil(t, cmd)

		pm, ok := updated.(ProgressModel)
		require.True(t, ok)
		assert.Equal(t, int64(42), pm.progress.FilesScanned)
		assert.Equal(t, int64(7), pm.progress.DirsScanned)
		assert.Equal(t, "/data/photos", pm.currentPath)
		assert.False(t, pm.done)
	})

	t.Run("done message quits", func(t *testing.T) {
		m := NewProgressModel("/data")

		updated, cmd := m.Update(DoneMsg{})
		require.NotNil(t, cmd)

		pm := updated.(ProgressModel)
		assert.True(t, pm.done)
		assert.NoError(t, pm.Err())
	})

	t.Run("done message carries error", func(t *testing.T) {
		m := NewProgressModel("/data")
		scanErr := errors.New("permission denied")

		updated, _ := m.Update(DoneMsg{Err: scanErr})

		pm := updated.(ProgressModel)
		assert.Equal(t, scanErr, pm.Err())
	})

	t.Run("ctrl+c interrupts", func(t *testing.T) {
		m := NewProgressModel("/data")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)

		pm := updated.(ProgressModel)
		assert.True(t, pm.done)
		assert.Error(t, pm.Err())
	})

	t.Run("window resize adjusts width", func(t *testing.T) {
		m := NewProgressModel("/data")

		updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

		pm := updated.(ProgressModel)
		assert.Equal(t, 120, pm.width)
	})
}

func TestProgressModelView(t *testing.T) {
	t.Run("scanning shows current path", func(t *testing.T) {
		m := NewProgressModel("/data")
		updated, _ := m.Update(ProgressMsg(types.ScanProgress{
			FilesScanned: 5,
			DirsScanned:  2,
			BytesScanned: 100,
			CurrentPath:  "/data/photos",
		}))
		m = updated.(ProgressModel)

		view := m.View()
		assert.Contains(t, view, "dirscope")
		assert.Contains(t, view, "/data/photos")
		assert.Contains(t, view, "folders")
		assert.Contains(t, view, "files")
	})

	t.Run("done shows completion", func(t *testing.T) {
		m := NewProgressModel("/data")
		updated, _ := m.Update(DoneMsg{})
		m = updated.(ProgressModel)

		assert.Contains(t, m.View(), "Scan complete")
	})

	t.Run("failure shows error", func(t *testing.T) {
		m := NewProgressModel("/data")
		updated, _ := m.Update(DoneMsg{Err: errors.New("boom")})
		m = updated.(ProgressModel)

		assert.Contains(t, m.View(), "Scan failed")
	})
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		maxLen int
		want   string
	}{
		{"short path unchanged", "/data", 40, "/data"},
		{"long path keeps tail", "/very/long/path/to/some/deep/directory", 20, "...me/deep/directory"},
		{"tiny max clamps to minimum", "/ab", 2, "/ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncatePath(tt.path, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), max(tt.maxLen, 10))
		})
	}
}
