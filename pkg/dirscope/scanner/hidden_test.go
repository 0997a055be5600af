package scanner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join("home", ".bashrc"), true},
		{filepath.Join("home", ".config"), true},
		{filepath.Join("home", "visible.txt"), false},
		{filepath.Join(".hidden-dir", "visible.txt"), false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHidden(tt.path))
		})
	}
}
