//go:build !windows

package scanner

import (
	"path/filepath"
	"strings"
)

// IsHidden reports whether the path names a hidden entry. On POSIX
// systems a dot-prefixed base name is the only convention.
func IsHidden(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") && name != "." && name != string(filepath.Separator)
}
