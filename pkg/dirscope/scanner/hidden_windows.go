//go:build windows

package scanner

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

// IsHidden reports whether the path names a hidden entry. Windows entries
// are hidden when they carry FILE_ATTRIBUTE_HIDDEN; dot-prefixed names
// are honored as well for tools that follow the POSIX convention.
func IsHidden(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}

	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
