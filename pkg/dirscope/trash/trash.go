// Package trash moves files and directories to the system trash where one
// exists. macOS goes through Finder so "Put Back" keeps working; Linux
// tries gio and trash-put in turn. When no trash facility is available
// the item is removed permanently.
package trash

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// commandTimeout bounds how long a trash helper may run.
const commandTimeout = 30 * time.Second

// Put moves path to the system trash, falling back to permanent removal
// when no trash tool works. The path must exist; a missing path is an
// error so callers never update their bookkeeping for a delete that did
// not happen.
func Put(ctx context.Context, path string) error {
	if _, err := os.Lstat(path); err != nil {
		return fmt.Errorf("cannot trash %q: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve %q: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	switch runtime.GOOS {
	case "darwin":
		return putDarwin(ctx, abs)
	case "linux":
		return putLinux(ctx, abs)
	default:
		return Remove(abs)
	}
}

// putDarwin asks Finder to delete the item.
func putDarwin(ctx context.Context, path string) error {
	script := fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, path)
	if err := exec.CommandContext(ctx, "osascript", "-e", script).Run(); err != nil {
		return Remove(path)
	}
	return nil
}

// putLinux tries the XDG trash tools in preference order.
func putLinux(ctx context.Context, path string) error {
	if gio, err := exec.LookPath("gio"); err == nil {
		if exec.CommandContext(ctx, gio, "trash", path).Run() == nil {
			return nil
		}
	}
	if tp, err := exec.LookPath("trash-put"); err == nil {
		if exec.CommandContext(ctx, tp, path).Run() == nil {
			return nil
		}
	}
	return Remove(path)
}

// Remove permanently deletes a file or directory tree.
func Remove(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("deleting %q: %w", path, err)
	}
	return nil
}
