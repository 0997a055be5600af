// Package fileops performs the filesystem mutations dirscope offers
// (delete, move, copy) and keeps the directory cache consistent with
// them. The filesystem operation always runs first; the cache is updated
// only after it succeeds, so a failed delete or move never removes a live
// entry from the cache.
package fileops

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dirscope/dirscope/pkg/dirscope/cache"
	"github.com/dirscope/dirscope/pkg/dirscope/logging"
	"github.com/dirscope/dirscope/pkg/dirscope/trash"
)

// copyChunkSize is the buffer size for file copies.
const copyChunkSize = 1 << 20

// Ops couples filesystem mutations to cache maintenance.
type Ops struct {
	cache *cache.DirectoryCache
	log   *logging.Logger
}

// New creates an Ops bound to the given cache.
func New(c *cache.DirectoryCache) *Ops {
	return &Ops{
		cache: c,
		log:   logging.Get("fileops"),
	}
}

// Delete removes path from the filesystem, via the system trash when
// useTrash is set, permanently otherwise. On success the path is also
// removed from the cache; on failure the cache is untouched and the error
// is returned to the caller.
func (o *Ops) Delete(ctx context.Context, path string, useTrash bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", path, err)
	}
	if _, err := os.Lstat(abs); err != nil {
		return fmt.Errorf("cannot delete %q: %w", abs, err)
	}

	if useTrash {
		err = trash.Put(ctx, abs)
	} else {
		err = trash.Remove(abs)
	}
	if err != nil {
		o.log.Error("delete failed", "path", abs, "error", err)
		return err
	}

	o.cache.RemoveItem(abs)
	o.log.Info("deleted", "path", abs, "trash", useTrash)
	return nil
}

// Move relocates source to dest. A dest that is an existing directory
// means "into it", keeping the base name. The cache entry for source is
// removed only after the move succeeds; the destination shows up in the
// cache after the next scan of its subtree. Returns the final
// destination path.
func (o *Ops) Move(ctx context.Context, source, dest string) (string, error) {
	source, dest, err := resolvePair(source, dest)
	if err != nil {
		return "", err
	}

	if err := os.Rename(source, dest); err != nil {
		// Cross-device moves fall back to copy and delete.
		if err := copyPath(ctx, source, dest); err != nil {
			return "", fmt.Errorf("moving %q: %w", source, err)
		}
		if err := os.RemoveAll(source); err != nil {
			return "", fmt.Errorf("removing %q after copy: %w", source, err)
		}
	}

	o.cache.RemoveItem(source)
	o.log.Info("moved", "source", source, "dest", dest)
	return dest, nil
}

// Copy duplicates source at dest. A dest that is an existing directory
// means "into it". The cache is not modified: the copy lies outside or
// alongside cached data until the next scan. Returns the final
// destination path.
func (o *Ops) Copy(ctx context.Context, source, dest string) (string, error) {
	source, dest, err := resolvePair(source, dest)
	if err != nil {
		return "", err
	}

	if err := copyPath(ctx, source, dest); err != nil {
		return "", fmt.Errorf("copying %q: %w", source, err)
	}

	o.log.Info("copied", "source", source, "dest", dest)
	return dest, nil
}

// resolvePair normalizes source and dest, expanding a directory dest to
// dest/basename(source).
func resolvePair(source, dest string) (string, string, error) {
	source, err := filepath.Abs(source)
	if err != nil {
		return "", "", fmt.Errorf("resolving %q: %w", source, err)
	}
	dest, err = filepath.Abs(dest)
	if err != nil {
		return "", "", fmt.Errorf("resolving %q: %w", dest, err)
	}

	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, filepath.Base(source))
	}
	return source, dest, nil
}

// copyPath copies a file or a directory tree.
func copyPath(ctx context.Context, source, dest string) error {
	info, err := os.Lstat(source)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return copyTree(ctx, source, dest)
	}
	return copyFile(ctx, source, dest, info.Mode())
}

// copyTree replicates a directory tree. Symlinks are recreated, never
// followed.
func copyTree(ctx context.Context, source, dest string) error {
	return filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			info, err := d.Info()
			if err != nil {
				return err
			}
			return copyFile(ctx, path, target, info.Mode())
		}
	})
}

// copyFile copies one regular file in fixed-size chunks so large files
// respect context cancellation.
func copyFile(ctx context.Context, source, dest string, mode fs.FileMode) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, copyChunkSize)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, readErr := in.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}
	return out.Close()
}
