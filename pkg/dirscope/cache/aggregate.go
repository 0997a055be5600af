package cache

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dirscope/dirscope/pkg/dirscope/scanner"
	"github.com/dirscope/dirscope/pkg/dirscope/types"
)

// aggregate computes every directory's subtree size and latest mtime from
// the raw walk output and materializes the per-directory child lists.
//
// Directories are processed in strictly decreasing depth order: a
// directory's aggregate is undefined until all of its subdirectories are
// final, while siblings at the same depth are independent and may be
// handled in any order.
func aggregate(res *scanner.Result) (children map[string][]types.ScanEntry, sizes, mtimes map[string]int64) {
	sizes = make(map[string]int64, len(res.Meta))
	mtimes = make(map[string]int64, len(res.Meta))
	children = make(map[string][]types.ScanEntry, len(res.Children))

	// Seed file sizes and mtimes; directories stay at zero until their
	// turn in the depth sweep.
	for path, meta := range res.Meta {
		if !meta.IsDir {
			sizes[path] = meta.Size
			mtimes[path] = meta.Mtime
		}
	}

	dirs := make([]string, 0, len(res.Children))
	for dir := range res.Children {
		dirs = append(dirs, dir)
	}
	sort.Slice(dirs, func(i, j int) bool {
		return depth(dirs[i]) > depth(dirs[j])
	})

	for _, dir := range dirs {
		refs := res.Children[dir]
		entries := make([]types.ScanEntry, 0, len(refs))

		var dirSize, dirMtime int64
		for _, ref := range refs {
			size := sizes[ref.Path]
			mtime := mtimes[ref.Path]

			entries = append(entries, types.ScanEntry{
				Name:    ref.Name,
				Path:    ref.Path,
				Size:    size,
				IsDir:   ref.IsDir,
				Hidden:  scanner.IsHidden(ref.Path),
				ModTime: mtime,
			})

			dirSize += size
			if mtime > dirMtime {
				dirMtime = mtime
			}
		}

		sizes[dir] = dirSize
		mtimes[dir] = dirMtime
		children[dir] = entries
	}

	return children, sizes, mtimes
}

// depth counts path separators; deeper paths carry more of them.
func depth(path string) int {
	return strings.Count(path, string(filepath.Separator))
}
