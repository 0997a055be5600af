package cache

import (
	"io"
	"os"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// hashPrefixSize is how much of each file feeds the duplicate digest.
// Files smaller than this are hashed in full.
const hashPrefixSize = 64 * 1024

// FindDuplicates reports groups of cached files under dirPath that are
// almost certainly identical: equal byte size and an equal xxhash digest
// of the leading 64 KiB. Zero-byte files and sizes held by a single file
// are skipped before any hashing happens.
//
// This is an approximation: two distinct files with the same size and
// the same first 64 KiB are misreported as duplicates. An empty dirPath
// targets the scan root.
func (c *DirectoryCache) FindDuplicates(dirPath string) []DuplicateGroup {
	// Snapshot candidates under the read lock; hashing does file I/O and
	// must not hold it.
	c.mu.RLock()
	target := c.scanRoot
	if dirPath != "" {
		target = normalize(dirPath)
	}
	if target == "" {
		c.mu.RUnlock()
		return nil
	}

	bySize := make(map[int64][]string)
	for path, size := range c.sizes {
		if size <= 0 || !underTarget(path, target) || !c.isFileLocked(path) {
			continue
		}
		bySize[size] = append(bySize[size], path)
	}
	c.mu.RUnlock()

	var groups []DuplicateGroup
	for size, paths := range bySize {
		if len(paths) < 2 {
			continue
		}

		byHash := make(map[uint64][]string)
		for _, path := range paths {
			digest, err := hashPrefix(path)
			if err != nil {
				// Vanished or unreadable since the scan; skip it.
				continue
			}
			byHash[digest] = append(byHash[digest], path)
		}

		for _, members := range byHash {
			if len(members) < 2 {
				continue
			}
			sort.Strings(members)
			groups = append(groups, DuplicateGroup{
				Size:   size,
				Paths:  members,
				Wasted: size * int64(len(members)-1),
			})
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Wasted != groups[j].Wasted {
			return groups[i].Wasted > groups[j].Wasted
		}
		return groups[i].Paths[0] < groups[j].Paths[0]
	})
	return groups
}

// hashPrefix digests the first hashPrefixSize bytes of a file.
func hashPrefix(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, io.LimitReader(f, hashPrefixSize)); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
