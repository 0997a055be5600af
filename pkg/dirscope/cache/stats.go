package cache

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dirscope/dirscope/pkg/dirscope/types"
)

// maxExtensionBuckets caps the extension breakdown at the largest buckets.
const maxExtensionBuckets = 15

// ExtensionStats buckets the cached files under dirPath by lowercase
// extension and returns the top buckets by summed size, descending. Files
// without an extension fall into the NoExtension bucket. An empty dirPath
// targets the scan root.
func (c *DirectoryCache) ExtensionStats(dirPath string) []ExtensionStat {
	c.mu.RLock()
	defer c.mu.RUnlock()

	target := c.scanRoot
	if dirPath != "" {
		target = normalize(dirPath)
	}
	if target == "" {
		return nil
	}

	buckets := make(map[string]int64)
	for path, size := range c.sizes {
		if !underTarget(path, target) || !c.isFileLocked(path) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == "" {
			ext = NoExtension
		}
		buckets[ext] += size
	}

	stats := make([]ExtensionStat, 0, len(buckets))
	for ext, size := range buckets {
		stats = append(stats, ExtensionStat{Extension: ext, Size: size})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Size != stats[j].Size {
			return stats[i].Size > stats[j].Size
		}
		return stats[i].Extension < stats[j].Extension
	})

	if len(stats) > maxExtensionBuckets {
		stats = stats[:maxExtensionBuckets]
	}
	return stats
}

// AgeCategory buckets a cached mtime by its age at call time, not scan
// time.
func AgeCategory(mtime int64) types.AgeCategory {
	return types.AgeOf(mtime, time.Now())
}
