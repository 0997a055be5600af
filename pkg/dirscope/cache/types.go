package cache

// ExtensionStat is one bucket of the per-extension size breakdown.
type ExtensionStat struct {
	// Extension is the lowercase extension including the leading dot,
	// or NoExtension for files without one.
	Extension string `json:"extension"`

	// Size is the summed byte size of all files in the bucket.
	Size int64 `json:"size"`
}

// NoExtension labels the bucket for files without an extension.
const NoExtension = "no extension"

// DuplicateGroup is a set of files judged identical by size plus a
// partial content digest.
type DuplicateGroup struct {
	// Size is the common byte size of every member.
	Size int64 `json:"size"`

	// Paths lists the member file paths.
	Paths []string `json:"paths"`

	// Wasted is Size times (len(Paths) - 1): the bytes reclaimable by
	// keeping a single copy.
	Wasted int64 `json:"wasted"`
}

// SearchResult is one hit from SearchFiles or LargestFiles.
type SearchResult struct {
	// Path is the absolute path of the hit.
	Path string `json:"path"`

	// Name is the base name.
	Name string `json:"name"`

	// Size is the cached size (aggregate for directories).
	Size int64 `json:"size"`

	// IsDir reports whether the hit is a directory.
	IsDir bool `json:"is_dir"`

	// Hidden reports whether the hit is hidden.
	Hidden bool `json:"is_hidden"`

	// ModTime is the cached mtime as UnixNano.
	ModTime int64 `json:"mtime"`

	// RelDir is the hit's containing directory relative to the search
	// scope, starting with ".".
	RelDir string `json:"relative_path"`
}

// Totals summarizes everything held by the cache.
type Totals struct {
	// Files and Dirs count the cached entries by kind.
	Files int64 `json:"file_count"`
	Dirs  int64 `json:"folder_count"`

	// Size is the aggregate size of the scan root.
	Size int64 `json:"total_size"`
}
