package dashboard

// Breadcrumb is one segment of the path shown above the folder listing.
type Breadcrumb struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	InCache bool   `json:"in_cache"`
}

// ChildPayload is a single entry in a folder listing.
type ChildPayload struct {
	Name       string  `json:"name"`
	Path       string  `json:"path"`
	Size       int64   `json:"size"`
	SizeHuman  string  `json:"size_human"`
	Percentage float64 `json:"percentage"`
	IsDir      bool    `json:"is_dir"`
	IsHidden   bool    `json:"is_hidden"`
	ModTime    int64   `json:"mtime"`
	Color      string  `json:"color"`
}

// FolderPayload is the response for a folder view.
type FolderPayload struct {
	Path           string         `json:"path"`
	Name           string         `json:"name"`
	TotalSize      int64          `json:"total_size"`
	TotalSizeHuman string         `json:"total_size_human"`
	Parent         string         `json:"parent,omitempty"`
	ScanRoot       string         `json:"scan_root"`
	Breadcrumbs    []Breadcrumb   `json:"breadcrumbs"`
	Children       []ChildPayload `json:"children"`
	FileCount      int            `json:"file_count"`
	FolderCount    int            `json:"folder_count"`
}

// StatsPayload summarizes the whole scan plus the disk it lives on.
type StatsPayload struct {
	ScanRoot       string  `json:"scan_root"`
	ScanRootName   string  `json:"scan_root_name"`
	TotalSize      int64   `json:"total_size"`
	TotalSizeHuman string  `json:"total_size_human"`
	FileCount      int64   `json:"file_count"`
	FolderCount    int64   `json:"folder_count"`
	DiskTotal      uint64  `json:"disk_total"`
	DiskFree       uint64  `json:"disk_free"`
	DiskUsedPct    float64 `json:"disk_used_percent"`
}

// ExtensionPayload is one slice of the extension breakdown.
type ExtensionPayload struct {
	Extension  string  `json:"extension"`
	Size       int64   `json:"size"`
	SizeHuman  string  `json:"size_human"`
	Percentage float64 `json:"percentage"`
}

// FilePayload is a single file in largest-files or search responses.
type FilePayload struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	SizeHuman    string `json:"size_human"`
	IsDir        bool   `json:"is_dir"`
	RelativePath string `json:"relative_path"`
	ModTime      int64  `json:"mtime"`
}

// DuplicateMember is one file inside a duplicate group.
type DuplicateMember struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Dir  string `json:"dir"`
}

// DuplicatePayload is one group of identical files.
type DuplicatePayload struct {
	Files            []DuplicateMember `json:"files"`
	FileSize         int64             `json:"file_size"`
	FileSizeHuman    string            `json:"file_size_human"`
	WastedSpace      int64             `json:"wasted_space"`
	WastedSpaceHuman string            `json:"wasted_space_human"`
	Count            int               `json:"count"`
}

// BookmarkPayload is one saved location.
type BookmarkPayload struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
}

// chartColors is the palette cycled through pie chart slices.
var chartColors = []string{
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF",
	"#FF9F40", "#FF6384", "#C9CBCF", "#7BC225", "#E7E9ED",
	"#F7464A", "#46BFBD", "#FDB45C", "#949FB1", "#4D5360",
	"#AC64AD", "#63FF7B", "#FF6347", "#40E0D0", "#EE82EE",
}
