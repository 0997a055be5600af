package dashboard

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/disk"

	"github.com/dirscope/dirscope/pkg/dirscope/bookmarks"
	"github.com/dirscope/dirscope/pkg/dirscope/cache"
	"github.com/dirscope/dirscope/pkg/dirscope/fileops"
	"github.com/dirscope/dirscope/pkg/dirscope/logging"
)

// Handlers holds the HTTP handlers for the dashboard API.
type Handlers struct {
	cache    *cache.DirectoryCache
	ops      *fileops.Ops
	marks    *bookmarks.Store
	useTrash bool
	rescan   bool
	log      *logging.Logger

	// scanMu serializes rescans so concurrent requests cannot race a
	// clear-and-repopulate against each other.
	scanMu sync.Mutex
}

// NewHandlers creates the handler set for the given cache.
func NewHandlers(c *cache.DirectoryCache, marks *bookmarks.Store, useTrash, autoRescan bool) *Handlers {
	return &Handlers{
		cache:    c,
		ops:      fileops.New(c),
		marks:    marks,
		useTrash: useTrash,
		rescan:   autoRescan,
		log:      logging.Get("dashboard"),
	}
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"scan_root": h.cache.Root(),
	})
}

// GetFolder handles GET /api/folder?path=...
// Navigating outside the cached tree triggers a rescan rooted at the new
// path when auto-rescan is enabled.
func (h *Handlers) GetFolder(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		path = h.cache.Root()
	}
	if path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no scan loaded"})
		return
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "not a directory"})
		return
	}

	if !h.cache.IsInScope(abs) && h.rescan {
		if err := h.rescanPath(c, abs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	items, ok := h.cache.GetDirectory(abs)
	if !ok {
		if !h.rescan {
			c.JSON(http.StatusNotFound, gin.H{"error": "path not in cache"})
			return
		}
		if err := h.rescanPath(c, abs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if items, ok = h.cache.GetDirectory(abs); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "path not in cache"})
			return
		}
	}

	var totalSize int64
	fileCount, folderCount := 0, 0
	for _, item := range items {
		totalSize += item.Size
		if item.IsDir {
			folderCount++
		} else {
			fileCount++
		}
	}

	children := make([]ChildPayload, 0, len(items))
	for i, item := range items {
		pct := 0.0
		if totalSize > 0 {
			pct = float64(item.Size) / float64(totalSize) * 100
		}
		children = append(children, ChildPayload{
			Name:       item.Name,
			Path:       item.Path,
			Size:       item.Size,
			SizeHuman:  humanize.Bytes(uint64(item.Size)),
			Percentage: round1(pct),
			IsDir:      item.IsDir,
			IsHidden:   item.Hidden,
			ModTime:    item.ModTime,
			Color:      chartColors[i%len(chartColors)],
		})
	}

	parent := filepath.Dir(abs)
	payload := FolderPayload{
		Path:           abs,
		Name:           baseName(abs),
		TotalSize:      totalSize,
		TotalSizeHuman: humanize.Bytes(uint64(totalSize)),
		ScanRoot:       h.cache.Root(),
		Breadcrumbs:    h.breadcrumbs(abs),
		Children:       children,
		FileCount:      fileCount,
		FolderCount:    folderCount,
	}
	if parent != abs {
		payload.Parent = parent
	}

	c.JSON(http.StatusOK, payload)
}

// GetStats handles GET /api/stats.
func (h *Handlers) GetStats(c *gin.Context) {
	root := h.cache.Root()
	if root == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no scan loaded"})
		return
	}

	totals := h.cache.Totals()
	payload := StatsPayload{
		ScanRoot:       root,
		ScanRootName:   baseName(root),
		TotalSize:      totals.Size,
		TotalSizeHuman: humanize.Bytes(uint64(totals.Size)),
		FileCount:      totals.Files,
		FolderCount:    totals.Dirs,
	}

	if usage, err := disk.Usage(root); err == nil {
		payload.DiskTotal = usage.Total
		payload.DiskFree = usage.Free
		payload.DiskUsedPct = round1(usage.UsedPercent)
	}

	c.JSON(http.StatusOK, payload)
}

// GetExtensions handles GET /api/extensions?path=...
func (h *Handlers) GetExtensions(c *gin.Context) {
	stats := h.cache.ExtensionStats(c.Query("path"))

	var total int64
	for _, s := range stats {
		total += s.Size
	}

	payload := make([]ExtensionPayload, 0, len(stats))
	for _, s := range stats {
		pct := 0.0
		if total > 0 {
			pct = float64(s.Size) / float64(total) * 100
		}
		payload = append(payload, ExtensionPayload{
			Extension:  s.Extension,
			Size:       s.Size,
			SizeHuman:  humanize.Bytes(uint64(s.Size)),
			Percentage: round1(pct),
		})
	}

	c.JSON(http.StatusOK, payload)
}

// GetLargest handles GET /api/largest?path=...&limit=N.
func (h *Handlers) GetLargest(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	files := h.cache.LargestFiles(c.Query("path"), limit)
	payload := make([]FilePayload, 0, len(files))
	for _, f := range files {
		payload = append(payload, FilePayload{
			Path:         f.Path,
			Name:         f.Name,
			Size:         f.Size,
			SizeHuman:    humanize.Bytes(uint64(f.Size)),
			RelativePath: f.RelDir,
			ModTime:      f.ModTime,
		})
	}

	c.JSON(http.StatusOK, payload)
}

// GetDuplicates handles GET /api/duplicates.
func (h *Handlers) GetDuplicates(c *gin.Context) {
	groups := h.cache.FindDuplicates(c.Query("path"))

	payload := make([]DuplicatePayload, 0, len(groups))
	for _, g := range groups {
		members := make([]DuplicateMember, 0, len(g.Paths))
		for _, p := range g.Paths {
			members = append(members, DuplicateMember{
				Path: p,
				Name: filepath.Base(p),
				Dir:  filepath.Dir(p),
			})
		}
		payload = append(payload, DuplicatePayload{
			Files:            members,
			FileSize:         g.Size,
			FileSizeHuman:    humanize.Bytes(uint64(g.Size)),
			WastedSpace:      g.Wasted,
			WastedSpaceHuman: humanize.Bytes(uint64(g.Wasted)),
			Count:            len(g.Paths),
		})
	}

	c.JSON(http.StatusOK, payload)
}

// Search handles GET /api/search?q=...
func (h *Handlers) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})
		return
	}

	results := h.cache.SearchFiles(query, "")
	payload := make([]FilePayload, 0, len(results))
	for _, r := range results {
		payload = append(payload, FilePayload{
			Path:         r.Path,
			Name:         r.Name,
			Size:         r.Size,
			SizeHuman:    humanize.Bytes(uint64(r.Size)),
			IsDir:        r.IsDir,
			RelativePath: r.RelDir,
			ModTime:      r.ModTime,
		})
	}

	c.JSON(http.StatusOK, payload)
}

type pathRequest struct {
	Path string `json:"path" binding:"required"`
}

// Rescan handles POST /api/rescan.
func (h *Handlers) Rescan(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rescanPath(c, req.Path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "scan_root": h.cache.Root()})
}

// Delete handles POST /api/delete. The item goes to the trash unless the
// server was configured otherwise.
func (h *Handlers) Delete(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ops.Delete(c.Request.Context(), req.Path, h.useTrash); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListBookmarks handles GET /api/bookmarks.
func (h *Handlers) ListBookmarks(c *gin.Context) {
	marks, err := h.marks.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payload := make([]BookmarkPayload, 0, len(marks))
	for i, m := range marks {
		payload = append(payload, BookmarkPayload{Index: i + 1, Path: m})
	}

	c.JSON(http.StatusOK, payload)
}

// GetBookmark handles GET /api/bookmarks/:index.
func (h *Handlers) GetBookmark(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}

	path, err := h.marks.Get(index)
	if err != nil {
		status := http.StatusInternalServerError
		if err == bookmarks.ErrInvalidIndex {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, BookmarkPayload{Index: index, Path: path})
}

// AddBookmark handles POST /api/bookmarks.
func (h *Handlers) AddBookmark(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	index, err := h.marks.Add(req.Path)
	if err != nil {
		status := http.StatusInternalServerError
		if err == bookmarks.ErrDuplicate {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, BookmarkPayload{Index: index, Path: req.Path})
}

// RemoveBookmark handles DELETE /api/bookmarks/:index.
func (h *Handlers) RemoveBookmark(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}

	removed, err := h.marks.Remove(index)
	if err != nil {
		status := http.StatusInternalServerError
		if err == bookmarks.ErrInvalidIndex {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "path": removed})
}

func (h *Handlers) rescanPath(c *gin.Context, path string) error {
	h.scanMu.Lock()
	defer h.scanMu.Unlock()

	h.log.Info("rescanning", "path", path)
	_, err := h.cache.ScanDirectoryTree(c.Request.Context(), path, nil)
	return err
}

// breadcrumbs walks from path up to the filesystem root, oldest first.
func (h *Handlers) breadcrumbs(path string) []Breadcrumb {
	root := h.cache.Root()

	var crumbs []Breadcrumb
	current := path
	for {
		crumbs = append([]Breadcrumb{{
			Name:    baseName(current),
			Path:    current,
			InCache: root != "" && h.cache.IsInScope(current),
		}}, crumbs...)

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return crumbs
}

// baseName is filepath.Base except the filesystem root reports itself.
func baseName(path string) string {
	name := filepath.Base(path)
	if name == string(filepath.Separator) {
		return path
	}
	return name
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
