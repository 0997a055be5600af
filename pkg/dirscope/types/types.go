// Package types provides core data types for the dirscope disk analyzer.
// It includes the scan entry record, view-state enumerations, progress
// reporting structures, and utilities for parsing and formatting sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// ScanEntry describes one filesystem object discovered during a scan.
// For directories, Size and ModTime carry the aggregate of the entire
// subtree: Size is the sum of all descendant file sizes and ModTime is
// the maximum ModTime over immediate children.
type ScanEntry struct {
	// Name is the base name of the entry.
	Name string `json:"name"`

	// Path is the canonical absolute path, used as the identity key.
	Path string `json:"path"`

	// Size is the byte length for files and the aggregate subtree size
	// for directories. Symlinks and unreadable entries carry 0.
	Size int64 `json:"size"`

	// IsDir reports whether the entry is a directory.
	IsDir bool `json:"is_dir"`

	// Hidden reports whether the entry is hidden (dot-prefixed name on
	// POSIX, hidden attribute on Windows).
	Hidden bool `json:"is_hidden"`

	// ModTime is the last modification time as UnixNano. Zero for
	// symlinks and entries whose metadata could not be read.
	ModTime int64 `json:"mtime"`
}

// HumanSize returns the entry size formatted as a human-readable string.
func (e *ScanEntry) HumanSize() string {
	return FormatSize(e.Size)
}

// SortMode selects the ordering applied to directory views.
type SortMode int

// Sort modes, in cycle order.
const (
	SortBySize SortMode = iota // size descending
	SortByName                 // name ascending, case-insensitive
	SortByDate                 // modification time descending
)

// String returns the string representation of the sort mode.
func (m SortMode) String() string {
	switch m {
	case SortBySize:
		return "size"
	case SortByName:
		return "name"
	case SortByDate:
		return "date"
	default:
		return "unknown"
	}
}

// Next returns the sort mode that follows m in the size, name, date cycle.
func (m SortMode) Next() SortMode {
	switch m {
	case SortBySize:
		return SortByName
	case SortByName:
		return SortByDate
	default:
		return SortBySize
	}
}

// ErrInvalidSortMode is returned when a sort mode string is not recognized.
var ErrInvalidSortMode = errors.New("invalid sort mode")

// ParseSortMode parses a string into a SortMode.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "size":
		return SortBySize, nil
	case "name":
		return SortByName, nil
	case "date":
		return SortByDate, nil
	default:
		return SortBySize, fmt.Errorf("%w: %q", ErrInvalidSortMode, s)
	}
}

// AgeCategory buckets an entry by how long ago it was modified.
type AgeCategory string

// Age categories as served to display layers.
const (
	AgeUnknown AgeCategory = "unknown" // no mtime recorded
	AgeOld     AgeCategory = "old"     // older than a year
	AgeMedium  AgeCategory = "medium"  // between 3 and 12 months
	AgeRecent  AgeCategory = "recent"  // within 3 months
)

// AgeOf categorizes a UnixNano mtime against the given wall-clock time.
func AgeOf(mtime int64, now time.Time) AgeCategory {
	if mtime == 0 {
		return AgeUnknown
	}
	age := now.Sub(time.Unix(0, mtime))
	switch {
	case age > 365*24*time.Hour:
		return AgeOld
	case age > 90*24*time.Hour:
		return AgeMedium
	default:
		return AgeRecent
	}
}

// ScanError pairs a path with the error message encountered there.
type ScanError struct {
	// Path is the file or directory path where the error occurred.
	Path string `json:"path"`

	// Error is the message describing what went wrong.
	Error string `json:"error"`
}

// ScanProgress is a best-effort snapshot of a running scan. It is written
// by the scanning goroutines and read by a display consumer; exact values
// carry no consistency guarantee.
type ScanProgress struct {
	// DirsScanned is the number of directories visited so far.
	DirsScanned int64 `json:"dirs_scanned"`

	// FilesScanned is the number of files examined so far.
	FilesScanned int64 `json:"files_scanned"`

	// BytesScanned is the total bytes of all files examined so far.
	BytesScanned int64 `json:"bytes_scanned"`

	// CurrentPath is the directory currently being walked.
	CurrentPath string `json:"current_path"`

	// WalkComplete indicates traversal is finished and aggregation is
	// running.
	WalkComplete bool `json:"walk_complete,omitempty"`
}

// sizePattern matches size strings like "100M", "2G", "1.5GiB".
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that a size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns bytes.
// Plain numbers, "512B", "100K"/"100KiB", "50M", "2G" and "1T" forms are
// accepted; decimal values are truncated to the nearest byte.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a byte count to a human-readable string using
// binary (IEC) units.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
