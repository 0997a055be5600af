// Package config provides configuration management for dirscope.
package config

// Default configuration values.
const (
	// DefaultPath is the path scanned when none is given on the command line.
	DefaultPath = "."

	// DefaultSortMode is the initial listing order.
	DefaultSortMode = "size"

	// DefaultDashboardPort is the port the web dashboard listens on.
	DefaultDashboardPort = 8765

	// DefaultDashboardHost restricts the dashboard to the local machine.
	DefaultDashboardHost = "127.0.0.1"

	// DefaultRetentionDays is how long scan history records are kept.
	DefaultRetentionDays = 90
)
