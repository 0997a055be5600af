package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Components map[string]string `mapstructure:"components"`
}

// DashboardConfig configures the web dashboard.
type DashboardConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	AutoRescan bool   `mapstructure:"auto_rescan"`
	UseTrash   bool   `mapstructure:"use_trash"`
}

// HistoryConfig configures the scan history store.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	DefaultPath string          `mapstructure:"default_path"`
	SortMode    string          `mapstructure:"sort_mode"`
	ShowHidden  bool            `mapstructure:"show_hidden"`
	Dashboard   DashboardConfig `mapstructure:"dashboard"`
	History     HistoryConfig   `mapstructure:"history"`
	Logging     LoggingConfig   `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/dirscope/config.yaml
//   - $HOME/.config/dirscope/config.yaml
//
// Environment variables are prefixed with DIRSCOPE_ (e.g., DIRSCOPE_SORT_MODE).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "dirscope"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "dirscope"))

	v.SetEnvPrefix("DIRSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.HasPrefix(cfg.History.Path, "~") {
		cfg.History.Path = filepath.Join(homeDir, cfg.History.Path[1:])
	}

	return &cfg, nil
}

// SetDefaults registers every configuration default on v. Load and the
// CLI's flag-bound viper both go through here so defaults exist in one
// place.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("sort_mode", DefaultSortMode)
	v.SetDefault("show_hidden", true)

	v.SetDefault("dashboard.host", DefaultDashboardHost)
	v.SetDefault("dashboard.port", DefaultDashboardPort)
	v.SetDefault("dashboard.auto_rescan", true)
	v.SetDefault("dashboard.use_trash", true)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", DefaultHistoryPath())
	v.SetDefault("history.retention_days", DefaultRetentionDays)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.components", map[string]string{
		"scanner":   "info",
		"cache":     "info",
		"watcher":   "warn",
		"dashboard": "info",
		"fileops":   "info",
	})
}

// Dir returns the configuration directory path.
func Dir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "dirscope"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "dirscope"), nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/dirscope/ for bookmarks and history.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "dirscope")
}

// StateDir returns $XDG_STATE_HOME/dirscope/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "dirscope")
}

// DefaultHistoryPath returns the default scan history database path.
func DefaultHistoryPath() string {
	return filepath.Join(DataDir(), "history")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "dirscope.log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
