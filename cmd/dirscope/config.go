package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dirscope/dirscope/pkg/dirscope/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage dirscope configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/dirscope/config.yaml (if set)
  2. ~/.config/dirscope/config.yaml

Environment variables can override config file settings using the DIRSCOPE_ prefix:
  DIRSCOPE_SORT_MODE=name
  DIRSCOPE_DASHBOARD_PORT=9000
  DIRSCOPE_HISTORY_RETENTION_DAYS=30`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("default_path:            %s\n", cfg.DefaultPath)
	fmt.Printf("sort_mode:               %s\n", cfg.SortMode)
	fmt.Printf("show_hidden:             %t\n", cfg.ShowHidden)
	fmt.Printf("dashboard.host:          %s\n", cfg.Dashboard.Host)
	fmt.Printf("dashboard.port:          %d\n", cfg.Dashboard.Port)
	fmt.Printf("dashboard.auto_rescan:   %t\n", cfg.Dashboard.AutoRescan)
	fmt.Printf("dashboard.use_trash:     %t\n", cfg.Dashboard.UseTrash)
	fmt.Printf("history.enabled:         %t\n", cfg.History.Enabled)
	fmt.Printf("history.path:            %s\n", cfg.History.Path)
	fmt.Printf("history.retention_days:  %d days\n", cfg.History.RetentionDays)
	fmt.Printf("logging.level:           %s\n", cfg.Logging.Level)

	return nil
}

// runConfigPath displays the configuration file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	fmt.Println(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		printInfo("(file does not exist yet; run 'dirscope config init' to create it)")
	}
	return nil
}

// runConfigInit creates a default configuration file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		printInfo("Config file already exists: %s", path)
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`# dirscope configuration

# Directory scanned when no path argument is given.
default_path: %s

# Listing order: size, name, or date.
sort_mode: %s

# Include dot files in listings.
show_hidden: true

dashboard:
  host: %s
  port: %d
  # Rescan automatically when browsing outside the scanned tree.
  auto_rescan: true
  # Move deletions to the trash instead of removing permanently.
  use_trash: true

history:
  enabled: true
  retention_days: %d

logging:
  level: info
`, config.DefaultPath, config.DefaultSortMode,
		config.DefaultDashboardHost, config.DefaultDashboardPort,
		config.DefaultRetentionDays)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created config file: %s", path)
	return nil
}
