package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dirscope/dirscope/pkg/dirscope/config"
	"github.com/dirscope/dirscope/pkg/dirscope/logging"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "dirscope [path]",
		Short: "Analyze where your disk space went",
		Long: `Dirscope scans a directory tree once and answers questions about it
from memory: what is biggest, what is duplicated, where a file hides.

Examples:
  dirscope                     # Scan current directory
  dirscope ~/Downloads         # Scan a specific directory
  dirscope --sort name .       # List alphabetically
  dirscope serve ~/Downloads   # Scan, then open the web dashboard
  dirscope dupes ~/Photos      # Find duplicate files
  dirscope largest -l 30 .     # Thirty largest files`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/dirscope/config.yaml)")
	rootCmd.PersistentFlags().StringP("sort", "s", "", "sort order: size, name, or date")
	rootCmd.PersistentFlags().StringP("filter", "f", "", "only show entries whose name contains this text")
	rootCmd.PersistentFlags().Bool("hide-hidden", false, "exclude dot files from listings")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "output JSON format")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().Bool("no-progress", false, "disable the live progress display")

	_ = viper.BindPFlag("sort_mode", rootCmd.PersistentFlags().Lookup("sort"))
	_ = viper.BindPFlag("filter", rootCmd.PersistentFlags().Lookup("filter"))
	_ = viper.BindPFlag("hide_hidden", rootCmd.PersistentFlags().Lookup("hide-hidden"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no_progress", rootCmd.PersistentFlags().Lookup("no-progress"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "dirscope"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "dirscope"))
		}
	}

	viper.SetEnvPrefix("DIRSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	_ = viper.ReadInConfig()
}

// initLogging wires the component loggers from the effective config.
func initLogging() error {
	level := viper.GetString("logging.level")
	consoleLevel := ""
	if getVerbose() {
		level = "debug"
		consoleLevel = "debug"
	}

	path := viper.GetString("logging.path")
	if path == "" {
		if err := config.EnsureStateDir(); err != nil {
			return err
		}
		path = config.DefaultLogPath()
	}

	return logging.Init(logging.Config{
		Level:        level,
		Path:         path,
		Components:   viper.GetStringMapString("logging.components"),
		ConsoleLevel: consoleLevel,
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}
