package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dirscope/dirscope/pkg/dirscope/config"
	"github.com/dirscope/dirscope/pkg/dirscope/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past scan summaries",
	Long: `View summaries of previous scans: what was scanned, how big it was,
and how long it took. Only summaries are stored, never file listings.`,
	RunE: runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove scan summaries older than the retention period",
	RunE:  runHistoryPrune,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistory opens the scan history store at the configured path. The
// config file is the source of truth; if it cannot be loaded, the default
// location is used.
func openHistory() (*history.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		if err := config.EnsureDataDir(); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return history.Open(config.DefaultHistoryPath())
	}

	if cfg.History.Path == config.DefaultHistoryPath() {
		if err := config.EnsureDataDir(); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return history.Open(cfg.History.Path)
}

func runHistory(_ *cobra.Command, _ []string) error {
	store, err := openHistory()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	records, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(records) == 0 {
		printInfo("No scan history yet.")
		printInfo("Run 'dirscope [path]' to scan a directory.")
		return nil
	}

	fmt.Printf("\n%-19s  %-10s  %-9s  %-9s  %s\n", "WHEN", "SIZE", "FILES", "FOLDERS", "PATH")
	fmt.Println(strings.Repeat("-", 80))

	for _, r := range records {
		fmt.Printf("%-19s  %-10s  %-9d  %-9d  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"),
			humanize.Bytes(uint64(r.TotalSize)),
			r.Files,
			r.Dirs,
			r.Root,
		)
	}

	return nil
}

func runHistoryPrune(_ *cobra.Command, _ []string) error {
	store, err := openHistory()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	retention := viper.GetInt("history.retention_days")
	cutoff := time.Now().AddDate(0, 0, -retention)

	removed, err := store.Prune(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	printInfo("Removed %d entries older than %d days.", removed, retention)
	return nil
}
