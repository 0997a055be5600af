package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dirscope/dirscope/cmd/dirscope/tui"
	"github.com/dirscope/dirscope/pkg/dirscope/cache"
	"github.com/dirscope/dirscope/pkg/dirscope/config"
	"github.com/dirscope/dirscope/pkg/dirscope/history"
	"github.com/dirscope/dirscope/pkg/dirscope/types"
)

var (
	dirStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D9FF"))
	hiddenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// runScan is the default command handler: scan a tree and list it.
func runScan(_ *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	absPath, err := resolveScanPath(args)
	if err != nil {
		return err
	}

	c, err := buildCache()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	started := time.Now()

	var entries []types.ScanEntry
	if useLiveProgress() {
		entries, err = scanWithProgress(ctx, c, absPath)
	} else {
		if !getQuiet() && !viper.GetBool("json") {
			printInfo("Scanning %s...", absPath)
		}
		entries, err = c.ScanDirectoryTree(ctx, absPath, nil)
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	recordScan(c, started)

	if viper.GetBool("json") {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	printListing(c, absPath, entries)
	return nil
}

// resolveScanPath picks the scan root from args or config and validates it.
func resolveScanPath(args []string) (string, error) {
	scanPath := viper.GetString("default_path")
	if len(args) > 0 {
		scanPath = args[0]
	}
	if scanPath == "" {
		scanPath = "."
	}

	expanded, err := config.ExpandPath(scanPath)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}

	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("path does not exist: %s", absPath)
		}
		return "", fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", absPath)
	}

	return absPath, nil
}

// buildCache creates a cache configured from the effective flags.
func buildCache() (*cache.DirectoryCache, error) {
	c := cache.New()

	sortMode, err := types.ParseSortMode(viper.GetString("sort_mode"))
	if err != nil {
		return nil, fmt.Errorf("invalid sort mode %q: %w", viper.GetString("sort_mode"), err)
	}
	c.SetSortMode(sortMode)

	showHidden := viper.GetBool("show_hidden") && !viper.GetBool("hide_hidden")
	c.SetShowHidden(showHidden)

	if filter := viper.GetString("filter"); filter != "" {
		c.SetFilter(filter)
	}

	return c, nil
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// useLiveProgress reports whether the animated progress display should run.
func useLiveProgress() bool {
	if viper.GetBool("no_progress") || viper.GetBool("json") || getQuiet() {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// scanWithProgress runs the scan behind a Bubble Tea progress display.
func scanWithProgress(ctx context.Context, c *cache.DirectoryCache, absPath string) ([]types.ScanEntry, error) {
	p := tea.NewProgram(tui.NewProgressModel(absPath))

	var entries []types.ScanEntry
	var scanErr error
	go func() {
		entries, scanErr = c.ScanDirectoryTree(ctx, absPath, func(pr types.ScanProgress) {
			p.Send(tui.ProgressMsg(pr))
		})
		p.Send(tui.DoneMsg{Err: scanErr})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := finalModel.(tui.ProgressModel); ok && m.Err() != nil {
		return nil, m.Err()
	}
	return entries, scanErr
}

// recordScan appends a summary to the scan history store. History failures
// never fail the scan itself.
func recordScan(c *cache.DirectoryCache, started time.Time) {
	if !viper.GetBool("history.enabled") {
		return
	}

	store, err := openHistory()
	if err != nil {
		printVerboseHistoryError(err)
		return
	}
	defer store.Close()

	totals := c.Totals()
	_, err = store.Append(history.Record{
		Root:      c.Root(),
		TotalSize: totals.Size,
		Files:     totals.Files,
		Dirs:      totals.Dirs,
		Elapsed:   time.Since(started),
		StartedAt: started,
	})
	if err != nil {
		printVerboseHistoryError(err)
	}
}

func printVerboseHistoryError(err error) {
	if getVerbose() {
		fmt.Fprintf(os.Stderr, "history: %v\n", err)
	}
}

// printListing renders the root folder view.
func printListing(c *cache.DirectoryCache, absPath string, entries []types.ScanEntry) {
	totals := c.Totals()
	printInfo("\n%s  %s (%s files, %s folders)",
		absPath,
		humanize.Bytes(uint64(totals.Size)),
		humanize.Comma(totals.Files),
		humanize.Comma(totals.Dirs),
	)

	if len(entries) == 0 {
		printInfo("  (empty)")
		return
	}

	for _, e := range entries {
		name := e.Name
		if e.IsDir {
			name = dirStyle.Render(name + "/")
		} else if e.Hidden {
			name = hiddenStyle.Render(name)
		}
		fmt.Printf("  %10s  %s\n", humanize.Bytes(uint64(e.Size)), name)
	}
}
