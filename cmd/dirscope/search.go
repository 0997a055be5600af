package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var searchCmd = &cobra.Command{
	Use:   "search <text> [path]",
	Short: "Find files and folders by name",
	Long: `Scan a tree and list every entry whose name contains the given text,
case-insensitively, biggest first. At most 100 hits are shown.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	query := args[0]
	absPath, err := resolveScanPath(args[1:])
	if err != nil {
		return err
	}

	c, err := buildCache()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var scanErr error
	if useLiveProgress() {
		_, scanErr = scanWithProgress(ctx, c, absPath)
	} else {
		_, scanErr = c.ScanDirectoryTree(ctx, absPath, nil)
	}
	if scanErr != nil {
		return fmt.Errorf("scan failed: %w", scanErr)
	}

	results := c.SearchFiles(query, "")

	if viper.GetBool("json") {
		return json.NewEncoder(os.Stdout).Encode(results)
	}

	printFileResults(c, results)
	return nil
}
