package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dirscope/dirscope/pkg/dirscope/cache"
)

var largestLimit int

var largestCmd = &cobra.Command{
	Use:   "largest [path]",
	Short: "List the largest files in a tree",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLargest,
}

func init() {
	largestCmd.Flags().IntVarP(&largestLimit, "limit", "l", 20, "maximum number of files to show")
	rootCmd.AddCommand(largestCmd)
}

func runLargest(_ *cobra.Command, args []string) error {
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

	var scanErr error
	if useLiveProgress() {
		_, scanErr = scanWithProgress(ctx, c, absPath)
	} else {
		_, scanErr = c.ScanDirectoryTree(ctx, absPath, nil)
	}
	if scanErr != nil {
		return fmt.Errorf("scan failed: %w", scanErr)
	}

	files := c.LargestFiles("", largestLimit)

	if viper.GetBool("json") {
		return json.NewEncoder(os.Stdout).Encode(files)
	}

	printFileResults(c, files)
	return nil
}

// printFileResults renders search or largest-files hits, one per line.
func printFileResults(c *cache.DirectoryCache, files []cache.SearchResult) {
	if len(files) == 0 {
		printInfo("No files found.")
		return
	}

	for _, f := range files {
		label := ageLabel(cache.AgeCategory(f.ModTime))
		if label != "" {
			label = "  (" + label + ")"
		}
		fmt.Printf("  %10s  %s/%s%s\n",
			humanize.Bytes(uint64(f.Size)), f.RelDir, f.Name, label)
	}
}
