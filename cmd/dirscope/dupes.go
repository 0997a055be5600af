package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dirscope/dirscope/pkg/dirscope/types"
)

var dupesCmd = &cobra.Command{
	Use:   "dupes [path]",
	Short: "Find duplicate files",
	Long: `Scan a directory tree and report groups of files that are almost
certainly identical: same size and the same leading 64 KiB of content.

Groups are ordered by reclaimable space, largest first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDupes,
}

func init() {
	rootCmd.AddCommand(dupesCmd)
}

func runDupes(_ *cobra.Command, args []string) error {
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

	groups := c.FindDuplicates("")

	if viper.GetBool("json") {
		return json.NewEncoder(os.Stdout).Encode(groups)
	}

	if len(groups) == 0 {
		printInfo("No duplicates found.")
		return nil
	}

	var wasted int64
	for _, g := range groups {
		wasted += g.Wasted
	}

	printInfo("\n%d duplicate groups, %s reclaimable\n", len(groups), humanize.Bytes(uint64(wasted)))
	for _, g := range groups {
		fmt.Printf("%s each, %d copies, %s wasted:\n",
			humanize.Bytes(uint64(g.Size)),
			len(g.Paths),
			humanize.Bytes(uint64(g.Wasted)),
		)
		for _, p := range g.Paths {
			fmt.Printf("  %s\n", p)
		}
		fmt.Println()
	}

	return nil
}

// ageLabel is shared output decoration for age categories.
func ageLabel(cat types.AgeCategory) string {
	switch cat {
	case types.AgeOld:
		return "old"
	case types.AgeMedium:
		return "aging"
	case types.AgeRecent:
		return "recent"
	default:
		return ""
	}
}
