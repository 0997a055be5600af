package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dirscope/dirscope/pkg/dashboard"
	"github.com/dirscope/dirscope/pkg/dirscope/bookmarks"
	"github.com/dirscope/dirscope/pkg/dirscope/config"
	"github.com/dirscope/dirscope/pkg/dirscope/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Scan a directory and serve the web dashboard",
	Long: `Scan the given path, then serve a local HTTP API for browsing the
results: folder views, extension breakdowns, duplicates, and search.

The dashboard keeps the cache warm: deletions through the API update it
in place, and navigating outside the scanned tree triggers a rescan
unless --no-rescan is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on")
	serveCmd.Flags().String("host", "", "address to bind")
	serveCmd.Flags().Bool("no-rescan", false, "never rescan when navigating outside the scanned tree")
	serveCmd.Flags().Bool("no-trash", false, "delete permanently instead of using the trash")
	serveCmd.Flags().Bool("watch", false, "mirror filesystem deletions into the cache while serving")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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

	printInfo("Scanning %s...", absPath)
	if _, err := c.ScanDirectoryTree(ctx, absPath, nil); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		w, err := watcher.New(c)
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer w.Close()
		if err := w.WatchScanned(); err != nil {
			return err
		}
		go w.Run(ctx)
	}

	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dashCfg := appCfg.Dashboard
	if cmd.Flags().Changed("port") {
		dashCfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("host") {
		dashCfg.Host, _ = cmd.Flags().GetString("host")
	}

	noRescan, _ := cmd.Flags().GetBool("no-rescan")
	noTrash, _ := cmd.Flags().GetBool("no-trash")
	dashCfg.AutoRescan = dashCfg.AutoRescan && !noRescan
	dashCfg.UseTrash = dashCfg.UseTrash && !noTrash

	srv := dashboard.New(dashCfg, c, bookmarks.NewStore(bookmarks.DefaultPath()))
	printInfo("Dashboard on http://%s (Ctrl-C to stop)", srv.Addr())

	return srv.Run(ctx)
}
