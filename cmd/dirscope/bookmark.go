package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dirscope/dirscope/pkg/dirscope/bookmarks"
)

var bookmarkCmd = &cobra.Command{
	Use:     "bookmark [index]",
	Aliases: []string{"bm"},
	Short:   "Manage saved locations",
	Long: `List saved locations, or print the path of one by its number.

Printing a single bookmark writes only the path to stdout, so it works
in command substitution:
  cd "$(dirscope bookmark 2)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBookmark,
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Save a location",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookmarkAdd,
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:     "remove <index>",
	Aliases: []string{"rm"},
	Short:   "Remove a saved location by its index",
	Args:    cobra.ExactArgs(1),
	RunE:    runBookmarkRemove,
}

func init() {
	bookmarkCmd.AddCommand(bookmarkAddCmd)
	bookmarkCmd.AddCommand(bookmarkRemoveCmd)
	rootCmd.AddCommand(bookmarkCmd)
}

func bookmarkStore() *bookmarks.Store {
	return bookmarks.NewStore(bookmarks.DefaultPath())
}

func runBookmark(_ *cobra.Command, args []string) error {
	if len(args) == 1 {
		return runBookmarkGet(args[0])
	}

	marks, err := bookmarkStore().List()
	if err != nil {
		return fmt.Errorf("failed to load bookmarks: %w", err)
	}

	if len(marks) == 0 {
		printInfo("No bookmarks saved.")
		printInfo("Use 'dirscope bookmark add <path>' to save one.")
		return nil
	}

	for i, m := range marks {
		fmt.Printf("  %2d. %s\n", i+1, m)
	}
	return nil
}

// runBookmarkGet prints the bookmarked path at the 1-based index, bare,
// for use in command substitution.
func runBookmarkGet(arg string) error {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid index %q", arg)
	}

	path, err := bookmarkStore().Get(index)
	if err != nil {
		return fmt.Errorf("failed to get bookmark: %w", err)
	}

	fmt.Println(path)
	return nil
}

func runBookmarkAdd(_ *cobra.Command, args []string) error {
	abs, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	index, err := bookmarkStore().Add(abs)
	if err != nil {
		if errors.Is(err, bookmarks.ErrDuplicate) {
			printInfo("Already bookmarked: %s", abs)
			return nil
		}
		return fmt.Errorf("failed to add bookmark: %w", err)
	}

	printInfo("Saved as bookmark %d: %s", index, abs)
	return nil
}

func runBookmarkRemove(_ *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}

	removed, err := bookmarkStore().Remove(index)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}

	printInfo("Removed: %s", removed)
	return nil
}
