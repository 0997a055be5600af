package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/dirscope/dirscope/pkg/dirscope/types"
)

func resetViperForTest() {
	viper.Reset()
	viper.SetDefault("default_path", ".")
	viper.SetDefault("sort_mode", "size")
	viper.SetDefault("show_hidden", true)
	viper.SetDefault("hide_hidden", false)
	viper.SetDefault("filter", "")
}

func TestBuildCache(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		wantSort types.SortMode
		wantErr  bool
	}{
		{
			name:     "default values",
			setup:    func() { resetViperForTest() },
			wantSort: types.SortBySize,
		},
		{
			name: "sort by name",
			setup: func() {
				resetViperForTest()
				viper.Set("sort_mode", "name")
			},
			wantSort: types.SortByName,
		},
		{
			name: "sort by date",
			setup: func() {
				resetViperForTest()
				viper.Set("sort_mode", "date")
			},
			wantSort: types.SortByDate,
		},
		{
			name: "invalid sort mode",
			setup: func() {
				resetViperForTest()
				viper.Set("sort_mode", "biggest")
			},
			wantErr: true,
		},
		{
			name: "filter applied",
			setup: func() {
				resetViperForTest()
				viper.Set("filter", "mp4")
			},
			wantSort: types.SortBySize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			c, err := buildCache()
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildCache() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := c.SortMode(); got != tt.wantSort {
				t.Errorf("buildCache() sort mode = %v, want %v", got, tt.wantSort)
			}
		})
	}
}

func TestBuildCacheHiddenFlags(t *testing.T) {
	tests := []struct {
		name       string
		showHidden bool
		hideHidden bool
		want       bool
	}{
		{"shown by default", true, false, true},
		{"hide flag wins", true, true, false},
		{"config hides", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViperForTest()
			viper.Set("show_hidden", tt.showHidden)
			viper.Set("hide_hidden", tt.hideHidden)

			c, err := buildCache()
			if err != nil {
				t.Fatalf("buildCache() error = %v", err)
			}
			if got := c.ShowHidden(); got != tt.want {
				t.Errorf("buildCache() show hidden = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveScanPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("argument wins over config", func(t *testing.T) {
		resetViperForTest()
		viper.Set("default_path", "/nonexistent")

		got, err := resolveScanPath([]string{dir})
		if err != nil {
			t.Fatalf("resolveScanPath() error = %v", err)
		}
		if got != dir {
			t.Errorf("resolveScanPath() = %q, want %q", got, dir)
		}
	})

	t.Run("falls back to config default", func(t *testing.T) {
		resetViperForTest()
		viper.Set("default_path", dir)

		got, err := resolveScanPath(nil)
		if err != nil {
			t.Fatalf("resolveScanPath() error = %v", err)
		}
		if got != dir {
			t.Errorf("resolveScanPath() = %q, want %q", got, dir)
		}
	})

	t.Run("missing path errors", func(t *testing.T) {
		resetViperForTest()
		if _, err := resolveScanPath([]string{filepath.Join(dir, "gone")}); err == nil {
			t.Error("expected error for missing path")
		}
	})

	t.Run("file path errors", func(t *testing.T) {
		resetViperForTest()
		if _, err := resolveScanPath([]string{file}); err == nil {
			t.Error("expected error for non-directory path")
		}
	})

	t.Run("relative path resolved to absolute", func(t *testing.T) {
		resetViperForTest()
		got, err := resolveScanPath([]string{"."})
		if err != nil {
			t.Fatalf("resolveScanPath() error = %v", err)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("resolveScanPath() = %q, want absolute path", got)
		}
	})
}

func TestUseLiveProgressDisabled(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"no_progress flag", "no_progress"},
		{"json output", "json"},
		{"quiet mode", "quiet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViperForTest()
			viper.Set(tt.key, true)
			if useLiveProgress() {
				t.Error("useLiveProgress() = true, want false")
			}
		})
	}
}
