package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenHistoryUsesConfiguredPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "scan-history")
	t.Setenv("DIRSCOPE_HISTORY_PATH", path)

	store, err := openHistory()
	if err != nil {
		t.Fatalf("openHistory() error = %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected history store at %q: %v", path, err)
	}
}

func TestOpenHistoryFromConfigFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	storePath := filepath.Join(t.TempDir(), "hist")
	configDir := filepath.Join(configHome, "dirscope")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "history:\n  path: " + storePath + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := openHistory()
	if err != nil {
		t.Fatalf("openHistory() error = %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(storePath); err != nil {
		t.Errorf("expected history store at %q: %v", storePath, err)
	}
}
