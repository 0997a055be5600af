package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dirscope/dirscope/pkg/dirscope/logging"
)

func TestInitAndClose(t *testing.T) {
	// No t.Parallel() - uses global state

	path := filepath.Join(t.TempDir(), "nested", "test.log")
	cfg := logging.Config{Level: "info", Path: path}

	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logging.Get("scanner").Info("scan started", "path", "/data")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log output in file")
	}
}

func TestInitInvalidLevel(t *testing.T) {
	cfg := logging.Config{
		Level: "shout",
		Path:  filepath.Join(t.TempDir(), "test.log"),
	}
	if err := logging.Init(cfg); err == nil {
		t.Error("expected error for invalid level")
		_ = logging.Close()
	}
}

func TestGetBeforeInit(t *testing.T) {
	// Get must never return nil, even before Init.
	logger := logging.Get("anything")
	if logger == nil {
		t.Fatal("Get() returned nil")
	}
	logger.Info("goes nowhere")
}

func TestComponentLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	cfg := logging.Config{
		Level: "info",
		Path:  path,
		Components: map[string]string{
			"scanner": "debug",
			"watcher": "error",
		},
	}

	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer func() {
		if err := logging.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	for _, component := range []string{"scanner", "watcher", "dashboard", ""} {
		if logging.Get(component) == nil {
			t.Errorf("Get(%q) returned nil", component)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    logging.Level
		wantErr bool
	}{
		{"debug", logging.LevelDebug, false},
		{"info", logging.LevelInfo, false},
		{"WARN", logging.LevelWarn, false},
		{"error", logging.LevelError, false},
		{"shout", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
