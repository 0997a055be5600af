package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirscope/dirscope/pkg/dirscope/config"
)

func TestLoadDefaults(t *testing.T) {
	// Point XDG_CONFIG_HOME at an empty dir so no real config file leaks in.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DefaultPath, cfg.DefaultPath)
	assert.Equal(t, config.DefaultSortMode, cfg.SortMode)
	assert.True(t, cfg.ShowHidden)

	assert.Equal(t, config.DefaultDashboardHost, cfg.Dashboard.Host)
	assert.Equal(t, config.DefaultDashboardPort, cfg.Dashboard.Port)
	assert.True(t, cfg.Dashboard.AutoRescan)
	assert.True(t, cfg.Dashboard.UseTrash)

	assert.True(t, cfg.History.Enabled)
	assert.NotEmpty(t, cfg.History.Path)
	assert.Equal(t, config.DefaultRetentionDays, cfg.History.RetentionDays)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Contains(t, cfg.Logging.Components, "scanner")
}

func TestSetDefaults(t *testing.T) {
	// The CLI registers defaults on its own viper through SetDefaults;
	// it must agree with what Load produces.
	v := viper.New()
	config.SetDefaults(v)

	assert.Equal(t, config.DefaultPath, v.GetString("default_path"))
	assert.Equal(t, config.DefaultSortMode, v.GetString("sort_mode"))
	assert.True(t, v.GetBool("show_hidden"))
	assert.Equal(t, config.DefaultDashboardPort, v.GetInt("dashboard.port"))
	assert.Equal(t, config.DefaultRetentionDays, v.GetInt("history.retention_days"))
	assert.Equal(t, config.DefaultHistoryPath(), v.GetString("history.path"))
	assert.Equal(t, "info", v.GetString("logging.level"))

	components := v.GetStringMapString("logging.components")
	assert.Contains(t, components, "scanner")
	assert.Contains(t, components, "watcher")

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, v.GetString("sort_mode"), cfg.SortMode)
	assert.Equal(t, v.GetInt("dashboard.port"), cfg.Dashboard.Port)
	assert.Equal(t, v.GetStringMapString("logging.components"), cfg.Logging.Components)
}

func TestLoadFromFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	configDir := filepath.Join(configHome, "dirscope")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	content := `sort_mode: name
show_hidden: false
dashboard:
  port: 9999
  auto_rescan: false
history:
  retention_days: 7
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "name", cfg.SortMode)
	assert.False(t, cfg.ShowHidden)
	assert.Equal(t, 9999, cfg.Dashboard.Port)
	assert.False(t, cfg.Dashboard.AutoRescan)
	assert.Equal(t, 7, cfg.History.RetentionDays)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, config.DefaultDashboardHost, cfg.Dashboard.Host)
	assert.True(t, cfg.Dashboard.UseTrash)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DIRSCOPE_SORT_MODE", "date")
	t.Setenv("DIRSCOPE_DASHBOARD_PORT", "8080")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "date", cfg.SortMode)
	assert.Equal(t, 8080, cfg.Dashboard.Port)
}

func TestLoadInvalidFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	configDir := filepath.Join(configHome, "dirscope")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("{not yaml"), 0o644))

	_, err := config.Load()
	require.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tilde prefix", "~/data/scans", filepath.Join(home, "data", "scans")},
		{"bare tilde", "~", home},
		{"absolute path untouched", "/var/tmp", "/var/tmp"},
		{"relative path untouched", "data/scans", "data/scans"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.ExpandPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistoryPathExpansion(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DIRSCOPE_HISTORY_PATH", "~/scans/history")

	cfg, err := config.Load()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "scans", "history"), cfg.History.Path)
}
