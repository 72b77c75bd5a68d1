package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadConfigFrom(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.False(t, info.FileFound)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFrom_File(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 18080
open_browser = false

[import]
duplicate_headers = "suffix"
trim_headers = true
max_concurrent = 2

[log]
level = "debug"
`)

	cfg, info, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.True(t, info.FileFound)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 18080, cfg.Server.Port)
	assert.False(t, cfg.Server.OpenBrowser)
	assert.Equal(t, "suffix", cfg.Import.DuplicateHeaders)
	assert.True(t, cfg.Import.TrimHeaders)
	assert.Equal(t, 2, cfg.Import.MaxConcurrent)
	assert.Equal(t, "debug", cfg.Log.Level)
	// 未出现的配置项保持默认值
	assert.Equal(t, "data", cfg.Data.DataDir)
	assert.True(t, cfg.Data.ImportLog)
}

func TestLoadConfigFrom_PortNotSpecified(t *testing.T) {
	path := writeConfig(t, "[data]\ndata_dir = \"store\"\n")

	cfg, info, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, "store", cfg.Data.DataDir)
}

func TestLoadConfigFrom_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "[server]\nport = 18080\n")
	t.Setenv("SHEETDESK_PORT", "19090")
	t.Setenv("SHEETDESK_DUPLICATE_HEADERS", "reject")
	t.Setenv("SHEETDESK_LOG_LEVEL", "warn")
	t.Setenv("SHEETDESK_IMPORT_LOG", "false")

	cfg, info, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 19090, cfg.Server.Port)
	assert.Equal(t, "reject", cfg.Import.DuplicateHeaders)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Data.ImportLog)
}

func TestLoadConfigFrom_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad toml":        "[server\nport = 1",
		"bad policy":      "[import]\nduplicate_headers = \"first\"\n",
		"bad port":        "[server]\nport = 70000\n",
		"zero concurrent": "[import]\nmax_concurrent = 0\n",
		"bad level":       "[log]\nlevel = \"verbose\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := LoadConfigFrom(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Server.Port = 18181
	cfg.Import.DuplicateHeaders = "suffix"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, info, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, cfg, loaded)
}

func TestEnsureDataDir_Absolute(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "sheetdesk-data")

	dir, err := EnsureDataDir(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Data.DataDir, dir)
	assert.DirExists(t, UploadDir(dir))
	assert.Equal(t, filepath.Join(dir, "sheetdesk.db"), DBPath(dir))
}
