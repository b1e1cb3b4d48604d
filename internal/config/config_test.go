package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
}

func TestLoad_XDGDataHomeFallback(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)
	// Point the config lookup at an empty dir so a host config.yaml
	// cannot leak into the test.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "arbor"), cfg.DataDir)
}

func TestLoad_ConfigFile(t *testing.T) {
	confHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", confHome)
	t.Setenv(EnvDataDir, "")

	dir := filepath.Join(confHome, "arbor")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("data_dir: /custom/data\neditor: nano\nstrategy: exec\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/custom/data", cfg.DataDir)
	assert.Equal(t, "nano", cfg.Editor)
	assert.Equal(t, "exec", cfg.Strategy)
}

func TestLoad_EnvBeatsConfigFile(t *testing.T) {
	confHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", confHome)

	dir := filepath.Join(confHome, "arbor")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("data_dir: /from/file\n"), 0o644))

	fromEnv := t.TempDir()
	t.Setenv(EnvDataDir, fromEnv)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, fromEnv, cfg.DataDir)
}

func TestDBPath_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := &Config{DataDir: dir}

	path, err := cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DBFilename), path)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveEditor_Precedence(t *testing.T) {
	t.Setenv("VISUAL", "visual-editor")
	t.Setenv("EDITOR", "plain-editor")

	assert.Equal(t, "from-config", (&Config{Editor: "from-config"}).ResolveEditor())
	assert.Equal(t, "visual-editor", (&Config{}).ResolveEditor())

	t.Setenv("VISUAL", "")
	assert.Equal(t, "plain-editor", (&Config{}).ResolveEditor())

	t.Setenv("EDITOR", "")
	assert.Equal(t, "vi", (&Config{}).ResolveEditor())
}
