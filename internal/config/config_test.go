package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezerfernandes/dotmd/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "**/*.md", cfg.Filter)
	assert.Equal(t, []string{"**/node_modules/**", "**/build/**"}, cfg.Ignore)
	assert.Equal(t, "build", cfg.BuildDir)
	assert.Equal(t, ".dotfiles-md-cache", cfg.CacheFile)
	assert.Equal(t, ".env", cfg.EnvFile)
	assert.Equal(t, "%", cfg.EnvPrefix)
	assert.True(t, cfg.StrictBackup)
	assert.False(t, cfg.Debug)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("filter: docs/*.md\nstrict_backup: false\nbuild_dir: out\n"), 0o644))

	t.Setenv("DOTMD_BUILD_DIR", "from-env")

	cfg, err := config.Load(config.New(), file)
	require.NoError(t, err)

	assert.Equal(t, "docs/*.md", cfg.Filter)
	assert.False(t, cfg.StrictBackup)
	assert.Equal(t, "from-env", cfg.BuildDir)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
}
