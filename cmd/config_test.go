package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "config.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigMissingExplicit(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "config.yaml"), true)
	assert.Error(t, err)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index:\n  blocks: 5\nquery:\n  scale: 0.995792\n"), 0o644))

	cfg, err := loadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Index.Blocks)
	assert.Equal(t, 0.995792, cfg.Query.Scale)
	// untouched keys keep their defaults
	assert.Equal(t, "polygon_index.gob", cfg.Index.File)
	assert.Equal(t, 5432, cfg.PostGIS.Port)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index: [\n"), 0o644))

	_, err := loadConfig(path, true)
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PG_PORT=6543\n"), 0o644))
	t.Setenv("PG_HOST", "db.internal")
	// godotenv never overrides variables that are already set
	t.Setenv("PG_PORT", "")
	require.NoError(t, os.Unsetenv("PG_PORT"))

	cfg := defaultConfig()
	require.NoError(t, loadEnv(&cfg, path))
	assert.Equal(t, "db.internal", cfg.PostGIS.Host)
	assert.Equal(t, 6543, cfg.PostGIS.Port)
}

func TestLoadEnvInvalidPort(t *testing.T) {
	t.Setenv("PG_PORT", "not-a-port")

	cfg := defaultConfig()
	assert.Error(t, loadEnv(&cfg, filepath.Join(t.TempDir(), "missing.env")))
}

func TestApplyConfigKeepsExplicitFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().IntVarP(&numBlocks, "blocks", "b", 1, "")
	cmd.Flags().Float64Var(&xOffset, "offset", 5, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--blocks", "3"}))

	cfg := defaultConfig()
	cfg.Index.Blocks = 10
	cfg.Index.Offset = 2.5
	applyConfig(cmd, cfg)

	assert.Equal(t, 3, numBlocks)
	assert.Equal(t, 2.5, xOffset)
}
