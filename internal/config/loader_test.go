package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekot-dev/dekot/pkg/syntax"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)

	// Without an explicit path a missing file falls back to defaults.
	t.Chdir(t.TempDir())

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.Suggest.OnlyMajority)
	assert.Equal(t, syntax.DefaultCacheSize, cfg.Cache.Size)
	assert.True(t, cfg.OpLog.Enabled)
	assert.Equal(t, DefaultOpLogPath, cfg.OpLog.Path)
	assert.Empty(t, cfg.Stubs.Path)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dekot.yaml")

	content := []byte(`suggest:
  only_majority: false
cache:
  size: 16
oplog:
  enabled: false
stubs:
  path: stubs.yaml
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Suggest.OnlyMajority)
	assert.Equal(t, 16, cfg.Cache.Size)
	assert.False(t, cfg.OpLog.Enabled)
	assert.Equal(t, "stubs.yaml", cfg.Stubs.Path)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("DEKOT_CACHE_SIZE", "7")
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Cache.Size)
}

func TestValidate_RejectsNonPositiveCacheSize(t *testing.T) {
	t.Parallel()

	cfg := &Config{Cache: CacheConfig{Size: 0}}

	assert.ErrorIs(t, cfg.Validate(), ErrInvalidCacheSize)
}

func TestValidate_RejectsEnabledOpLogWithoutPath(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Cache: CacheConfig{Size: 8},
		OpLog: OpLogConfig{Enabled: true},
	}

	assert.ErrorIs(t, cfg.Validate(), ErrMissingOpLogPath)
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Cache: CacheConfig{Size: syntax.DefaultCacheSize},
		OpLog: OpLogConfig{Enabled: true, Path: DefaultOpLogPath},
	}

	assert.NoError(t, cfg.Validate())
}
