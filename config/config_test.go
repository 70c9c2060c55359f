package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("asset_root: game/assets\nlog_level: debug\n"))
	require.NoError(t, err)
	require.Equal(t, "game/assets", cfg.AssetRoot)
	require.Equal(t, "collision", cfg.CollisionLayer)
	require.Equal(t, 4, cfg.MaxBackgroundMaps)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, lvl)
}

func TestParseInvalid(t *testing.T) {
	for _, src := range []string{
		"max_background_maps: 0",
		"native_image_ext: qoi",
		"log_level: loud",
		"asset_root: [",
	} {
		_, err := Parse([]byte(src))
		require.Error(t, err, src)
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "levelkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collision_layer: solid\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, "solid", cfg.CollisionLayer)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LEVELKIT_ASSET_ROOT=from-file\nLEVELKIT_MAX_BACKGROUND_MAPS=6\n"), 0o644))
	t.Setenv("LEVELKIT_LOG_LEVEL", "warn")

	lookup, err := EnvLookup(envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	require.Equal(t, "from-file", cfg.AssetRoot)
	require.Equal(t, 6, cfg.MaxBackgroundMaps)
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestApplyEnvProcessWins(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LEVELKIT_ASSET_ROOT=from-file\n"), 0o644))
	t.Setenv("LEVELKIT_ASSET_ROOT", "from-env")

	lookup, err := EnvLookup(envFile)
	require.NoError(t, err)
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	require.Equal(t, "from-env", cfg.AssetRoot)
}

func TestApplyEnvBadNumber(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(key string) (string, bool) {
		if key == "LEVELKIT_MAX_BACKGROUND_MAPS" {
			return "many", true
		}
		return "", false
	})
	require.Error(t, err)
}
