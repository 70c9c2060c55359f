package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/levelkit/config"
	"github.com/milk9111/levelkit/levels"
	"github.com/milk9111/levelkit/prefabs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestDumper(t *testing.T) *dumper {
	t.Helper()
	return newTestDumperIn(t, t.TempDir())
}

func newTestDumperIn(t *testing.T, prefabDir string) *dumper {
	t.Helper()
	cfg := config.Default()
	cfg.PrefabDir = prefabDir
	log := zerolog.Nop()
	d, err := newDumper(cfg, levels.FS(), &log)
	require.NoError(t, err)
	return d
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		format, path, want string
	}{
		{"auto", "levels/a.json", "native"},
		{"auto", "demo/demo.tmj", "tiled"},
		{"auto", "DEMO.TMJ", "tiled"},
		{"native", "demo/demo.tmj", "native"},
		{"tiled", "a.json", "tiled"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, detectFormat(c.format, c.path), c.path)
	}
}

func TestDumpNative(t *testing.T) {
	d := newTestDumper(t)
	var out bytes.Buffer
	scene := &dumpScene{dumper: d, path: levels.Sample, format: "native", out: &out}
	require.NoError(t, d.run(scene))

	text := out.String()
	require.Contains(t, text, "level sample.json (native)")
	require.Contains(t, text, "collision  \"collision\"")
	require.Contains(t, text, "1 shapes")
	require.Contains(t, text, "background \"background\"")
	require.Contains(t, text, "media/tiles.qoi repeat distance=2")
	require.Contains(t, text, "entities   4")
	require.Contains(t, text, "\"exit\"")
	require.Equal(t, 1, d.images.Len())
	require.Zero(t, d.temp.Live())
}

func TestDumpTiled(t *testing.T) {
	d := newTestDumper(t)
	var out bytes.Buffer
	scene := &dumpScene{dumper: d, path: levels.DemoTiled, format: "tiled", out: &out}
	require.NoError(t, d.run(scene))
	require.Contains(t, out.String(), "level demo/demo.tmj (tiled)")
	require.Contains(t, out.String(), "entities   2")
}

func TestDumpReloadSwitchesScene(t *testing.T) {
	d := newTestDumper(t)
	var out bytes.Buffer
	scene := &dumpScene{dumper: d, path: levels.Sample, format: "native", out: &out}
	require.NoError(t, d.run(scene))
	arena := d.engine.Arena().Len()

	require.NoError(t, d.reload([]string{"prefabs/types.yaml", "prefabs/scripts/trigger.tengo"}))
	require.NoError(t, d.run(scene.again()))
	require.Equal(t, arena, d.engine.Arena().Len())
	require.Equal(t, 4, d.runtime.Count())
}

func TestDumpUnknownFormat(t *testing.T) {
	d := newTestDumper(t)
	err := d.run(&dumpScene{dumper: d, path: levels.Sample, format: "xml", out: &bytes.Buffer{}})
	require.ErrorContains(t, err, "unknown format")
}

func TestDumpReloadSkipsUnchangedTypes(t *testing.T) {
	dir := t.TempDir()
	data, err := fs.ReadFile(prefabs.PrefabsFS, "types.yaml")
	require.NoError(t, err)
	typesPath := filepath.Join(dir, "types.yaml")
	require.NoError(t, os.WriteFile(typesPath, data, 0o644))

	d := newTestDumperIn(t, dir)
	require.False(t, d.typesMod.IsZero())
	require.NoError(t, d.run(&dumpScene{dumper: d, path: levels.Sample, format: "native", out: &bytes.Buffer{}}))
	require.Equal(t, 4, d.runtime.Count())

	require.NoError(t, d.reload([]string{typesPath}))
	require.Equal(t, 4, d.runtime.Count(), "unchanged types must not reset entities")

	later := d.typesMod.Add(time.Second)
	require.NoError(t, os.Chtimes(typesPath, later, later))
	require.NoError(t, d.reload([]string{typesPath}))
	require.Zero(t, d.runtime.Count())
	require.True(t, d.typesMod.Equal(later))
}
