package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/milk9111/levelkit/collision"
	"github.com/milk9111/levelkit/engine"
	"github.com/milk9111/levelkit/tilemap"
)

// dumpScene loads one level when the engine switches to it and prints what
// was loaded.
type dumpScene struct {
	dumper     *dumper
	path       string
	format     string
	projectDir string
	out        io.Writer
}

// again returns a fresh scene for the same level so the engine switches
// scenes, dropping everything the previous load kept.
func (s *dumpScene) again() *dumpScene {
	next := *s
	return &next
}

func (s *dumpScene) Init(e *engine.Engine) error {
	var err error
	switch s.format {
	case "tiled":
		err = s.dumper.loader.LoadTiled(s.path, s.projectDir)
	case "native":
		err = s.dumper.loader.LoadNative(s.path)
	default:
		return fmt.Errorf("leveldump: unknown format %q", s.format)
	}
	if err != nil {
		return err
	}

	static := collision.BuildSpace(nil, e.CollisionMap, collision.DefaultOptions())
	e.Arena().Keep(static)

	out := s.out
	if out == nil {
		out = os.Stdout
	}
	s.print(out, e, static)
	return nil
}

func (s *dumpScene) Update(*engine.Engine) error { return nil }

func (s *dumpScene) Cleanup(*engine.Engine) {}

func (s *dumpScene) print(w io.Writer, e *engine.Engine, static *collision.Static) {
	fmt.Fprintf(w, "level %s (%s)\n", s.path, s.format)
	if e.CollisionMap != nil {
		fmt.Fprintf(w, "  collision  %s  %d shapes\n", describeMap(e.CollisionMap), len(static.Shapes))
	} else {
		fmt.Fprintf(w, "  collision  none\n")
	}

	behind, front := e.Layers()
	for _, m := range behind {
		fmt.Fprintf(w, "  background %s\n", describeMap(m))
	}
	for _, m := range front {
		fmt.Fprintf(w, "  foreground %s\n", describeMap(m))
	}

	ents := s.dumper.runtime.Entities()
	fmt.Fprintf(w, "  entities   %d\n", len(ents))
	for _, info := range ents {
		fmt.Fprintf(w, "    %-10s %-8q (%g, %g)%s\n", info.Type, info.Name, info.Pos.X, info.Pos.Y, formatSettings(info.Settings))
	}
}

func describeMap(m *tilemap.Map) string {
	tileset := "-"
	if m.HasTileset() {
		tileset = m.TilesetPath
	}
	var flags []string
	if m.Repeat {
		flags = append(flags, "repeat")
	}
	if m.Distance != 1 {
		flags = append(flags, fmt.Sprintf("distance=%g", m.Distance))
	}
	return fmt.Sprintf("%-12q %dx%d@%d %s %s", m.Name, m.Size.W, m.Size.H, m.TileSize, tileset, strings.Join(flags, " "))
}

func formatSettings(settings map[string]any) string {
	if len(settings) == 0 {
		return ""
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, settings[k]))
	}
	return " {" + strings.Join(parts, " ") + "}"
}
