package main

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/levelkit/common"
	"github.com/milk9111/levelkit/ecs/entity"
	"github.com/milk9111/levelkit/engine"
	"github.com/milk9111/levelkit/level"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	zoom      = 3
	panSpeed  = 240.0
	frameTime = 1.0 / 60
)

var (
	collisionTint = parseHexColor("#ff000060")
	entityColor   = parseHexColor("#3c78ff")
)

// viewScene loads one level on init and lets the camera pan over it.
type viewScene struct {
	loader *level.Loader
	path   string
	tiled  bool
}

// Init loads the level. A level that fails to load ends the process.
func (s *viewScene) Init(*engine.Engine) error {
	if s.tiled {
		s.loader.MustLoadTiled(s.path, "")
	} else {
		s.loader.MustLoadNative(s.path)
	}
	return nil
}

func (s *viewScene) Update(*engine.Engine) error { return nil }

func (s *viewScene) Cleanup(*engine.Engine) {}

type Game struct {
	engine   *engine.Engine
	entities *entity.Runtime
	debug    bool

	camera common.Vec2
}

func NewGame(eng *engine.Engine, rt *entity.Runtime, debug bool) *Game {
	return &Game{engine: eng, entities: rt, debug: debug}
}

func (g *Game) Update() error {
	if err := g.engine.Update(frameTime); err != nil {
		return err
	}

	step := panSpeed * g.engine.Tick
	if ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		g.camera.X -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		g.camera.X += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		g.camera.Y -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		g.camera.Y += step
	}
	g.camera = clampCamera(g.camera, g.engine.CollisionMap, baseWidth/zoom, baseHeight/zoom)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	behind, front := g.engine.Layers()
	for _, m := range behind {
		drawMap(screen, m, g.camera, zoom, nil)
	}

	for _, info := range g.entities.Entities() {
		t, ok := g.entities.TypeByName(info.Type)
		if !ok {
			continue
		}
		x := float32((info.Pos.X - g.camera.X) * zoom)
		y := float32((info.Pos.Y - g.camera.Y) * zoom)
		w, h := float32(max(t.Size.W, 4)*zoom), float32(max(t.Size.H, 4)*zoom)
		vector.StrokeRect(screen, x, y, w, h, 1, entityColor, false)
	}

	for _, m := range front {
		drawMap(screen, m, g.camera, zoom, nil)
	}

	if g.debug && g.engine.CollisionMap != nil {
		drawMap(screen, g.engine.CollisionMap, g.camera, zoom, &collisionTint)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f  entities: %d  maps: %d", ebiten.ActualFPS(), g.entities.Count(), len(g.engine.BackgroundMaps)))
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// parseHexColor parses "#rrggbb" or "#rrggbbaa". Malformed input gives opaque
// black.
func parseHexColor(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if len(s) != 8 || err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}
