package main

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/levelkit/common"
	"github.com/milk9111/levelkit/tilemap"
)

// tileRect returns the source rectangle of 1-based tile index tile in a
// tileset cols tiles wide.
func tileRect(tile uint16, cols, tileSize int) image.Rectangle {
	if tile == 0 || cols <= 0 {
		return image.Rectangle{}
	}
	i := int(tile) - 1
	x, y := (i%cols)*tileSize, (i/cols)*tileSize
	return image.Rect(x, y, x+tileSize, y+tileSize)
}

// visibleTiles returns the tile span [first, last) of one axis covering
// screenLen pixels starting at world offset off. A repeating map wraps, so
// indices may fall outside [0, n) and must be taken modulo n.
func visibleTiles(off float64, screenLen, tileSize, n int, repeat bool) (first, last int) {
	if tileSize <= 0 || n <= 0 {
		return 0, 0
	}
	first = int(math.Floor(off / float64(tileSize)))
	last = int(math.Ceil((off+float64(screenLen))/float64(tileSize))) + 1
	if !repeat {
		first = max(first, 0)
		last = min(last, n)
	}
	return first, last
}

// clampCamera keeps a viewW x viewH view inside m. Views larger than the map
// pin to its top-left corner; a nil map leaves the camera free.
func clampCamera(cam common.Vec2, m *tilemap.Map, viewW, viewH float64) common.Vec2 {
	if m == nil {
		return cam
	}
	w, h := m.PixelSize()
	cam.X = max(min(cam.X, float64(w)-viewW), 0)
	cam.Y = max(min(cam.Y, float64(h)-viewH), 0)
	return cam
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// drawMap draws m scrolled by camera divided by the map's distance. A non-nil
// tint draws solid cells in that color instead of the tileset.
func drawMap(screen *ebiten.Image, m *tilemap.Map, camera common.Vec2, scale float64, tint *color.RGBA) {
	if m == nil || m.TileSize <= 0 {
		return
	}
	sheet, _ := m.Tileset.(*ebiten.Image)
	if sheet == nil && tint == nil {
		return
	}

	distance := m.Distance
	if distance == 0 {
		distance = 1
	}
	off := common.V(camera.X/distance, camera.Y/distance)
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	x0, x1 := visibleTiles(off.X, int(float64(sw)/scale), m.TileSize, m.Size.W, m.Repeat)
	y0, y1 := visibleTiles(off.Y, int(float64(sh)/scale), m.TileSize, m.Size.H, m.Repeat)

	cols := 0
	if sheet != nil {
		cols = sheet.Bounds().Dx() / m.TileSize
	}
	ts := float64(m.TileSize)
	for ty := y0; ty < y1; ty++ {
		for tx := x0; tx < x1; tx++ {
			tile := m.At(wrap(tx, m.Size.W), wrap(ty, m.Size.H))
			if tile == 0 {
				continue
			}
			px := (float64(tx)*ts - off.X) * scale
			py := (float64(ty)*ts - off.Y) * scale

			if tint != nil {
				vector.FillRect(screen, float32(px), float32(py), float32(ts*scale), float32(ts*scale), *tint, false)
				continue
			}
			src := tileRect(tile, cols, m.TileSize)
			if !src.In(sheet.Bounds()) {
				continue
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(scale, scale)
			op.GeoM.Translate(px, py)
			screen.DrawImage(sheet.SubImage(src).(*ebiten.Image), op)
		}
	}
}
