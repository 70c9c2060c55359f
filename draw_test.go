package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/milk9111/levelkit/common"
	"github.com/milk9111/levelkit/tilemap"
	"github.com/stretchr/testify/require"
)

func TestTileRect(t *testing.T) {
	cases := []struct {
		tile uint16
		cols int
		want image.Rectangle
	}{
		{0, 4, image.Rectangle{}},
		{1, 4, image.Rect(0, 0, 8, 8)},
		{4, 4, image.Rect(24, 0, 32, 8)},
		{5, 4, image.Rect(0, 8, 8, 16)},
		{3, 0, image.Rectangle{}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, tileRect(c.tile, c.cols, 8), "tile %d", c.tile)
	}
}

func TestVisibleTiles(t *testing.T) {
	first, last := visibleTiles(-20, 32, 8, 6, false)
	require.Equal(t, 0, first)
	require.Equal(t, 3, last)

	first, last = visibleTiles(-20, 32, 8, 6, true)
	require.Equal(t, -3, first)
	require.Equal(t, 3, last)

	first, last = visibleTiles(0, 100, 0, 6, false)
	require.Zero(t, first)
	require.Zero(t, last)
}

func TestClampCamera(t *testing.T) {
	m := tilemap.New(40, 10, 8)
	cases := []struct {
		name string
		in   common.Vec2
		want common.Vec2
	}{
		{"inside", common.V(10, 0), common.V(10, 0)},
		{"negative", common.V(-5, -5), common.V(0, 0)},
		{"past_right", common.V(500, 0), common.V(220, 0)},
		{"taller_view", common.V(0, 30), common.V(0, 0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, clampCamera(c.in, m, 100, 120))
		})
	}
	require.Equal(t, common.V(-3, 7), clampCamera(common.V(-3, 7), nil, 100, 120))
}

func TestWrap(t *testing.T) {
	require.Equal(t, 5, wrap(-1, 6))
	require.Equal(t, 0, wrap(6, 6))
	require.Equal(t, 2, wrap(2, 6))
}

func TestParseHexColor(t *testing.T) {
	require.Equal(t, color.RGBA{R: 0x3c, G: 0x78, B: 0xff, A: 0xff}, parseHexColor("#3c78ff"))
	require.Equal(t, color.RGBA{R: 0xff, A: 0x60}, parseHexColor("#ff000060"))
	require.Equal(t, color.RGBA{A: 0xff}, parseHexColor("bogus"))
}
