package level

import (
	"github.com/milk9111/levelkit/pathutil"
	"github.com/milk9111/levelkit/tilemap"
	"github.com/rs/zerolog"
)

// Project carries what every layer of a Tiled project shares.
type Project struct {
	TileSize int
	Tilesets []*Tileset
}

// BuildTileLayer converts one Tiled tile layer into a map. Layers of another
// type yield a nil map and a warning. The map's tile ids are rewritten to
// 1-based indices into the one tileset they come from, whose image is loaded
// through the loader's image loader.
func (l *Loader) BuildTileLayer(layer TiledLayer, project Project) (*tilemap.Map, error) {
	log := l.log()
	return l.buildTileLayer(&log, layer, project)
}

func (l *Loader) buildTileLayer(log *zerolog.Logger, layer TiledLayer, project Project) (*tilemap.Map, error) {
	if l.State != nil && l.State.IsRunning() {
		return nil, fatalf("cannot create map during gameplay")
	}

	name := layer.name()
	if layer.kind() != LayerTypeTile {
		log.Warn().Str("layer", name).Str("type", layer.kind()).Msg("layer is not a tilelayer")
		return nil, nil
	}

	if layer.Width < 0 || layer.Height < 0 {
		return nil, fatalf("layer %q: invalid size %dx%d", name, layer.Width, layer.Height)
	}
	m := tilemap.New(layer.Width, layer.Height, project.TileSize)

	if layer.ParallaxX != nil {
		px := *layer.ParallaxX
		py := 0.0
		if layer.ParallaxY != nil {
			py = *layer.ParallaxY
		}
		if px != py {
			return nil, fatalf("layer %q: parallaxx %v and parallaxy %v must be equal", name, px, py)
		}
		if px == 0 {
			return nil, fatalf("layer %q: invalid distance 0", name)
		}
		m.Distance = px
	}

	for _, prop := range layer.Properties {
		var dst *bool
		switch prop.Name {
		case "foreground":
			dst = &m.Foreground
		case "repeat":
			dst = &m.Repeat
		default:
			continue
		}
		v, ok := prop.Value.(bool)
		if prop.Type != "bool" || !ok {
			return nil, fatalf("layer %q: property %q must be bool, got %q", name, prop.Name, prop.Type)
		}
		*dst = v
	}

	if len(name) > tilemap.MaxNameLen {
		return nil, fatalf("layer name %q exceeds %d chars", name, tilemap.MaxNameLen)
	}
	m.Name = name

	if layer.Data == nil {
		return nil, fatalf("layer %q has no data", name)
	}
	if len(layer.Data) != len(m.Data) {
		return nil, fatalf("layer %q has %d tiles, want %dx%d", name, len(layer.Data), layer.Width, layer.Height)
	}
	lo, hi := uint16(0xFFFF), uint16(0)
	for i, raw := range layer.Data {
		tile, ok := tilemap.TileID(raw)
		if !ok {
			return nil, fatalf("layer %q: tile %v at %d out of range", name, raw, i)
		}
		m.Data[i] = tile
		if tile == 0 {
			continue
		}
		lo = min(lo, tile)
		hi = max(hi, tile)
	}
	if hi == 0 {
		log.Warn().Str("layer", name).Msg("layer has no tiles")
		return m, nil
	}

	ts, ok := matchTileset(project.Tilesets, lo, hi)
	if !ok {
		return nil, fatalf("layer %q: no tileset matches tiles %d..%d", name, lo, hi)
	}

	imgPath, err := l.resolveTilesetImage(ts)
	if err != nil {
		return nil, fatalf("layer %q: %w", name, err)
	}
	if l.Images == nil {
		return nil, fatalf("layer %q: no image loader for %s", name, imgPath)
	}
	img, err := l.Images.LoadImage(imgPath)
	if err != nil {
		return nil, fatalf("layer %q: load tileset image %s: %w", name, imgPath, err)
	}
	m.Tileset = img
	m.TilesetPath = imgPath
	log.Debug().Str("layer", name).Int("w", m.Size.W).Int("h", m.Size.H).Str("tileset", imgPath).Msg("loaded map")

	offset := uint16(ts.FirstGID - 1)
	for i, tile := range m.Data {
		if tile > 0 {
			m.Data[i] = tile - offset
		}
	}
	return m, nil
}

// resolveTilesetImage returns the path of a tileset's image relative to the
// asset root, with the native image extension.
func (l *Loader) resolveTilesetImage(ts *Tileset) (string, error) {
	dir, _ := pathutil.ParentDir(ts.SourcePath)
	joined, err := pathutil.Join(dir, ts.ImagePath)
	if err != nil {
		return "", err
	}
	norm, err := pathutil.Normalize(joined)
	if err != nil {
		return "", err
	}
	from, to := l.imageExts()
	return pathutil.RewriteExt(norm, from, to), nil
}
