package level

import (
	"github.com/milk9111/levelkit/pathutil"
)

// LoadTiled loads a Tiled JSON map export. Tileset sources are resolved
// against projectDir, or against the map file's directory when projectDir is
// empty. Tile layers named like the collision layer fill the collision slot;
// other tile layers are appended to the background list in document order.
func (l *Loader) LoadTiled(path, projectDir string) error {
	if err := l.checkReady(); err != nil {
		return err
	}
	log := l.loadLogger("tiled", path)

	doc, err := l.Assets.LoadJSON(path)
	if err != nil {
		return fatalf("could not load level json at %s: %w", path, err)
	}
	defer doc.Free()

	var project TiledProject
	if err := doc.Decode(&project); err != nil {
		return fatalf("%w", err)
	}

	l.resetLevel()

	if project.TileWidth != project.TileHeight {
		return fatalf("%s: tilewidth %d and tileheight %d must be the same", path, project.TileWidth, project.TileHeight)
	}
	if projectDir == "" {
		projectDir, _ = pathutil.ParentDir(path)
	}

	tilesets, err := LoadTilesets(l.Assets, project.Tilesets, projectDir)
	if err != nil {
		return err
	}
	defer FreeTilesets(tilesets)
	for _, ts := range tilesets {
		if ts.TileWidth != project.TileWidth || ts.TileHeight != project.TileHeight {
			log.Warn().Str("tileset", ts.SourcePath).Int("tilewidth", ts.TileWidth).Int("tileheight", ts.TileHeight).
				Int("tilesize", project.TileWidth).Msg("tileset tile size differs from map")
		}
	}
	info := Project{TileSize: project.TileWidth, Tilesets: tilesets}

	maps, entities := 0, 0
	for i, layer := range project.Layers {
		if layer.Name == nil || layer.Type == nil {
			return fatalf("%s: layer %d has no name or type", path, i)
		}
		switch *layer.Type {
		case LayerTypeTile:
			m, err := l.buildTileLayer(&log, layer, info)
			if err != nil {
				return err
			}
			if m == nil {
				continue
			}
			if err := l.placeMap(m, *layer.Name); err != nil {
				return err
			}
			maps++
		case LayerTypeObject:
			n, err := l.spawnObjects(&log, layer, MaxEntitiesPerLoad-entities)
			if err != nil {
				return err
			}
			entities += n
		default:
			log.Debug().Str("layer", *layer.Name).Str("type", *layer.Type).Msg("layer skipped")
		}
	}

	log.Info().Int("tilesets", len(tilesets)).Int("maps", maps).Int("entities", entities).Msg("level loaded")
	return nil
}
