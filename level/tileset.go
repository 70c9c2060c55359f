package level

import (
	"fmt"
	"math"

	"github.com/milk9111/levelkit/alloc"
	"github.com/milk9111/levelkit/pathutil"
)

// MaxTilesets bounds the tilesets a single project may reference.
const MaxTilesets = 8

// Tileset is one tileset a project references, loaded from its own file.
type Tileset struct {
	FirstGID   int
	TileCount  int
	TileWidth  int
	TileHeight int
	// ImagePath is the image reference as written in the tileset file,
	// relative to SourcePath's directory.
	ImagePath  string
	SourcePath string
	Doc        *alloc.Document
}

// Contains reports whether the non-zero tile ids lo..hi fall in the tileset.
// The upper bound is inclusive: FirstGID+TileCount matches even though it is
// one past the tileset's last tile.
func (t *Tileset) Contains(lo, hi uint16) bool {
	return int(lo) >= t.FirstGID && int(hi) <= t.FirstGID+t.TileCount
}

// LoadTilesets loads every referenced tileset in declaration order. Source
// paths are relative to projectDir. The returned tilesets hold their
// documents until FreeTilesets.
func LoadTilesets(assets AssetLoader, refs []TiledTilesetRef, projectDir string) ([]*Tileset, error) {
	if len(refs) > MaxTilesets {
		return nil, fatalf("project references %d tilesets, max %d", len(refs), MaxTilesets)
	}

	out := make([]*Tileset, 0, len(refs))
	for i, ref := range refs {
		ts, err := loadTileset(assets, ref, projectDir)
		if err != nil {
			FreeTilesets(out)
			return nil, fatalf("tileset %d: %w", i, err)
		}
		out = append(out, ts)
	}
	return out, nil
}

func loadTileset(assets AssetLoader, ref TiledTilesetRef, projectDir string) (*Tileset, error) {
	if ref.FirstGID < 1 || ref.FirstGID > math.MaxUint16 {
		return nil, fmt.Errorf("firstgid %d out of range", ref.FirstGID)
	}
	if ref.Source == "" {
		return nil, fmt.Errorf("no source (embedded tilesets are not supported)")
	}
	src, err := pathutil.Join(projectDir, ref.Source)
	if err != nil {
		return nil, err
	}

	doc, err := assets.LoadJSON(src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	var def TiledTileset
	if err := doc.Decode(&def); err != nil {
		doc.Free()
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	if def.TileCount <= 0 || def.TileCount > math.MaxUint16 {
		doc.Free()
		return nil, fmt.Errorf("%s: tilecount %d", src, def.TileCount)
	}

	return &Tileset{
		FirstGID:   ref.FirstGID,
		TileCount:  def.TileCount,
		TileWidth:  def.TileWidth,
		TileHeight: def.TileHeight,
		ImagePath:  def.Image,
		SourcePath: src,
		Doc:        doc,
	}, nil
}

// FreeTilesets returns the tileset documents to the temporary allocator.
func FreeTilesets(tilesets []*Tileset) {
	for _, ts := range tilesets {
		if ts != nil {
			ts.Doc.Free()
			ts.Doc = nil
		}
	}
}

func matchTileset(tilesets []*Tileset, lo, hi uint16) (*Tileset, bool) {
	for _, ts := range tilesets {
		if ts.Contains(lo, hi) {
			return ts, true
		}
	}
	return nil, false
}
