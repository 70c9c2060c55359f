// Package level loads level files into the engine: the engine's native
// maps/entities format and Tiled editor exports. Loading resets the previous
// level, builds tile maps into the engine's level state and spawns entities
// through the entity runtime.
package level

import (
	"github.com/google/uuid"
	"github.com/milk9111/levelkit/alloc"
	"github.com/milk9111/levelkit/common"
	"github.com/milk9111/levelkit/ecs"
	"github.com/milk9111/levelkit/ecs/entity"
	"github.com/milk9111/levelkit/tilemap"
	"github.com/rs/zerolog"
)

const (
	// MaxEntitiesPerLoad bounds the entities a single level may spawn.
	MaxEntitiesPerLoad = 4096

	DefaultCollisionLayer = "collision"
	DefaultSourceImageExt = ".png"
	DefaultNativeImageExt = ".qoi"
)

// AssetLoader reads JSON documents owned by the temporary allocator.
type AssetLoader interface {
	LoadJSON(path string) (*alloc.Document, error)
}

type EntityRuntime interface {
	TypeByName(name string) (*entity.Type, bool)
	Spawn(t *entity.Type, pos common.Vec2) (ecs.Entity, error)
	SetName(e ecs.Entity, name string) error
	ApplySettings(e ecs.Entity, settings map[string]any) error
	Reset()
}

// LevelState is the engine's loaded level.
type LevelState interface {
	IsRunning() bool
	ResetLevel()
	AddBackgroundMap(m *tilemap.Map) error
	SetCollisionMap(m *tilemap.Map)
}

type Loader struct {
	Assets   AssetLoader
	Images   tilemap.ImageLoader
	Entities EntityRuntime
	State    LevelState
	Logger   *zerolog.Logger

	// CollisionLayer is the map name routed to the collision slot.
	CollisionLayer string
	// Tileset image references ending in SourceImageExt are loaded with
	// NativeImageExt instead.
	SourceImageExt string
	NativeImageExt string
}

func (l *Loader) log() zerolog.Logger {
	if l.Logger == nil {
		return zerolog.Nop()
	}
	return *l.Logger
}

func (l *Loader) collisionLayer() string {
	if l.CollisionLayer == "" {
		return DefaultCollisionLayer
	}
	return l.CollisionLayer
}

func (l *Loader) imageExts() (from, to string) {
	from, to = l.SourceImageExt, l.NativeImageExt
	if from == "" {
		from = DefaultSourceImageExt
	}
	if to == "" {
		to = DefaultNativeImageExt
	}
	return from, to
}

// loadLogger tags every event of one load with a fresh load id.
func (l *Loader) loadLogger(format, path string) zerolog.Logger {
	return l.log().With().
		Str("load_id", uuid.NewString()).
		Str("format", format).
		Str("path", path).
		Logger()
}

func (l *Loader) checkReady() error {
	switch {
	case l.Assets == nil:
		return fatalf("no asset loader")
	case l.Entities == nil:
		return fatalf("no entity runtime")
	case l.State == nil:
		return fatalf("no level state")
	case l.State.IsRunning():
		return fatalf("cannot load a level while the engine is running")
	}
	return nil
}

// resetLevel discards the previous level's maps and entities.
func (l *Loader) resetLevel() {
	l.State.ResetLevel()
	l.Entities.Reset()
}

// placeMap routes a map to the collision slot or the background list by name.
func (l *Loader) placeMap(m *tilemap.Map, name string) error {
	if name == l.collisionLayer() {
		l.State.SetCollisionMap(m)
		return nil
	}
	if err := l.State.AddBackgroundMap(m); err != nil {
		return fatalf("map %q: %w", name, err)
	}
	return nil
}

// MustLoadNative is LoadNative, terminating the process on error.
func (l *Loader) MustLoadNative(path string) {
	if err := l.LoadNative(path); err != nil {
		log := l.log()
		log.Fatal().Err(err).Str("path", path).Msg("load level")
	}
}

// MustLoadTiled is LoadTiled, terminating the process on error.
func (l *Loader) MustLoadTiled(path, projectDir string) {
	if err := l.LoadTiled(path, projectDir); err != nil {
		log := l.log()
		log.Fatal().Err(err).Str("path", path).Msg("load tiled level")
	}
}
