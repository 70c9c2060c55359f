package level

import (
	"math"
	"strconv"

	"github.com/milk9111/levelkit/common"
	"github.com/milk9111/levelkit/ecs"
	"github.com/milk9111/levelkit/tilemap"
)

// pendingSettings is an entity whose settings are applied once every entity
// of the level exists.
type pendingSettings struct {
	entity   ecs.Entity
	typeName string
	settings map[string]any
}

// LoadNative loads a level in the engine's own format: a "maps" array of tile
// maps and an "entities" array. Entities are spawned first; their settings
// are applied afterwards so settings may refer to any entity of the level by
// name, regardless of order.
func (l *Loader) LoadNative(path string) error {
	if err := l.checkReady(); err != nil {
		return err
	}
	log := l.loadLogger("native", path)

	doc, err := l.Assets.LoadJSON(path)
	if err != nil {
		return fatalf("could not load level json at %s: %w", path, err)
	}
	defer doc.Free()

	var lvl NativeLevel
	if err := doc.Decode(&lvl); err != nil {
		return fatalf("%w", err)
	}

	l.resetLevel()

	for i, def := range lvl.Maps {
		m, err := tilemap.FromNative(def, l.Images)
		if err != nil {
			return fatalf("%s: map %d: %w", path, i, err)
		}
		if err := l.placeMap(m, def.Name); err != nil {
			return err
		}
	}

	if len(lvl.Entities) > MaxEntitiesPerLoad {
		return fatalf("%s: %d entities, max %d", path, len(lvl.Entities), MaxEntitiesPerLoad)
	}
	pending := make([]pendingSettings, 0, len(lvl.Entities))
	for i, def := range lvl.Entities {
		if def.Type == "" {
			return fatalf("%s: entity %d has no type", path, i)
		}
		t, ok := l.Entities.TypeByName(def.Type)
		if !ok {
			return fatalf("%s: unknown entity type %q", path, def.Type)
		}
		e, err := l.Entities.Spawn(t, common.V(def.X, def.Y))
		if err != nil {
			return fatalf("%s: spawn %s: %w", path, def.Type, err)
		}

		if def.ID != nil {
			id := *def.ID
			if id < 0 || id >= math.MaxUint16 {
				return fatalf("%s: %s id %v out of range", path, def.Type, id)
			}
			if err := l.Entities.SetName(e, strconv.Itoa(int(id))); err != nil {
				return fatalf("%s: name %s: %w", path, def.Type, err)
			}
		}

		settings, ok := def.Settings.(map[string]any)
		if !ok {
			if def.Settings != nil {
				log.Warn().Int("entity", i).Str("type", def.Type).Msg("settings is not an object")
			}
			continue
		}
		if name, ok := settings["name"].(string); ok {
			if err := l.Entities.SetName(e, name); err != nil {
				return fatalf("%s: name %s: %w", path, def.Type, err)
			}
		}
		pending = append(pending, pendingSettings{entity: e, typeName: def.Type, settings: settings})
	}

	for _, p := range pending {
		if err := l.Entities.ApplySettings(p.entity, p.settings); err != nil {
			return fatalf("%s: settings for %s %v: %w", path, p.typeName, p.entity, err)
		}
	}

	log.Info().Int("maps", len(lvl.Maps)).Int("entities", len(lvl.Entities)).Int("settings", len(pending)).Msg("level loaded")
	return nil
}
