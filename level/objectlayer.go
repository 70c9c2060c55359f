package level

import (
	"math"
	"strconv"

	"github.com/milk9111/levelkit/common"
	"github.com/rs/zerolog"
)

// SpawnEntitiesFromLayer spawns one entity per object of a Tiled object
// layer and names it after the object id. Object properties are not applied.
func (l *Loader) SpawnEntitiesFromLayer(layer TiledLayer) error {
	log := l.log()
	_, err := l.spawnObjects(&log, layer, MaxEntitiesPerLoad)
	return err
}

// spawnObjects spawns the layer's objects, failing when there are more than
// budget of them.
func (l *Loader) spawnObjects(log *zerolog.Logger, layer TiledLayer, budget int) (int, error) {
	if l.Entities == nil {
		return 0, fatalf("no entity runtime")
	}
	if layer.Objects == nil {
		return 0, fatalf("layer %q has no objects", layer.name())
	}
	if len(layer.Objects) > budget {
		return 0, fatalf("layer %q has %d objects, %d left of %d per level", layer.name(), len(layer.Objects), max(budget, 0), MaxEntitiesPerLoad)
	}

	for i := range layer.Objects {
		obj := &layer.Objects[i]
		typeName := obj.TypeName()
		if typeName == "" {
			return i, fatalf("layer %q: object %d has no type", layer.name(), i)
		}
		t, ok := l.Entities.TypeByName(typeName)
		if !ok {
			return i, fatalf("layer %q: unknown entity type %q", layer.name(), typeName)
		}
		if obj.ID == nil {
			return i, fatalf("layer %q: %s object %d has no id", layer.name(), typeName, i)
		}
		id := *obj.ID
		if id < 0 || id >= math.MaxUint16 {
			return i, fatalf("layer %q: %s id %v out of range", layer.name(), typeName, id)
		}

		// Tiled places objects by their bottom-left corner.
		pos := common.V(obj.X, obj.Y-obj.Height)
		e, err := l.Entities.Spawn(t, pos)
		if err != nil {
			return i, fatalf("layer %q: spawn %s: %w", layer.name(), typeName, err)
		}
		if err := l.Entities.SetName(e, strconv.Itoa(int(id))); err != nil {
			return i, fatalf("layer %q: name %s: %w", layer.name(), typeName, err)
		}
		if len(obj.Properties) > 0 {
			log.Debug().Str("layer", layer.name()).Int("id", int(id)).Msg("object properties ignored")
		}
	}
	return len(layer.Objects), nil
}
