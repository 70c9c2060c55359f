// Package entity is the entity runtime levels spawn into. It keeps the type
// registry built from prefab specs, spawns entities into an ECS world, tracks
// entity names and applies per-entity settings once a level is fully spawned.
package entity

import (
	"errors"
	"fmt"
	"maps"
	"sort"

	"github.com/milk9111/levelkit/common"
	"github.com/milk9111/levelkit/ecs"
	"github.com/milk9111/levelkit/ecs/component"
	"github.com/milk9111/levelkit/prefabs"
	"github.com/milk9111/levelkit/script"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownType = errors.New("entity: unknown type")
	ErrUnknownLink = errors.New("entity: unknown link target")
	ErrNotAlive    = errors.New("entity: not alive")
)

// Type is a registered entity type.
type Type struct {
	Name     string
	Size     component.Size
	Links    []string
	Script   string
	Defaults map[string]any
}

type Options struct {
	// Scripts runs type settings scripts. Types with a script fail to apply
	// settings when it is nil.
	Scripts *script.Runner
	Logger  *zerolog.Logger
}

type Runtime struct {
	world   *ecs.World
	types   map[string]*Type
	names   map[string]ecs.Entity
	scripts *script.Runner
	log     zerolog.Logger
}

// NewRuntime registers specs and returns a runtime spawning into world. A nil
// world gets a fresh one.
func NewRuntime(world *ecs.World, specs []prefabs.TypeSpec, opts Options) (*Runtime, error) {
	if world == nil {
		world = ecs.NewWorld()
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	r := &Runtime{
		world:   world,
		types:   make(map[string]*Type, len(specs)),
		names:   map[string]ecs.Entity{},
		scripts: opts.Scripts,
		log:     log,
	}
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Runtime) Register(spec prefabs.TypeSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("entity: register: empty type name")
	}
	if _, ok := r.types[spec.Name]; ok {
		return fmt.Errorf("entity: register %q: already registered", spec.Name)
	}
	t := &Type{
		Name:     spec.Name,
		Links:    append([]string(nil), spec.Links...),
		Script:   spec.Script,
		Defaults: maps.Clone(spec.Defaults),
	}
	if spec.Size != nil {
		t.Size = component.Size{W: spec.Size.W, H: spec.Size.H}
	}
	r.types[spec.Name] = t
	return nil
}

// SetTypes replaces the type registry. It keeps the old registry when specs
// are invalid. Entities spawned from replaced types should be reset before the
// next load.
func (r *Runtime) SetTypes(specs []prefabs.TypeSpec) error {
	old := r.types
	r.types = make(map[string]*Type, len(specs))
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			r.types = old
			return err
		}
	}
	return nil
}

func (r *Runtime) TypeByName(name string) (*Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// TypeNames returns the registered type names, sorted.
func (r *Runtime) TypeNames() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Runtime) World() *ecs.World {
	return r.world
}

func (r *Runtime) Count() int {
	return ecs.Count(r.world)
}

// Spawn creates an entity of type t with its top-left corner at pos.
func (r *Runtime) Spawn(t *Type, pos common.Vec2) (ecs.Entity, error) {
	if t == nil {
		return 0, ErrUnknownType
	}
	if registered, ok := r.types[t.Name]; !ok || registered != t {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, t.Name)
	}

	e := ecs.CreateEntity(r.world)
	if err := ecs.Add(r.world, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
		return 0, err
	}
	if err := ecs.Add(r.world, e, component.EntityTypeComponent.Kind(), &component.EntityType{Name: t.Name}); err != nil {
		return 0, err
	}
	size := t.Size
	if err := ecs.Add(r.world, e, component.SizeComponent.Kind(), &size); err != nil {
		return 0, err
	}
	return e, nil
}

// SetName names e. Names are unique; naming a second entity the same takes
// the name over.
func (r *Runtime) SetName(e ecs.Entity, name string) error {
	if !ecs.IsAlive(r.world, e) {
		return fmt.Errorf("%w: %v", ErrNotAlive, e)
	}
	if old, ok := ecs.Get(r.world, e, component.NameComponent.Kind()); ok && r.names[old.Value] == e {
		delete(r.names, old.Value)
	}
	if prev, ok := r.names[name]; ok && prev != e && ecs.IsAlive(r.world, prev) {
		r.log.Warn().Str("name", name).Stringer("entity", e).Stringer("previous", prev).Msg("duplicate entity name")
	}
	r.names[name] = e
	return ecs.Add(r.world, e, component.NameComponent.Kind(), &component.Name{Value: name})
}

func (r *Runtime) FindByName(name string) (ecs.Entity, bool) {
	e, ok := r.names[name]
	if !ok || !ecs.IsAlive(r.world, e) {
		return 0, false
	}
	return e, true
}

// ApplySettings merges settings over the entity type's defaults, resolves
// the type's link keys to named entities and runs the type script.
func (r *Runtime) ApplySettings(e ecs.Entity, settings map[string]any) error {
	if !ecs.IsAlive(r.world, e) {
		return fmt.Errorf("%w: %v", ErrNotAlive, e)
	}
	et, ok := ecs.Get(r.world, e, component.EntityTypeComponent.Kind())
	if !ok {
		return fmt.Errorf("%w: entity %v has no type", ErrUnknownType, e)
	}
	t, ok := r.types[et.Name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, et.Name)
	}

	values := maps.Clone(t.Defaults)
	if values == nil {
		values = make(map[string]any, len(settings))
	}
	maps.Copy(values, settings)

	applied := &component.Settings{Values: values, Links: map[string]uint64{}}
	for _, key := range t.Links {
		raw, ok := values[key]
		if !ok || raw == nil {
			continue
		}
		name, ok := raw.(string)
		if !ok {
			return fmt.Errorf("entity: %s %v: link %q must be a string, got %T", t.Name, e, key, raw)
		}
		target, ok := r.FindByName(name)
		if !ok {
			return fmt.Errorf("%w: %s %v: %s=%q", ErrUnknownLink, t.Name, e, key, name)
		}
		applied.Links[key] = uint64(target)
	}
	if err := ecs.Add(r.world, e, component.SettingsComponent.Kind(), applied); err != nil {
		return err
	}

	if t.Script == "" {
		return nil
	}
	self, _ := r.describe(e)
	err := r.scripts.Run(t.Script, script.Env{
		Settings: values,
		Self:     self,
		Find: func(name string) (map[string]any, bool) {
			target, ok := r.FindByName(name)
			if !ok {
				return nil, false
			}
			return r.describe(target)
		},
		Set: func(key string, value any) { values[key] = value },
	})
	if err != nil {
		return fmt.Errorf("entity: %s %v: %w", t.Name, e, err)
	}
	return nil
}

// Reset destroys every entity and forgets all names.
func (r *Runtime) Reset() {
	ecs.Reset(r.world)
	clear(r.names)
}

// Info is a read-only view of a spawned entity.
type Info struct {
	Entity   ecs.Entity
	Type     string
	Name     string
	Pos      common.Vec2
	Settings map[string]any
}

// Entities lists the live entities in slot order.
func (r *Runtime) Entities() []Info {
	ents := ecs.Entities(r.world)
	out := make([]Info, 0, len(ents))
	for _, e := range ents {
		info := Info{Entity: e}
		if et, ok := ecs.Get(r.world, e, component.EntityTypeComponent.Kind()); ok {
			info.Type = et.Name
		}
		if n, ok := ecs.Get(r.world, e, component.NameComponent.Kind()); ok {
			info.Name = n.Value
		}
		if tr, ok := ecs.Get(r.world, e, component.TransformComponent.Kind()); ok {
			info.Pos = common.V(tr.X, tr.Y)
		}
		if s, ok := ecs.Get(r.world, e, component.SettingsComponent.Kind()); ok {
			info.Settings = s.Values
		}
		out = append(out, info)
	}
	return out
}

func (r *Runtime) describe(e ecs.Entity) (map[string]any, bool) {
	if !ecs.IsAlive(r.world, e) {
		return nil, false
	}
	out := map[string]any{}
	if et, ok := ecs.Get(r.world, e, component.EntityTypeComponent.Kind()); ok {
		out["type"] = et.Name
	}
	if n, ok := ecs.Get(r.world, e, component.NameComponent.Kind()); ok {
		out["name"] = n.Value
	}
	if tr, ok := ecs.Get(r.world, e, component.TransformComponent.Kind()); ok {
		out["x"] = tr.X
		out["y"] = tr.Y
	}
	if sz, ok := ecs.Get(r.world, e, component.SizeComponent.Kind()); ok {
		out["w"] = sz.W
		out["h"] = sz.H
	}
	return out, true
}
