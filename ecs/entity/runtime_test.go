package entity

import (
	"testing"

	"github.com/milk9111/levelkit/common"
	"github.com/milk9111/levelkit/ecs"
	"github.com/milk9111/levelkit/ecs/component"
	"github.com/milk9111/levelkit/prefabs"
	"github.com/milk9111/levelkit/script"
	"github.com/stretchr/testify/require"
)

func testSpecs() []prefabs.TypeSpec {
	return []prefabs.TypeSpec{
		{Name: "Player", Size: &prefabs.SizeSpec{W: 16, H: 24}, Defaults: map[string]any{"health": 3}},
		{Name: "Door"},
		{Name: "Lever", Links: []string{"target"}},
		{Name: "Trigger", Links: []string{"target"}, Script: "trigger.tengo"},
	}
}

func newRuntime(t *testing.T) *Runtime {
	t.Helper()
	runner := script.NewRunner(prefabs.Embedded().LoadScript)
	r, err := NewRuntime(nil, testSpecs(), Options{Scripts: runner})
	require.NoError(t, err)
	return r
}

func spawn(t *testing.T, r *Runtime, typ, name string, x, y float64) ecs.Entity {
	t.Helper()
	tt, ok := r.TypeByName(typ)
	require.True(t, ok, typ)
	e, err := r.Spawn(tt, common.V(x, y))
	require.NoError(t, err)
	require.NoError(t, r.SetName(e, name))
	return e
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := newRuntime(t)
	require.Error(t, r.Register(prefabs.TypeSpec{Name: "Door"}))
	require.Error(t, r.Register(prefabs.TypeSpec{}))
	require.Equal(t, []string{"Door", "Lever", "Player", "Trigger"}, r.TypeNames())
}

func TestSpawnAddsComponents(t *testing.T) {
	r := newRuntime(t)
	e := spawn(t, r, "Player", "7", 10, 30)

	tr, ok := ecs.Get(r.World(), e, component.TransformComponent.Kind())
	require.True(t, ok)
	require.Equal(t, component.Transform{X: 10, Y: 30}, *tr)
	sz, ok := ecs.Get(r.World(), e, component.SizeComponent.Kind())
	require.True(t, ok)
	require.Equal(t, component.Size{W: 16, H: 24}, *sz)

	found, ok := r.FindByName("7")
	require.True(t, ok)
	require.Equal(t, e, found)

	_, err := r.Spawn(&Type{Name: "Player"}, common.Vec2{})
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestApplySettingsDefaults(t *testing.T) {
	r := newRuntime(t)
	e := spawn(t, r, "Player", "p", 0, 0)
	require.NoError(t, r.ApplySettings(e, map[string]any{"speed": 2.5}))

	infos := r.Entities()
	require.Len(t, infos, 1)
	require.Equal(t, map[string]any{"health": 3, "speed": 2.5}, infos[0].Settings)

	pt, _ := r.TypeByName("Player")
	require.Equal(t, map[string]any{"health": 3}, pt.Defaults)
}

// A lever pointing at a door resolves the same whichever is spawned first,
// since links are resolved only after every entity exists.
func TestApplySettingsLinkOrderIndependent(t *testing.T) {
	orders := map[string][]string{
		"lever_first": {"Lever", "Door"},
		"door_first":  {"Door", "Lever"},
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			r := newRuntime(t)
			ents := map[string]ecs.Entity{}
			for _, typ := range order {
				ents[typ] = spawn(t, r, typ, typ+"-1", 0, 0)
			}
			require.NoError(t, r.ApplySettings(ents["Lever"], map[string]any{"target": "Door-1"}))

			s, ok := ecs.Get(r.World(), ents["Lever"], component.SettingsComponent.Kind())
			require.True(t, ok)
			require.Equal(t, uint64(ents["Door"]), s.Links["target"])
		})
	}
}

func TestApplySettingsUnknownLink(t *testing.T) {
	r := newRuntime(t)
	e := spawn(t, r, "Lever", "l", 0, 0)
	require.ErrorIs(t, r.ApplySettings(e, map[string]any{"target": "nobody"}), ErrUnknownLink)
	require.Error(t, r.ApplySettings(e, map[string]any{"target": 4.0}))
	require.NoError(t, r.ApplySettings(e, nil))
}

func TestApplySettingsRunsScript(t *testing.T) {
	r := newRuntime(t)
	door := spawn(t, r, "Door", "exit", 48, 16)
	trig := spawn(t, r, "Trigger", "t", 0, 0)
	require.NoError(t, r.ApplySettings(trig, map[string]any{"target": "exit"}))

	s, ok := ecs.Get(r.World(), trig, component.SettingsComponent.Kind())
	require.True(t, ok)
	require.Equal(t, uint64(door), s.Links["target"])
	require.Equal(t, 48.0, s.Values["target_x"])
	require.Equal(t, 16.0, s.Values["target_y"])
	require.EqualValues(t, 0, s.Values["delay"])
}

func TestSetNameTakeover(t *testing.T) {
	r := newRuntime(t)
	a := spawn(t, r, "Door", "a", 0, 0)
	require.NoError(t, r.SetName(a, "b"))
	_, ok := r.FindByName("a")
	require.False(t, ok)

	c := spawn(t, r, "Door", "b", 0, 0)
	found, _ := r.FindByName("b")
	require.Equal(t, c, found)
}

func TestReset(t *testing.T) {
	r := newRuntime(t)
	e := spawn(t, r, "Door", "d", 0, 0)
	r.Reset()
	require.Zero(t, r.Count())
	_, ok := r.FindByName("d")
	require.False(t, ok)
	require.ErrorIs(t, r.SetName(e, "x"), ErrNotAlive)
	require.ErrorIs(t, r.ApplySettings(e, nil), ErrNotAlive)
}

func TestSetTypes(t *testing.T) {
	r := newRuntime(t)
	require.NoError(t, r.SetTypes([]prefabs.TypeSpec{{Name: "Crate"}}))
	require.Equal(t, []string{"Crate"}, r.TypeNames())

	require.Error(t, r.SetTypes([]prefabs.TypeSpec{{Name: "A"}, {Name: "A"}}))
	require.Equal(t, []string{"Crate"}, r.TypeNames())
}
