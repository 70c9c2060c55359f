package script

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func sources(m map[string]string) (Loader, *int) {
	loads := 0
	return func(name string) ([]byte, error) {
		loads++
		src, ok := m[name]
		if !ok {
			return nil, errors.New("missing " + name)
		}
		return []byte(src), nil
	}, &loads
}

func TestRunnerSetAndFind(t *testing.T) {
	load, loads := sources(map[string]string{
		"aim.tengo": `
t := find(settings.target)
if t != undefined {
	set("target_x", t.x)
	set("owner", self.name)
}
set("missing", find("nobody") == undefined)
`,
	})
	r := NewRunner(load)

	got := map[string]any{}
	env := Env{
		Settings: map[string]any{"target": "door"},
		Self:     map[string]any{"name": "7"},
		Find: func(name string) (map[string]any, bool) {
			if name != "door" {
				return nil, false
			}
			return map[string]any{"x": 32.0, "y": 8.0}, true
		},
		Set: func(k string, v any) { got[k] = v },
	}

	require.NoError(t, r.Run("aim.tengo", env))
	require.Equal(t, map[string]any{"target_x": 32.0, "owner": "7", "missing": true}, got)

	// second run reuses the compiled script with fresh globals
	got = map[string]any{}
	env.Settings = map[string]any{}
	require.NoError(t, r.Run("aim.tengo", env))
	require.Equal(t, map[string]any{"missing": true}, got)
	require.Equal(t, 1, *loads)

	r.Forget()
	require.NoError(t, r.Run("aim.tengo", env))
	require.Equal(t, 2, *loads)
}

func TestRunnerErrors(t *testing.T) {
	load, _ := sources(map[string]string{
		"bad.tengo":   `x := `,
		"panic.tengo": `set("only-one-arg")`,
	})
	r := NewRunner(load)

	require.Error(t, r.Run("missing.tengo", Env{}))
	require.ErrorContains(t, r.Run("bad.tengo", Env{}), "compile")
	require.ErrorContains(t, r.Run("panic.tengo", Env{}), "run")

	var nilRunner *Runner
	require.ErrorIs(t, nilRunner.Run("x", Env{}), ErrNoSource)
	require.ErrorIs(t, NewRunner(nil).Run("x", Env{}), ErrNoSource)
}
