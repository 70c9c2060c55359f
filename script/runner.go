// Package script runs the tengo settings scripts entity types may declare.
// A script sees the merged settings of one entity and can look up other
// entities by name and write settings back.
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

var ErrNoSource = errors.New("script: no source loader")

// modules are the stdlib modules scripts may import. os and io-bound modules
// stay out.
var modules = []string{"math", "text", "fmt", "json", "enum"}

// Loader returns the source of a named script.
type Loader func(name string) ([]byte, error)

// Env is what a script run can see and change.
type Env struct {
	Settings map[string]any
	Self     map[string]any
	// Find resolves another entity by name. A false result reaches the script
	// as undefined.
	Find func(name string) (map[string]any, bool)
	// Set receives every set(key, value) call.
	Set func(key string, value any)
}

// Runner compiles each script once and runs a fresh copy per entity.
type Runner struct {
	load     Loader
	compiled map[string]*tengo.Compiled
}

func NewRunner(load Loader) *Runner {
	return &Runner{load: load, compiled: map[string]*tengo.Compiled{}}
}

// Forget drops cached compilations so edited scripts are picked up.
func (r *Runner) Forget() {
	if r == nil {
		return
	}
	clear(r.compiled)
}

func (r *Runner) Run(name string, env Env) error {
	if r == nil {
		return ErrNoSource
	}
	base, err := r.compile(name)
	if err != nil {
		return err
	}

	c := base.Clone()
	if err := c.Set("settings", toObject(env.Settings)); err != nil {
		return fmt.Errorf("script: %s: settings: %w", name, err)
	}
	if err := c.Set("self", toObject(env.Self)); err != nil {
		return fmt.Errorf("script: %s: self: %w", name, err)
	}
	if err := c.Set("find", findFunc(env.Find)); err != nil {
		return err
	}
	if err := c.Set("set", setFunc(env.Set)); err != nil {
		return err
	}
	if err := c.Run(); err != nil {
		return fmt.Errorf("script: run %s: %w", name, err)
	}
	return nil
}

func (r *Runner) compile(name string) (*tengo.Compiled, error) {
	if c, ok := r.compiled[name]; ok {
		return c, nil
	}
	if r.load == nil {
		return nil, ErrNoSource
	}
	src, err := r.load(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}

	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(modules...))
	_ = s.Add("settings", map[string]any{})
	_ = s.Add("self", map[string]any{})
	_ = s.Add("find", findFunc(nil))
	_ = s.Add("set", setFunc(nil))

	c, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	r.compiled[name] = c
	return c, nil
}

func findFunc(find func(string) (map[string]any, bool)) *tengo.UserFunction {
	return &tengo.UserFunction{Name: "find", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		name := objectAsString(args[0])
		if find == nil || name == "" {
			return tengo.UndefinedValue, nil
		}
		v, ok := find(name)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return toObject(v), nil
	}}
}

func setFunc(set func(string, any)) *tengo.UserFunction {
	return &tengo.UserFunction{Name: "set", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		key := strings.TrimSpace(objectAsString(args[0]))
		if key == "" {
			return nil, tengo.ErrInvalidArgumentType{Name: "key", Expected: "string", Found: args[0].TypeName()}
		}
		if set != nil {
			set(key, tengo.ToInterface(args[1]))
		}
		return tengo.TrueValue, nil
	}}
}

func toObject(v any) tengo.Object {
	if v == nil {
		return tengo.UndefinedValue
	}
	obj, err := tengo.FromInterface(v)
	if err != nil {
		return &tengo.String{Value: fmt.Sprint(v)}
	}
	return obj
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Undefined:
		return ""
	default:
		return strings.Trim(v.String(), "\"")
	}
}
