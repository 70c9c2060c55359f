// Package engine holds the loaded level state: the background map list, the
// collision map and the running flag level loading checks. It also switches
// scenes, reclaiming everything a scene loaded in one step.
package engine

import (
	"errors"
	"fmt"

	"github.com/milk9111/levelkit/alloc"
	"github.com/milk9111/levelkit/tilemap"
	"github.com/rs/zerolog"
)

const (
	// MaxBackgroundMaps bounds the background/foreground map list.
	MaxBackgroundMaps = 4
	// MaxTick caps a single frame step in seconds.
	MaxTick = 0.1
)

var (
	ErrTooManyBackgroundMaps = errors.New("engine: background map limit reached")
	ErrNoScene               = errors.New("engine: no scene set")
)

// Scene is one screen of the game. Init is where levels are loaded; the
// engine is not running while Init and Cleanup are called.
type Scene interface {
	Init(e *Engine) error
	Update(e *Engine) error
	Cleanup(e *Engine)
}

// ImageCache is the image cache a scene switch rolls back to the position it
// had when the engine was created.
type ImageCache interface {
	Mark() int
	Reset(mark int)
}

// EntityResetter is the part of the entity runtime a scene switch needs.
type EntityResetter interface {
	Reset()
}

type Options struct {
	Images   ImageCache
	Arena    *alloc.Arena
	Temp     *alloc.Temp
	Entities EntityResetter
	Logger   *zerolog.Logger
	// MaxBackgroundMaps overrides the package limit when positive.
	MaxBackgroundMaps int
}

type Engine struct {
	BackgroundMaps []*tilemap.Map
	CollisionMap   *tilemap.Map

	Time      float64
	Tick      float64
	Frame     int
	TimeScale float64

	maxBackground int
	running       bool
	scene         Scene
	next          Scene

	images     ImageCache
	imagesMark int
	arena      *alloc.Arena
	arenaMark  alloc.Mark
	temp       *alloc.Temp
	entities   EntityResetter

	log zerolog.Logger
}

// New returns an engine with no scene. Images and arena allocations made
// before New survive every scene switch.
func New(opts Options) *Engine {
	e := &Engine{
		TimeScale:     1,
		maxBackground: MaxBackgroundMaps,
		images:        opts.Images,
		arena:         opts.Arena,
		temp:          opts.Temp,
		entities:      opts.Entities,
		log:           zerolog.Nop(),
	}
	if opts.MaxBackgroundMaps > 0 {
		e.maxBackground = opts.MaxBackgroundMaps
	}
	if opts.Logger != nil {
		e.log = *opts.Logger
	}
	if e.arena == nil {
		e.arena = alloc.NewArena()
	}
	if e.temp == nil {
		e.temp = alloc.NewTemp()
	}
	if e.images != nil {
		e.imagesMark = e.images.Mark()
	}
	e.arenaMark = e.arena.Mark()
	return e
}

func (e *Engine) IsRunning() bool {
	return e.running
}

func (e *Engine) Arena() *alloc.Arena {
	return e.arena
}

func (e *Engine) Temp() *alloc.Temp {
	return e.temp
}

// ResetLevel drops the background maps and the collision map.
func (e *Engine) ResetLevel() {
	clear(e.BackgroundMaps)
	e.BackgroundMaps = e.BackgroundMaps[:0]
	e.CollisionMap = nil
}

// AddBackgroundMap appends m to the draw list.
func (e *Engine) AddBackgroundMap(m *tilemap.Map) error {
	if len(e.BackgroundMaps) >= e.maxBackground {
		return fmt.Errorf("%w: %d", ErrTooManyBackgroundMaps, e.maxBackground)
	}
	e.arena.Keep(m)
	e.BackgroundMaps = append(e.BackgroundMaps, m)
	return nil
}

func (e *Engine) SetCollisionMap(m *tilemap.Map) {
	if m != nil {
		e.arena.Keep(m)
	}
	e.CollisionMap = m
}

// Layers splits the background list into maps drawn behind entities and
// maps drawn in front of them, keeping load order within each.
func (e *Engine) Layers() (behind, front []*tilemap.Map) {
	for _, m := range e.BackgroundMaps {
		if m == nil {
			continue
		}
		if m.Foreground {
			front = append(front, m)
		} else {
			behind = append(behind, m)
		}
	}
	return behind, front
}

// SetScene queues s; the switch happens at the start of the next Update.
func (e *Engine) SetScene(s Scene) {
	e.next = s
}

func (e *Engine) Scene() Scene {
	return e.scene
}

// Update advances one frame of dt seconds, switching to a queued scene first.
// Temporary documents still live after the scene update are reported as an
// error.
func (e *Engine) Update(dt float64) error {
	if e.next != nil {
		if err := e.switchScene(); err != nil {
			return err
		}
	}
	e.running = true

	if e.scene == nil {
		return ErrNoScene
	}

	e.Tick = min(dt*e.TimeScale, MaxTick)
	e.Time += e.Tick
	e.Frame++

	if err := e.scene.Update(e); err != nil {
		return fmt.Errorf("engine: scene update: %w", err)
	}
	return e.temp.Check()
}

func (e *Engine) switchScene() error {
	e.running = false
	if e.scene != nil {
		e.scene.Cleanup(e)
	}

	if e.images != nil {
		e.images.Reset(e.imagesMark)
	}
	e.arena.Reset(e.arenaMark)
	if e.entities != nil {
		e.entities.Reset()
	}

	e.ResetLevel()
	e.Time = 0
	e.Frame = 0

	e.scene = e.next
	e.next = nil
	e.log.Debug().Type("scene", e.scene).Msg("scene switch")
	if err := e.scene.Init(e); err != nil {
		return fmt.Errorf("engine: scene init: %w", err)
	}
	return nil
}
