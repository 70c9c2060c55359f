package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/milk9111/levelkit/alloc"
	"github.com/milk9111/levelkit/assets"
	"github.com/milk9111/levelkit/config"
	"github.com/milk9111/levelkit/ecs/entity"
	"github.com/milk9111/levelkit/engine"
	"github.com/milk9111/levelkit/level"
	"github.com/milk9111/levelkit/levels"
	"github.com/milk9111/levelkit/prefabs"
	"github.com/milk9111/levelkit/render"
	"github.com/milk9111/levelkit/script"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	envFile := flag.String("env", ".env", "dotenv file with LEVELKIT_* overrides")
	assetRoot := flag.String("assets", "", "asset root directory (overrides config)")
	prefabDir := flag.String("prefabs", "", "prefab spec directory (overrides config)")
	format := flag.String("format", "auto", "level format: native, tiled or auto")
	projectDir := flag.String("project", "", "Tiled project directory (default: the map's directory)")
	embedded := flag.Bool("embedded", false, "load from the embedded sample levels")
	watch := flag.Bool("watch", false, "reload when level, type or script files change")
	logLevel := flag.String("log", "", "log level (overrides config)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: leveldump [flags] <level>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Fatal().Err(err).Msg("load config")
	}
	lookup, err := config.EnvLookup(*envFile)
	if err != nil {
		boot.Fatal().Err(err).Msg("read env")
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		boot.Fatal().Err(err).Msg("apply env")
	}
	if *assetRoot != "" {
		cfg.AssetRoot = *assetRoot
	}
	if *prefabDir != "" {
		cfg.PrefabDir = *prefabDir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	lvl, err := cfg.Level()
	if err != nil {
		boot.Fatal().Err(err).Msg("log level")
	}
	logger := boot.Level(lvl)

	path := flag.Arg(0)
	if path == "" && *embedded {
		path = levels.Sample
	}
	if path == "" {
		flag.Usage()
		os.Exit(2)
	}

	var assetFS fs.FS
	if *embedded {
		assetFS = levels.FS()
	} else {
		assetFS = assets.Dir(cfg.AssetRoot)
	}

	d, err := newDumper(cfg, assetFS, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("setup")
	}
	scene := &dumpScene{dumper: d, path: path, format: detectFormat(*format, path), projectDir: *projectDir}
	if err := d.run(scene); err != nil {
		logger.Fatal().Err(err).Str("path", path).Msg("load level")
	}

	if !*watch {
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dirs := []string{cfg.PrefabDir, filepath.Join(cfg.PrefabDir, "scripts")}
	if !*embedded {
		dirs = append(dirs, filepath.Join(cfg.AssetRoot, filepath.Dir(path)))
	}
	if err := d.watch(ctx, scene, existingDirs(dirs)); err != nil {
		logger.Fatal().Err(err).Msg("watch")
	}
}

// dumper owns the loading stack for the lifetime of the process.
type dumper struct {
	cfg     config.Config
	log     *zerolog.Logger
	src     *prefabs.Source
	scripts *script.Runner
	runtime *entity.Runtime
	temp    *alloc.Temp
	images  *render.Cache
	engine  *engine.Engine
	loader  *level.Loader

	// typesMod is the on-disk modification time of the loaded types file.
	typesMod time.Time
}

func newDumper(cfg config.Config, assetFS fs.FS, log *zerolog.Logger) (*dumper, error) {
	src := prefabs.Embedded()
	src.Dir = cfg.PrefabDir

	types, err := prefabs.LoadTypes(src, cfg.TypesFile)
	if err != nil {
		return nil, err
	}
	scripts := script.NewRunner(src.LoadScript)
	rt, err := entity.NewRuntime(nil, types, entity.Options{Scripts: scripts, Logger: log})
	if err != nil {
		return nil, err
	}

	temp := alloc.NewTemp()
	images := render.NewCache()
	eng := engine.New(engine.Options{
		Images:            images,
		Temp:              temp,
		Entities:          rt,
		Logger:            log,
		MaxBackgroundMaps: cfg.MaxBackgroundMaps,
	})

	typesMod, _ := src.ModTime(cfg.TypesFile)
	return &dumper{
		cfg:     cfg,
		log:     log,
		src:     src,
		scripts: scripts,
		runtime: rt,
		temp:    temp,
		images:  images,
		engine:  eng,
		loader: &level.Loader{
			Assets:         assets.NewLoader(assetFS, temp),
			Images:         render.NewDecodeLoader(assetFS, images),
			Entities:       rt,
			State:          eng,
			Logger:         log,
			CollisionLayer: cfg.CollisionLayer,
			SourceImageExt: cfg.SourceImageExt,
			NativeImageExt: cfg.NativeImageExt,
		},
		typesMod: typesMod,
	}, nil
}

// run switches the engine to scene and steps one frame, which loads the level
// and prints it.
func (d *dumper) run(scene *dumpScene) error {
	d.engine.SetScene(scene)
	return d.engine.Update(1.0 / 60)
}

func (d *dumper) watch(ctx context.Context, scene *dumpScene, dirs []string) error {
	w, err := prefabs.NewWatcher(nil, dirs...)
	if err != nil {
		return err
	}
	defer w.Close()
	d.log.Info().Strs("dirs", dirs).Msg("watching")

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors:
			d.log.Warn().Err(err).Msg("watcher")
		case name := <-w.Events:
			changed := append([]string{name}, w.Drain()...)
			if err := d.reload(changed); err != nil {
				d.log.Error().Err(err).Msg("reload")
				continue
			}
			if err := d.run(scene.again()); err != nil {
				d.log.Error().Err(err).Str("path", scene.path).Msg("load level")
			}
		}
	}
}

// reload picks up edited type specs and scripts before the level is loaded
// again.
func (d *dumper) reload(changed []string) error {
	for _, name := range changed {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
			mod, ok := d.src.ModTime(d.cfg.TypesFile)
			if ok && mod.Equal(d.typesMod) {
				continue
			}
			types, err := prefabs.LoadTypes(d.src, d.cfg.TypesFile)
			if err != nil {
				return err
			}
			d.runtime.Reset()
			if err := d.runtime.SetTypes(types); err != nil {
				return err
			}
			d.typesMod = mod
			d.log.Info().Int("types", len(types)).Time("modified", mod).Msg("types reloaded")
		case ".tengo":
			d.scripts.Forget()
		}
	}
	return nil
}

func detectFormat(format, path string) string {
	if format != "auto" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tmj", ".tmx":
		return "tiled"
	}
	return "native"
}

func existingDirs(dirs []string) []string {
	out := dirs[:0]
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			out = append(out, dir)
		}
	}
	return out
}
