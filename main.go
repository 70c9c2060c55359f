package main

import (
	"flag"
	"io/fs"
	"os"
	stdpath "path"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/levelkit/alloc"
	"github.com/milk9111/levelkit/assets"
	"github.com/milk9111/levelkit/config"
	"github.com/milk9111/levelkit/ecs/entity"
	"github.com/milk9111/levelkit/engine"
	"github.com/milk9111/levelkit/level"
	"github.com/milk9111/levelkit/levels"
	"github.com/milk9111/levelkit/prefabs"
	"github.com/milk9111/levelkit/render"
	"github.com/milk9111/levelkit/render/gpu"
	"github.com/milk9111/levelkit/script"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	debug := flag.Bool("debug", false, "draw the collision map and entity bounds")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level path under the asset root (.tmj loads as a Tiled export)")
	embedded := flag.Bool("embedded", false, "view the embedded sample levels")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	lookup, err := config.EnvLookup(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("read env")
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		log.Fatal().Err(err).Msg("apply env")
	}
	if lvl, err := cfg.Level(); err == nil {
		log = log.Level(lvl)
	}

	var assetFS fs.FS = assets.Dir(cfg.AssetRoot)
	path := *levelName
	if *embedded {
		assetFS = levels.FS()
		if path == "" {
			path = levels.Sample
		}
	}
	if path == "" {
		log.Fatal().Msg("no level given; pass -level or -embedded")
	}

	src := prefabs.Embedded()
	src.Dir = cfg.PrefabDir
	types, err := prefabs.LoadTypes(src, cfg.TypesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load types")
	}
	rt, err := entity.NewRuntime(nil, types, entity.Options{Scripts: script.NewRunner(src.LoadScript), Logger: &log})
	if err != nil {
		log.Fatal().Err(err).Msg("entity runtime")
	}

	temp := alloc.NewTemp()
	images := render.NewCache()
	eng := engine.New(engine.Options{
		Images:            images,
		Temp:              temp,
		Entities:          rt,
		Logger:            &log,
		MaxBackgroundMaps: cfg.MaxBackgroundMaps,
	})
	loader := &level.Loader{
		Assets:         assets.NewLoader(assetFS, temp),
		Images:         gpu.NewLoader(assetFS, images),
		Entities:       rt,
		State:          eng,
		Logger:         &log,
		CollisionLayer: cfg.CollisionLayer,
		SourceImageExt: cfg.SourceImageExt,
		NativeImageExt: cfg.NativeImageExt,
	}

	eng.SetScene(&viewScene{
		loader: loader,
		path:   path,
		tiled:  strings.EqualFold(stdpath.Ext(path), ".tmj"),
	})

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("levelkit - " + path)

	if err := ebiten.RunGame(NewGame(eng, rt, *debug)); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
}
