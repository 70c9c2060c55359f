// Package config holds the settings shared by the level tools: where assets
// and prefab specs live and how levels are interpreted. Values come from an
// optional YAML file, then the environment (and .env files), then flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const envPrefix = "LEVELKIT_"

type Config struct {
	AssetRoot         string `yaml:"asset_root"`
	PrefabDir         string `yaml:"prefab_dir"`
	TypesFile         string `yaml:"types_file"`
	CollisionLayer    string `yaml:"collision_layer"`
	SourceImageExt    string `yaml:"source_image_ext"`
	NativeImageExt    string `yaml:"native_image_ext"`
	MaxBackgroundMaps int    `yaml:"max_background_maps"`
	LogLevel          string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		AssetRoot:         ".",
		PrefabDir:         "prefabs",
		TypesFile:         "types.yaml",
		CollisionLayer:    "collision",
		SourceImageExt:    ".png",
		NativeImageExt:    ".qoi",
		MaxBackgroundMaps: 4,
		LogLevel:          "info",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults; keys left out keep their default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// EnvLookup returns a lookup over the process environment, falling back to
// the values of the given .env files. Missing files are skipped.
func EnvLookup(files ...string) (func(string) (string, bool), error) {
	fileEnv := map[string]string{}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		vals, err := godotenv.Read(f)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", f, err)
		}
		for k, v := range vals {
			if _, ok := fileEnv[k]; !ok {
				fileEnv[k] = v
			}
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides fields from LEVELKIT_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ASSET_ROOT":       &c.AssetRoot,
		"PREFAB_DIR":       &c.PrefabDir,
		"TYPES_FILE":       &c.TypesFile,
		"COLLISION_LAYER":  &c.CollisionLayer,
		"SOURCE_IMAGE_EXT": &c.SourceImageExt,
		"NATIVE_IMAGE_EXT": &c.NativeImageExt,
		"LOG_LEVEL":        &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup(envPrefix + "MAX_BACKGROUND_MAPS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sMAX_BACKGROUND_MAPS: %w", envPrefix, err)
		}
		c.MaxBackgroundMaps = n
	}
	return c.Validate()
}

func (c Config) Validate() error {
	if c.MaxBackgroundMaps <= 0 {
		return fmt.Errorf("config: max_background_maps must be positive, got %d", c.MaxBackgroundMaps)
	}
	if c.CollisionLayer == "" {
		return fmt.Errorf("config: collision_layer is empty")
	}
	if !strings.HasPrefix(c.NativeImageExt, ".") || !strings.HasPrefix(c.SourceImageExt, ".") {
		return fmt.Errorf("config: image extensions must start with '.'")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("config: log_level: %w", err)
	}
	return lvl, nil
}
