package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TypesFile is the top-level shape of an entity type spec file.
type TypesFile struct {
	Types []TypeSpec `yaml:"types"`
}

// TypeSpec describes one spawnable entity type.
type TypeSpec struct {
	Name string    `yaml:"name"`
	Size *SizeSpec `yaml:"size"`
	// Links lists settings keys whose string value names another entity.
	Links []string `yaml:"links"`
	// Script is an optional settings script, relative to scripts/.
	Script   string         `yaml:"script"`
	Defaults map[string]any `yaml:"defaults"`
}

type SizeSpec struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

func LoadSpec[T any](src *Source, filename string) (T, error) {
	var zero T
	data, err := src.Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadTypes reads the entity type specs in filename. Names must be unique and
// non-empty.
func LoadTypes(src *Source, filename string) ([]TypeSpec, error) {
	file, err := LoadSpec[TypesFile](src, filename)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(file.Types))
	for i, t := range file.Types {
		if t.Name == "" {
			return nil, fmt.Errorf("prefabs: %s: type %d has no name", filename, i)
		}
		if _, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("prefabs: %s: duplicate type %q", filename, t.Name)
		}
		seen[t.Name] = struct{}{}
	}
	return file.Types, nil
}
