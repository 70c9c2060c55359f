package prefabs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// Source reads specs from Dir on disk first, falling back to FS. Either may be
// empty.
type Source struct {
	Dir string
	FS  fs.FS
}

// Embedded returns a source that reads the built-in specs, preferring edited
// copies under prefabs/ on disk.
func Embedded() *Source {
	return &Source{Dir: "prefabs", FS: mergedFS{PrefabsFS, ScriptsFS}}
}

func (s *Source) Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if s == nil {
		return nil, fmt.Errorf("prefabs: nil source")
	}
	if s.Dir != "" {
		if data, err := os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	if s.FS == nil {
		return nil, fmt.Errorf("prefabs: %s: %w", clean, fs.ErrNotExist)
	}
	return fs.ReadFile(s.FS, clean)
}

func (s *Source) LoadScript(name string) ([]byte, error) {
	return s.Load(cleanScriptPath(name))
}

func (s *Source) ModTime(name string) (time.Time, bool) {
	if s == nil || s.Dir == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(filepath.Join(s.Dir, filepath.FromSlash(cleanPrefabPath(name))))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

type mergedFS []fs.FS

func (m mergedFS) Open(name string) (fs.File, error) {
	for _, f := range m {
		if file, err := f.Open(name); err == nil {
			return file, nil
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return "scripts/" + s
}
