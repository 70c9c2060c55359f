// Package assets reads level documents from an asset file system. Documents
// are handed to the temporary allocator; callers free them once decoded.
package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/milk9111/levelkit/alloc"
)

var ErrInvalidJSON = errors.New("assets: invalid json")

type Loader struct {
	fsys fs.FS
	temp *alloc.Temp
}

// NewLoader reads from fsys. Documents are adopted by temp; a nil temp gets a
// private one.
func NewLoader(fsys fs.FS, temp *alloc.Temp) *Loader {
	if temp == nil {
		temp = alloc.NewTemp()
	}
	return &Loader{fsys: fsys, temp: temp}
}

// Dir returns the asset file system rooted at a directory on disk.
func Dir(root string) fs.FS {
	return os.DirFS(root)
}

func (l *Loader) FS() fs.FS {
	return l.fsys
}

func (l *Loader) Temp() *alloc.Temp {
	return l.temp
}

// ReadFile loads an asset by asset-relative path.
func (l *Loader) ReadFile(p string) ([]byte, error) {
	clean := cleanAssetPath(p)
	if l == nil || l.fsys == nil {
		return nil, fmt.Errorf("assets: read %s: %w", clean, fs.ErrNotExist)
	}
	b, err := fs.ReadFile(l.fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", clean, err)
	}
	return b, nil
}

// LoadJSON reads a JSON document. The document is owned by the loader's
// temporary allocator until freed.
func (l *Loader) LoadJSON(p string) (*alloc.Document, error) {
	b, err := l.ReadFile(p)
	if err != nil {
		return nil, err
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, cleanAssetPath(p))
	}
	return l.temp.Adopt(cleanAssetPath(p), b), nil
}

func cleanAssetPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if filepath.IsAbs(p) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
	}
	s = strings.TrimPrefix(path.Clean(s), "/")
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
