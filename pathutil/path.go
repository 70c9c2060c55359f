// Package pathutil resolves asset paths relative to the file that references
// them. Paths always use '/' as separator, regardless of the host OS, since
// they are read from level data and looked up in an fs.FS.
package pathutil

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Separator = "/"

	// MaxParts bounds the number of components Normalize accepts.
	MaxParts = 32

	// MaxPathLen bounds any joined path. A joined path of MaxPathLen bytes or
	// more is rejected.
	MaxPathLen = 256
)

var (
	ErrTooManyParts = errors.New("pathutil: too many path components")
	ErrEscapesRoot  = errors.New("pathutil: cannot resolve parent above path root")
	ErrPathTooLong  = errors.New("pathutil: path too long")
)

// ParentDir returns everything before the last separator. ok is false when the
// path is a bare file name.
func ParentDir(path string) (dir string, ok bool) {
	idx := strings.LastIndex(path, Separator)
	if idx < 0 {
		return "", false
	}
	return path[:idx], true
}

// Normalize collapses "." and ".." components without touching the file
// system. Empty components (from leading, trailing or doubled separators) are
// dropped; a leading separator is kept.
func Normalize(path string) (string, error) {
	parts := make([]string, 0, 8)
	for _, p := range strings.Split(path, Separator) {
		if p == "" {
			continue
		}
		if len(parts) >= MaxParts {
			return "", fmt.Errorf("%w: %q has more than %d", ErrTooManyParts, path, MaxParts)
		}
		parts = append(parts, p)
	}

	// dropped[i] marks components consumed by a ".." (or a "." itself).
	dropped := make([]bool, len(parts))
	for i, p := range parts {
		switch p {
		case ".":
			dropped[i] = true
		case "..":
			dropped[i] = true
			j := i - 1
			for ; j >= 0; j-- {
				if !dropped[j] {
					dropped[j] = true
					break
				}
			}
			if j < 0 {
				return "", fmt.Errorf("%w: %q", ErrEscapesRoot, path)
			}
		}
	}

	kept := make([]string, 0, len(parts))
	for i, p := range parts {
		if !dropped[i] {
			kept = append(kept, p)
		}
	}
	out := strings.Join(kept, Separator)
	if strings.HasPrefix(path, Separator) {
		out = Separator + out
	}
	return out, nil
}

// Join concatenates dir and name with a single separator. An empty dir yields
// name unchanged.
func Join(dir, name string) (string, error) {
	joined := name
	if dir != "" {
		joined = dir + Separator + name
	}
	if len(joined) >= MaxPathLen {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrPathTooLong, len(joined), MaxPathLen-1)
	}
	return joined, nil
}

// RewriteExt replaces the first occurrence of from, and everything after it,
// with to. Paths that do not contain from are returned unchanged.
func RewriteExt(path, from, to string) string {
	idx := strings.Index(path, from)
	if idx < 0 {
		return path
	}
	return path[:idx] + to
}
