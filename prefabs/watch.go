package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce drops repeated events for the same file; editors tend to write a
// file several times per save.
const debounce = 100 * time.Millisecond

// DefaultWatchExts covers native level JSON, Tiled maps and tilesets, type
// specs and settings scripts.
var DefaultWatchExts = []string{".json", ".tmj", ".tsj", ".yaml", ".yml", ".tengo"}

// Watcher publishes the names of changed level and spec files. It only
// reports changes; reloading is up to the receiver.
type Watcher struct {
	watcher *fsnotify.Watcher
	exts    map[string]struct{}
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once

	// last is only touched by the run goroutine.
	last map[string]time.Time
}

// NewWatcher watches dirs for files with one of exts (DefaultWatchExts when
// empty).
func NewWatcher(exts []string, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	if len(exts) == 0 {
		exts = DefaultWatchExts
	}
	extSet := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		extSet[strings.ToLower(ext)] = struct{}{}
	}

	watcher := &Watcher{
		watcher: w,
		exts:    extSet,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		last:    make(map[string]time.Time),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Drain returns every pending event without blocking, with duplicates
// removed.
func (w *Watcher) Drain() []string {
	var out []string
	seen := map[string]struct{}{}
	for {
		select {
		case name := <-w.Events:
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		default:
			return out
		}
	}
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.accept(event.Name, time.Now()) {
				continue
			}
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// accept reports whether a change to name at now should be published: the
// extension must be watched and the file must not have been published within
// the debounce window.
func (w *Watcher) accept(name string, now time.Time) bool {
	if !w.Matches(name) {
		return false
	}
	if t, ok := w.last[name]; ok && now.Sub(t) < debounce {
		return false
	}
	w.last[name] = now
	return true
}

// Matches reports whether path has one of the watched extensions.
func (w *Watcher) Matches(path string) bool {
	_, ok := w.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}
