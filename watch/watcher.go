// Package watch reports file system changes under a path and serializes
// pipeline runs triggered by them.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Options configures Watcher.
type Options struct {
	// Path is a file or a directory, directories are watched recursively.
	Path string
	// Ignore holds doublestar patterns matched against paths relative to
	// watched directory and against base names.
	Ignore []string
	// Exclude holds files whose changes are never reported.
	Exclude []string
}

// Watcher delivers change notifications for a file or a directory tree.
type Watcher struct {
	log     *zap.Logger
	fsw     *fsnotify.Watcher
	root    string // watched directory
	file    string // set when watching single file
	ignore  []string
	exclude map[string]struct{}
}

// New creates watcher and registers directories.
func New(opts Options, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	for _, p := range opts.Ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("bad ignore pattern %q", p)
		}
	}

	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve watched path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("unable to access watched path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create watcher: %w", err)
	}

	w := &Watcher{
		log:     log.Named("watch"),
		fsw:     fsw,
		ignore:  opts.Ignore,
		exclude: make(map[string]struct{}, len(opts.Exclude)),
	}
	for _, e := range opts.Exclude {
		if a, err := filepath.Abs(e); err == nil {
			w.exclude[a] = struct{}{}
		}
	}

	if info.IsDir() {
		w.root = abs
		err = w.addTree(abs)
	} else {
		// editors replace files on save, watching parent survives that
		w.root, w.file = filepath.Dir(abs), abs
		err = fsw.Add(w.root)
	}
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("unable to watch %s: %w", abs, err)
	}
	w.log.Debug("Watching", zap.String("path", abs), zap.Int("directories", len(fsw.WatchList())))
	return w, nil
}

// addTree registers dir and all its subdirectories which are not ignored.
func (w *Watcher) addTree(dir string) error {
	var (
		mu   sync.Mutex
		dirs []string
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			w.log.Debug("Skipping unreadable path", zap.String("path", p), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && w.ignored(p) {
			return fastwalk.SkipDir
		}
		mu.Lock()
		dirs = append(dirs, p)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := w.fsw.Add(d); err != nil {
			return err
		}
	}
	return nil
}

// ignored checks path against ignore patterns.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, p := range w.ignore {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

// relevant decides whether event should trigger a run.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(ev.Name)
	if _, ok := w.exclude[name]; ok {
		return false
	}
	if w.file != "" {
		return name == w.file
	}
	return !w.ignored(name)
}

// Run delivers changed path names to onChange until context is done or
// watcher fails.
func (w *Watcher) Run(ctx context.Context, onChange func(name string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.file == "" && ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !w.ignored(ev.Name) {
					if err := w.addTree(ev.Name); err != nil {
						w.log.Warn("Unable to watch new directory", zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("Change detected", zap.String("name", ev.Name), zap.Stringer("op", ev.Op))
			onChange(ev.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("Events lost, forcing run", zap.Error(err))
				onChange(w.root)
				continue
			}
			w.log.Error("Watcher error", zap.Error(err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
