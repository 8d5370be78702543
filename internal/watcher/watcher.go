// Package watcher reports changes to a set of files, coalescing bursts of
// events into one callback.
package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Watcher tracks individual files. Editors often replace a file instead of
// writing it, so the parent directories are watched and events are filtered
// down to the tracked files.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	debounce   time.Duration
	exclude    []glob.Glob
	onChange   func([]string)
	callbackMu sync.Mutex
	logger     *slog.Logger

	filesMu sync.Mutex
	files   map[string]struct{}
	dirs    map[string]struct{}

	pending   map[string]struct{}
	pendingMu sync.Mutex
	timer     *time.Timer
	done      chan struct{}
}

// New creates a Watcher. exclude holds base name patterns; matching files are
// never reported even when tracked.
func New(debounce time.Duration, exclude []string, logger *slog.Logger, onChange func([]string)) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		onChange:  onChange,
		logger:    logger,
		files:     make(map[string]struct{}),
		dirs:      make(map[string]struct{}),
		pending:   make(map[string]struct{}),
		done:      make(chan struct{}),
	}

	w.exclude, err = CompileExcludes(exclude)
	if err != nil {
		fsw.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

// SetFiles replaces the tracked set. Directories no longer needed stay
// watched; their events are dropped by the filter.
func (w *Watcher) SetFiles(files []string) error {
	w.filesMu.Lock()
	defer w.filesMu.Unlock()

	w.files = make(map[string]struct{}, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		w.files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = struct{}{}
	}
	return nil
}

// Files returns the tracked files, sorted.
func (w *Watcher) Files() []string {
	w.filesMu.Lock()
	defer w.filesMu.Unlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.tracked(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) tracked(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if w.shouldExclude(abs) {
		return false
	}
	w.filesMu.Lock()
	defer w.filesMu.Unlock()
	_, ok := w.files[abs]
	return ok
}

// CompileExcludes compiles base name patterns with '/' as the separator, so
// "*" never spans a directory.
func CompileExcludes(patterns []string) ([]glob.Glob, error) {
	var globs []glob.Glob
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func (w *Watcher) shouldExclude(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.exclude {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)
	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.onChange(paths)
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	close(w.done)
	return w.fsWatcher.Close()
}
