// Package watch regenerates output when a schema, one of its includes or the
// project configuration changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/clad/errors"
	"github.com/teranos/clad/logger"
)

// DefaultDebounce coalesces the bursts of events editors produce on save
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc regenerates output and returns the files the result depends on.
// A failed build may still return files so that fixing them triggers a retry.
type BuildFunc func(ctx context.Context) ([]string, error)

// Watcher reruns a build whenever one of the files it last reported changes
type Watcher struct {
	build    BuildFunc
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      *zap.SugaredLogger

	mu    sync.Mutex
	files map[string]bool // absolute paths
	dirs  map[string]bool // directories registered with fsnotify
	timer *time.Timer
	fire  chan struct{}
}

// New creates a watcher. Extra files, such as the project config, are
// watched in addition to whatever the build reports.
func New(build BuildFunc, debounce time.Duration, extra ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		build:    build,
		debounce: debounce,
		watcher:  fw,
		log:      logger.Named("watch"),
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		fire:     make(chan struct{}, 1),
	}
	if err := w.track(extra); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Run builds once, then rebuilds on change until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	w.rebuild(ctx)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("Change detected", logger.FieldFile, event.Name, "op", event.Op.String())
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)

		case <-w.fire:
			w.rebuild(ctx)
		}
	}
}

// Files returns the watched files, sorted
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// relevant reports whether event touches a watched file. Editors often save
// by renaming a temporary file over the original, so Create counts too.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs]
}

// schedule debounces rapid changes into one rebuild
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	start := time.Now()
	files, err := w.build(ctx)
	if d, ok := errors.AsDiagnostic(err); ok {
		at := d.Coord.ShortFile()
		w.log.Errorw("Build failed",
			logger.FieldFile, at.File,
			logger.FieldLine, at.Line,
			logger.FieldColumn, at.Column,
			logger.FieldError, err)
	} else if err != nil {
		w.log.Errorw("Build failed", logger.FieldError, err)
	} else {
		w.log.Infow("Build finished", logger.FieldCount, len(files),
			logger.FieldDurationMS, time.Since(start).Milliseconds())
	}
	if err := w.track(files); err != nil {
		w.log.Warnw("Failed to watch dependencies", logger.FieldError, err)
	}
}

// track adds files to the watched set. Their directories are watched rather
// than the files themselves so that replaced files keep being observed.
func (w *Watcher) track(files []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.Wrapf(err, "resolve %s", f)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
		w.dirs[dir] = true
	}
	return nil
}
