// Package watch reruns conversions when watched inputs change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
	"git.home.luguber.info/inful/codedoc/internal/logfields"
)

// DefaultDebounce is the quiet window used when Config.Debounce is unset.
const DefaultDebounce = 300 * time.Millisecond

// Change is a batch of coalesced filesystem events.
type Change struct {
	// Paths lists the files that were created or written, sorted.
	Paths []string
	// Full asks for a rescan of every input: a directory appeared, or the
	// periodic rescan fired.
	Full bool
}

// RunFunc handles one change. Calls never overlap.
type RunFunc func(ctx context.Context, ch Change)

// Config selects what to watch.
type Config struct {
	// Roots are files or directories. For a file its directory is watched.
	Roots     []string
	Recursive bool
	Debounce  time.Duration
	// Rescan, when positive, schedules a periodic full rescan.
	Rescan time.Duration
	// Ignore drops events for paths it returns true for, such as the output
	// directory.
	Ignore func(path string) bool
}

// Watcher coalesces filesystem events and hands them to a RunFunc.
type Watcher struct {
	cfg    Config
	run    RunFunc
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	full    bool
	timer   *time.Timer
	wake    chan struct{}
}

// New validates cfg and builds a watcher.
func New(cfg Config, run RunFunc, logger *slog.Logger) (*Watcher, error) {
	if len(cfg.Roots) == 0 {
		return nil, ferrors.ValidationError("watch needs at least one input").Build()
	}
	if run == nil {
		return nil, ferrors.ValidationError("watch needs a run function").Build()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		cfg:     cfg,
		run:     run,
		logger:  logger,
		pending: map[string]struct{}{},
		wake:    make(chan struct{}, 1),
	}, nil
}

// Run watches until ctx is done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "cannot start file watcher").Build()
	}
	defer func() { _ = fw.Close() }()

	for _, root := range w.cfg.Roots {
		if err := w.addRoot(fw, root); err != nil {
			return err
		}
	}

	if w.cfg.Rescan > 0 {
		sched, schedErr := w.schedule()
		if schedErr != nil {
			return schedErr
		}
		sched.Start()
		defer func() { _ = sched.Shutdown() }()
	}

	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.worker(wctx)
	}()
	defer func() {
		cancel()
		w.stopTimer()
		<-done
	}()

	w.logger.Info("Watching for changes", logfields.Count(len(w.cfg.Roots)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(fw, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) schedule() (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create rescan scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.cfg.Rescan),
		gocron.NewTask(func() { w.enqueue("") }),
		gocron.WithName("codedoc-rescan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to schedule rescan").Build()
	}
	return s, nil
}

func (w *Watcher) addRoot(fw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		// Globs and not-yet-created files: watch the nearest existing parent.
		dir := filepath.Dir(root)
		for strings.ContainsAny(dir, "*?[{") {
			dir = filepath.Dir(dir)
		}
		return w.addDir(fw, dir)
	}
	if !info.IsDir() {
		return w.addDir(fw, filepath.Dir(root))
	}
	if !w.cfg.Recursive {
		return w.addDir(fw, root)
	}
	return addDirsRecursive(fw, root, w.logger)
}

func (w *Watcher) addDir(fw *fsnotify.Watcher, dir string) error {
	if err := fw.Add(dir); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, fmt.Sprintf("cannot watch %s", dir)).
			WithContext("path", dir).
			Build()
	}
	return nil
}

func (w *Watcher) handle(fw *fsnotify.Watcher, ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) || (w.cfg.Ignore != nil && w.cfg.Ignore(ev.Name)) {
		return
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	w.logger.Debug("File change detected", logfields.File(ev.Name), slog.String("op", ev.Op.String()))

	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if w.cfg.Recursive {
				_ = addDirsRecursive(fw, ev.Name, w.logger)
			}
			w.enqueue("")
			return
		}
	}
	w.enqueue(ev.Name)
}

// enqueue records path ("" for a full rescan) and restarts the quiet window.
func (w *Watcher) enqueue(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if path == "" {
		w.full = true
	} else {
		w.pending[path] = struct{}{}
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.Debounce, func() {
		select {
		case w.wake <- struct{}{}:
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

// take drains the pending change.
func (w *Watcher) take() Change {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := Change{Full: w.full}
	for p := range w.pending {
		ch.Paths = append(ch.Paths, p)
	}
	sort.Strings(ch.Paths)
	w.pending = map[string]struct{}{}
	w.full = false
	return ch
}

func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
			ch := w.take()
			if !ch.Full && len(ch.Paths) == 0 {
				continue
			}
			w.run(ctx, ch)
		}
	}
}

func addDirsRecursive(fw *fsnotify.Watcher, root string, logger *slog.Logger) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			logger.Warn("Watch add failed", slog.String("dir", path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent reports hidden files and editor swap or backup files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
