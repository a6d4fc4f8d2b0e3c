package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"git.home.luguber.info/inful/codedoc/internal/batch"
	"git.home.luguber.info/inful/codedoc/internal/logfields"
	"git.home.luguber.info/inful/codedoc/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	ConversionFlags `embed:""`

	Debounce time.Duration `help:"Quiet period before reconverting (default from config)"`
	Rescan   time.Duration `help:"Reconvert every input on this interval (0 disables)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.run(ctx, g, root)
}

func (w *WatchCmd) run(ctx context.Context, g *Global, root *CLI) error {
	s, err := newSession(root, g, &w.ConversionFlags, batch.OutputOptions{}, false)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	debounce := s.cfg.Watch.Debounce
	if w.Debounce > 0 {
		debounce = w.Debounce
	}
	rescan := s.cfg.Watch.Rescan
	if w.Rescan > 0 {
		rescan = w.Rescan
	}

	s.convert(ctx, root, w.Inputs, watch.Change{Full: true})

	watcher, err := watch.New(watch.Config{
		Roots:     w.Inputs,
		Recursive: s.discover.Recursive,
		Debounce:  debounce,
		Rescan:    rescan,
		Ignore:    ignoreOutputs(s.cfg.Output.Directory, s.cfg.Output.StateDB, s.cfg.Output.MetricsFile),
	}, func(ctx context.Context, ch watch.Change) {
		s.convert(ctx, root, w.Inputs, ch)
	}, s.logger)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

// convert runs one watch pass. Errors are logged; watching continues.
func (s *session) convert(ctx context.Context, root *CLI, inputs []string, ch watch.Change) {
	sources, err := batch.Discover(inputs, s.discover)
	if err != nil {
		s.logger.Warn("Discovery failed", logfields.Error(err))
		return
	}
	if !ch.Full {
		sources = changedSources(sources, ch.Paths)
		if len(sources) == 0 {
			return
		}
	}

	sum, err := s.runner.Run(ctx, sources, s.options)
	if sum == nil {
		s.logger.Warn("Conversion run failed", logfields.Error(err))
		return
	}
	s.writeMetrics()
	reportSummary(root.stderr, sum, root.Quiet)
}

// changedSources keeps the sources named in paths.
func changedSources(sources []batch.Source, paths []string) []batch.Source {
	changed := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		changed[absPath(p)] = struct{}{}
	}
	var out []batch.Source
	for _, src := range sources {
		if _, ok := changed[absPath(src.Path)]; ok {
			out = append(out, src)
		}
	}
	return out
}

// ignoreOutputs drops events for files codedoc itself writes.
func ignoreOutputs(outputDir string, files ...string) func(string) bool {
	var dir string
	if outputDir != "" {
		dir = absPath(outputDir)
	}
	own := map[string]struct{}{}
	for _, f := range files {
		if f != "" {
			own[absPath(f)] = struct{}{}
		}
	}
	return func(path string) bool {
		p := absPath(path)
		if _, ok := own[p]; ok {
			return true
		}
		if strings.HasSuffix(p, "-journal") || strings.HasSuffix(p, "-wal") {
			if _, ok := own[strings.TrimSuffix(strings.TrimSuffix(p, "-journal"), "-wal")]; ok {
				return true
			}
		}
		return dir != "" && (p == dir || strings.HasPrefix(p, dir+string(filepath.Separator)))
	}
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
