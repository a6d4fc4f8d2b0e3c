package commands

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/codedoc/internal/batch"
	"git.home.luguber.info/inful/codedoc/internal/config"
	"git.home.luguber.info/inful/codedoc/internal/gitinfo"
	"git.home.luguber.info/inful/codedoc/internal/logfields"
	"git.home.luguber.info/inful/codedoc/internal/metrics"
	"git.home.luguber.info/inful/codedoc/internal/pipeline"
	"git.home.luguber.info/inful/codedoc/internal/render"
	"git.home.luguber.info/inful/codedoc/internal/sink"
	"git.home.luguber.info/inful/codedoc/internal/state"
)

// session holds everything one convert or watch invocation needs.
type session struct {
	cfg      *config.Config
	runner   *batch.Runner
	options  batch.Options
	discover batch.DiscoverOptions
	recorder *metrics.PrometheusRecorder
	logger   *slog.Logger
	closers  []io.Closer
}

// newSession loads configuration and wires the pipeline, renderer, sinks and
// incremental state for f.
func newSession(root *CLI, g *Global, f *ConversionFlags, out batch.OutputOptions, validateOnly bool) (*session, error) {
	o, err := f.overrides()
	if err != nil {
		return nil, err
	}
	cfg, err := root.loadConfig(g, o)
	if err != nil {
		return nil, err
	}
	pcfg, err := f.pipelineConfig(cfg)
	if err != nil {
		return nil, err
	}

	if out.File == "" || f.OutputDir != "" {
		out.Dir = cfg.Output.Directory
	}

	s := &session{cfg: cfg, logger: g.Logger}
	ok := false
	defer func() {
		if !ok {
			_ = s.Close()
		}
	}()

	var rec metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Output.MetricsFile != "" {
		s.recorder = metrics.NewPrometheusRecorder(nil)
		rec = s.recorder
	}

	popts := []pipeline.Option{pipeline.WithRecorder(rec), pipeline.WithLogger(s.logger)}
	if pcfg.GitInfo {
		popts = append(popts, pipeline.WithGitResolver(gitinfo.NewResolver()))
	}
	p := pipeline.New(cfg.Registry(), popts...)

	ropts := []batch.RunnerOption{batch.WithRecorder(rec), batch.WithLogger(s.logger)}
	var renderer *render.Renderer
	if !validateOnly {
		renderer, err = render.New(cfg.Output.TemplateDir, cfg.Defaults.Template)
		if err != nil {
			return nil, err
		}

		sinks := sink.Multi{sink.NewWriter(root.stdout)}
		if cfg.Publish.Enabled() {
			pub, err := sink.Connect(cfg.Publish, s.logger)
			if err != nil {
				return nil, err
			}
			s.closers = append(s.closers, pub)
			sinks = append(sinks, pub)
		}
		ropts = append(ropts, batch.WithSink(sinks))

		if cfg.Output.Incremental {
			st, err := state.Open(cfg.Output.StateDB)
			if err != nil {
				return nil, err
			}
			s.closers = append(s.closers, st)
			ropts = append(ropts, batch.WithState(st))
		}
	}
	s.runner = batch.NewRunner(p, renderer, ropts...)

	s.options = batch.Options{
		Config:       pcfg,
		Output:       out,
		Workers:      cfg.Defaults.Workers,
		ValidateOnly: validateOnly,
		ConfigHash:   configHash(cfg, f, renderer),
	}
	s.discover = batch.DiscoverOptions{
		Recursive: cfg.Defaults.Recursive,
		Exclude:   cfg.Defaults.Exclude,
	}
	ok = true
	return s, nil
}

// writeMetrics exports the run's metrics when a metrics file is configured.
func (s *session) writeMetrics() {
	if s.recorder == nil {
		return
	}
	path := s.cfg.Output.MetricsFile
	if err := s.recorder.WriteTextfile(path); err != nil {
		s.logger.Warn("Failed to write metrics", slog.String("path", path), logfields.Error(err))
	}
}

// Close releases the publisher connection and the state database.
func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// configHash extends the configuration snapshot with the per-run flags that
// shape the page, so changing any of them invalidates incremental state.
func configHash(cfg *config.Config, f *ConversionFlags, r *render.Renderer) string {
	name := ""
	if r != nil {
		name = r.Name()
	}
	h := sha256.New()
	for _, part := range []string{cfg.Snapshot(), f.Format, f.Title, f.Description, f.Frontmatter, name} {
		h.Write([]byte(strings.TrimSpace(part)))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
