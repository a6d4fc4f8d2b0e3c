package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/codedoc/internal/format"
	"git.home.luguber.info/inful/codedoc/internal/logfields"
	"git.home.luguber.info/inful/codedoc/internal/metrics"
	"git.home.luguber.info/inful/codedoc/internal/pipeline"
	"git.home.luguber.info/inful/codedoc/internal/render"
	"git.home.luguber.info/inful/codedoc/internal/sink"
	"git.home.luguber.info/inful/codedoc/internal/state"
)

// DefaultWorkers bounds concurrent conversions when Options.Workers is unset.
const DefaultWorkers = 4

// Options configure one run.
type Options struct {
	Config  pipeline.Config
	Output  OutputOptions
	Workers int
	// ValidateOnly converts without rendering or writing anything.
	ValidateOnly bool
	// ConfigHash identifies the settings that shape output; incremental runs
	// reconvert every file when it changes.
	ConfigHash string
}

// Runner converts many files with a bounded worker pool. Each file is
// independent: a failure is recorded and the run continues.
type Runner struct {
	pipeline *pipeline.Pipeline
	renderer *render.Renderer
	sink     sink.Sink
	state    *state.Store
	recorder metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithSink sets where rendered pages go. Without one pages are discarded.
func WithSink(s sink.Sink) RunnerOption {
	return func(r *Runner) { r.sink = s }
}

// WithState enables incremental runs backed by s.
func WithState(s *state.Store) RunnerOption {
	return func(r *Runner) { r.state = s }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) RunnerOption {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// WithRunID makes every run use id instead of a fresh UUID.
func WithRunID(id string) RunnerOption {
	return func(r *Runner) { r.newID = func() string { return id } }
}

// NewRunner builds a runner. renderer may be nil for validate-only use.
func NewRunner(p *pipeline.Pipeline, renderer *render.Renderer, opts ...RunnerOption) *Runner {
	r := &Runner{
		pipeline: p,
		renderer: renderer,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run converts sources. It stops starting new conversions once ctx is done;
// files never started are reported as canceled and ctx's error is returned
// alongside the summary.
func (r *Runner) Run(ctx context.Context, sources []Source, opts Options) (*Summary, error) {
	if err := opts.Output.Validate(len(sources)); err != nil {
		return nil, err
	}

	sum := &Summary{
		RunID:        r.newID(),
		Started:      r.now(),
		ValidateOnly: opts.ValidateOnly,
		Results:      make([]FileResult, len(sources)),
	}
	log := r.logger.With(logfields.RunID(sum.RunID))
	log.Info("Conversion run started", logfields.Count(len(sources)))

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(workers)
	for i, src := range sources {
		if ctx.Err() != nil {
			mu.Lock()
			sum.Results[i] = FileResult{Source: src, Status: StatusCanceled}
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			res := r.convert(ctx, log, sum.RunID, src, opts)
			mu.Lock()
			sum.Results[i] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sum.Duration = r.now().Sub(sum.Started)
	sum.tally()
	r.recorder.ObserveBatchDuration(sum.Duration)
	log.Info("Conversion run finished",
		slog.Int("processed", sum.Processed),
		slog.Int("failed", sum.Failed),
		slog.Int("skipped", sum.Skipped),
		slog.Int("invalid", sum.Invalid),
		logfields.DurationMS(float64(sum.Duration.Microseconds())/1000))

	return sum, ctx.Err()
}

func (r *Runner) convert(ctx context.Context, log *slog.Logger, runID string, src Source, opts Options) FileResult {
	start := r.now()
	res := FileResult{Source: src}
	finish := func(status Status, err error) FileResult {
		res.Status = status
		res.Err = err
		res.Duration = r.now().Sub(start)
		if err != nil {
			log.Warn("Conversion failed", logfields.File(src.Path), logfields.Error(err))
		}
		return res
	}

	if err := ctx.Err(); err != nil {
		return finish(StatusCanceled, nil)
	}

	out, err := opts.Output.Path(src)
	if err != nil {
		return finish(StatusFailed, err)
	}
	if !opts.ValidateOnly {
		res.Output = out
	}

	cfg := opts.Config
	data, info, err := r.pipeline.ReadFile(src.Path, cfg)
	if err != nil {
		return finish(StatusFailed, err)
	}

	var hash string
	if r.state != nil && !opts.ValidateOnly {
		hash = state.HashInput(data)
		unchanged, stateErr := r.state.Unchanged(ctx, src.Path, hash, opts.ConfigHash, out)
		if stateErr != nil {
			log.Warn("Incremental state unavailable", logfields.File(src.Path), logfields.Error(stateErr))
		}
		if unchanged {
			r.recorder.IncConversion(string(r.category(src.Path, cfg.FormatOverride)), metrics.OutcomeSkipped)
			log.Debug("Unchanged, skipping", logfields.File(src.Path))
			return finish(StatusSkipped, nil)
		}
	}

	cfg.File = info
	rec, err := r.pipeline.Convert(src.Path, data, cfg)
	if err != nil {
		return finish(StatusFailed, err)
	}
	res.Valid = rec.IsValid()
	res.ValidationErrors = rec.Processed.ValidationErrors
	res.Format = rec.Format.Name
	if opts.ValidateOnly {
		return finish(StatusConverted, nil)
	}

	if r.renderer != nil {
		md, renderErr := r.renderer.Render(rec)
		if renderErr != nil {
			return finish(StatusFailed, renderErr)
		}
		if r.sink != nil {
			if err := r.sink.Emit(ctx, sink.Page{RunID: runID, Record: rec, Markdown: md, Path: out}); err != nil {
				return finish(StatusFailed, err)
			}
		}
	}

	if r.state != nil && out != "" {
		entry := state.Entry{
			Path:        src.Path,
			InputHash:   hash,
			ConfigHash:  opts.ConfigHash,
			OutputPath:  out,
			Fingerprint: rec.Fingerprint,
		}
		if err := r.state.Put(ctx, entry); err != nil {
			log.Warn("Failed to record incremental state", logfields.File(src.Path), logfields.Error(err))
		}
	}

	log.Debug("Converted", logfields.File(src.Path), logfields.Output(out), logfields.Format(rec.Format.Key))
	return finish(StatusConverted, nil)
}

func (r *Runner) category(path, override string) format.Category {
	d, err := r.pipeline.Registry().Detect(path, override)
	if err != nil {
		return format.CategoryUnknown
	}
	return d.Category
}
