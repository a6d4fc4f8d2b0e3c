// Package pipeline converts one source file into a Documentation Record:
// safety gate, encoding resolution, sanitization, type detection, format
// processing, truncation and record assembly.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/codedoc/internal/content"
	"git.home.luguber.info/inful/codedoc/internal/format"
	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
	"git.home.luguber.info/inful/codedoc/internal/gitinfo"
	"git.home.luguber.info/inful/codedoc/internal/logfields"
	"git.home.luguber.info/inful/codedoc/internal/metrics"
	"git.home.luguber.info/inful/codedoc/internal/processor"
	"git.home.luguber.info/inful/codedoc/internal/record"
)

// Stage names used in logs, metrics and error context.
const (
	StageRead       = "read"
	StageDecode     = "decode"
	StageDetection  = format.StageDetection
	StageProcessing = "processing"
	StageAssembly   = "assembly"
)

// FileInfo is the on-disk metadata of the converted file.
type FileInfo struct {
	Size    int64
	ModTime time.Time
}

// Config holds the per-conversion options.
type Config struct {
	MaxFileSize     int64
	MaxLines        int
	ForcedEncoding  string
	FormatOverride  string
	IncludeMetadata bool
	IncludeStats    bool
	IncludeTOC      bool
	LineNumbers     bool
	// Indent is the pretty-print width for structured data; 0 keeps the
	// processor default.
	Indent           int
	Title            string
	Description      string
	Tags             []string
	AutoTags         bool
	ExtraFrontmatter map[string]any
	// GitInfo adds the last commit touching the file to the metadata.
	// It needs a resolver, see WithGitResolver.
	GitInfo bool
	File    FileInfo
}

func (c Config) recordOptions() record.Options {
	return record.Options{
		Title:            c.Title,
		Description:      c.Description,
		Tags:             c.Tags,
		AutoTags:         c.AutoTags,
		IncludeMetadata:  c.IncludeMetadata,
		IncludeStats:     c.IncludeStats,
		IncludeTOC:       c.IncludeTOC,
		LineNumbers:      c.LineNumbers,
		MaxLines:         c.MaxLines,
		ExtraFrontmatter: c.ExtraFrontmatter,
	}
}

// Pipeline converts files. It holds no per-file state and is safe for
// concurrent use.
type Pipeline struct {
	registry *format.Registry
	table    processor.Table
	recorder metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
	git      *gitinfo.Resolver
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder reports stage and conversion metrics to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets the logger used for per-stage debug output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTable replaces the processor dispatch table.
func WithTable(t processor.Table) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.table = t
		}
	}
}

// WithClock sets the time source for Record.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithGitResolver enables git metadata lookups for Config.GitInfo.
func WithGitResolver(r *gitinfo.Resolver) Option {
	return func(p *Pipeline) { p.git = r }
}

// New creates a pipeline over an immutable registry.
func New(reg *format.Registry, options ...Option) *Pipeline {
	if reg == nil {
		reg = format.NewRegistry()
	}
	p := &Pipeline{
		registry: reg,
		table:    processor.DefaultTable(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Registry returns the format registry the pipeline detects against.
func (p *Pipeline) Registry() *format.Registry { return p.registry }

// ConvertFile reads path from disk and converts it. Files over the size
// ceiling are rejected before they are read.
func (p *Pipeline) ConvertFile(path string, cfg Config) (*record.Record, error) {
	data, info, err := p.ReadFile(path, cfg)
	if err != nil {
		return nil, err
	}
	cfg.File = info
	return p.Convert(path, data, cfg)
}

// ReadFile loads path from disk, refusing directories and files larger than
// cfg.MaxFileSize before reading them.
func (p *Pipeline) ReadFile(path string, cfg Config) ([]byte, FileInfo, error) {
	gate := content.Gate{MaxFileSize: cfg.MaxFileSize}

	info, err := os.Stat(path)
	if err != nil {
		return nil, FileInfo{}, p.fail(path, StageRead, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot stat input file").
			WithStage(StageRead).WithContext("path", path).Build())
	}
	if info.IsDir() {
		return nil, FileInfo{}, p.fail(path, StageRead, ferrors.ValidationError("input is a directory").
			WithStage(StageRead).WithContext("path", path).Build())
	}
	if err := gate.CheckSize(info.Size()); err != nil {
		p.recorder.ObserveInputBytes(int(info.Size()))
		return nil, FileInfo{}, p.fail(path, content.StageSafetyGate, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FileInfo{}, p.fail(path, StageRead, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot read input file").
			WithStage(StageRead).WithContext("path", path).Build())
	}
	return data, FileInfo{Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Convert runs the pipeline over data read from path. It fails only for
// oversized input, a forced encoding that cannot decode the input, or an
// unknown format override. Malformed structured data yields a record whose
// ValidationErrors explain the problem.
func (p *Pipeline) Convert(path string, data []byte, cfg Config) (*record.Record, error) {
	p.recorder.ObserveInputBytes(len(data))

	var dec content.Decoded
	err := p.stage(path, StageDecode, func() error {
		var derr error
		dec, derr = content.Gate{MaxFileSize: cfg.MaxFileSize}.Decode(data, cfg.ForcedEncoding)
		return derr
	})
	if err != nil {
		return nil, p.fail(path, stageOf(err, StageDecode), err)
	}
	p.logger.Debug("Decoded input", logfields.File(path), logfields.Encoding(dec.Encoding),
		logfields.Size(int64(dec.RawLength)), logfields.Count(dec.TotalLines))

	var desc format.Descriptor
	err = p.stage(path, StageDetection, func() error {
		var derr error
		desc, derr = p.registry.Detect(path, cfg.FormatOverride)
		return derr
	})
	if err != nil {
		return nil, p.fail(path, StageDetection, err)
	}
	p.logger.Debug("Detected format", logfields.File(path), logfields.Format(desc.Key),
		logfields.Category(string(desc.Category)))

	table := p.table
	if cfg.Indent > 0 {
		table = table.WithIndent(cfg.Indent)
	}
	var res processor.Result
	_ = p.stage(path, StageProcessing, func() error {
		res = table.Process(dec.Text, desc)
		return nil
	})
	if !res.IsValid() {
		p.recorder.IncStageResult(StageProcessing, metrics.ResultWarning)
		p.logger.Debug("Structured data failed validation", logfields.File(path),
			logfields.Format(desc.Key), logfields.Count(len(res.ValidationErrors)))
	}

	var git *gitinfo.Info
	if cfg.GitInfo && p.git != nil {
		info, gerr := p.git.Lookup(path)
		if gerr != nil {
			p.logger.Warn("Git metadata unavailable", logfields.File(path), logfields.Error(gerr))
		}
		git = info
	}

	var rec *record.Record
	_ = p.stage(path, StageAssembly, func() error {
		rec = record.Assemble(record.Input{
			Path:        path,
			Format:      desc,
			Decoded:     dec,
			Processed:   res,
			Size:        fileSize(cfg.File, len(data)),
			ModTime:     cfg.File.ModTime,
			Git:         git,
			GeneratedAt: p.now(),
		}, cfg.recordOptions())
		return nil
	})

	if rec.Decoded.WasTruncated {
		p.recorder.IncTruncation(string(rec.Decoded.TruncationReason))
	}
	outcome := metrics.OutcomeConverted
	if !rec.IsValid() {
		outcome = metrics.OutcomeInvalid
	}
	p.recorder.IncConversion(string(desc.Category), outcome)
	return rec, nil
}

// stage times fn and records its result.
func (p *Pipeline) stage(path, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.recorder.ObserveStageDuration(name, time.Since(start))
	if err != nil {
		p.recorder.IncStageResult(name, metrics.ResultFatal)
		return err
	}
	p.recorder.IncStageResult(name, metrics.ResultSuccess)
	p.logger.Debug("Stage complete", logfields.File(path), logfields.Stage(name), logfields.Since(start))
	return nil
}

func (p *Pipeline) fail(path, stage string, err error) error {
	p.recorder.IncConversion(string(format.CategoryUnknown), metrics.OutcomeFailed)
	p.logger.LogAttrs(context.Background(), slog.LevelDebug, "Conversion failed",
		logfields.File(path), logfields.Stage(stage), logfields.Error(err))
	return err
}

// stageOf returns the stage recorded on a classified error.
func stageOf(err error, fallback string) string {
	if ce, ok := ferrors.AsClassified(err); ok && ce.Stage() != "" {
		return ce.Stage()
	}
	return fallback
}

func fileSize(fi FileInfo, n int) int64 {
	if fi.Size > 0 {
		return fi.Size
	}
	return int64(n)
}
