package commands

import (
	"encoding/json"
	"strings"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/codedoc/internal/config"
	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
	"git.home.luguber.info/inful/codedoc/internal/pipeline"
)

// ConversionFlags are shared by convert and watch. Zero values leave the
// configured setting alone.
type ConversionFlags struct {
	Inputs []string `arg:"" name:"input" help:"Files, directories or glob patterns (** supported)"`

	Recursive bool     `short:"r" help:"Descend into subdirectories"`
	Exclude   []string `short:"x" sep:"none" help:"Exclude pattern (repeatable, doublestar syntax)"`

	Format      string   `short:"f" help:"Treat every input as this format (extension key, e.g. json)"`
	Title       string   `help:"Page title (default: file name)"`
	Description string   `help:"Page description"`
	Tags        []string `short:"t" help:"Tags to add (comma separated or repeated)"`
	AutoTags    bool     `name:"auto-tags" help:"Add format name, extension and category as tags"`
	Frontmatter string   `help:"Extra frontmatter fields as a JSON object"`

	MaxLines    int    `name:"max-lines" help:"Show at most this many lines of content"`
	Indent      int    `help:"Spaces per level when pretty-printing structured data"`
	MaxFileSize string `name:"max-file-size" help:"Reject files larger than this (e.g. 10MiB)"`
	Encoding    string `short:"e" help:"Force the input encoding (e.g. utf-8, latin1)"`
	NoMetadata  bool   `name:"no-metadata" help:"Leave format and file metadata out of the frontmatter"`
	NoStats     bool   `name:"no-stats" help:"Leave statistics out of the frontmatter"`
	NoTOC       bool   `name:"no-toc" help:"Leave the table of contents out of the page"`
	NoLineNums  bool   `name:"no-line-numbers" help:"Do not request line numbers on the content block"`
	GitInfo     bool   `name:"git-info" help:"Add the last commit touching each file"`

	Template    string `help:"Template name in --template-dir, or a template file"`
	TemplateDir string `name:"template-dir" help:"Directory of *.tmpl templates"`
	OutputDir   string `short:"d" name:"output-dir" help:"Write pages under this directory, mirroring input paths"`

	Workers     int    `short:"j" help:"Concurrent conversions"`
	Incremental bool   `short:"i" help:"Skip files unchanged since the last run"`
	StateDB     string `name:"state-db" help:"Incremental state database"`
	Publish     string `name:"publish" help:"NATS server URL to publish records to" placeholder:"URL"`
	Subject     string `help:"NATS subject for published records"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile after each run"`
}

func (f *ConversionFlags) overrides() (config.Overrides, error) {
	o := config.Overrides{
		MaxLines:    positive(f.MaxLines),
		Indent:      positive(f.Indent),
		Encoding:    nonEmpty(f.Encoding),
		AutoTags:    enabled(f.AutoTags),
		GitInfo:     enabled(f.GitInfo),
		Tags:        splitList(f.Tags),
		Template:    nonEmpty(f.Template),
		TemplateDir: nonEmpty(f.TemplateDir),
		Recursive:   enabled(f.Recursive),
		Exclude:     f.Exclude,
		Workers:     positive(f.Workers),
		OutputDir:   nonEmpty(f.OutputDir),
		Incremental: enabled(f.Incremental),
		StateDB:     nonEmpty(f.StateDB),
		MetricsFile: nonEmpty(f.MetricsFile),
		NATSURL:     nonEmpty(f.Publish),
		Subject:     nonEmpty(f.Subject),
	}
	if f.NoMetadata {
		no := false
		o.IncludeMetadata = &no
	}
	if f.NoStats {
		no := false
		o.IncludeStats = &no
	}
	if f.NoTOC {
		no := false
		o.IncludeTOC = &no
	}
	if f.NoLineNums {
		no := false
		o.LineNumbers = &no
	}
	if f.MaxFileSize != "" {
		n, err := humanize.ParseBytes(f.MaxFileSize)
		if err != nil || n == 0 {
			return o, ferrors.ValidationError("invalid --max-file-size").
				WithCause(err).
				WithContext("value", f.MaxFileSize).
				Build()
		}
		size := int64(n)
		o.MaxFileSize = &size
	}
	return o, nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func positive(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}

func enabled(b bool) *bool {
	if !b {
		return nil
	}
	return &b
}

// pipelineConfig builds the per-file options from the merged configuration
// and the flags that only exist on the command line.
func (f *ConversionFlags) pipelineConfig(cfg *config.Config) (pipeline.Config, error) {
	extra, err := parseFrontmatter(f.Frontmatter)
	if err != nil {
		return pipeline.Config{}, err
	}
	d := cfg.Defaults
	return pipeline.Config{
		MaxFileSize:      d.MaxFileSize,
		MaxLines:         d.MaxLines,
		ForcedEncoding:   d.Encoding,
		FormatOverride:   f.Format,
		IncludeMetadata:  d.MetadataEnabled(),
		IncludeStats:     d.StatsEnabled(),
		IncludeTOC:       d.TOCEnabled(),
		LineNumbers:      d.LineNumbersEnabled(),
		Indent:           d.Indent,
		Title:            f.Title,
		Description:      f.Description,
		Tags:             d.Tags,
		AutoTags:         d.AutoTags,
		ExtraFrontmatter: extra,
		GitInfo:          d.GitInfo,
	}, nil
}

func parseFrontmatter(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var extra map[string]any
	if err := json.Unmarshal([]byte(raw), &extra); err != nil {
		return nil, ferrors.ValidationError("--frontmatter must be a JSON object").
			WithCause(err).
			Build()
	}
	return extra, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
