package config

// Overrides carries command-line values. Nil fields keep the configured value.
type Overrides struct {
	MaxFileSize     *int64
	MaxLines        *int
	Encoding        *string
	Indent          *int
	IncludeMetadata *bool
	IncludeStats    *bool
	IncludeTOC      *bool
	LineNumbers     *bool
	AutoTags        *bool
	GitInfo         *bool
	Tags            []string
	Template        *string
	TemplateDir     *string
	Recursive       *bool
	Exclude         []string
	Workers         *int
	OutputDir       *string
	Incremental     *bool
	StateDB         *string
	MetricsFile     *string
	NATSURL         *string
	Subject         *string
	LogLevel        *LogLevel
	LogFormat       *LogFormat
}

// Merge returns a copy of base with o applied. Precedence is command line,
// then configuration file, then built-in defaults; defaults are re-applied
// for anything an override enabled, such as the state database path.
func Merge(base *Config, o Overrides) *Config {
	if base == nil {
		base = Default()
	}
	cfg := base.clone()

	set(&cfg.Defaults.MaxFileSize, o.MaxFileSize)
	set(&cfg.Defaults.MaxLines, o.MaxLines)
	set(&cfg.Defaults.Encoding, o.Encoding)
	set(&cfg.Defaults.Indent, o.Indent)
	if o.IncludeMetadata != nil {
		v := *o.IncludeMetadata
		cfg.Defaults.IncludeMetadata = &v
	}
	if o.IncludeStats != nil {
		v := *o.IncludeStats
		cfg.Defaults.IncludeStats = &v
	}
	if o.IncludeTOC != nil {
		v := *o.IncludeTOC
		cfg.Defaults.IncludeTOC = &v
	}
	if o.LineNumbers != nil {
		v := *o.LineNumbers
		cfg.Defaults.LineNumbers = &v
	}
	set(&cfg.Defaults.AutoTags, o.AutoTags)
	set(&cfg.Defaults.GitInfo, o.GitInfo)
	if len(o.Tags) > 0 {
		cfg.Defaults.Tags = append([]string{}, o.Tags...)
	}
	set(&cfg.Defaults.Template, o.Template)
	set(&cfg.Defaults.Recursive, o.Recursive)
	if len(o.Exclude) > 0 {
		cfg.Defaults.Exclude = append([]string{}, o.Exclude...)
	}
	set(&cfg.Defaults.Workers, o.Workers)
	set(&cfg.Output.Directory, o.OutputDir)
	set(&cfg.Output.TemplateDir, o.TemplateDir)
	set(&cfg.Output.Incremental, o.Incremental)
	set(&cfg.Output.StateDB, o.StateDB)
	set(&cfg.Output.MetricsFile, o.MetricsFile)
	set(&cfg.Publish.NATSURL, o.NATSURL)
	set(&cfg.Publish.Subject, o.Subject)
	set(&cfg.Logging.Level, o.LogLevel)
	set(&cfg.Logging.Format, o.LogFormat)

	NormalizeConfig(cfg)
	_ = NewDefaultApplier().ApplyDefaults(cfg)
	return cfg
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (c *Config) clone() *Config {
	out := *c
	out.Defaults.Tags = append([]string(nil), c.Defaults.Tags...)
	out.Defaults.Exclude = append([]string(nil), c.Defaults.Exclude...)
	if c.Defaults.IncludeMetadata != nil {
		v := *c.Defaults.IncludeMetadata
		out.Defaults.IncludeMetadata = &v
	}
	if c.Defaults.IncludeStats != nil {
		v := *c.Defaults.IncludeStats
		out.Defaults.IncludeStats = &v
	}
	if c.Defaults.IncludeTOC != nil {
		v := *c.Defaults.IncludeTOC
		out.Defaults.IncludeTOC = &v
	}
	if c.Defaults.LineNumbers != nil {
		v := *c.Defaults.LineNumbers
		out.Defaults.LineNumbers = &v
	}
	if c.Publish.Retry.MaxRetries != nil {
		v := *c.Publish.Retry.MaxRetries
		out.Publish.Retry.MaxRetries = &v
	}
	if c.Formats != nil {
		out.Formats = make(map[string]FormatConfig, len(c.Formats))
		for k, v := range c.Formats {
			out.Formats[k] = v
		}
	}
	return &out
}
