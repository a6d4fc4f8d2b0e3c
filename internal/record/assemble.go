package record

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/codedoc/internal/content"
	"git.home.luguber.info/inful/codedoc/internal/format"
	"git.home.luguber.info/inful/codedoc/internal/gitinfo"
	"git.home.luguber.info/inful/codedoc/internal/processor"
	"git.home.luguber.info/inful/codedoc/internal/util/sets"
)

// Frontmatter keys written by Assemble, in output order.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyTags        = "tags"
	KeyFormat      = "format"
	KeyFile        = "file"
	KeyStats       = "stats"
	KeyFingerprint = "fingerprint"
)

// FrontmatterOrder is the serialization order of generated keys. Extra keys
// follow, sorted.
var FrontmatterOrder = []string{KeyTitle, KeyDescription, KeyTags, KeyFormat, KeyFile, KeyStats, KeyFingerprint}

// Input is everything the pipeline learned about one file.
type Input struct {
	Path      string
	Format    format.Descriptor
	Decoded   content.Decoded
	Processed processor.Result
	Size      int64
	ModTime   time.Time
	Git       *gitinfo.Info
	// GeneratedAt is recorded as given; zero means unknown.
	GeneratedAt time.Time
}

// Options control record presentation.
type Options struct {
	Title       string
	Description string
	Tags        []string
	// AutoTags appends the lowercase format name, extension and category.
	AutoTags        bool
	IncludeMetadata bool
	IncludeStats    bool
	// IncludeTOC and LineNumbers are page switches passed to templates.
	IncludeTOC  bool
	LineNumbers bool
	MaxLines    int
	// ExtraFrontmatter is merged after the generated keys. It can add keys
	// and replace description, tags, format, file or stats; title and
	// fingerprint are never replaced.
	ExtraFrontmatter map[string]any
}

// Assemble builds the Documentation Record. It never fails: anything that
// cannot be rendered into frontmatter is left out of it.
func Assemble(in Input, opts Options) *Record {
	name := filepath.Base(in.Path)

	dec := content.Truncate(in.Decoded, opts.MaxLines)
	text, cut := content.TruncateLines(in.Processed.NormalizedText, opts.MaxLines)
	if cut && !dec.WasTruncated {
		dec.WasTruncated = true
		dec.TruncationReason = content.TruncationLineLimit
	}

	rec := &Record{
		FilePath:    in.Path,
		FileName:    name,
		Format:      in.Format,
		Decoded:     dec,
		Processed:   in.Processed,
		Content:     text,
		Title:       firstNonBlank(opts.Title, name),
		Description: firstNonBlank(opts.Description, in.Format.Label()+" - "+name),
		Tags:        tags(opts, in.Format),
		MaxLines:    max(opts.MaxLines, 0),
		Metadata: FileMetadata{
			Size:      in.Size,
			HumanSize: humanize.IBytes(uint64(max(in.Size, 0))),
			Modified:  in.ModTime,
			Extension: format.Extension(in.Path),
			Encoding:  dec.Encoding,
			Git:       in.Git,
		},
		IncludeMetadata: opts.IncludeMetadata,
		IncludeStats:    opts.IncludeStats,
		IncludeTOC:      opts.IncludeTOC,
		LineNumbers:     opts.LineNumbers,
		GeneratedAt:     in.GeneratedAt,
	}

	rec.Frontmatter = frontmatterFor(rec, opts)
	if opts.IncludeMetadata {
		if fp, err := Fingerprint(rec.Frontmatter, rec.Content); err == nil {
			rec.Fingerprint = fp
			rec.Frontmatter[KeyFingerprint] = fp
		}
	}
	return rec
}

func frontmatterFor(rec *Record, opts Options) map[string]any {
	fm := map[string]any{
		KeyTitle:       rec.Title,
		KeyDescription: rec.Description,
	}
	if len(rec.Tags) > 0 {
		fm[KeyTags] = append([]string(nil), rec.Tags...)
	}
	if opts.IncludeMetadata {
		fm[KeyFormat] = map[string]any{
			"key":       rec.Format.Key,
			"name":      rec.Format.Name,
			"category":  string(rec.Format.Category),
			"highlight": rec.Format.Highlight,
			"icon":      rec.Format.Icon,
		}
		fm[KeyFile] = fileFields(rec)
	}
	if opts.IncludeStats {
		stats := make(map[string]any, len(rec.Processed.Statistics)+1)
		for k, v := range rec.Processed.Statistics {
			stats[k] = v
		}
		errs := rec.Processed.ValidationErrors
		if errs == nil {
			errs = []string{}
		}
		stats["validation_errors"] = append([]string{}, errs...)
		fm[KeyStats] = stats
	}

	for k, v := range opts.ExtraFrontmatter {
		if k == KeyTitle || k == KeyFingerprint || strings.TrimSpace(k) == "" {
			continue
		}
		fm[k] = v
	}
	return fm
}

func fileFields(rec *Record) map[string]any {
	md := rec.Metadata
	file := map[string]any{
		"size":       md.Size,
		"human_size": md.HumanSize,
		"encoding":   md.Encoding,
		"truncated":  rec.Decoded.WasTruncated,
		"lines":      rec.Decoded.TotalLines,
	}
	if !md.Modified.IsZero() {
		file["modified"] = md.Modified.UTC().Format(time.RFC3339)
	}
	if md.Git != nil {
		file["git"] = md.Git.Fields()
	}
	return file
}

// tags merges caller tags and auto tags into an ordered set.
func tags(opts Options, d format.Descriptor) []string {
	set := sets.NewOrdered[string]()
	add := func(tag string) {
		if t := strings.TrimSpace(tag); t != "" {
			set.Add(t)
		}
	}
	for _, t := range opts.Tags {
		add(t)
	}
	if opts.AutoTags {
		add(strings.ToLower(d.Name))
		add(d.Key)
		add(string(d.Category))
	}
	return set.Items()
}

func firstNonBlank(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
