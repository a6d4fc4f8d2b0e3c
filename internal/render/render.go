// Package render turns Documentation Records into Markdown pages with
// text/template.
package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
	"git.home.luguber.info/inful/codedoc/internal/frontmatter"
	"git.home.luguber.info/inful/codedoc/internal/record"
)

// DefaultTemplate is the name of the built-in page template.
const DefaultTemplate = "default.md.tmpl"

//go:embed default.md.tmpl
var defaultBody string

// Renderer executes one selected template against records. It is safe for
// concurrent use once built.
type Renderer struct {
	set  *template.Template
	name string
}

// New builds a renderer.
//
// dir, when set, contributes every *.tmpl file in it; a file named
// default.md.tmpl replaces the built-in page. name selects the template to
// execute: empty means the default, a name found in the set is used as is,
// and anything else is read as a template file path.
func New(dir, name string) (*Renderer, error) {
	set, err := template.New(DefaultTemplate).Funcs(funcs()).Option("missingkey=error").Parse(defaultBody)
	if err != nil {
		return nil, templateErr(err, DefaultTemplate, "parse built-in template")
	}

	if dir != "" {
		if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
			return nil, ferrors.TemplateError("template directory not found").
				WithContext("path", dir).
				Build()
		}
		matches, globErr := filepath.Glob(filepath.Join(dir, "*.tmpl"))
		if globErr != nil {
			return nil, templateErr(globErr, dir, "list template directory")
		}
		if len(matches) > 0 {
			if set, err = set.ParseFiles(matches...); err != nil {
				return nil, templateErr(err, dir, "parse template directory")
			}
		}
	}

	if name == "" {
		name = DefaultTemplate
	}
	if set.Lookup(name) == nil {
		// #nosec G304 -- template path is supplied by the operator.
		body, readErr := os.ReadFile(name)
		if readErr != nil {
			return nil, ferrors.TemplateError("template not found").
				WithCause(readErr).
				WithContext("template", name).
				Build()
		}
		key := filepath.Base(name)
		if _, err = set.New(key).Parse(string(body)); err != nil {
			return nil, templateErr(err, name, "parse template")
		}
		name = key
	}
	return &Renderer{set: set, name: name}, nil
}

// Name reports the template the renderer executes.
func (r *Renderer) Name() string { return r.name }

// Render produces the Markdown page for rec.
func (r *Renderer) Render(rec *record.Record) (string, error) {
	data, err := Data(rec)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := r.set.ExecuteTemplate(&buf, r.name, data); err != nil {
		return "", templateErr(err, r.name, "render template")
	}
	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

// Data builds the template context for rec. Every key is always present so
// templates run with missingkey=error.
func Data(rec *record.Record) (map[string]any, error) {
	fm, err := frontmatter.Render(rec.Frontmatter, record.FrontmatterOrder)
	if err != nil {
		return nil, ferrors.TemplateError("serialize frontmatter").
			WithCause(err).
			WithContext("file", rec.FilePath).
			Build()
	}

	errs := rec.Processed.ValidationErrors
	if errs == nil {
		errs = []string{}
	}

	var git any
	if rec.Metadata.Git != nil {
		git = rec.Metadata.Git.Fields()
	}
	modified := ""
	if !rec.Metadata.Modified.IsZero() {
		modified = rec.Metadata.Modified.UTC().Format(time.RFC3339)
	}
	generated := ""
	if !rec.GeneratedAt.IsZero() {
		generated = rec.GeneratedAt.UTC().Format(time.RFC3339)
	}

	return map[string]any{
		"title":       rec.Title,
		"description": rec.Description,
		"tags":        rec.Tags,
		"file_path":   rec.FilePath,
		"file_name":   rec.FileName,
		"type_info": map[string]any{
			"key":         rec.Format.Key,
			"name":        rec.Format.Name,
			"category":    string(rec.Format.Category),
			"highlight":   rec.Format.Highlight,
			"icon":        rec.Format.Icon,
			"mime_type":   rec.Format.MIMEType,
			"description": rec.Format.Description,
		},
		"processed_data": map[string]any{
			"category":          string(rec.Processed.Category),
			"statistics":        map[string]any(rec.Processed.Statistics),
			"validation_errors": errs,
			"is_valid":          rec.IsValid(),
		},
		"frontmatter":          fm,
		"frontmatter_fields":   rec.Frontmatter,
		"content":              rec.Content,
		"include_metadata":     rec.IncludeMetadata,
		"include_stats":        rec.IncludeStats,
		"include_toc":          rec.IncludeTOC,
		"linenums":             rec.LineNumbers,
		"fingerprint":          rec.Fingerprint,
		"generation_timestamp": generated,
		"metadata": map[string]any{
			"size":              rec.Metadata.Size,
			"human_size":        rec.Metadata.HumanSize,
			"modified":          modified,
			"extension":         rec.Metadata.Extension,
			"encoding":          rec.Metadata.Encoding,
			"truncated":         rec.Decoded.WasTruncated,
			"truncation_reason": string(rec.Decoded.TruncationReason),
			"total_lines":       rec.Decoded.TotalLines,
			"max_lines":         rec.MaxLines,
			"git":               git,
		},
	}, nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"join":   strings.Join,
		"lower":  strings.ToLower,
		"upper":  strings.ToUpper,
		"chomp":  func(s string) string { return strings.TrimRight(s, "\n") },
		"fence":  Fence,
		"scalar": isScalar,
		"toJSON": func(v any) (string, error) {
			b, err := json.MarshalIndent(v, "", "  ")
			return string(b), err
		},
		"toYAML": func(v map[string]any) (string, error) {
			return frontmatter.SerializeYAML(v, nil)
		},
	}
}

// Fence returns a backtick fence longer than any backtick run in text, and
// never shorter than three.
func Fence(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int64, float64:
		return true
	}
	return false
}

func templateErr(err error, name, msg string) error {
	return ferrors.TemplateError(fmt.Sprintf("%s: %s", msg, name)).
		WithCause(err).
		WithContext("template", name).
		Build()
}
