package batch

import (
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

// PageSuffix is appended to a source's name to form its page name.
const PageSuffix = ".md"

// OutputOptions select where rendered pages go.
type OutputOptions struct {
	// File is the output file for a single input.
	File string
	// Dir mirrors each source's relative path under it, with PageSuffix
	// appended: main.py becomes main.py.md.
	Dir string
}

// Validate rejects combinations that cannot be honored for n sources.
func (o OutputOptions) Validate(n int) error {
	if o.File != "" && o.Dir != "" {
		return ferrors.ValidationError("--output and --output-dir are mutually exclusive").Build()
	}
	if o.File != "" && n > 1 {
		return ferrors.ValidationError("--output needs exactly one input; use --output-dir for several").
			WithContext("inputs", n).
			Build()
	}
	return nil
}

// Path resolves the page path for src. An empty result means stdout.
func (o OutputOptions) Path(src Source) (string, error) {
	switch {
	case o.File != "":
		return o.File, nil
	case o.Dir == "":
		return "", nil
	}

	rel := filepath.Clean(filepath.FromSlash(src.Rel))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", escapeErr(src)
	}
	full := filepath.Join(o.Dir, rel+PageSuffix)
	back, err := filepath.Rel(o.Dir, full)
	if err != nil || strings.HasPrefix(back, "..") {
		return "", escapeErr(src)
	}
	return full, nil
}

func escapeErr(src Source) error {
	return ferrors.ValidationError("output path escapes the output directory").
		WithContext("path", src.Path).
		Build()
}
