// Package batch discovers input files and converts them concurrently.
package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"

	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

// Source is one file selected for conversion.
type Source struct {
	// Path is the file path as given or discovered.
	Path string
	// Rel is the slash-separated path used for output mirroring and exclude
	// matching: relative to the directory or glob base it was found under, or
	// the base name for files named explicitly.
	Rel string
}

// DiscoverOptions control how directories and globs expand.
type DiscoverOptions struct {
	Recursive bool
	// Exclude holds doublestar patterns. Patterns without a slash also match
	// the base name.
	Exclude []string
}

// Discover expands inputs into sources. Inputs may be files, directories or
// glob patterns (doublestar syntax, ** included). Files named explicitly are
// always kept; files found by expansion are dropped when hidden or excluded.
// The result keeps input order and contains each file once.
func Discover(inputs []string, opts DiscoverOptions) ([]Source, error) {
	var (
		out  []Source
		seen = map[string]struct{}{}
	)
	add := func(s Source) {
		key := s.Path
		if abs, err := filepath.Abs(s.Path); err == nil {
			key = abs
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}

	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			continue
		}
		info, err := os.Stat(input)
		switch {
		case err == nil && info.IsDir():
			found, walkErr := walkDir(input, opts)
			if walkErr != nil {
				return nil, walkErr
			}
			for _, s := range found {
				add(s)
			}
		case err == nil:
			add(Source{Path: input, Rel: filepath.Base(input)})
		case hasMeta(input):
			found, globErr := expandGlob(input, opts)
			if globErr != nil {
				return nil, globErr
			}
			for _, s := range found {
				add(s)
			}
		default:
			return nil, ferrors.NewError(ferrors.CategoryNotFound, "input not found").
				WithCause(err).
				WithContext("path", input).
				Build()
		}
	}

	if len(out) == 0 {
		return nil, ferrors.NewError(ferrors.CategoryNotFound, "no input files found").
			WithContext("inputs", strings.Join(inputs, " ")).
			Build()
	}
	return out, nil
}

func walkDir(root string, opts DiscoverOptions) ([]Source, error) {
	var out []Source
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if !opts.Recursive || hidden(d.Name()) || excluded(rel, opts.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || hidden(d.Name()) || excluded(rel, opts.Exclude) {
			return nil
		}
		out = append(out, Source{Path: path, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot scan input directory").
			WithContext("path", root).
			Build()
	}
	return out, nil
}

func expandGlob(pattern string, opts DiscoverOptions) ([]Source, error) {
	matches, err := doublestar.Glob(pattern)
	if err != nil {
		return nil, ferrors.ValidationError("invalid glob pattern").
			WithCause(err).
			WithContext("pattern", pattern).
			Build()
	}

	base := globBase(pattern)
	var out []Source
	for _, m := range matches {
		info, statErr := os.Stat(m)
		if statErr != nil || !info.Mode().IsRegular() {
			continue
		}
		rel, relErr := filepath.Rel(base, m)
		if relErr != nil {
			rel = filepath.Base(m)
		}
		rel = filepath.ToSlash(rel)
		if hiddenPath(rel) || excluded(rel, opts.Exclude) {
			continue
		}
		out = append(out, Source{Path: m, Rel: rel})
	}
	return out, nil
}

// globBase is the directory prefix of pattern before its first wildcard.
func globBase(pattern string) string {
	parts := strings.Split(filepath.ToSlash(pattern), "/")
	var static []string
	for _, p := range parts[:len(parts)-1] {
		if hasMeta(p) {
			break
		}
		static = append(static, p)
	}
	if len(static) == 0 {
		return "."
	}
	base := strings.Join(static, "/")
	if base == "" {
		return "/"
	}
	return filepath.FromSlash(base)
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func hiddenPath(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if hidden(part) {
			return true
		}
	}
	return false
}

func excluded(rel string, patterns []string) bool {
	base := rel[strings.LastIndex(rel, "/")+1:]
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
		}
	}
	return false
}
