package format

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/codedoc/internal/foundation/normalization"
)

// Registry maps normalized keys to descriptors. It is built once and only
// read afterwards, so a single instance is safe for concurrent use.
type Registry struct {
	byKey map[string]Descriptor
	keys  []string
}

// NewRegistry builds a registry from the built-in formats plus custom
// entries. Custom entries replace built-ins with the same key; entries with an
// empty key are ignored.
func NewRegistry(custom ...Descriptor) *Registry {
	r := &Registry{byKey: make(map[string]Descriptor, len(builtins)+len(custom))}
	for _, d := range builtins {
		r.byKey[d.Key] = d
	}
	for _, d := range custom {
		d = d.normalized()
		if d.Key == "" {
			continue
		}
		r.byKey[d.Key] = d
	}

	r.keys = make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		r.keys = append(r.keys, k)
	}
	sort.Strings(r.keys)
	return r
}

// Lookup returns the descriptor registered under key. The key is normalized
// first, so ".JSON" finds "json".
func (r *Registry) Lookup(key string) (Descriptor, bool) {
	d, ok := r.byKey[normalization.Key(key)]
	return d, ok
}

// Unknown returns the fallback descriptor for an unregistered key.
func (r *Registry) Unknown(key string) Descriptor {
	desc := "Plain text file"
	if key != "" {
		desc = fmt.Sprintf("Plain text file (.%s)", key)
	}
	return Descriptor{
		Key:         key,
		Category:    CategoryUnknown,
		Name:        "Text File",
		Highlight:   "text",
		Icon:        "📄",
		MIMEType:    "text/plain",
		Description: desc,
	}
}

// Detect resolves exactly one descriptor for a path.
//
// A non-empty override is looked up directly and takes precedence over the
// path; an unregistered override is the only failure. Without an override
// the last extension of the base name decides, falling back to the whole
// base name for extension-less files such as Makefile. Misses resolve to the
// unknown descriptor.
func (r *Registry) Detect(path, override string) (Descriptor, error) {
	ext := Extension(path)

	if key := normalization.Key(override); key != "" {
		d, ok := r.byKey[key]
		if !ok {
			return Descriptor{}, unknownOverride(override)
		}
		if ext != key {
			label := "." + ext
			if ext == "" {
				label = filepath.Base(path)
			}
			d.Name = fmt.Sprintf("%s (%s)", d.Name, label)
			d.Description = d.Label() + " (format override)"
		}
		return d, nil
	}

	if ext != "" {
		if d, ok := r.byKey[ext]; ok {
			return d, nil
		}
		return r.Unknown(ext), nil
	}

	base := strings.ToLower(filepath.Base(path))
	if d, ok := r.byKey[base]; ok && base != "" {
		return d, nil
	}
	return r.Unknown(""), nil
}

// List returns all descriptors ordered by key.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.byKey[k])
	}
	return out
}

// Extensions returns all registered keys in sorted order.
func (r *Registry) Extensions() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// SearchByName returns descriptors whose display name contains name,
// case-insensitively, ordered by key.
func (r *Registry) SearchByName(name string) []Descriptor {
	needle := strings.ToLower(strings.TrimSpace(name))
	var out []Descriptor
	for _, k := range r.keys {
		d := r.byKey[k]
		if strings.Contains(strings.ToLower(d.Name), needle) {
			out = append(out, d)
		}
	}
	return out
}

// Extension returns the lowercased last dot-segment of the base name of path,
// without the dot. Dotfiles such as ".bashrc" and names without a dot have no
// extension.
func Extension(path string) string {
	base := filepath.Base(path)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}
