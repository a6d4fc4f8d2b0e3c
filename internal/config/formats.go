package config

import (
	"sort"

	"git.home.luguber.info/inful/codedoc/internal/format"
)

// Descriptors converts the formats section into registry entries, sorted by
// key. Fields left empty are filled by the registry.
func (c *Config) Descriptors() []format.Descriptor {
	keys := make([]string, 0, len(c.Formats))
	for k := range c.Formats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]format.Descriptor, 0, len(keys))
	for _, k := range keys {
		f := c.Formats[k]
		// Validation already rejected unknown categories.
		cat, _ := format.ParseCategory(f.Category)
		out = append(out, format.Descriptor{
			Key:         k,
			Category:    cat,
			Name:        f.Name,
			Highlight:   f.Highlight,
			Icon:        f.Icon,
			MIMEType:    f.MIMEType,
			Description: f.Description,
		})
	}
	return out
}

// Registry builds the format registry: built-ins plus the formats section.
func (c *Config) Registry() *format.Registry {
	return format.NewRegistry(c.Descriptors()...)
}
