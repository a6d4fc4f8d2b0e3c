package config

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Snapshot computes a stable hash of the settings that change conversion
// output. Incremental runs store it next to each file fingerprint so a
// settings change forces reconversion. Logging, publishing and watch settings
// are left out.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) {
		h.Write([]byte(strings.Join(parts, "=")))
		h.Write([]byte{0})
	}

	d := c.Defaults
	w("defaults.max_file_size", strconv.FormatInt(d.MaxFileSize, 10))
	w("defaults.max_lines", strconv.Itoa(d.MaxLines))
	w("defaults.encoding", d.Encoding)
	w("defaults.indent", strconv.Itoa(d.Indent))
	w("defaults.include_metadata", strconv.FormatBool(d.MetadataEnabled()))
	w("defaults.include_stats", strconv.FormatBool(d.StatsEnabled()))
	w("defaults.include_toc", strconv.FormatBool(d.TOCEnabled()))
	w("defaults.line_numbers", strconv.FormatBool(d.LineNumbersEnabled()))
	w("defaults.auto_tags", strconv.FormatBool(d.AutoTags))
	w("defaults.git_info", strconv.FormatBool(d.GitInfo))
	w("defaults.tags", strings.Join(d.Tags, ","))
	w("defaults.template", d.Template)
	w("output.template_dir", c.Output.TemplateDir)

	keys := make([]string, 0, len(c.Formats))
	for k := range c.Formats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		f := c.Formats[k]
		w("formats."+k, f.Name, f.Category, f.Highlight, f.Icon, f.MIMEType, f.Description)
	}
	return hex.EncodeToString(h.Sum(nil))
}
