// Package record assembles Documentation Records: the canonical, immutable
// result of converting one source file, consumed by the template renderer.
package record

import (
	"reflect"
	"time"

	"git.home.luguber.info/inful/codedoc/internal/content"
	"git.home.luguber.info/inful/codedoc/internal/format"
	"git.home.luguber.info/inful/codedoc/internal/gitinfo"
	"git.home.luguber.info/inful/codedoc/internal/processor"
)

// FileMetadata describes the source file on disk.
type FileMetadata struct {
	Size      int64
	HumanSize string
	Modified  time.Time
	Extension string
	Encoding  string
	// Git is set when git information was requested and the file is tracked.
	Git *gitinfo.Info
}

// Record is the Documentation Record for one file. Records are built by
// Assemble and never modified afterwards.
type Record struct {
	FilePath  string
	FileName  string
	Format    format.Descriptor
	Decoded   content.Decoded
	Processed processor.Result
	// Content is the normalized text after the line limit was applied.
	Content     string
	Title       string
	Description string
	Tags        []string
	// MaxLines is the applied line limit; 0 means none.
	MaxLines int
	Metadata FileMetadata
	// IncludeMetadata, IncludeStats, IncludeTOC and LineNumbers mirror the
	// options the record was assembled with.
	IncludeMetadata bool
	IncludeStats    bool
	IncludeTOC      bool
	LineNumbers     bool
	Frontmatter     map[string]any
	Fingerprint     string
	GeneratedAt     time.Time
}

// Equal reports whether two records carry the same data. GeneratedAt is
// ignored so repeated conversions of unchanged input compare equal.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	a, b := *r, *other
	a.GeneratedAt, b.GeneratedAt = time.Time{}, time.Time{}
	a.Metadata.Modified = a.Metadata.Modified.UTC()
	b.Metadata.Modified = b.Metadata.Modified.UTC()
	return reflect.DeepEqual(a, b)
}

// IsValid reports whether processing found the content well-formed.
func (r *Record) IsValid() bool {
	return r.Processed.IsValid()
}
