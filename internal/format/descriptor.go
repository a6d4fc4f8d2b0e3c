package format

import (
	"strings"

	"git.home.luguber.info/inful/codedoc/internal/foundation/normalization"
)

// Category is the closed set of processing families a format belongs to.
type Category string

const (
	CategoryCode       Category = "code"
	CategoryStructured Category = "structured-data"
	CategoryDocument   Category = "document"
	CategoryUnknown    Category = "unknown"
)

// Categories lists every category in dispatch order.
func Categories() []Category {
	return []Category{CategoryCode, CategoryStructured, CategoryDocument, CategoryUnknown}
}

var categoryNormalizer = normalization.NewNormalizer(map[string]Category{
	"code":            CategoryCode,
	"structured-data": CategoryStructured,
	"structured":      CategoryStructured,
	"data":            CategoryStructured,
	"document":        CategoryDocument,
	"doc":             CategoryDocument,
	"unknown":         CategoryUnknown,
	"text":            CategoryUnknown,
}, CategoryUnknown)

// ParseCategory converts a user-supplied category name. Empty input means code.
func ParseCategory(raw string) (Category, error) {
	if strings.TrimSpace(raw) == "" {
		return CategoryCode, nil
	}
	return categoryNormalizer.NormalizeWithError(raw)
}

// Descriptor describes one registered format. Descriptors are values and are
// never modified once registered.
type Descriptor struct {
	// Key is the normalized extension or override key, lowercase without a dot.
	Key      string   `json:"key" yaml:"key"`
	Category Category `json:"category" yaml:"category"`
	// Name is the human-readable display name.
	Name string `json:"name" yaml:"name"`
	// Highlight is the syntax-highlighting language tag for fenced code blocks.
	Highlight   string `json:"highlight" yaml:"highlight"`
	Icon        string `json:"icon" yaml:"icon"`
	MIMEType    string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsUnknown reports whether d is the fallback descriptor.
func (d Descriptor) IsUnknown() bool { return d.Category == CategoryUnknown }

// Label returns the description when set, else the display name.
func (d Descriptor) Label() string {
	if d.Description != "" {
		return d.Description
	}
	return d.Name
}

// normalized fills defaults for a caller-registered descriptor.
func (d Descriptor) normalized() Descriptor {
	d.Key = normalization.Key(d.Key)
	if d.Category == "" {
		d.Category = CategoryCode
	}
	if d.Name == "" {
		d.Name = strings.ToUpper(d.Key)
	}
	if d.Highlight == "" {
		d.Highlight = d.Key
	}
	if d.Icon == "" {
		d.Icon = "📄"
	}
	if d.MIMEType == "" {
		d.MIMEType = "text/plain"
	}
	return d
}
