package processor

import "git.home.luguber.info/inful/codedoc/internal/format"

// Table dispatches a descriptor to the processor registered for its category.
type Table map[format.Category]Processor

// DefaultTable wires every category to its processor.
func DefaultTable() Table {
	pass := Passthrough{}
	return Table{
		format.CategoryCode:       Code{},
		format.CategoryStructured: Structured{},
		format.CategoryDocument:   pass,
		format.CategoryUnknown:    pass,
	}
}

// Process runs the processor for d.Category. Categories without an entry are
// passed through unchanged.
func (t Table) Process(text string, d format.Descriptor) Result {
	if p, ok := t[d.Category]; ok && p != nil {
		return p.Process(text, d)
	}
	return Passthrough{}.Process(text, d)
}

// WithIndent returns a copy of t whose structured-data processors pretty-print
// with n spaces per level.
func (t Table) WithIndent(n int) Table {
	out := make(Table, len(t))
	for cat, p := range t {
		if _, ok := p.(Structured); ok {
			p = Structured{Indent: n}
		}
		out[cat] = p
	}
	return out
}
