// Package sink delivers rendered pages: to files, to stdout, and to NATS.
package sink

import (
	"context"
	"errors"

	"git.home.luguber.info/inful/codedoc/internal/record"
)

// Page is one rendered record on its way out.
type Page struct {
	RunID    string
	Record   *record.Record
	Markdown string
	// Path is the output file; empty means stdout.
	Path string
}

// Sink receives pages. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(ctx context.Context, p Page) error
}

// Multi emits to every sink in order and joins their errors.
type Multi []Sink

// Emit implements Sink.
func (m Multi) Emit(ctx context.Context, p Page) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Emit(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
