package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

// Writer writes pages to their output path, or to Stdout when the page has
// none. Stdout writes are serialized so concurrent pages never interleave.
type Writer struct {
	Stdout io.Writer
	mu     sync.Mutex
}

// NewWriter returns a Writer printing path-less pages to stdout.
func NewWriter(stdout io.Writer) *Writer {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Writer{Stdout: stdout}
}

// Emit implements Sink.
func (w *Writer) Emit(ctx context.Context, p Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.Path == "" {
		w.mu.Lock()
		defer w.mu.Unlock()
		if _, err := io.WriteString(w.Stdout, p.Markdown); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write to stdout").Build()
		}
		return nil
	}
	return WriteFile(p.Path, p.Markdown)
}

// WriteFile writes content to path, creating parent directories. The file is
// written to a temporary sibling first and renamed into place so readers
// never observe a partial page.
func WriteFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fsErr(err, "create output directory", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fsErr(err, "create output file", path)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fsErr(err, "write output file", path)
	}
	if err := tmp.Close(); err != nil {
		return fsErr(err, "write output file", path)
	}
	// #nosec G302 -- generated pages are meant to be read by site generators.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fsErr(err, "write output file", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fsErr(err, "write output file", path)
	}
	return nil
}

func fsErr(err error, msg, path string) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, fmt.Sprintf("%s: %s", msg, path)).
		WithContext("path", path).
		Build()
}
