package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/codedoc/internal/content"
	"git.home.luguber.info/inful/codedoc/internal/format"
	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
	"git.home.luguber.info/inful/codedoc/internal/metrics"
	"git.home.luguber.info/inful/codedoc/internal/processor"
)

type countingRecorder struct {
	metrics.NoopRecorder
	mu          sync.Mutex
	conversions map[string]int
	truncations int
}

func (r *countingRecorder) IncConversion(category string, outcome metrics.OutcomeLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conversions == nil {
		r.conversions = map[string]int{}
	}
	r.conversions[category+"/"+string(outcome)]++
}

func (r *countingRecorder) IncTruncation(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.truncations++
}

func TestConvertOverrideAnnotatesName(t *testing.T) {
	p := New(format.NewRegistry())
	rec, err := p.Convert("pipeline.slp", []byte(`{"steps":[1,2]}`), Config{FormatOverride: "json"})
	require.NoError(t, err)

	require.Equal(t, "json", rec.Format.Key)
	require.Equal(t, "JSON (.slp)", rec.Format.Name)
	require.True(t, rec.IsValid())
	require.Equal(t, "{\n  \"steps\": [\n    1,\n    2\n  ]\n}\n", rec.Content)
}

func TestConvertIndentAndPageSwitches(t *testing.T) {
	p := New(format.NewRegistry())
	rec, err := p.Convert("a.xml", []byte("<a><b>x</b></a>"), Config{Indent: 4, IncludeTOC: true, LineNumbers: true})
	require.NoError(t, err)

	require.Equal(t, "<a>\n    <b>x</b>\n</a>\n", rec.Content)
	require.True(t, rec.IncludeTOC)
	require.True(t, rec.LineNumbers)

	// The shared table keeps its default width.
	rec, err = p.Convert("a.json", []byte(`{"k":1}`), Config{})
	require.NoError(t, err)
	require.Equal(t, "{\n  \"k\": 1\n}\n", rec.Content)
}

func TestConvertUnknownExtensionPassesThrough(t *testing.T) {
	p := New(format.NewRegistry())
	rec, err := p.Convert("data.xyz", []byte("anything\r\ngoes"), Config{})
	require.NoError(t, err)

	require.Equal(t, format.CategoryUnknown, rec.Format.Category)
	require.Equal(t, "Text File", rec.Format.Name)
	require.Equal(t, "anything\ngoes", rec.Content)
	require.True(t, rec.IsValid())
	require.Empty(t, rec.Processed.ValidationErrors)
}

func TestConvertSizeLimit(t *testing.T) {
	p := New(format.NewRegistry())

	_, err := p.Convert("a.txt", []byte(strings.Repeat("a", 10)), Config{MaxFileSize: 10})
	require.NoError(t, err)

	_, err = p.Convert("a.txt", []byte(strings.Repeat("a", 11)), Config{MaxFileSize: 10})
	require.ErrorIs(t, err, content.ErrFileTooLarge)
	require.True(t, ferrors.HasCategory(err, ferrors.CategorySafety))
}

func TestConvertForcedEncodingFailure(t *testing.T) {
	p := New(format.NewRegistry())
	_, err := p.Convert("a.txt", []byte{0xff, 0xfe, 0x41}, Config{ForcedEncoding: "utf-8"})
	require.ErrorIs(t, err, content.ErrEncoding)

	rec, err := p.Convert("a.txt", []byte{0x63, 0x61, 0x66, 0xe9}, Config{ForcedEncoding: "latin1"})
	require.NoError(t, err)
	require.Equal(t, "café", rec.Content)
	require.Equal(t, content.EncodingWindows1252, rec.Decoded.Encoding)
}

func TestConvertUnknownOverride(t *testing.T) {
	p := New(format.NewRegistry())
	_, err := p.Convert("a.txt", []byte("x"), Config{FormatOverride: "nope"})
	require.ErrorIs(t, err, format.ErrUnknownFormat)
}

func TestConvertMalformedStructuredDataIsNotAnError(t *testing.T) {
	rec := &countingRecorder{}
	p := New(format.NewRegistry(), WithRecorder(rec))

	src := "{\"a\": 1,,}"
	r, err := p.Convert("bad.json", []byte(src), Config{IncludeStats: true})
	require.NoError(t, err)
	require.False(t, r.IsValid())
	require.NotEmpty(t, r.Processed.ValidationErrors)
	require.Equal(t, src, r.Content)
	require.Equal(t, 1, rec.conversions["structured-data/invalid"])
}

func TestConvertTruncation(t *testing.T) {
	rec := &countingRecorder{}
	p := New(format.NewRegistry(), WithRecorder(rec))
	src := strings.Repeat("x = 1\n", 10)

	r, err := p.Convert("m.py", []byte(src), Config{MaxLines: 5})
	require.NoError(t, err)
	require.True(t, r.Decoded.WasTruncated)
	require.Equal(t, 5, strings.Count(r.Content, "\n")+1)
	require.Equal(t, 10, r.Processed.Statistics.Int(processor.StatLineCount))
	require.Equal(t, 1, rec.truncations)

	r, err = p.Convert("m.py", []byte(src), Config{MaxLines: 20})
	require.NoError(t, err)
	require.False(t, r.Decoded.WasTruncated)
	require.Equal(t, src, r.Content)
}

func TestConvertIsIdempotent(t *testing.T) {
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := New(format.NewRegistry(), WithClock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}))
	cfg := Config{IncludeMetadata: true, IncludeStats: true, Tags: []string{"a"}}
	data := []byte("a:\n  b: [1, 2]\n")

	first, err := p.Convert("x.yaml", data, cfg)
	require.NoError(t, err)
	second, err := p.Convert("x.yaml", data, cfg)
	require.NoError(t, err)

	require.NotEqual(t, first.GeneratedAt, second.GeneratedAt)
	require.True(t, first.Equal(second))
	require.Equal(t, first.Fingerprint, second.Fingerprint)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0o600))
	mod := time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mod, mod))

	p := New(format.NewRegistry())
	rec, err := p.ConvertFile(path, Config{IncludeMetadata: true})
	require.NoError(t, err)
	require.Equal(t, int64(29), rec.Metadata.Size)
	require.True(t, mod.Equal(rec.Metadata.Modified))
	require.Equal(t, 1, rec.Processed.Statistics.Int(processor.StatFunctionCount))

	_, err = p.ConvertFile(path, Config{MaxFileSize: 5})
	require.ErrorIs(t, err, content.ErrFileTooLarge)

	_, err = p.ConvertFile(filepath.Join(dir, "missing.go"), Config{})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))

	_, err = p.ConvertFile(dir, Config{})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}
