package record

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/codedoc/internal/content"
	"git.home.luguber.info/inful/codedoc/internal/format"
	"git.home.luguber.info/inful/codedoc/internal/frontmatter"
	"git.home.luguber.info/inful/codedoc/internal/processor"
)

func tenLines() string {
	var sb strings.Builder
	for i := 1; i <= 10; i++ {
		sb.WriteString("line\n")
	}
	return sb.String()
}

func input(t *testing.T, path, text string) Input {
	t.Helper()
	reg := format.NewRegistry()
	d, err := reg.Detect(path, "")
	require.NoError(t, err)
	dec := content.Decoded{
		RawLength:        len(text),
		Encoding:         content.EncodingUTF8,
		Text:             text,
		TruncationReason: content.TruncationNone,
		TotalLines:       content.CountLines(text),
	}
	return Input{
		Path:        path,
		Format:      d,
		Decoded:     dec,
		Processed:   processor.DefaultTable().Process(text, d),
		Size:        int64(len(text)),
		ModTime:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		GeneratedAt: time.Now(),
	}
}

func TestAssembleDefaults(t *testing.T) {
	rec := Assemble(input(t, "src/main.py", "print('x')\n"), Options{})

	require.Equal(t, "main.py", rec.FileName)
	require.Equal(t, "main.py", rec.Title)
	require.Equal(t, "Python source code - main.py", rec.Description)
	require.Empty(t, rec.Tags)
	require.Equal(t, "print('x')\n", rec.Content)
	require.Empty(t, rec.Fingerprint)

	require.Equal(t, map[string]any{
		KeyTitle:       "main.py",
		KeyDescription: "Python source code - main.py",
	}, rec.Frontmatter)
	// Omitted frontmatter sections stay available on the record.
	require.Equal(t, 1, rec.Processed.Statistics.Int(processor.StatLineCount))
}

func TestAssembleTags(t *testing.T) {
	rec := Assemble(input(t, "a.json", "{}"), Options{
		Tags:     []string{"api", " ", "config", "api"},
		AutoTags: true,
	})
	require.Equal(t, []string{"api", "config", "json", "structured-data"}, rec.Tags)
	require.Equal(t, rec.Tags, rec.Frontmatter[KeyTags])
}

func TestAssembleMetadataAndStats(t *testing.T) {
	rec := Assemble(input(t, "conf/app.json", `{"a":1}`), Options{
		Title:           "App config",
		IncludeMetadata: true,
		IncludeStats:    true,
	})

	require.Equal(t, "App config", rec.Title)
	require.Equal(t, "7 B", rec.Metadata.HumanSize)
	require.Equal(t, "json", rec.Metadata.Extension)

	file, ok := rec.Frontmatter[KeyFile].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "2024-01-02T03:04:05Z", file["modified"])
	require.Equal(t, false, file["truncated"])

	stats, ok := rec.Frontmatter[KeyStats].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, stats[processor.StatIsValid])
	require.Equal(t, []string{}, stats["validation_errors"])

	require.NotEmpty(t, rec.Fingerprint)
	require.Equal(t, rec.Fingerprint, rec.Frontmatter[KeyFingerprint])

	fp, err := Fingerprint(rec.Frontmatter, rec.Content)
	require.NoError(t, err)
	require.Equal(t, rec.Fingerprint, fp)

	out, err := frontmatter.SerializeYAML(rec.Frontmatter, FrontmatterOrder)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "title: App config\ndescription: "), out)
	require.Less(t, strings.Index(out, "\nstats:"), strings.Index(out, "\nfingerprint:"))
}

func TestAssembleExtraFrontmatter(t *testing.T) {
	rec := Assemble(input(t, "x.go", "package x\n"), Options{
		ExtraFrontmatter: map[string]any{"title": "nope", "weight": 3, "description": "custom"},
	})
	require.Equal(t, "x.go", rec.Frontmatter[KeyTitle])
	require.Equal(t, "custom", rec.Frontmatter[KeyDescription])
	require.Equal(t, 3, rec.Frontmatter["weight"])
}

func TestAssembleTruncation(t *testing.T) {
	text := tenLines()

	rec := Assemble(input(t, "notes.txt", text), Options{MaxLines: 5})
	require.Equal(t, strings.TrimSuffix(strings.Repeat("line\n", 5), "\n"), rec.Content)
	require.True(t, rec.Decoded.WasTruncated)
	require.Equal(t, content.TruncationLineLimit, rec.Decoded.TruncationReason)
	require.Equal(t, 10, rec.Decoded.TotalLines)
	require.Equal(t, 5, rec.MaxLines)
	// Statistics describe the whole input.
	require.Equal(t, 10, rec.Processed.Statistics.Int(processor.StatLineCount))

	rec = Assemble(input(t, "notes.txt", text), Options{MaxLines: 20})
	require.Equal(t, text, rec.Content)
	require.False(t, rec.Decoded.WasTruncated)
	require.Equal(t, content.TruncationNone, rec.Decoded.TruncationReason)
}

func TestAssembleTruncatesPrettyPrintedContent(t *testing.T) {
	// One input line becomes four presented lines.
	rec := Assemble(input(t, "a.json", `{"a":1,"b":2}`), Options{MaxLines: 2})
	require.Equal(t, "{\n  \"a\": 1,", rec.Content)
	require.True(t, rec.Decoded.WasTruncated)
	require.Equal(t, `{"a":1,"b":2}`, rec.Decoded.Text)
}

func TestRecordEqualIgnoresGeneratedAt(t *testing.T) {
	in := input(t, "a.yaml", "a: 1\n")
	opts := Options{IncludeMetadata: true, IncludeStats: true, Tags: []string{"x"}}

	a := Assemble(in, opts)
	in.GeneratedAt = in.GeneratedAt.Add(time.Hour)
	b := Assemble(in, opts)
	require.True(t, a.Equal(b))

	in.Size++
	c := Assemble(in, opts)
	require.False(t, a.Equal(c))

	var nilRec *Record
	require.True(t, nilRec.Equal(nil))
	require.False(t, a.Equal(nil))
}
