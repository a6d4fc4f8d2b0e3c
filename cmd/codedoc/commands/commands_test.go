package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/codedoc/internal/batch"
	"git.home.luguber.info/inful/codedoc/internal/format"
	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	cli := &CLI{stdout: &out, stderr: &errb}
	g := &Global{}
	parser, err := kong.New(cli,
		kong.Name("codedoc"),
		kong.Vars{"version": "test"},
		kong.Bind(g, cli),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d", code) }),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	if err != nil {
		return result{stdout: out.String(), stderr: errb.String(), err: err}
	}
	err = kctx.Run()
	return result{stdout: out.String(), stderr: errb.String(), err: err}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func requireCategory(t *testing.T, err error, want ferrors.ErrorCategory) {
	t.Helper()
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok, "expected classified error, got %v", err)
	require.Equal(t, want, ce.Category())
}

func TestConvertSingleFileToStdout(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.py")
	writeFile(t, src, "import os\n\ndef main():\n    pass\n")

	res := runCLI(t, "convert", src, "--title", "Entry point", "--tags", "cli,tools")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Entry point")
	require.Contains(t, res.stdout, "```python")
	require.Contains(t, res.stdout, "- cli")
	require.Contains(t, res.stderr, "1 processed, 0 failed, 0 skipped")
}

func TestConvertIsTheDefaultCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.json")
	writeFile(t, src, `{"b":1,"a":[1,2]}`)

	res := runCLI(t, src)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "```json")
}

func TestConvertOutputDirMirrorsInputs(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "src")
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(in, "a.py"), "x = 1\n")
	writeFile(t, filepath.Join(in, "sub", "b.json"), `{"k": true}`)
	writeFile(t, filepath.Join(in, "README.md"), "# readme\n")

	res := runCLI(t, "convert", in, "-r", "-d", out)
	require.NoError(t, res.err)
	require.FileExists(t, filepath.Join(out, "a.py.md"))
	require.FileExists(t, filepath.Join(out, "sub", "b.json.md"))
	require.NoFileExists(t, filepath.Join(out, "README.md.md"))
	require.Empty(t, res.stdout)
}

func TestConvertOutputFileNeedsSingleInput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.py"), "x = 1\n")
	writeFile(t, filepath.Join(dir, "b.py"), "y = 2\n")

	res := runCLI(t, "convert", dir, "-o", filepath.Join(dir, "page.md"))
	requireCategory(t, res.err, ferrors.CategoryValidation)
}

func TestConvertOutputFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "settings.yaml")
	page := filepath.Join(dir, "docs", "settings.md")
	writeFile(t, src, "name: demo\nport: 8080\n")

	res := runCLI(t, "convert", src, "-o", page, "--no-stats", "--no-metadata")
	require.NoError(t, res.err)
	data, err := os.ReadFile(page)
	require.NoError(t, err)
	require.Contains(t, string(data), "```yaml")
	require.NotContains(t, string(data), "## Statistics")
	require.NotContains(t, string(data), "## File Information")
}

func TestConvertValidateOnlyReportsInvalidData(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	writeFile(t, good, `{"ok": true}`)
	writeFile(t, bad, `{"ok": }`)

	res := runCLI(t, "convert", good, bad, "--validate-only")
	requireCategory(t, res.err, ferrors.CategoryValidation)
	require.Contains(t, res.stdout, "valid    "+good)
	require.Contains(t, res.stdout, "invalid  "+bad)
	require.Contains(t, res.stderr, "1 invalid")
	_, err := os.Stat(bad + ".md")
	require.True(t, os.IsNotExist(err))
}

func TestConvertSingleFileFailureKeepsCategory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "big.txt")
	writeFile(t, src, strings.Repeat("x", 64))

	res := runCLI(t, "convert", src, "--max-file-size", "16B")
	requireCategory(t, res.err, ferrors.CategorySafety)
	require.Contains(t, res.stderr, "failed   "+src)
}

func TestConvertQuietKeepsErrorsOnly(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.json")
	big := filepath.Join(dir, "big.txt")
	writeFile(t, good, `{"a": 1}`)
	writeFile(t, big, strings.Repeat("x", 64))

	res := runCLI(t, "-q", "convert", good)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "```json")
	require.Empty(t, res.stderr)

	res = runCLI(t, "--quiet", "convert", good, big, "--max-file-size", "16B", "-d", filepath.Join(dir, "out"))
	require.Error(t, res.err)
	require.Contains(t, res.stderr, "failed   "+big)
	require.NotContains(t, res.stderr, "processed")
}

func TestConvertPresentationFlags(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.json")
	writeFile(t, src, `{"a":{"b":1}}`)

	res := runCLI(t, "convert", src)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "## Contents")
	require.Contains(t, res.stdout, "```json linenums=\"1\"\n{\n  \"a\": {\n    \"b\": 1")

	res = runCLI(t, "convert", src, "--indent", "4", "--no-toc", "--no-line-numbers")
	require.NoError(t, res.err)
	require.NotContains(t, res.stdout, "## Contents")
	require.Contains(t, res.stdout, "```json\n{\n    \"a\": {\n        \"b\": 1")
}

func TestConvertUnknownFormatOverride(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pipeline.slp")
	writeFile(t, src, `{"steps": []}`)

	res := runCLI(t, "convert", src, "--format", "nope")
	requireCategory(t, res.err, ferrors.CategoryFormat)

	res = runCLI(t, "convert", src, "--format", "json")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "```json")
}

func TestConvertRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.py")
	writeFile(t, src, "x = 1\n")

	res := runCLI(t, "convert", src, "--frontmatter", "[1, 2]")
	requireCategory(t, res.err, ferrors.CategoryValidation)

	res = runCLI(t, "convert", src, "--max-file-size", "lots")
	requireCategory(t, res.err, ferrors.CategoryValidation)

	res = runCLI(t, "--log-level", "chatty", "convert", src)
	require.ErrorContains(t, res.err, "unknown log level")
}

func TestConvertMissingInput(t *testing.T) {
	res := runCLI(t, "convert", filepath.Join(t.TempDir(), "missing.py"))
	requireCategory(t, res.err, ferrors.CategoryNotFound)
}

func TestConvertIncrementalSkipsUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.py")
	out := filepath.Join(dir, "out")
	db := filepath.Join(dir, "state.db")
	writeFile(t, src, "x = 1\n")

	args := []string{"convert", src, "-d", out, "-i", "--state-db", db}
	res := runCLI(t, args...)
	require.NoError(t, res.err)
	require.Contains(t, res.stderr, "1 processed")

	res = runCLI(t, args...)
	require.NoError(t, res.err)
	require.Contains(t, res.stderr, "0 processed, 0 failed, 1 skipped")

	res = runCLI(t, append(args, "--title", "Renamed")...)
	require.NoError(t, res.err)
	require.Contains(t, res.stderr, "1 processed")
}

func TestConvertWritesMetricsFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.py")
	prom := filepath.Join(dir, "codedoc.prom")
	writeFile(t, src, "x = 1\n")

	res := runCLI(t, "convert", src, "--metrics-file", prom)
	require.NoError(t, res.err)
	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	require.Contains(t, string(data), "codedoc_conversions_total")
}

func TestFormatsSearch(t *testing.T) {
	res := runCLI(t, "formats", "--search", "python")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "EXTENSION")
	require.Contains(t, res.stdout, ".py")
	require.NotContains(t, res.stdout, ".json")
}

func TestFormatsCategoryJSON(t *testing.T) {
	res := runCLI(t, "formats", "--category", "structured-data", "--json")
	require.NoError(t, res.err)

	var list []format.Descriptor
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &list))
	require.NotEmpty(t, list)
	for _, d := range list {
		require.Equal(t, format.CategoryStructured, d.Category, d.Key)
	}
}

func TestInitWritesConfigOnce(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, "init", "-o", dir)
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "initialized successfully")
	require.FileExists(t, filepath.Join(dir, "codedoc.yaml"))

	res = runCLI(t, "init", "-o", dir)
	requireCategory(t, res.err, ferrors.CategoryConfig)
	require.Contains(t, res.stdout, "Initialization failed")

	res = runCLI(t, "init", "-o", dir, "--force")
	require.NoError(t, res.err)
}

func TestChangedSources(t *testing.T) {
	dir := t.TempDir()
	sources := []batch.Source{
		{Path: filepath.Join(dir, "a.py"), Rel: "a.py"},
		{Path: filepath.Join(dir, "b.py"), Rel: "b.py"},
	}
	got := changedSources(sources, []string{filepath.Join(dir, "b.py"), filepath.Join(dir, "c.py")})
	require.Equal(t, sources[1:], got)
	require.Empty(t, changedSources(sources, nil))
}

func TestIgnoreOutputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "docs")
	db := filepath.Join(dir, ".state", "state.db")
	ignore := ignoreOutputs(out, db, "")

	require.True(t, ignore(filepath.Join(out, "a.py.md")))
	require.True(t, ignore(out))
	require.True(t, ignore(db))
	require.True(t, ignore(db+"-journal"))
	require.False(t, ignore(filepath.Join(dir, "docs2", "a.py")))
	require.False(t, ignore(filepath.Join(dir, "a.py")))

	none := ignoreOutputs("")
	require.False(t, none(filepath.Join(dir, "a.py")))
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", "", "c"}))
	require.Nil(t, splitList(nil))
}
