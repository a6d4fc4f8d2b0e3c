package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

func touch(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o600))
	}
}

func rels(sources []Source) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Rel)
	}
	return out
}

func TestDiscoverDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "main.py", "README.md", ".hidden.py", "pkg/util.py", "pkg/notes.md", ".git/config", "vendor/lib.py")

	flat, err := Discover([]string{root}, DiscoverOptions{})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"main.py", "README.md"}, rels(flat))

	deep, err := Discover([]string{root}, DiscoverOptions{Recursive: true, Exclude: []string{"**/*.md", "vendor"}})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"main.py", "pkg/util.py"}, rels(deep))
}

func TestDiscoverExplicitFilesIgnoreExcludes(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "README.md")
	path := filepath.Join(root, "README.md")

	got, err := Discover([]string{path, path}, DiscoverOptions{Exclude: []string{"*.md"}})
	require.NoError(t, err)
	require.Equal(t, []Source{{Path: path, Rel: "README.md"}}, got)
}

func TestDiscoverGlob(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.json", "sub/b.json", "sub/c.yaml", "sub/.d.json")

	got, err := Discover([]string{filepath.Join(root, "**", "*.json")}, DiscoverOptions{})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a.json", "sub/b.json"}, rels(got))

	got, err = Discover([]string{filepath.Join(root, "sub", "*")}, DiscoverOptions{Exclude: []string{"*.yaml"}})
	require.NoError(t, err)
	require.Equal(t, []string{"b.json"}, rels(got))
}

func TestDiscoverMissingInput(t *testing.T) {
	_, err := Discover([]string{filepath.Join(t.TempDir(), "nope.py")}, DiscoverOptions{})
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryNotFound, ce.Category())

	_, err = Discover([]string{filepath.Join(t.TempDir(), "*.py")}, DiscoverOptions{})
	require.Error(t, err, "a glob matching nothing leaves no inputs")
}

func TestOutputPaths(t *testing.T) {
	src := Source{Path: "src/pkg/main.py", Rel: "pkg/main.py"}

	p, err := OutputOptions{}.Path(src)
	require.NoError(t, err)
	require.Empty(t, p)

	p, err = OutputOptions{File: "out.md"}.Path(src)
	require.NoError(t, err)
	require.Equal(t, "out.md", p)

	p, err = OutputOptions{Dir: "site"}.Path(src)
	require.NoError(t, err)
	require.Equal(t, filepath.Join("site", "pkg", "main.py.md"), p)

	_, err = OutputOptions{Dir: "site"}.Path(Source{Path: "x", Rel: "../x.py"})
	require.Error(t, err)

	require.NoError(t, OutputOptions{File: "out.md"}.Validate(1))
	require.Error(t, OutputOptions{File: "out.md"}.Validate(2))
	require.Error(t, OutputOptions{File: "out.md", Dir: "site"}.Validate(1))
}
