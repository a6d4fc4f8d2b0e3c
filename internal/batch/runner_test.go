package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/codedoc/internal/content"
	"git.home.luguber.info/inful/codedoc/internal/format"
	"git.home.luguber.info/inful/codedoc/internal/pipeline"
	"git.home.luguber.info/inful/codedoc/internal/render"
	"git.home.luguber.info/inful/codedoc/internal/sink"
	"git.home.luguber.info/inful/codedoc/internal/state"
)

type fixture struct {
	root   string
	out    string
	runner *Runner
	stdout *bytes.Buffer
}

func newFixture(t *testing.T, opts ...RunnerOption) *fixture {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte("import os\n\ndef main():\n    pass\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "good.json"), []byte(`{"a": [1, 2]}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.json"), []byte(`{"a": }`), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "big.txt"), []byte(strings.Repeat("x", 64)), 0o600))

	r, err := render.New("", "")
	require.NoError(t, err)
	stdout := &bytes.Buffer{}
	base := []RunnerOption{WithSink(sink.NewWriter(stdout)), WithRunID("run-test")}
	return &fixture{
		root:   root,
		out:    filepath.Join(t.TempDir(), "site"),
		runner: NewRunner(pipeline.New(format.NewRegistry()), r, append(base, opts...)...),
		stdout: stdout,
	}
}

func (f *fixture) sources(t *testing.T) []Source {
	t.Helper()
	src, err := Discover([]string{f.root}, DiscoverOptions{Recursive: true})
	require.NoError(t, err)
	require.Len(t, src, 4)
	return src
}

func TestRunWritesMirroredPagesAndContinuesOnFailure(t *testing.T) {
	f := newFixture(t)
	sum, err := f.runner.Run(context.Background(), f.sources(t), Options{
		Config:  pipeline.Config{MaxFileSize: 32, IncludeStats: true},
		Output:  OutputOptions{Dir: f.out},
		Workers: 2,
	})
	require.NoError(t, err)
	require.Equal(t, "run-test", sum.RunID)
	require.Equal(t, 3, sum.Processed)
	require.Equal(t, 1, sum.Failed)
	require.Equal(t, 1, sum.Invalid)
	require.False(t, sum.OK())

	failures := sum.Failures()
	require.Len(t, failures, 1)
	require.Equal(t, "sub/big.txt", failures[0].Source.Rel)
	require.True(t, errors.Is(failures[0].Err, content.ErrFileTooLarge))
	require.ErrorIs(t, sum.FirstError(), content.ErrFileTooLarge)

	page, err := os.ReadFile(filepath.Join(f.out, "main.py.md"))
	require.NoError(t, err)
	require.Contains(t, string(page), "```python\nimport os\n")
	require.FileExists(t, filepath.Join(f.out, "good.json.md"))
	require.FileExists(t, filepath.Join(f.out, "bad.json.md"))
	require.NoFileExists(t, filepath.Join(f.out, "sub", "big.txt.md"))
	require.Empty(t, f.stdout.String())
}

func TestRunToStdout(t *testing.T) {
	f := newFixture(t)
	src := []Source{{Path: filepath.Join(f.root, "main.py"), Rel: "main.py"}}

	sum, err := f.runner.Run(context.Background(), src, Options{})
	require.NoError(t, err)
	require.True(t, sum.OK())
	require.Empty(t, sum.Results[0].Output)
	require.Contains(t, f.stdout.String(), "title: main.py")
}

func TestRunValidateOnlyWritesNothing(t *testing.T) {
	f := newFixture(t)
	var src []Source
	for _, name := range []string{"good.json", "bad.json"} {
		src = append(src, Source{Path: filepath.Join(f.root, name), Rel: name})
	}

	sum, err := f.runner.Run(context.Background(), src, Options{ValidateOnly: true, Output: OutputOptions{Dir: f.out}})
	require.NoError(t, err)
	require.Equal(t, 2, sum.Processed)
	require.Equal(t, 1, sum.Invalid)
	require.False(t, sum.OK())
	require.NotEmpty(t, sum.Results[1].ValidationErrors)
	require.NoDirExists(t, f.out)
	require.Empty(t, f.stdout.String())
}

func TestRunIncrementalSkipsUnchanged(t *testing.T) {
	store, err := state.Open(state.Memory)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	f := newFixture(t, WithState(store))
	src := []Source{{Path: filepath.Join(f.root, "main.py"), Rel: "main.py"}}
	opts := Options{Output: OutputOptions{Dir: f.out}, ConfigHash: "cfg-1"}

	sum, err := f.runner.Run(context.Background(), src, opts)
	require.NoError(t, err)
	require.Equal(t, 1, sum.Processed)

	sum, err = f.runner.Run(context.Background(), src, opts)
	require.NoError(t, err)
	require.Equal(t, 0, sum.Processed)
	require.Equal(t, 1, sum.Skipped)
	require.True(t, sum.OK())

	opts.ConfigHash = "cfg-2"
	sum, err = f.runner.Run(context.Background(), src, opts)
	require.NoError(t, err)
	require.Equal(t, 1, sum.Processed)

	require.NoError(t, os.WriteFile(src[0].Path, []byte("print('changed')\n"), 0o600))
	sum, err = f.runner.Run(context.Background(), src, opts)
	require.NoError(t, err)
	require.Equal(t, 1, sum.Processed)
}

func TestRunCanceledBeforeStart(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := f.runner.Run(ctx, f.sources(t), Options{Output: OutputOptions{Dir: f.out}})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 4, sum.Canceled)
	require.Equal(t, 0, sum.Processed)
	require.False(t, sum.OK())
}

func TestRunRejectsOutputFileForManyInputs(t *testing.T) {
	f := newFixture(t)
	_, err := f.runner.Run(context.Background(), f.sources(t), Options{Output: OutputOptions{File: "x.md"}})
	require.Error(t, err)
}

func TestRunDurationUsesClock(t *testing.T) {
	ticks := []time.Time{time.Unix(0, 0), time.Unix(0, 0), time.Unix(1, 0), time.Unix(3, 0)}
	i := 0
	clock := func() time.Time {
		now := ticks[min(i, len(ticks)-1)]
		i++
		return now
	}
	f := newFixture(t, WithClock(clock))
	sum, err := f.runner.Run(context.Background(), []Source{{Path: filepath.Join(f.root, "main.py"), Rel: "main.py"}}, Options{Workers: 1})
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, sum.Duration)
}
