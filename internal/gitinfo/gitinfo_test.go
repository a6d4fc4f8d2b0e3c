package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, dir, name, body, msg string, when time.Time) string {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Ada", Email: "ada@example.com", When: when},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestLookupTrackedFile(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first := commitFile(t, dir, "main.go", "package main\n", "add main\n\nbody", when)
	commitFile(t, dir, "other.go", "package main\n", "add other", when.Add(time.Hour))

	info, err := NewResolver().Lookup(filepath.Join(dir, "main.go"))
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Equal(t, first, info.Commit)
	require.Equal(t, first[:8], info.ShortCommit())
	require.Equal(t, "Ada", info.Author)
	require.Equal(t, "add main", info.Subject)
	require.True(t, when.Equal(info.Date))

	fields := info.Fields()
	require.Equal(t, "2024-03-01T12:00:00Z", fields["date"])
}

func TestLookupUntrackedAndOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, dir, "a.txt", "a", "a", time.Now())

	untracked := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(untracked, []byte("b"), 0o600))

	r := NewResolver()
	info, err := r.Lookup(untracked)
	require.NoError(t, err)
	require.Nil(t, info)

	outside := filepath.Join(t.TempDir(), "c.txt")
	require.NoError(t, os.WriteFile(outside, []byte("c"), 0o600))
	info, err = r.Lookup(outside)
	require.NoError(t, err)
	require.Nil(t, info)
}
