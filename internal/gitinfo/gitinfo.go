// Package gitinfo looks up the last commit that touched a file, for the
// optional git section of record metadata.
package gitinfo

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Info is the git metadata of one file.
type Info struct {
	Commit  string
	Author  string
	Email   string
	Date    time.Time
	Subject string
	Branch  string
}

// ShortCommit returns the first 8 characters of the commit hash.
func (i *Info) ShortCommit() string {
	if len(i.Commit) > 8 {
		return i.Commit[:8]
	}
	return i.Commit
}

// Fields renders the info as frontmatter values.
func (i *Info) Fields() map[string]any {
	f := map[string]any{
		"commit":  i.ShortCommit(),
		"author":  i.Author,
		"date":    i.Date.UTC().Format(time.RFC3339),
		"subject": i.Subject,
	}
	if i.Branch != "" {
		f["branch"] = i.Branch
	}
	return f
}

// Resolver opens repositories on demand and caches them by directory.
// It is safe for concurrent use.
type Resolver struct {
	mu    sync.Mutex
	repos map[string]*repo
}

type repo struct {
	r    *git.Repository
	root string
}

// NewResolver creates an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{repos: map[string]*repo{}}
}

// Lookup returns the last commit touching path. Files outside a repository
// or without history yield (nil, nil).
func (r *Resolver) Lookup(path string) (*Info, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rp, err := r.open(filepath.Dir(abs))
	if err != nil || rp == nil {
		return nil, err
	}

	rel, err := filepath.Rel(rp.root, abs)
	if err != nil {
		return nil, nil //nolint:nilerr // not inside the worktree
	}
	rel = filepath.ToSlash(rel)

	iter, err := rp.r.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return nil, fmt.Errorf("git log %s: %w", rel, err)
	}
	defer iter.Close()

	c, err := iter.Next()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("git log %s: %w", rel, err)
	}

	info := fromCommit(c)
	if head, herr := rp.r.Head(); herr == nil && head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info, nil
}

func (r *Resolver) open(dir string) (*repo, error) {
	if rp, ok := r.repos[dir]; ok {
		return rp, nil
	}

	gr, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		r.repos[dir] = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", dir, err)
	}

	wt, err := gr.Worktree()
	if err != nil {
		// Bare repositories have no files to describe.
		r.repos[dir] = nil
		return nil, nil //nolint:nilerr // bare repository
	}
	rp := &repo{r: gr, root: wt.Filesystem.Root()}
	r.repos[dir] = rp
	return rp, nil
}

func fromCommit(c *object.Commit) *Info {
	subject := c.Message
	for i, ch := range subject {
		if ch == '\n' {
			subject = subject[:i]
			break
		}
	}
	return &Info{
		Commit:  c.Hash.String(),
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		Date:    c.Author.When,
		Subject: subject,
	}
}
