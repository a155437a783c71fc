// Package remote resolves repository references such as owner/repo@ref into
// temporary local clones that can be analyzed like any other directory.
package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source represents a remote repository to analyze.
type Source struct {
	URL      string // normalized git URL
	Ref      string // branch, tag, or SHA (empty = default branch)
	CloneDir string // temp directory after clone
}

var shaPattern = regexp.MustCompile(`^[0-9a-f]{7,40}$`)

// Parse detects if a path is a remote reference.
// Returns nil if path exists on filesystem (local path takes precedence).
func Parse(path string) (*Source, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, nil
	}

	// SSH URLs carry their own '@'; refs are only split off after the host part.
	if strings.HasPrefix(path, "git@") {
		url, ref := splitRef(path, strings.Index(path, ":"))
		return &Source{URL: url, Ref: ref}, nil
	}

	url, ref := splitRef(path, 0)
	switch {
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"):
		return &Source{URL: url, Ref: ref}, nil
	case hasKnownHost(url):
		return &Source{URL: "https://" + url, Ref: ref}, nil
	case isGitHubShorthand(url):
		return &Source{URL: "https://github.com/" + url, Ref: ref}, nil
	}
	return nil, nil
}

// splitRef separates a trailing @ref, searching only after offset.
func splitRef(path string, offset int) (string, string) {
	if offset < 0 {
		offset = 0
	}
	idx := strings.LastIndex(path[offset:], "@")
	if idx == -1 {
		return path, ""
	}
	idx += offset
	return path[:idx], path[idx+1:]
}

func hasKnownHost(path string) bool {
	for _, host := range []string{"github.com/", "gitlab.com/", "bitbucket.org/"} {
		if strings.HasPrefix(path, host) {
			return true
		}
	}
	return false
}

// isGitHubShorthand returns true if path matches owner/repo pattern.
func isGitHubShorthand(path string) bool {
	slashIdx := strings.Index(path, "/")
	if slashIdx == -1 {
		return false
	}
	if strings.Count(path, "/") != 1 {
		return false
	}
	// No dots before the slash (would indicate a domain)
	if strings.Contains(path[:slashIdx], ".") {
		return false
	}
	return slashIdx > 0 && slashIdx < len(path)-1
}

// Clone fetches the repository into a new temporary directory and checks out
// Ref. Shallow clones fetch only the tip commit; a SHA ref always needs full
// history.
func (s *Source) Clone(ctx context.Context, progress io.Writer, shallow bool) error {
	dir, err := os.MkdirTemp("", "mccabre-remote-")
	if err != nil {
		return fmt.Errorf("create clone dir: %w", err)
	}
	s.CloneDir = dir

	opts := &git.CloneOptions{URL: s.URL, Progress: progress}
	isSHA := shaPattern.MatchString(s.Ref)
	if shallow && !isSHA {
		opts.Depth = 1
	}

	if s.Ref == "" || isSHA {
		repo, err := git.PlainCloneContext(ctx, dir, false, opts)
		if err != nil {
			return s.cloneFailed(err)
		}
		if isSHA {
			return s.checkoutHash(repo)
		}
		return nil
	}

	// Try the ref as a branch, then as a tag.
	opts.SingleBranch = true
	opts.ReferenceName = plumbing.NewBranchReferenceName(s.Ref)
	if _, err := git.PlainCloneContext(ctx, dir, false, opts); err == nil {
		return nil
	}
	if err := resetDir(dir); err != nil {
		return err
	}
	opts.ReferenceName = plumbing.NewTagReferenceName(s.Ref)
	if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
		return s.cloneFailed(fmt.Errorf("ref %q not found as branch or tag: %w", s.Ref, err))
	}
	return nil
}

func (s *Source) checkoutHash(repo *git.Repository) error {
	hash, err := repo.ResolveRevision(plumbing.Revision(s.Ref))
	if err != nil {
		return s.cloneFailed(fmt.Errorf("resolve %s: %w", s.Ref, err))
	}
	wt, err := repo.Worktree()
	if err != nil {
		return s.cloneFailed(err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash}); err != nil {
		return s.cloneFailed(fmt.Errorf("checkout %s: %w", s.Ref, err))
	}
	return nil
}

func (s *Source) cloneFailed(err error) error {
	_ = s.Cleanup()
	return fmt.Errorf("clone %s: %w", s.URL, err)
}

// resetDir empties dir after a failed clone attempt.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// Cleanup removes the clone directory.
func (s *Source) Cleanup() error {
	if s.CloneDir == "" {
		return nil
	}
	err := os.RemoveAll(s.CloneDir)
	s.CloneDir = ""
	return err
}

// Resolve replaces every remote reference in paths with the directory of a
// fresh clone. The returned cleanup removes all clones and is never nil.
func Resolve(ctx context.Context, paths []string, progress io.Writer) ([]string, func(), error) {
	var clones []*Source
	cleanup := func() {
		for _, src := range clones {
			_ = src.Cleanup()
		}
	}

	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		src, err := Parse(p)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		if src == nil {
			resolved = append(resolved, p)
			continue
		}
		if err := src.Clone(ctx, progress, true); err != nil {
			cleanup()
			return nil, func() {}, err
		}
		clones = append(clones, src)
		resolved = append(resolved, src.CloneDir)
	}
	return resolved, cleanup, nil
}
