package remote

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_LocalPathTakesPrecedence(t *testing.T) {
	dir := t.TempDir()

	src, err := Parse(dir)
	require.NoError(t, err)
	assert.Nil(t, src)
}

func TestParse_Remote(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantURL string
		wantRef string
	}{
		{"github shorthand", "facebook/react", "https://github.com/facebook/react", ""},
		{"shorthand with tag", "facebook/react@v18.2.0", "https://github.com/facebook/react", "v18.2.0"},
		{"shorthand with branch", "owner/repo@feature-branch", "https://github.com/owner/repo", "feature-branch"},
		{"host without scheme", "github.com/golang/go", "https://github.com/golang/go", ""},
		{"host with ref", "github.com/golang/go@go1.21.0", "https://github.com/golang/go", "go1.21.0"},
		{"https URL", "https://github.com/kubernetes/kubernetes", "https://github.com/kubernetes/kubernetes", ""},
		{"gitlab URL", "https://gitlab.com/group/project", "https://gitlab.com/group/project", ""},
		{"ssh URL", "git@github.com:owner/repo.git", "git@github.com:owner/repo.git", ""},
		{"ssh URL with ref", "git@github.com:owner/repo.git@v1.2.0", "git@github.com:owner/repo.git", "v1.2.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Parse(tt.input)
			require.NoError(t, err)
			require.NotNil(t, src)
			assert.Equal(t, tt.wantURL, src.URL)
			assert.Equal(t, tt.wantRef, src.Ref)
		})
	}
}

func TestParse_NotRemote(t *testing.T) {
	for _, input := range []string{"missing-dir", "/abs/missing/path", "a/b/c", "example.com/repo", "/repo"} {
		src, err := Parse(input)
		require.NoError(t, err, input)
		assert.Nil(t, src, input)
	}
}

func TestResolve_LocalPathsUnchanged(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))

	paths, cleanup, err := Resolve(context.Background(), []string{dir, file}, io.Discard)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, []string{dir, file}, paths)
}

func TestSource_CleanupWithoutClone(t *testing.T) {
	src := &Source{URL: "https://github.com/owner/repo"}
	assert.NoError(t, src.Cleanup())
}

func TestSource_CloneFailureRemovesDir(t *testing.T) {
	src := &Source{URL: filepath.Join(t.TempDir(), "not-a-repo")}

	err := src.Clone(context.Background(), io.Discard, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clone ")
	assert.Empty(t, src.CloneDir)
}

func TestSource_Clone(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	src := &Source{URL: "https://github.com/octocat/Hello-World", Ref: "master"}
	require.NoError(t, src.Clone(context.Background(), io.Discard, true))
	defer src.Cleanup()

	require.NotEmpty(t, src.CloneDir)
	repo, err := git.PlainOpen(src.CloneDir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	assert.True(t, head.Name().IsBranch())
	assert.Equal(t, "master", head.Name().Short())
}
