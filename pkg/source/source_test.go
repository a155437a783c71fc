package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/mccabre/pkg/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFilesystemSource(t *testing.T) {
	var _ ContentSource = (*FilesystemSource)(nil)

	path := write(t, t.TempDir(), "a.go", "package a")
	content, err := NewFilesystem().Read(path)
	require.NoError(t, err)
	assert.Equal(t, "package a", string(content))

	_, err = NewFilesystem().Read("nonexistent.txt")
	assert.Error(t, err)
}

func TestLoadSingleFile(t *testing.T) {
	path := write(t, t.TempDir(), "test.rs", "fn main() {}")

	set, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, set.Files, 1)
	assert.Equal(t, "fn main() {}", set.Files[0].Content)
	assert.Equal(t, tokenizer.LangRust, set.Files[0].Language)
	assert.Nil(t, set.Errors)
}

func TestLoadUnsupportedFile(t *testing.T) {
	path := write(t, t.TempDir(), "readme.txt", "Not code")

	_, err := NewLoader().Load(context.Background(), path)
	assert.True(t, errors.Is(err, tokenizer.ErrUnsupportedFileType))
}

func TestLoadMissingPath(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), "/nonexistent/dir")
	assert.Error(t, err)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "file1.rs", "fn test1() {}")
	write(t, dir, "file2.js", "function test2() {}")
	write(t, dir, "readme.txt", "Not code")

	set, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, set.Files, 2)
	assert.Equal(t, "file1.rs", filepath.Base(set.Files[0].Path))
	assert.Equal(t, tokenizer.LangRust, set.Files[0].Language)
	assert.Equal(t, "file2.js", filepath.Base(set.Files[1].Path))
	assert.Equal(t, tokenizer.LangJavaScript, set.Files[1].Language)
}

func TestLoadDirectoryGitignore(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, ".gitignore", "ignored.rs\n")
	write(t, dir, "included.rs", "fn a() {}")
	write(t, dir, "ignored.rs", "fn b() {}")

	set, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, set.Files, 1)
	assert.Equal(t, "included.rs", filepath.Base(set.Files[0].Path))

	set, err = NewLoader(WithGitignore(false)).Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, set.Files, 2)
}

func TestLoadDirectoryExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "keep.go", "package a")
	write(t, dir, "gen/skip.go", "package gen")

	set, err := NewLoader(WithExcludePatterns([]string{"gen/"})).Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, set.Files, 1)
	assert.Equal(t, "keep.go", filepath.Base(set.Files[0].Path))
}

type flakySource struct {
	fail string
}

func (f flakySource) Read(path string) ([]byte, error) {
	if filepath.Base(path) == f.fail {
		return nil, errors.New("permission denied")
	}
	return os.ReadFile(path)
}

func TestLoadDirectoryCollectsReadErrors(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.go", "package a")
	write(t, dir, "b.go", "package b")

	set, err := NewLoader(WithContentSource(flakySource{fail: "b.go"}), WithWorkers(1)).
		Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, set.Files, 1)
	assert.Equal(t, "a.go", filepath.Base(set.Files[0].Path))
	require.True(t, set.Errors.HasErrors())
	assert.Equal(t, "b.go", filepath.Base(set.Errors.Errors[0].Path))
}

func TestLoadMultiple(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.go", "package a")
	write(t, dir, "sub/b.go", "package b")
	c := write(t, dir, "c.go", "package c")

	set, err := NewLoader().LoadMultiple(context.Background(), []string{c, dir, a})
	require.NoError(t, err)

	var names []string
	for _, f := range set.Files {
		rel, _ := filepath.Rel(dir, f.Path)
		names = append(names, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"a.go", "c.go", "sub/b.go"}, names)
}

func TestLoadMultipleStopsOnError(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.go", "package a")

	_, err := NewLoader().LoadMultiple(context.Background(), []string{a, filepath.Join(dir, "missing.go")})
	assert.Error(t, err)
}
