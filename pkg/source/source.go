// Package source loads source files from paths on disk.
package source

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/panbanda/mccabre/internal/fileproc"
	"github.com/panbanda/mccabre/internal/scanner"
	"github.com/panbanda/mccabre/pkg/config"
	"github.com/panbanda/mccabre/pkg/tokenizer"
)

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// File is a loaded source file.
type File struct {
	Path     string             `json:"path"`
	Content  string             `json:"-"`
	Language tokenizer.Language `json:"language"`
}

// Set is the result of loading one or more paths. Errors holds files that
// were found during a directory walk but could not be read; it is nil when
// every file loaded.
type Set struct {
	Files  []File
	Errors *fileproc.ProcessingErrors
}

// Loader turns paths into File records.
type Loader struct {
	files   config.FilesConfig
	src     ContentSource
	workers int
	logger  *log.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithConfig takes file selection settings from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(l *Loader) {
		if cfg != nil {
			l.files = cfg.Files
		}
	}
}

// WithGitignore enables or disables .gitignore awareness.
func WithGitignore(respect bool) Option {
	return func(l *Loader) {
		l.files.RespectGitignore = respect
	}
}

// WithExcludePatterns replaces the gitignore-style exclude patterns.
func WithExcludePatterns(patterns []string) Option {
	return func(l *Loader) {
		l.files.Exclude = patterns
	}
}

// WithMaxFileSize skips files larger than n bytes during directory walks.
func WithMaxFileSize(n int64) Option {
	return func(l *Loader) {
		l.files.MaxFileSize = n
	}
}

// WithContentSource reads file content from src instead of the filesystem.
func WithContentSource(src ContentSource) Option {
	return func(l *Loader) {
		l.src = src
	}
}

// WithWorkers bounds concurrent reads.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		l.workers = n
	}
}

// WithLogger reports skipped files to logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader that respects .gitignore by default.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		files: config.DefaultConfig().Files,
		src:   NewFilesystem(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) logf(format string, args ...any) {
	if l.logger != nil {
		l.logger.Printf(format, args...)
	}
}

// Load loads a single file or every supported file under a directory.
// A file with an unsupported extension is an error wrapping
// tokenizer.ErrUnsupportedFileType; inside a directory such files are
// skipped silently.
func (l *Loader) Load(ctx context.Context, path string) (*Set, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if !info.IsDir() {
		f, err := l.loadFile(path)
		if err != nil {
			return nil, err
		}
		return &Set{Files: []File{f}}, nil
	}

	return l.loadDirectory(ctx, path)
}

// LoadMultiple loads every path, then sorts the files by path and drops
// duplicates.
func (l *Loader) LoadMultiple(ctx context.Context, paths []string) (*Set, error) {
	out := &Set{}
	for _, p := range paths {
		set, err := l.Load(ctx, p)
		if err != nil {
			return nil, err
		}
		out.Files = append(out.Files, set.Files...)
		if set.Errors.HasErrors() {
			if out.Errors == nil {
				out.Errors = &fileproc.ProcessingErrors{}
			}
			for _, e := range set.Errors.Errors {
				out.Errors.Add(e.Path, e.Err)
			}
		}
	}

	sort.SliceStable(out.Files, func(i, j int) bool {
		return out.Files[i].Path < out.Files[j].Path
	})
	out.Files = dedupe(out.Files)
	return out, nil
}

func dedupe(files []File) []File {
	if len(files) < 2 {
		return files
	}
	out := files[:1]
	for _, f := range files[1:] {
		if f.Path != out[len(out)-1].Path {
			out = append(out, f)
		}
	}
	return out
}

func (l *Loader) loadFile(path string) (File, error) {
	lang, err := tokenizer.DetectLanguage(path)
	if err != nil {
		return File{}, err
	}
	data, err := l.src.Read(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return File{Path: filepath.Clean(path), Content: string(data), Language: lang}, nil
}

func (l *Loader) loadDirectory(ctx context.Context, dir string) (*Set, error) {
	cfg := config.DefaultConfig()
	cfg.Files = l.files

	paths, err := scanner.NewScanner(cfg, scanner.WithLogger(l.logger)).ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	files, errs := fileproc.ForEachFile(ctx, paths, l.loadFile,
		fileproc.WithWorkers(l.workers),
		fileproc.WithErrorHandler(func(path string, err error) {
			l.logf("skipping %s: %v", path, err)
		}))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Set{Files: files, Errors: errs}, nil
}
