package scanner

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/mccabre/pkg/config"
	"github.com/panbanda/mccabre/pkg/tokenizer"
)

// Scanner finds source files in a directory.
type Scanner struct {
	files  config.FilesConfig
	logger *log.Logger

	// exclude holds config patterns, matched relative to the scan root.
	exclude gitignore.Matcher
	// ignore holds .gitignore patterns, matched relative to ignoreRoot.
	ignore     gitignore.Matcher
	ignoreRoot string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger reports skipped paths to logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) {
		s.logger = l
	}
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config, opts ...Option) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Scanner{files: cfg.Files}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns builds the config and .gitignore matchers for root.
// Outside a git repository the .gitignore files under root itself are used.
func (s *Scanner) loadExcludePatterns(absRoot string) {
	s.exclude, s.ignore, s.ignoreRoot = nil, nil, ""

	var patterns []gitignore.Pattern
	for _, pattern := range s.files.Exclude {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}
	if len(patterns) > 0 {
		s.exclude = gitignore.NewMatcher(patterns)
	}

	if !s.files.RespectGitignore {
		return
	}

	ignoreRoot := findGitRoot(absRoot)
	if ignoreRoot == "" {
		ignoreRoot = absRoot
	}
	gitPatterns, err := gitignore.ReadPatterns(osfs.New(ignoreRoot), nil)
	if err != nil {
		s.logf("reading .gitignore under %s: %v", ignoreRoot, err)
		return
	}
	if len(gitPatterns) > 0 {
		s.ignore = gitignore.NewMatcher(gitPatterns)
		s.ignoreRoot = ignoreRoot
	}
}

func splitPath(rel string) []string {
	return strings.Split(filepath.ToSlash(rel), "/")
}

// isExcluded checks if a path matches any exclusion pattern. rel is relative
// to the scan root and abs is the resolved absolute path.
func (s *Scanner) isExcluded(rel, abs string, isDir bool) bool {
	if rel == "." {
		return false
	}
	if s.exclude != nil && s.exclude.Match(splitPath(rel), isDir) {
		return true
	}
	if s.ignore != nil {
		if fromRepo, err := filepath.Rel(s.ignoreRoot, abs); err == nil && fromRepo != "." {
			if s.ignore.Match(splitPath(fromRepo), isDir) {
				return true
			}
		}
	}
	return false
}

// ScanDir recursively scans a directory for supported source files.
// Returned paths keep the root prefix as given and are sorted.
// Symlinks that resolve outside the root are skipped.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(absRoot)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logf("skipping %s: %v", path, err)
			return nil
		}

		relPath, _ := filepath.Rel(root, path)
		absPath := filepath.Join(absRoot, relPath)

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				s.logf("skipping symlink %s", path)
				return nil
			}
			info, err := os.Stat(resolved)
			if err != nil || info.IsDir() {
				// WalkDir does not descend into linked directories
				return nil
			}
		}

		if d.IsDir() {
			if s.isExcluded(relPath, absPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(relPath, absPath, false) {
			return nil
		}
		if !tokenizer.IsSupported(path) {
			return nil
		}
		if s.files.MaxFileSize > 0 && tooLarge(path, s.files.MaxFileSize) {
			s.logf("skipping %s: larger than %d bytes", path, s.files.MaxFileSize)
			return nil
		}
		files = append(files, path)
		return nil
	})

	sort.Strings(files)
	return files, walkErr
}

func tooLarge(path string, max int64) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() > max
}

// isWithinRoot checks if a path is contained within the root directory.
// Returns false if the path escapes via symlinks or relative paths.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Add separator to prevent "/root2" matching "/root"
	if !strings.HasPrefix(absPath, root+string(filepath.Separator)) && absPath != root {
		return false
	}

	return true
}
