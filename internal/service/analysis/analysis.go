// Package analysis orchestrates loading, per-file metrics and clone
// detection for the CLI and MCP server.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/panbanda/mccabre/internal/cache"
	"github.com/panbanda/mccabre/internal/fileproc"
	"github.com/panbanda/mccabre/internal/progress"
	"github.com/panbanda/mccabre/internal/report"
	"github.com/panbanda/mccabre/pkg/analyzer/complexity"
	"github.com/panbanda/mccabre/pkg/analyzer/duplicates"
	"github.com/panbanda/mccabre/pkg/analyzer/loc"
	"github.com/panbanda/mccabre/pkg/config"
	"github.com/panbanda/mccabre/pkg/source"
	"github.com/panbanda/mccabre/pkg/tokenizer"
)

// ErrNoFiles is returned when the given paths contain no supported files.
var ErrNoFiles = errors.New("no supported files found")

// cacheNamespace changes whenever the cached FileReport layout does.
const cacheNamespace = "file-report/v1"

// Service orchestrates code analysis operations.
type Service struct {
	config   *config.Config
	logger   *log.Logger
	progress io.Writer
	src      source.ContentSource
	workers  int
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithLogger reports skipped files and cache problems to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithProgress draws progress bars to w. Without it no bars are drawn.
func WithProgress(w io.Writer) Option {
	return func(s *Service) {
		s.progress = w
	}
}

// WithContentSource reads file content from src instead of the filesystem.
func WithContentSource(src source.ContentSource) Option {
	return func(s *Service) {
		s.src = src
	}
}

// WithWorkers bounds per-file concurrency. Zero uses the default.
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.workers = n
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.LoadOrDefault()
	}
	return s
}

// Config returns the effective configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

// Thresholds returns the configured complexity reporting limits.
func (s *Service) Thresholds() complexity.Thresholds {
	return complexity.Thresholds{
		Warning: s.config.Complexity.WarningThreshold,
		Error:   s.config.Complexity.ErrorThreshold,
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func (s *Service) progressOptions() []progress.Option {
	if s.progress == nil {
		return []progress.Option{progress.WithEnabled(false)}
	}
	return []progress.Option{progress.WithWriter(s.progress)}
}

// Result is the outcome of an analysis run.
type Result struct {
	Report *report.Report
	// Clones is nil unless clone detection was requested.
	Clones  *duplicates.Analysis
	Sources report.Sources
	// Errors lists files that were skipped; nil when none were.
	Errors *fileproc.ProcessingErrors
}

// AnalyzeOptions selects the analyses to run.
type AnalyzeOptions struct {
	Clones bool
}

// Load reads every supported file under paths.
func (s *Service) Load(ctx context.Context, paths []string) (*source.Set, error) {
	opts := []source.Option{
		source.WithConfig(s.config),
		source.WithLogger(s.logger),
		source.WithWorkers(s.workers),
	}
	if s.src != nil {
		opts = append(opts, source.WithContentSource(s.src))
	}
	return source.NewLoader(opts...).LoadMultiple(ctx, paths)
}

type analyzedFile struct {
	report report.FileReport
	tokens []tokenizer.Token
}

// Analyze computes line counts and complexity for every file under paths,
// and clone groups when opts.Clones is set. It returns ErrNoFiles when
// nothing supported was found.
func (s *Service) Analyze(ctx context.Context, paths []string, opts AnalyzeOptions) (*Result, error) {
	set, err := s.Load(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(set.Files) == 0 {
		return nil, ErrNoFiles
	}

	store := s.openCache()
	tracker := progress.NewTracker("Analyzing", len(set.Files), s.progressOptions()...)
	analyzed, errs := fileproc.MapIndexed(ctx, set.Files,
		func(f source.File) string { return f.Path },
		func(f source.File) (analyzedFile, error) {
			return s.analyzeFile(store, f, opts.Clones)
		},
		fileproc.WithWorkers(s.workers),
		fileproc.WithProgress(tracker.Tick),
		fileproc.WithErrorHandler(func(path string, err error) {
			s.logf("skipping %s: %v", path, err)
		}),
	)
	tracker.Finish()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files := make([]report.FileReport, len(analyzed))
	for i, a := range analyzed {
		files[i] = a.report
	}

	result := &Result{
		Sources: make(report.Sources, len(set.Files)),
		Errors:  mergeErrors(set.Errors, errs),
	}
	for _, f := range set.Files {
		result.Sources[f.Path] = f.Content
	}

	var clones []duplicates.Clone
	if opts.Clones {
		result.Clones, err = s.detectClones(ctx, analyzed)
		if err != nil {
			return nil, err
		}
		clones = result.Clones.Clones
	}

	result.Report = report.New(files, clones)
	return result, nil
}

// Clones runs clone detection only. The report still carries per-file
// metrics, which cost little once the file is tokenized.
func (s *Service) Clones(ctx context.Context, paths []string) (*Result, error) {
	return s.Analyze(ctx, paths, AnalyzeOptions{Clones: true})
}

// LOC ranks every file under paths by line count.
func (s *Service) LOC(ctx context.Context, paths []string, rankBy loc.RankBy, byDirectory bool) (*loc.Report, *Result, error) {
	result, err := s.Analyze(ctx, paths, AnalyzeOptions{})
	if err != nil {
		return nil, nil, err
	}
	return loc.NewReport(result.Report.LOCFiles(), rankBy, byDirectory), result, nil
}

func (s *Service) analyzeFile(store *cache.Cache, f source.File, withTokens bool) (analyzedFile, error) {
	hash := cache.HashString(f.Content)

	var cached report.FileReport
	hit := store.Get(f.Path, hash, &cached)
	if hit && !withTokens {
		return analyzedFile{report: cached}, nil
	}

	tokens, err := tokenizer.Tokenize(f.Content, f.Language)
	if err != nil {
		return analyzedFile{}, fmt.Errorf("tokenize %s: %w", f.Path, err)
	}
	if hit {
		return analyzedFile{report: cached, tokens: tokens}, nil
	}

	fr := report.FileReport{
		Path:       f.Path,
		Language:   f.Language,
		LOC:        loc.FromTokens(f.Content, tokens),
		Cyclomatic: complexity.FromTokens(tokens),
	}
	if err := store.Set(f.Path, hash, fr); err != nil {
		s.logf("cache write %s: %v", f.Path, err)
	}
	return analyzedFile{report: fr, tokens: tokens}, nil
}

func (s *Service) detectClones(ctx context.Context, files []analyzedFile) (*duplicates.Analysis, error) {
	spinner := progress.NewSpinner("Detecting clones", s.progressOptions()...)
	spinner.Tick()
	defer spinner.Finish()

	tokenized := make([]duplicates.TokenizedFile, len(files))
	lines := make(map[string]int, len(files))
	for i, f := range files {
		tokenized[i] = duplicates.TokenizedFile{Path: f.report.Path, Tokens: f.tokens}
		lines[f.report.Path] = f.report.LOC.Physical
	}

	detector := duplicates.New(
		duplicates.WithMinTokens(s.config.Clones.MinTokens),
		duplicates.WithVerify(s.config.Clones.Verify),
		duplicates.WithWorkers(s.workers),
	)
	return detector.NewAnalysis(ctx, tokenized, lines)
}

// openCache returns a disabled cache when caching is off or unavailable.
func (s *Service) openCache() *cache.Cache {
	cc := s.config.Cache
	if !cc.Enabled {
		return nil
	}
	c, err := cache.New(cc.Dir, cc.TTL, true, cache.WithNamespace(cacheNamespace))
	if err != nil {
		s.logf("cache disabled: %v", err)
		return nil
	}
	return c
}

func mergeErrors(all ...*fileproc.ProcessingErrors) *fileproc.ProcessingErrors {
	var out *fileproc.ProcessingErrors
	for _, errs := range all {
		if !errs.HasErrors() {
			continue
		}
		if out == nil {
			out = &fileproc.ProcessingErrors{}
		}
		for _, e := range errs.Errors {
			out.Add(e.Path, e.Err)
		}
	}
	if out != nil {
		out.Sort()
	}
	return out
}
