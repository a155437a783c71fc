// Package duplicates finds repeated token windows (clones) with a Rabin-Karp
// rolling hash over the significant-token stream of one or more files.
//
// Every window of MinTokens consecutive significant tokens is hashed. Windows
// sharing a hash form a candidate group; groups with at least two distinct
// locations are reported. Hash collisions are reported as clones unless
// verification is enabled.
package duplicates

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"github.com/panbanda/mccabre/pkg/tokenizer"
	"golang.org/x/sync/errgroup"
)

// DefaultMinTokens is the default window size.
const DefaultMinTokens = 30

// Detector finds clone groups.
type Detector struct {
	minTokens int
	verify    bool
	workers   int
}

// Option is a functional option for configuring Detector.
type Option func(*Detector)

// WithMinTokens sets the window size in significant tokens. Values below 1 are treated as 1.
func WithMinTokens(n int) Option {
	return func(d *Detector) {
		if n < 1 {
			n = 1
		}
		d.minTokens = n
	}
}

// WithVerify enables a token-by-token equality check on every hash bucket,
// splitting buckets whose windows only collide on the hash.
func WithVerify(verify bool) Option {
	return func(d *Detector) {
		d.verify = verify
	}
}

// WithWorkers bounds the number of files hashed concurrently (0 = 2x NumCPU).
func WithWorkers(n int) Option {
	return func(d *Detector) {
		d.workers = n
	}
}

// New creates a detector with a window of DefaultMinTokens.
func New(opts ...Option) *Detector {
	d := &Detector{minTokens: DefaultMinTokens}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MinTokens returns the configured window size.
func (d *Detector) MinTokens() int {
	return d.minTokens
}

// File is a source file to scan for clones.
type File struct {
	Path     string
	Source   string
	Language tokenizer.Language
}

// TokenizedFile is a file whose tokens have already been produced.
// Tokens may include comments and layout; they are filtered here.
type TokenizedFile struct {
	Path   string
	Tokens []tokenizer.Token
}

// DetectInFile reports clones within a single source file.
func (d *Detector) DetectInFile(source string, lang tokenizer.Language, path string) ([]Clone, error) {
	tokens, err := tokenizer.Tokenize(source, lang)
	if err != nil {
		return nil, err
	}
	return d.DetectTokens(context.Background(), []TokenizedFile{{Path: path, Tokens: tokens}})
}

// DetectAcrossFiles tokenizes every file and reports clones across all of them.
// A file that fails to tokenize aborts detection.
func (d *Detector) DetectAcrossFiles(ctx context.Context, files []File) ([]Clone, error) {
	tokenized := make([]TokenizedFile, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workerLimit())
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokens, err := tokenizer.Tokenize(f.Source, f.Language)
			if err != nil {
				return err
			}
			tokenized[i] = TokenizedFile{Path: f.Path, Tokens: tokens}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return d.DetectTokens(ctx, tokenized)
}

// window is one hashed run of significant tokens.
type window struct {
	file   int
	offset int
	start  int
	end    int
}

type fileWindows struct {
	significant []tokenizer.Token
	hashes      map[uint64][]window
}

// DetectTokens reports clones across pre-tokenized files. Per-file hash maps
// are built concurrently and merged in input order, so results do not depend
// on scheduling.
func (d *Detector) DetectTokens(ctx context.Context, files []TokenizedFile) ([]Clone, error) {
	partials := make([]fileWindows, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workerLimit())
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partials[i] = d.hashWindows(i, f.Tokens)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[uint64][]window)
	for _, p := range partials {
		for h, ws := range p.hashes {
			merged[h] = append(merged[h], ws...)
		}
	}

	hashes := make([]uint64, 0, len(merged))
	for h, ws := range merged {
		if len(ws) > 1 {
			hashes = append(hashes, h)
		}
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	var clones []Clone
	for _, h := range hashes {
		groups := [][]window{merged[h]}
		if d.verify {
			groups = splitByText(merged[h], partials, d.minTokens)
		}
		for _, ws := range groups {
			locs := distinctLocations(ws, files)
			if len(locs) < 2 {
				continue
			}
			clones = append(clones, Clone{
				Length:    d.minTokens,
				Locations: locs,
				Hash:      h,
			})
		}
	}

	sortClones(clones)
	for i := range clones {
		clones[i].ID = i + 1
	}
	return clones, nil
}

// hashWindows records the line span of every window in one file.
func (d *Detector) hashWindows(fileIdx int, tokens []tokenizer.Token) fileWindows {
	sig := tokenizer.Significant(tokens)
	fw := fileWindows{significant: sig, hashes: make(map[uint64][]window)}
	w := d.minTokens
	if len(sig) < w {
		return fw
	}

	values := make([]uint64, len(sig))
	for i, t := range sig {
		values[i] = TokenHash(t.Text)
	}

	rh := NewRollingHash(w)
	h := rh.Init(values[:w])
	fw.hashes[h] = append(fw.hashes[h], window{file: fileIdx, offset: 0, start: sig[0].Line, end: sig[w-1].Line})

	for i := w; i < len(values); i++ {
		h = rh.Roll(values[i-w], values[i])
		offset := i - w + 1
		fw.hashes[h] = append(fw.hashes[h], window{
			file:   fileIdx,
			offset: offset,
			start:  sig[offset].Line,
			end:    sig[i].Line,
		})
	}
	return fw
}

// splitByText partitions windows by their exact token text, preserving first-seen order.
func splitByText(ws []window, partials []fileWindows, size int) [][]window {
	index := make(map[string]int)
	var groups [][]window
	for _, w := range ws {
		toks := partials[w.file].significant[w.offset : w.offset+size]
		texts := make([]string, len(toks))
		for i, t := range toks {
			texts[i] = t.Text
		}
		key := strings.Join(texts, "\x00")
		idx, ok := index[key]
		if !ok {
			idx = len(groups)
			index[key] = idx
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], w)
	}
	return groups
}

// distinctLocations converts windows to locations sorted by file, start, end
// with exact duplicates removed.
func distinctLocations(ws []window, files []TokenizedFile) []Location {
	locs := make([]Location, len(ws))
	for i, w := range ws {
		locs[i] = Location{File: files[w.file].Path, StartLine: w.start, EndLine: w.end}
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].less(locs[j]) })

	out := make([]Location, 0, len(locs))
	for _, l := range locs {
		if len(out) > 0 && out[len(out)-1] == l {
			continue
		}
		out = append(out, l)
	}
	return out
}

// sortClones orders groups by descending occurrence count, then by first
// location and hash.
func sortClones(clones []Clone) {
	sort.SliceStable(clones, func(i, j int) bool {
		a, b := clones[i], clones[j]
		if len(a.Locations) != len(b.Locations) {
			return len(a.Locations) > len(b.Locations)
		}
		if a.Locations[0] != b.Locations[0] {
			return a.Locations[0].less(b.Locations[0])
		}
		return a.Hash < b.Hash
	})
}

func (d *Detector) workerLimit() int {
	if d.workers > 0 {
		return d.workers
	}
	return runtime.NumCPU() * 2
}

// NewAnalysis detects clones across files and summarizes them.
func (d *Detector) NewAnalysis(ctx context.Context, files []TokenizedFile, totalLines map[string]int) (*Analysis, error) {
	clones, err := d.DetectTokens(ctx, files)
	if err != nil {
		return nil, err
	}
	if clones == nil {
		clones = make([]Clone, 0)
	}
	return &Analysis{
		Clones:            clones,
		Summary:           Summarize(clones, totalLines),
		TotalFilesScanned: len(files),
		MinTokens:         d.minTokens,
	}, nil
}
