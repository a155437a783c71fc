// Package report aggregates per-file metrics and clone groups into a single
// report and renders it through the output package.
package report

import (
	"sort"

	"github.com/panbanda/mccabre/pkg/analyzer/complexity"
	"github.com/panbanda/mccabre/pkg/analyzer/duplicates"
	"github.com/panbanda/mccabre/pkg/analyzer/loc"
	"github.com/panbanda/mccabre/pkg/tokenizer"
)

// FileReport holds the metrics computed for one source file.
type FileReport struct {
	Path       string             `json:"path" toon:"path"`
	Language   tokenizer.Language `json:"language" toon:"language"`
	LOC        loc.Metrics        `json:"loc" toon:"loc"`
	Cyclomatic complexity.Metrics `json:"cyclomatic" toon:"cyclomatic"`
}

// Summary aggregates a report across all files.
type Summary struct {
	TotalFiles          int     `json:"total_files" toon:"total_files"`
	TotalPhysicalLOC    int     `json:"total_physical_loc" toon:"total_physical_loc"`
	TotalLogicalLOC     int     `json:"total_logical_loc" toon:"total_logical_loc"`
	TotalCommentLines   int     `json:"total_comment_lines" toon:"total_comment_lines"`
	TotalBlankLines     int     `json:"total_blank_lines" toon:"total_blank_lines"`
	TotalFunctions      int     `json:"total_functions" toon:"total_functions"`
	AvgComplexity       float64 `json:"avg_complexity" toon:"avg_complexity"`
	MaxComplexity       int     `json:"max_complexity" toon:"max_complexity"`
	P50Complexity       int     `json:"p50_complexity" toon:"p50_complexity"`
	P90Complexity       int     `json:"p90_complexity" toon:"p90_complexity"`
	HighComplexityFiles int     `json:"high_complexity_files" toon:"high_complexity_files"`
	TotalClones         int     `json:"total_clones" toon:"total_clones"`
	DuplicatedLines     int     `json:"duplicated_lines" toon:"duplicated_lines"`
	DuplicationRatio    float64 `json:"duplication_ratio" toon:"duplication_ratio"`
}

// Report is the combined result of an analysis run.
type Report struct {
	Files   []FileReport       `json:"files" toon:"files"`
	Clones  []duplicates.Clone `json:"clones" toon:"clones"`
	Summary Summary            `json:"summary" toon:"summary"`
}

// New builds a report with files sorted by path. clones may be nil.
func New(files []FileReport, clones []duplicates.Clone) *Report {
	sorted := make([]FileReport, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	if clones == nil {
		clones = make([]duplicates.Clone, 0)
	}

	r := &Report{Files: sorted, Clones: clones}
	r.Summary = summarize(sorted, clones)
	return r
}

func summarize(files []FileReport, clones []duplicates.Clone) Summary {
	metrics := make([]complexity.Metrics, len(files))
	lines := make(map[string]int, len(files))
	var total loc.Metrics
	for i, f := range files {
		metrics[i] = f.Cyclomatic
		lines[f.Path] = f.LOC.Physical
		total = total.Add(f.LOC)
	}

	cs := complexity.Summarize(metrics)
	ds := duplicates.Summarize(clones, lines)

	return Summary{
		TotalFiles:          len(files),
		TotalPhysicalLOC:    total.Physical,
		TotalLogicalLOC:     total.Logical,
		TotalCommentLines:   total.Comments,
		TotalBlankLines:     total.Blank,
		TotalFunctions:      cs.TotalFunctions,
		AvgComplexity:       cs.AvgComplexity,
		MaxComplexity:       cs.MaxComplexity,
		P50Complexity:       cs.P50Complexity,
		P90Complexity:       cs.P90Complexity,
		HighComplexityFiles: cs.HighSeverity,
		TotalClones:         len(clones),
		DuplicatedLines:     ds.DuplicatedLines,
		DuplicationRatio:    ds.DuplicationRatio,
	}
}

// LOCFiles converts the report's files to line-count results for ranking.
func (r *Report) LOCFiles() []loc.FileResult {
	out := make([]loc.FileResult, len(r.Files))
	for i, f := range r.Files {
		out[i] = loc.FileResult{Path: f.Path, Language: string(f.Language), Metrics: f.LOC}
	}
	return out
}
