package loc

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Metrics holds line counts for one file.
// Physical always equals Logical + Comments + Blank.
type Metrics struct {
	Physical int `json:"physical" toon:"physical"`
	Logical  int `json:"logical" toon:"logical"`
	Comments int `json:"comments" toon:"comments"`
	Blank    int `json:"blank" toon:"blank"`
}

// Add returns the element-wise sum of two metrics.
func (m Metrics) Add(other Metrics) Metrics {
	return Metrics{
		Physical: m.Physical + other.Physical,
		Logical:  m.Logical + other.Logical,
		Comments: m.Comments + other.Comments,
		Blank:    m.Blank + other.Blank,
	}
}

// RankBy selects the metric used to order files and directories.
type RankBy string

const (
	RankByLogical  RankBy = "logical"
	RankByPhysical RankBy = "physical"
	RankByComments RankBy = "comments"
	RankByBlank    RankBy = "blank"
)

// ParseRankBy converts a string to RankBy.
func ParseRankBy(s string) (RankBy, error) {
	switch strings.ToLower(s) {
	case "", "logical":
		return RankByLogical, nil
	case "physical":
		return RankByPhysical, nil
	case "comments", "comment":
		return RankByComments, nil
	case "blank":
		return RankByBlank, nil
	default:
		return "", fmt.Errorf("invalid rank-by value %q (want logical, physical, comments, or blank)", s)
	}
}

// Value returns the metric selected by r.
func (r RankBy) Value(m Metrics) int {
	switch r {
	case RankByPhysical:
		return m.Physical
	case RankByComments:
		return m.Comments
	case RankByBlank:
		return m.Blank
	default:
		return m.Logical
	}
}

// FileResult holds line counts for a single file.
type FileResult struct {
	Path     string  `json:"path" toon:"path"`
	Language string  `json:"language,omitempty" toon:"language,omitempty"`
	Metrics  Metrics `json:"metrics" toon:"metrics"`
}

// DirectoryResult aggregates the files directly inside one directory.
type DirectoryResult struct {
	Path  string       `json:"path" toon:"path"`
	Total Metrics      `json:"total" toon:"total"`
	Files []FileResult `json:"files" toon:"files"`
}

// Summary aggregates line counts across all files.
type Summary struct {
	TotalFiles int     `json:"total_files" toon:"total_files"`
	Total      Metrics `json:"total" toon:"total"`
}

// Report is a ranked view of per-file line counts.
type Report struct {
	RankBy      RankBy            `json:"rank_by" toon:"rank_by"`
	Files       []FileResult      `json:"files,omitempty" toon:"files,omitempty"`
	Directories []DirectoryResult `json:"directories,omitempty" toon:"directories,omitempty"`
	Summary     Summary           `json:"summary" toon:"summary"`
}

// NewReport ranks files by the chosen metric in descending order, ties by path.
// With byDirectory set, files are grouped by parent directory and the
// directories are ranked by their totals.
func NewReport(files []FileResult, rankBy RankBy, byDirectory bool) *Report {
	ranked := make([]FileResult, len(files))
	copy(ranked, files)
	sortFiles(ranked, rankBy)

	r := &Report{RankBy: rankBy}
	for _, f := range ranked {
		r.Summary.TotalFiles++
		r.Summary.Total = r.Summary.Total.Add(f.Metrics)
	}

	if !byDirectory {
		r.Files = ranked
		return r
	}

	byDir := make(map[string]*DirectoryResult)
	for _, f := range ranked {
		dir := filepath.Dir(f.Path)
		d, ok := byDir[dir]
		if !ok {
			d = &DirectoryResult{Path: dir}
			byDir[dir] = d
		}
		d.Files = append(d.Files, f)
		d.Total = d.Total.Add(f.Metrics)
	}

	r.Directories = make([]DirectoryResult, 0, len(byDir))
	for _, d := range byDir {
		r.Directories = append(r.Directories, *d)
	}
	sort.Slice(r.Directories, func(i, j int) bool {
		vi, vj := rankBy.Value(r.Directories[i].Total), rankBy.Value(r.Directories[j].Total)
		if vi != vj {
			return vi > vj
		}
		return r.Directories[i].Path < r.Directories[j].Path
	})
	return r
}

func sortFiles(files []FileResult, rankBy RankBy) {
	sort.SliceStable(files, func(i, j int) bool {
		vi, vj := rankBy.Value(files[i].Metrics), rankBy.Value(files[j].Metrics)
		if vi != vj {
			return vi > vj
		}
		return files[i].Path < files[j].Path
	})
}
