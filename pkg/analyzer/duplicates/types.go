package duplicates

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/mccabre/pkg/stats"
)

// Location is one occurrence of a cloned token window.
type Location struct {
	File      string `json:"file" toon:"file"`
	StartLine int    `json:"start_line" toon:"start_line"`
	EndLine   int    `json:"end_line" toon:"end_line"`
}

// Lines returns the number of source lines the location spans.
func (l Location) Lines() int {
	return l.EndLine - l.StartLine + 1
}

func (l Location) less(o Location) bool {
	if l.File != o.File {
		return l.File < o.File
	}
	if l.StartLine != o.StartLine {
		return l.StartLine < o.StartLine
	}
	return l.EndLine < o.EndLine
}

// Clone is a group of two or more distinct locations sharing one window hash.
// Length is the window size in significant tokens.
type Clone struct {
	ID        int        `json:"id" toon:"id"`
	Length    int        `json:"length" toon:"length"`
	Locations []Location `json:"locations" toon:"locations"`
	Hash      uint64     `json:"-" toon:"-"`
}

// Files returns the distinct files the clone appears in, sorted.
func (c Clone) Files() []string {
	seen := make(map[string]bool)
	var files []string
	for _, loc := range c.Locations {
		if !seen[loc.File] {
			seen[loc.File] = true
			files = append(files, loc.File)
		}
	}
	sort.Strings(files)
	return files
}

// Analysis is the result of clone detection over a set of files.
type Analysis struct {
	Clones            []Clone `json:"clones" toon:"clones"`
	Summary           Summary `json:"summary" toon:"summary"`
	TotalFilesScanned int     `json:"total_files_scanned" toon:"total_files_scanned"`
	MinTokens         int     `json:"min_tokens" toon:"min_tokens"`
}

// Summary provides aggregate statistics.
type Summary struct {
	TotalGroups      int            `json:"total_groups" toon:"total_groups"`
	TotalOccurrences int            `json:"total_occurrences" toon:"total_occurrences"`
	LargestGroup     int            `json:"largest_group" toon:"largest_group"`
	DuplicatedLines  int            `json:"duplicated_lines" toon:"duplicated_lines"`
	TotalLines       int            `json:"total_lines" toon:"total_lines"`
	DuplicationRatio float64        `json:"duplication_ratio" toon:"duplication_ratio"`
	FileOccurrences  map[string]int `json:"file_occurrences" toon:"file_occurrences"`
	Hotspots         []Hotspot      `json:"hotspots,omitempty" toon:"hotspots,omitempty"`
}

// Hotspot is a file with duplicated lines.
type Hotspot struct {
	File            string  `json:"file" toon:"file"`
	DuplicatedLines int     `json:"duplicated_lines" toon:"duplicated_lines"`
	Ratio           float64 `json:"ratio" toon:"ratio"`
}

// Summarize aggregates clone groups. totalLines maps each analyzed file to
// its physical line count and may be nil.
func Summarize(clones []Clone, totalLines map[string]int) Summary {
	s := Summary{
		TotalGroups:     len(clones),
		FileOccurrences: make(map[string]int),
	}

	covered := make(map[string]*roaring.Bitmap)
	for _, c := range clones {
		s.TotalOccurrences += len(c.Locations)
		if len(c.Locations) > s.LargestGroup {
			s.LargestGroup = len(c.Locations)
		}
		for _, loc := range c.Locations {
			s.FileOccurrences[loc.File]++
			bm, ok := covered[loc.File]
			if !ok {
				bm = roaring.New()
				covered[loc.File] = bm
			}
			bm.AddRange(uint64(loc.StartLine), uint64(loc.EndLine)+1)
		}
	}

	for _, n := range totalLines {
		s.TotalLines += n
	}

	for file, bm := range covered {
		dup := int(bm.GetCardinality())
		s.DuplicatedLines += dup
		s.Hotspots = append(s.Hotspots, Hotspot{
			File:            file,
			DuplicatedLines: dup,
			Ratio:           stats.Ratio(dup, totalLines[file]),
		})
	}
	sort.Slice(s.Hotspots, func(i, j int) bool {
		if s.Hotspots[i].DuplicatedLines != s.Hotspots[j].DuplicatedLines {
			return s.Hotspots[i].DuplicatedLines > s.Hotspots[j].DuplicatedLines
		}
		return s.Hotspots[i].File < s.Hotspots[j].File
	})

	s.DuplicationRatio = stats.Ratio(s.DuplicatedLines, s.TotalLines)
	return s
}
