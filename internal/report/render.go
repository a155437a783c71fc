package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/panbanda/mccabre/internal/output"
	"github.com/panbanda/mccabre/pkg/analyzer/complexity"
	"github.com/panbanda/mccabre/pkg/analyzer/duplicates"
	"github.com/panbanda/mccabre/pkg/analyzer/loc"
)

const (
	titleAnalyze    = "MCCABRE CODE ANALYSIS REPORT"
	titleComplexity = "COMPLEXITY ANALYSIS"
	titleClones     = "CLONE DETECTION REPORT"
	titleLOC        = "LINES OF CODE ANALYSIS"

	maxHotspots = 10
)

// Sources maps a file path to its content. It is used to show cloned code.
type Sources map[string]string

// Lines returns the 1-based inclusive line range [start, end] of path.
func (s Sources) Lines(path string, start, end int) (string, bool) {
	content, ok := s[path]
	if !ok || start < 1 || end < start {
		return "", false
	}
	lines := strings.Split(content, "\n")
	if start > len(lines) {
		return "", false
	}
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start-1:end], "\n"), true
}

type viewOptions struct {
	thresholds complexity.Thresholds
	sources    Sources
}

// ViewOption configures a View.
type ViewOption func(*viewOptions)

// WithThresholds sets the limits used to color complexity scores.
func WithThresholds(t complexity.Thresholds) ViewOption {
	return func(o *viewOptions) {
		o.thresholds = t
	}
}

// WithSources includes the cloned source lines under each clone location.
func WithSources(s Sources) ViewOption {
	return func(o *viewOptions) {
		o.sources = s
	}
}

// View is an output.Renderable over a report. Colors are decided at
// render time, so the same view can be written colored or plain.
type View struct {
	build func(colored bool) *output.Report
	data  any
}

var _ output.Renderable = (*View)(nil)

func (v *View) RenderText(w io.Writer, colored bool) error {
	return v.build(colored).RenderText(w, colored)
}

func (v *View) RenderMarkdown(w io.Writer) error {
	return v.build(false).RenderMarkdown(w)
}

func (v *View) RenderData() any {
	return v.data
}

func buildViewOptions(opts []ViewOption) viewOptions {
	o := viewOptions{thresholds: complexity.DefaultThresholds()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewAnalyzeView renders the full report: summary, file metrics and clones.
func NewAnalyzeView(r *Report, opts ...ViewOption) *View {
	o := buildViewOptions(opts)
	return &View{
		data: r,
		build: func(colored bool) *output.Report {
			sections := []output.Renderable{
				summaryTable(r.Summary, true),
				filesTable(r.Files),
			}
			if fn := functionsSection(r.Files, o.thresholds, colored); fn != nil {
				sections = append(sections, fn)
			}
			sections = append(sections, clonesSection(r.Clones, o.sources))
			return &output.Report{Title: titleAnalyze, Sections: sections}
		},
	}
}

// complexityData is the data form of the complexity view; clones are omitted.
type complexityData struct {
	Files   []FileReport `json:"files" toon:"files"`
	Summary Summary      `json:"summary" toon:"summary"`
}

// NewComplexityView renders file metrics and function complexity only.
func NewComplexityView(r *Report, opts ...ViewOption) *View {
	o := buildViewOptions(opts)
	return &View{
		data: complexityData{Files: r.Files, Summary: r.Summary},
		build: func(colored bool) *output.Report {
			sections := []output.Renderable{
				summaryTable(r.Summary, false),
				filesTable(r.Files),
			}
			if fn := functionsSection(r.Files, o.thresholds, colored); fn != nil {
				sections = append(sections, fn)
			}
			return &output.Report{Title: titleComplexity, Sections: sections}
		},
	}
}

// NewClonesView renders a clone detection result.
func NewClonesView(a *duplicates.Analysis, opts ...ViewOption) *View {
	o := buildViewOptions(opts)
	return &View{
		data: a,
		build: func(colored bool) *output.Report {
			status := &output.Section{Content: "No clones detected!"}
			if len(a.Clones) > 0 {
				status.Content = fmt.Sprintf("Found %d clone groups", len(a.Clones))
			}

			p := printer()
			s := a.Summary
			summary := output.NewTable("Summary",
				[]string{"Metric", "Value"},
				[][]string{
					{"Files scanned", p.Sprintf("%d", a.TotalFilesScanned)},
					{"Minimum tokens", strconv.Itoa(a.MinTokens)},
					{"Clone groups", p.Sprintf("%d", s.TotalGroups)},
					{"Occurrences", p.Sprintf("%d", s.TotalOccurrences)},
					{"Largest group", strconv.Itoa(s.LargestGroup)},
					{"Duplicated lines", p.Sprintf("%d", s.DuplicatedLines)},
					{"Duplication ratio", percent(s.DuplicationRatio)},
				},
				nil, nil)
			summary.Numeric = []int{1}

			sections := []output.Renderable{status, summary}
			if len(s.Hotspots) > 0 {
				sections = append(sections, hotspotsTable(s.Hotspots))
			}
			if len(a.Clones) > 0 {
				sections = append(sections, clonesSection(a.Clones, o.sources))
			}
			return &output.Report{Title: titleClones, Sections: sections}
		},
	}
}

// NewLOCView renders a ranked line count report.
func NewLOCView(r *loc.Report) *View {
	return &View{
		data: r,
		build: func(colored bool) *output.Report {
			p := printer()
			t := r.Summary.Total
			summary := output.NewTable("Summary",
				[]string{"Metric", "Value"},
				[][]string{
					{"Total files", p.Sprintf("%d", r.Summary.TotalFiles)},
					{"Physical LOC", p.Sprintf("%d", t.Physical)},
					{"Logical LOC", p.Sprintf("%d", t.Logical)},
					{"Comment lines", p.Sprintf("%d", t.Comments)},
					{"Blank lines", p.Sprintf("%d", t.Blank)},
				},
				nil, nil)
			summary.Numeric = []int{1}

			sections := []output.Renderable{summary}
			if r.Directories != nil {
				sections = append(sections, directoriesTable(r))
			} else {
				sections = append(sections, rankedFilesTable(r))
			}
			return &output.Report{Title: titleLOC, Sections: sections}
		},
	}
}

// RankLabel is the human name of a ranking metric.
func RankLabel(r loc.RankBy) string {
	switch r {
	case loc.RankByPhysical:
		return "Physical LOC"
	case loc.RankByComments:
		return "Comment Lines"
	case loc.RankByBlank:
		return "Blank Lines"
	default:
		return "Logical LOC"
	}
}

func summaryTable(s Summary, withClones bool) *output.Table {
	p := printer()
	rows := [][]string{
		{"Total files analyzed", p.Sprintf("%d", s.TotalFiles)},
		{"Total physical LOC", p.Sprintf("%d", s.TotalPhysicalLOC)},
		{"Total logical LOC", p.Sprintf("%d", s.TotalLogicalLOC)},
		{"Functions detected", p.Sprintf("%d", s.TotalFunctions)},
		{"Average complexity", fmt.Sprintf("%.2f", s.AvgComplexity)},
		{"Median complexity", strconv.Itoa(s.P50Complexity)},
		{"P90 complexity", strconv.Itoa(s.P90Complexity)},
		{"Maximum complexity", strconv.Itoa(s.MaxComplexity)},
		{"High complexity files", strconv.Itoa(s.HighComplexityFiles)},
	}
	if withClones {
		rows = append(rows,
			[]string{"Clone groups detected", strconv.Itoa(s.TotalClones)},
			[]string{"Duplicated lines", p.Sprintf("%d", s.DuplicatedLines)},
			[]string{"Duplication ratio", percent(s.DuplicationRatio)},
		)
	}
	t := output.NewTable("Summary", []string{"Metric", "Value"}, rows, nil, nil)
	t.Numeric = []int{1}
	return t
}

func filesTable(files []FileReport) *output.Table {
	rows := make([][]string, len(files))
	for i, f := range files {
		rows[i] = []string{
			f.Path,
			string(f.Language),
			strconv.Itoa(f.Cyclomatic.FileComplexity),
			string(f.Cyclomatic.Severity()),
			strconv.Itoa(f.LOC.Physical),
			strconv.Itoa(f.LOC.Logical),
			strconv.Itoa(f.LOC.Comments),
			strconv.Itoa(f.LOC.Blank),
		}
	}
	t := output.NewTable("File Metrics",
		[]string{"File", "Language", "Complexity", "Severity", "Physical", "Logical", "Comments", "Blank"},
		rows, nil, nil)
	t.Numeric = []int{2, 4, 5, 6, 7}
	return t
}

// functionsSection lists detected functions per file with scores colored
// by threshold level. It returns nil when no file has functions.
func functionsSection(files []FileReport, th complexity.Thresholds, colored bool) *output.Section {
	var subs []output.Section
	for _, f := range files {
		if len(f.Cyclomatic.Functions) == 0 {
			continue
		}
		var b strings.Builder
		score := f.Cyclomatic.FileComplexity
		fmt.Fprintf(&b, "Cyclomatic Complexity: %s\n",
			output.Level(string(th.Level(score)), strconv.Itoa(score), colored))
		for _, fn := range f.Cyclomatic.Functions {
			fmt.Fprintf(&b, "- %s (line %d): complexity %s\n", fn.Name, fn.Line,
				output.Level(string(th.Level(fn.Complexity)), strconv.Itoa(fn.Complexity), colored))
		}
		subs = append(subs, output.Section{
			Title:   f.Path,
			Content: strings.TrimRight(b.String(), "\n"),
		})
	}
	if len(subs) == 0 {
		return nil
	}
	return &output.Section{Title: "Functions", Sections: subs}
}

func clonesSection(clones []duplicates.Clone, sources Sources) *output.Section {
	s := &output.Section{Title: "Detected Clones"}
	if len(clones) == 0 {
		s.Content = "No clones detected!"
		return s
	}
	for _, c := range clones {
		group := output.Section{
			Title: fmt.Sprintf("Clone Group #%d (length: %d tokens, %d occurrences)",
				c.ID, c.Length, len(c.Locations)),
		}
		if sources == nil {
			var b strings.Builder
			for _, l := range c.Locations {
				fmt.Fprintf(&b, "  - %s:%d-%d\n", l.File, l.StartLine, l.EndLine)
			}
			group.Content = strings.TrimRight(b.String(), "\n")
		} else {
			for _, l := range c.Locations {
				code, _ := sources.Lines(l.File, l.StartLine, l.EndLine)
				group.Sections = append(group.Sections, output.Section{
					Title: fmt.Sprintf("%s:%d-%d", l.File, l.StartLine, l.EndLine),
					Code:  code,
				})
			}
		}
		s.Sections = append(s.Sections, group)
	}
	return s
}

func hotspotsTable(hotspots []duplicates.Hotspot) *output.Table {
	if len(hotspots) > maxHotspots {
		hotspots = hotspots[:maxHotspots]
	}
	rows := make([][]string, len(hotspots))
	for i, h := range hotspots {
		rows[i] = []string{h.File, strconv.Itoa(h.DuplicatedLines), percent(h.Ratio)}
	}
	t := output.NewTable("Duplication Hotspots", []string{"File", "Duplicated Lines", "Ratio"}, rows, nil, nil)
	t.Numeric = []int{1, 2}
	return t
}

func rankedFilesTable(r *loc.Report) *output.Table {
	rows := make([][]string, len(r.Files))
	for i, f := range r.Files {
		rows[i] = append([]string{strconv.Itoa(i + 1), f.Path}, metricCells(f.Metrics)...)
	}
	t := output.NewTable("Files by "+RankLabel(r.RankBy),
		[]string{"#", "File", "Physical", "Logical", "Comments", "Blank"}, rows, nil, nil)
	t.Numeric = []int{0, 2, 3, 4, 5}
	return t
}

func directoriesTable(r *loc.Report) *output.Table {
	rows := make([][]string, len(r.Directories))
	for i, d := range r.Directories {
		rows[i] = append([]string{strconv.Itoa(i + 1), d.Path, strconv.Itoa(len(d.Files))}, metricCells(d.Total)...)
	}
	t := output.NewTable("Directories by "+RankLabel(r.RankBy),
		[]string{"#", "Directory", "Files", "Physical", "Logical", "Comments", "Blank"}, rows, nil, nil)
	t.Numeric = []int{0, 2, 3, 4, 5, 6}
	return t
}

func metricCells(m loc.Metrics) []string {
	return []string{
		strconv.Itoa(m.Physical),
		strconv.Itoa(m.Logical),
		strconv.Itoa(m.Comments),
		strconv.Itoa(m.Blank),
	}
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}
