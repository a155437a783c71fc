package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/mccabre/internal/output"
	"github.com/panbanda/mccabre/pkg/analyzer/complexity"
	"github.com/panbanda/mccabre/pkg/analyzer/duplicates"
	"github.com/panbanda/mccabre/pkg/analyzer/loc"
)

func renderText(t *testing.T, v output.Renderable) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, v.RenderText(&buf, false))
	return buf.String()
}

func renderMarkdown(t *testing.T, v output.Renderable) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, v.RenderMarkdown(&buf))
	return buf.String()
}

func TestAnalyzeViewText(t *testing.T) {
	v := NewAnalyzeView(New(sampleFiles(), sampleClones()))
	out := renderText(t, v)

	for _, want := range []string{
		"MCCABRE CODE ANALYSIS REPORT",
		"Total files analyzed",
		"Clone groups detected",
		"File Metrics",
		"src/util.rs",
		"Cyclomatic Complexity: 25",
		"- parse (line 3): complexity 12",
		"- emit (line 30): complexity 2",
		"Clone Group #1 (length: 30 tokens, 2 occurrences)",
		"  - main.go:1-2",
		"  - src/util.rs:10-13",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[", "uncolored output has no escape codes")
}

func TestAnalyzeViewWithSources(t *testing.T) {
	r := New(sampleFiles(), sampleClones())
	src := Sources{
		"main.go":     "package main\nfunc main() {}\n",
		"src/util.rs": strings.Repeat("let x = 1;\n", 20),
	}
	out := renderText(t, NewAnalyzeView(r, WithSources(src)))

	assert.Contains(t, out, "main.go:1-2\n")
	assert.Contains(t, out, "    package main\n    func main() {}\n")
	assert.Contains(t, out, "    let x = 1;\n")

	md := renderMarkdown(t, NewAnalyzeView(r, WithSources(src)))
	assert.Contains(t, md, "```\npackage main\nfunc main() {}\n```")
}

func TestAnalyzeViewMarkdown(t *testing.T) {
	md := renderMarkdown(t, NewAnalyzeView(New(sampleFiles(), nil)))

	assert.Contains(t, md, "# MCCABRE CODE ANALYSIS REPORT")
	assert.Contains(t, md, "## Summary")
	assert.Contains(t, md, "| src/util.rs | rust | 25 | high | 40 | 30 | 5 | 5 |")
	assert.Contains(t, md, "### src/util.rs")
	assert.Contains(t, md, "No clones detected!")
}

func TestAnalyzeViewData(t *testing.T) {
	r := New(sampleFiles(), sampleClones())
	v := NewAnalyzeView(r)
	assert.Same(t, r, v.RenderData())

	var buf bytes.Buffer
	require.NoError(t, output.NewWriterFormatter(output.FormatJSON, &buf, false).Output(v))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.Summary, decoded.Summary)
	assert.Len(t, decoded.Clones, 1)
}

func TestComplexityView(t *testing.T) {
	r := New(sampleFiles(), sampleClones())
	v := NewComplexityView(r, WithThresholds(complexity.Thresholds{Warning: 5, Error: 10}))

	out := renderText(t, v)
	assert.Contains(t, out, "COMPLEXITY ANALYSIS")
	assert.Contains(t, out, "- parse (line 3): complexity 12")
	assert.NotContains(t, out, "Clone Group")
	assert.NotContains(t, out, "Clone groups detected")

	data, err := json.Marshal(v.RenderData())
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"clones"`)
	assert.Contains(t, string(data), `"file_complexity":25`)
}

func TestComplexityViewOmitsEmptyFunctions(t *testing.T) {
	files := []FileReport{{Path: "a.go", Cyclomatic: complexity.Metrics{FileComplexity: 1}}}
	out := renderText(t, NewComplexityView(New(files, nil)))
	assert.NotContains(t, out, "Functions\n")
}

func TestComplexityViewColorsByThreshold(t *testing.T) {
	r := New(sampleFiles(), nil)
	v := NewComplexityView(r, WithThresholds(complexity.Thresholds{Warning: 5, Error: 10}))

	var colored bytes.Buffer
	require.NoError(t, v.RenderText(&colored, true))
	assert.Contains(t, colored.String(), output.Level("error", "25", true))
	assert.Contains(t, colored.String(), output.Level("ok", "2", true))
}

func TestClonesView(t *testing.T) {
	t.Run("no clones", func(t *testing.T) {
		a := &duplicates.Analysis{Clones: []duplicates.Clone{}, MinTokens: 30, TotalFilesScanned: 4}
		out := renderText(t, NewClonesView(a))
		assert.Contains(t, out, "CLONE DETECTION REPORT")
		assert.Contains(t, out, "No clones detected!")
		assert.NotContains(t, out, "Detected Clones")
	})

	t.Run("with clones", func(t *testing.T) {
		clones := sampleClones()
		a := &duplicates.Analysis{
			Clones:            clones,
			Summary:           duplicates.Summarize(clones, map[string]int{"main.go": 10, "src/util.rs": 40}),
			TotalFilesScanned: 2,
			MinTokens:         30,
		}
		v := NewClonesView(a)
		out := renderText(t, v)
		assert.Contains(t, out, "Found 1 clone groups")
		assert.Contains(t, out, "Duplication Hotspots")
		assert.Contains(t, out, "12.0%")
		assert.Contains(t, out, "Clone Group #1 (length: 30 tokens, 2 occurrences)")
		assert.Same(t, a, v.RenderData())
	})
}

func TestLOCView(t *testing.T) {
	files := New(sampleFiles(), nil).LOCFiles()

	t.Run("files", func(t *testing.T) {
		out := renderText(t, NewLOCView(loc.NewReport(files, loc.RankByPhysical, false)))
		assert.Contains(t, out, "LINES OF CODE ANALYSIS")
		assert.Contains(t, out, "Files by Physical LOC")
		assert.Less(t, strings.Index(out, "src/util.rs"), strings.Index(out, "main.go"))
	})

	t.Run("directories", func(t *testing.T) {
		md := renderMarkdown(t, NewLOCView(loc.NewReport(files, loc.RankByLogical, true)))
		assert.Contains(t, md, "## Directories by Logical LOC")
		assert.Contains(t, md, "| 1 | src | 1 | 40 | 30 | 5 | 5 |")
		assert.Contains(t, md, "| 2 | . | 1 | 10 | 8 | 1 | 1 |")
	})
}

func TestRankLabel(t *testing.T) {
	assert.Equal(t, "Logical LOC", RankLabel(loc.RankByLogical))
	assert.Equal(t, "Physical LOC", RankLabel(loc.RankByPhysical))
	assert.Equal(t, "Comment Lines", RankLabel(loc.RankByComments))
	assert.Equal(t, "Blank Lines", RankLabel(loc.RankByBlank))
}
