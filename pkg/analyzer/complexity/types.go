package complexity

import (
	"sort"

	"github.com/panbanda/mccabre/pkg/stats"
)

// Metrics holds cyclomatic complexity for one file.
type Metrics struct {
	FileComplexity int                  `json:"file_complexity" toon:"file_complexity"`
	Functions      []FunctionComplexity `json:"functions" toon:"functions"`
}

// FunctionComplexity is the complexity of one detected function body.
type FunctionComplexity struct {
	Name       string `json:"name" toon:"name"`
	Complexity int    `json:"complexity" toon:"complexity"`
	Line       int    `json:"line" toon:"line"`
}

// Severity buckets a complexity score by risk.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityVeryHigh Severity = "very_high"
)

// SeverityFor maps a score to its band: 1-10 low, 11-20 moderate,
// 21-50 high, above that very high.
func SeverityFor(complexity int) Severity {
	switch {
	case complexity <= 10:
		return SeverityLow
	case complexity <= 20:
		return SeverityModerate
	case complexity <= 50:
		return SeverityHigh
	default:
		return SeverityVeryHigh
	}
}

// Severity returns the band of the file complexity.
func (m Metrics) Severity() Severity {
	return SeverityFor(m.FileComplexity)
}

// IsHigh reports whether s is high or very high.
func (s Severity) IsHigh() bool {
	return s == SeverityHigh || s == SeverityVeryHigh
}

// Level is the reporting status of a score against configured thresholds.
type Level string

const (
	LevelOK      Level = "ok"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Thresholds are the reporting limits for complexity scores.
type Thresholds struct {
	Warning int `json:"warning" toon:"warning"`
	Error   int `json:"error" toon:"error"`
}

// DefaultThresholds returns warning 10, error 20.
func DefaultThresholds() Thresholds {
	return Thresholds{Warning: 10, Error: 20}
}

// Level classifies a score. Scores above Error are errors; above Warning are warnings.
func (t Thresholds) Level(complexity int) Level {
	switch {
	case complexity > t.Error:
		return LevelError
	case complexity > t.Warning:
		return LevelWarning
	default:
		return LevelOK
	}
}

// Summary aggregates file complexity scores.
type Summary struct {
	TotalFiles     int     `json:"total_files" toon:"total_files"`
	TotalFunctions int     `json:"total_functions" toon:"total_functions"`
	AvgComplexity  float64 `json:"avg_complexity" toon:"avg_complexity"`
	MaxComplexity  int     `json:"max_complexity" toon:"max_complexity"`
	P50Complexity  int     `json:"p50_complexity" toon:"p50_complexity"`
	P90Complexity  int     `json:"p90_complexity" toon:"p90_complexity"`
	HighSeverity   int     `json:"high_severity_files" toon:"high_severity_files"`
}

// Summarize computes aggregate statistics over per-file metrics.
func Summarize(files []Metrics) Summary {
	s := Summary{TotalFiles: len(files)}
	if len(files) == 0 {
		return s
	}

	values := make([]float64, 0, len(files))
	for _, m := range files {
		s.TotalFunctions += len(m.Functions)
		if m.FileComplexity > s.MaxComplexity {
			s.MaxComplexity = m.FileComplexity
		}
		if m.Severity().IsHigh() {
			s.HighSeverity++
		}
		values = append(values, float64(m.FileComplexity))
	}
	sort.Float64s(values)

	s.AvgComplexity = stats.Mean(values)
	s.P50Complexity = int(stats.Percentile(values, 50))
	s.P90Complexity = int(stats.Percentile(values, 90))
	return s
}
