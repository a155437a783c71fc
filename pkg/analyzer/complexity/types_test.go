package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		complexity int
		want       Severity
	}{
		{1, SeverityLow},
		{10, SeverityLow},
		{11, SeverityModerate},
		{20, SeverityModerate},
		{21, SeverityHigh},
		{50, SeverityHigh},
		{51, SeverityVeryHigh},
		{500, SeverityVeryHigh},
	}
	for _, tt := range tests {
		if got := SeverityFor(tt.complexity); got != tt.want {
			t.Errorf("SeverityFor(%d) = %v, want %v", tt.complexity, got, tt.want)
		}
	}
}

func TestMetricsSeverity(t *testing.T) {
	assert.Equal(t, SeverityLow, Metrics{FileComplexity: 1}.Severity())
	assert.True(t, Metrics{FileComplexity: 30}.Severity().IsHigh())
	assert.False(t, Metrics{FileComplexity: 15}.Severity().IsHigh())
}

func TestThresholdsLevel(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, LevelOK, th.Level(10))
	assert.Equal(t, LevelWarning, th.Level(11))
	assert.Equal(t, LevelWarning, th.Level(20))
	assert.Equal(t, LevelError, th.Level(21))
}

func TestSummarize(t *testing.T) {
	files := []Metrics{
		{FileComplexity: 1},
		{FileComplexity: 4, Functions: []FunctionComplexity{{Name: "a", Complexity: 4, Line: 1}}},
		{FileComplexity: 25, Functions: []FunctionComplexity{{Name: "b", Complexity: 5, Line: 1}, {Name: "c", Complexity: 20, Line: 9}}},
		{FileComplexity: 10},
	}

	s := Summarize(files)
	assert.Equal(t, 4, s.TotalFiles)
	assert.Equal(t, 3, s.TotalFunctions)
	assert.Equal(t, 25, s.MaxComplexity)
	assert.InDelta(t, 10.0, s.AvgComplexity, 0.001)
	assert.Equal(t, 1, s.HighSeverity)
	assert.LessOrEqual(t, s.P50Complexity, s.P90Complexity)
	assert.Equal(t, 25, s.P90Complexity)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}
