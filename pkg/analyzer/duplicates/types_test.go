package duplicates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	clones := []Clone{
		{ID: 1, Length: 10, Locations: []Location{
			{File: "a.go", StartLine: 1, EndLine: 5},
			{File: "a.go", StartLine: 3, EndLine: 8},
			{File: "b.go", StartLine: 10, EndLine: 12},
		}},
		{ID: 2, Length: 10, Locations: []Location{
			{File: "b.go", StartLine: 11, EndLine: 11},
			{File: "c.go", StartLine: 1, EndLine: 1},
		}},
	}

	s := Summarize(clones, map[string]int{"a.go": 16, "b.go": 20, "c.go": 4})

	assert.Equal(t, 2, s.TotalGroups)
	assert.Equal(t, 5, s.TotalOccurrences)
	assert.Equal(t, 3, s.LargestGroup)
	// a.go covers 1-8 (overlap counted once), b.go 10-12, c.go 1.
	assert.Equal(t, 12, s.DuplicatedLines)
	assert.Equal(t, 40, s.TotalLines)
	assert.InDelta(t, 0.3, s.DuplicationRatio, 0.0001)
	assert.Equal(t, map[string]int{"a.go": 2, "b.go": 2, "c.go": 1}, s.FileOccurrences)

	require.Len(t, s.Hotspots, 3)
	assert.Equal(t, "a.go", s.Hotspots[0].File)
	assert.Equal(t, 8, s.Hotspots[0].DuplicatedLines)
	assert.InDelta(t, 0.5, s.Hotspots[0].Ratio, 0.0001)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil)
	assert.Equal(t, 0, s.TotalGroups)
	assert.Zero(t, s.DuplicationRatio)
	assert.Empty(t, s.Hotspots)
}

func TestLocationLines(t *testing.T) {
	assert.Equal(t, 1, Location{StartLine: 4, EndLine: 4}.Lines())
	assert.Equal(t, 3, Location{StartLine: 4, EndLine: 6}.Lines())
}
