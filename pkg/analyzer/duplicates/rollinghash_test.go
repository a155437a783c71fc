package duplicates

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollingHash_Init(t *testing.T) {
	rh := NewRollingHash(3)
	got := rh.Init([]uint64{1, 2, 3})
	// 1*257^2 + 2*257 + 3
	assert.Equal(t, uint64(66566), got)
	assert.Equal(t, got, rh.Sum())
	assert.Equal(t, 3, rh.WindowSize())
}

func TestRollingHash_InitIgnoresExtraValues(t *testing.T) {
	a := NewRollingHash(2)
	b := NewRollingHash(2)
	assert.Equal(t, a.Init([]uint64{7, 8}), b.Init([]uint64{7, 8, 9, 10}))
}

func TestRollingHash_RollReturnsToSameWindow(t *testing.T) {
	values := []uint64{1, 2, 3, 4, 5, 6, 1, 2, 3}
	rh := NewRollingHash(3)
	first := rh.Init(values[:3])

	var last uint64
	for i := 3; i < len(values); i++ {
		last = rh.Roll(values[i-3], values[i])
	}
	assert.Equal(t, first, last)
}

func TestRollingHash_RollMatchesInit(t *testing.T) {
	values := []uint64{
		math.MaxUint64, 42, TokenHash("if"), TokenHash("{"), 0,
		math.MaxUint64 - 1, TokenHash("return"), 1_000_000_007, 99,
	}
	const w = 4

	rolling := NewRollingHash(w)
	rolling.Init(values[:w])
	for i := w; i < len(values); i++ {
		got := rolling.Roll(values[i-w], values[i])
		want := NewRollingHash(w).Init(values[i-w+1 : i+1])
		if got != want {
			t.Fatalf("window ending at %d: Roll() = %d, Init() = %d", i, got, want)
		}
	}
}

func TestRollingHash_OrderSensitive(t *testing.T) {
	a := NewRollingHash(3).Init([]uint64{TokenHash("a"), TokenHash("b"), TokenHash("c")})
	b := NewRollingHash(3).Init([]uint64{TokenHash("c"), TokenHash("b"), TokenHash("a")})
	assert.NotEqual(t, a, b)
}

func TestRollingHash_WindowOfOne(t *testing.T) {
	rh := NewRollingHash(1)
	rh.Init([]uint64{5})
	assert.Equal(t, uint64(9), rh.Roll(5, 9))
}

func TestTokenHash_Deterministic(t *testing.T) {
	assert.Equal(t, TokenHash("identifier"), TokenHash("identifier"))
	assert.NotEqual(t, TokenHash("ab"), TokenHash("ba"))
}
