package duplicates

import (
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

const (
	hashBase    uint64 = 257
	hashModulus uint64 = 1_000_000_007
)

// RollingHash is a Rabin-Karp polynomial hash over a fixed-size window of
// values. Sliding the window by one value costs O(1).
type RollingHash struct {
	base       uint64
	modulus    uint64
	windowSize int
	hash       uint64
	basePower  uint64
}

// NewRollingHash creates a hash for windows of windowSize values.
func NewRollingHash(windowSize int) *RollingHash {
	rh := &RollingHash{
		base:       hashBase,
		modulus:    hashModulus,
		windowSize: windowSize,
		basePower:  1,
	}
	for i := 1; i < windowSize; i++ {
		rh.basePower = mulMod(rh.basePower, rh.base, rh.modulus)
	}
	return rh
}

// Init resets the hash to cover the first windowSize values.
func (rh *RollingHash) Init(values []uint64) uint64 {
	rh.hash = 0
	for i, v := range values {
		if i >= rh.windowSize {
			break
		}
		rh.hash = mulMod(rh.hash, rh.base, rh.modulus)
		rh.hash = addMod(rh.hash, v, rh.modulus)
	}
	return rh.hash
}

// Roll removes out from the front of the window, appends in, and returns the new hash.
func (rh *RollingHash) Roll(out, in uint64) uint64 {
	rh.hash = subMod(rh.hash, mulMod(out, rh.basePower, rh.modulus), rh.modulus)
	rh.hash = mulMod(rh.hash, rh.base, rh.modulus)
	rh.hash = addMod(rh.hash, in, rh.modulus)
	return rh.hash
}

// Sum returns the current hash.
func (rh *RollingHash) Sum() uint64 {
	return rh.hash
}

// WindowSize returns the number of values covered by the hash.
func (rh *RollingHash) WindowSize() int {
	return rh.windowSize
}

// TokenHash maps token text to a 64-bit value for the rolling hash.
func TokenHash(text string) uint64 {
	return xxhash.Sum64String(text)
}

func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

func addMod(a, b, m uint64) uint64 {
	return (a%m + b%m) % m
}

func subMod(a, b, m uint64) uint64 {
	a, b = a%m, b%m
	if a >= b {
		return a - b
	}
	return m - (b - a)
}
