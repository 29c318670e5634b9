// Package conv provides checked integer helpers shared by the filters.
//
// Narrowing conversions panic on overflow since an out-of-range value here
// means a caller broke a documented limit (e.g. more than 2^32 candidates in
// one batch), not a recoverable input condition.
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// DivCeil returns ceil(a/b) for a >= 0 and b > 0.
//
//go:inline
func DivCeil(a, b int) int {
	return (a + b - 1) / b
}

// SatInc16 increments a uint16 counter, saturating at math.MaxUint16.
//
//go:inline
func SatInc16(c uint16) uint16 {
	if c == math.MaxUint16 {
		return c
	}
	return c + 1
}
