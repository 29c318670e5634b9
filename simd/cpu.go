// Package simd provides word-parallel scans over DNA byte sequences. The
// scans use SWAR (SIMD Within A Register) arithmetic on uint64 words.
//
// Both loops are plain Go. The 32-byte loop is a 4-word unroll with one
// branch per block; it is only a scheduling heuristic and is reserved for
// CPUs that report AVX2 or ASIMD, taken as a proxy for cores wide enough to
// overlap the four independent loads. Compare the two loops on a given
// machine with:
//
//	go test -bench=FirstNonACGT ./simd/
//
// The primary use is letting the filters skip per-base ambiguity checks when
// a sequence is pure uppercase ACGT.
package simd

import "golang.org/x/sys/cpu"

// CPU feature detection flags set at package initialization.
var (
	// hasWideVectors selects the 32-byte unrolled loop.
	hasWideVectors = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD
)

// wideThreshold is the minimum input size for the unrolled loop.
const wideThreshold = 32
