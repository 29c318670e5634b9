package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo7 = uint64(0x7F7F7F7F7F7F7F7F)
	hi8 = uint64(0x8080808080808080)

	splatA = uint64(0x4141414141414141)
	splatC = uint64(0x4343434343434343)
	splatG = uint64(0x4747474747474747)
	splatT = uint64(0x5454545454545454)
)

// zeroBytes returns a word with 0x80 in every byte position where x has a
// zero byte, and 0x00 elsewhere. Unlike the classic haszero trick it has no
// false positives, so it can be used to locate bytes, not just detect them.
//
//go:inline
func zeroBytes(x uint64) uint64 {
	return ^(((x & lo7) + lo7) | x | lo7)
}

// acgtBytes marks (0x80) the bytes of w that are one of 'A', 'C', 'G', 'T'.
//
//go:inline
func acgtBytes(w uint64) uint64 {
	return zeroBytes(w^splatA) | zeroBytes(w^splatC) |
		zeroBytes(w^splatG) | zeroBytes(w^splatT)
}

// FirstNonACGT returns the index of the first byte of seq that is not an
// uppercase 'A', 'C', 'G' or 'T', or -1 if there is none.
//
// Lowercase bases count as non-ACGT here; callers treat this function as a
// fast path and fall back to the full alphabet tables when it returns >= 0.
//
// Example:
//
//	simd.FirstNonACGT([]byte("ACGTNACGT")) // 4
//	simd.FirstNonACGT([]byte("ACGT"))      // -1
func FirstNonACGT(seq []byte) int {
	if hasWideVectors && len(seq) >= wideThreshold {
		return firstNonACGTWide(seq)
	}
	return firstNonACGTGeneric(seq)
}

// IsACGT reports whether seq consists only of uppercase 'A', 'C', 'G', 'T'.
// An empty sequence is trivially ACGT.
func IsACGT(seq []byte) bool {
	return FirstNonACGT(seq) == -1
}

// CountNonACGT returns the number of bytes of seq that are not uppercase
// 'A', 'C', 'G' or 'T'.
func CountNonACGT(seq []byte) int {
	count := 0
	idx := 0
	for ; idx+8 <= len(seq); idx += 8 {
		w := binary.LittleEndian.Uint64(seq[idx:])
		count += bits.OnesCount64(^acgtBytes(w) & hi8)
	}
	for ; idx < len(seq); idx++ {
		if !isACGTByte(seq[idx]) {
			count++
		}
	}
	return count
}

// firstNonACGTGeneric scans 8 bytes per iteration.
func firstNonACGTGeneric(seq []byte) int {
	n := len(seq)
	idx := 0
	for idx+8 <= n {
		w := binary.LittleEndian.Uint64(seq[idx:])
		if miss := ^acgtBytes(w) & hi8; miss != 0 {
			return idx + bits.TrailingZeros64(miss)/8
		}
		idx += 8
	}
	for ; idx < n; idx++ {
		if !isACGTByte(seq[idx]) {
			return idx
		}
	}
	return -1
}

// firstNonACGTWide scans 32 bytes per iteration and resolves the exact
// position with the generic loop once a block contains a miss.
func firstNonACGTWide(seq []byte) int {
	n := len(seq)
	idx := 0
	for idx+32 <= n {
		m := acgtBytes(binary.LittleEndian.Uint64(seq[idx:])) &
			acgtBytes(binary.LittleEndian.Uint64(seq[idx+8:])) &
			acgtBytes(binary.LittleEndian.Uint64(seq[idx+16:])) &
			acgtBytes(binary.LittleEndian.Uint64(seq[idx+24:]))
		if m != hi8 {
			return idx + firstNonACGTGeneric(seq[idx:idx+32])
		}
		idx += 32
	}
	if tail := firstNonACGTGeneric(seq[idx:]); tail >= 0 {
		return idx + tail
	}
	return -1
}

func isACGTByte(c byte) bool {
	return c == 'A' || c == 'C' || c == 'G' || c == 'T'
}
