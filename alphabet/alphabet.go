// Package alphabet maps DNA characters to the small integer codes used by the
// bit-parallel and k-mer filters.
//
// Two encodings are provided:
//   - Encode: 5-symbol code (A=0, C=1, G=2, T=3, N=4). Every character that is
//     not one of ACGT (either case) is ambiguous and maps to N.
//   - Encode2Bit: 2-bit code used by the k-mer text path. Ambiguous characters
//     are folded onto a valid base by modulo reduction (N -> A). This is an
//     approximation, not a lossless encoding.
//
// The lookup tables are built once at package initialization and are
// read-only afterwards, so they are safe to share across goroutines.
package alphabet

// Symbol codes.
const (
	A uint8 = 0
	C uint8 = 1
	G uint8 = 2
	T uint8 = 3

	// N is the reserved ambiguous code. It never matches another symbol.
	N uint8 = 4
)

// Size is the number of distinct codes produced by Encode.
const Size = 5

// Symbols lists the canonical character of each code, indexed by code.
const Symbols = "ACGTN"

var (
	encodeTable   [256]uint8
	encode2Table  [256]uint8
	validTable    [256]bool
	canonicalByte [256]byte
)

func init() {
	for i := range encodeTable {
		encodeTable[i] = N
		canonicalByte[i] = 'N'
	}
	set := func(upper byte, code uint8) {
		lower := upper + ('a' - 'A')
		encodeTable[upper] = code
		encodeTable[lower] = code
		validTable[upper] = true
		validTable[lower] = true
		canonicalByte[upper] = upper
		canonicalByte[lower] = upper
	}
	set('A', A)
	set('C', C)
	set('G', G)
	set('T', T)
	for i := range encode2Table {
		encode2Table[i] = encodeTable[i] % 4
	}
}

// Encode returns the 5-symbol code of c. Characters outside ACGT map to N.
//
//go:inline
func Encode(c byte) uint8 {
	return encodeTable[c]
}

// Encode2Bit returns the 2-bit code of c, folding ambiguous characters onto a
// valid base (Encode(c) % 4).
//
//go:inline
func Encode2Bit(c byte) uint8 {
	return encode2Table[c]
}

// IsValid reports whether c is one of ACGT (either case).
func IsValid(c byte) bool {
	return validTable[c]
}

// Canonical returns the uppercase canonical form of c: one of "ACGTN".
func Canonical(c byte) byte {
	return canonicalByte[c]
}

// Normalize writes the canonical form of src into dst and returns dst[:len(src)].
// dst is grown if its capacity is too small.
func Normalize(dst, src []byte) []byte {
	if cap(dst) < len(src) {
		dst = make([]byte, len(src))
	}
	dst = dst[:len(src)]
	for i, c := range src {
		dst[i] = Canonical(c)
	}
	return dst
}

// Equal reports whether two characters match under the 5-symbol code.
// Ambiguous characters never match, not even each other.
func Equal(a, b byte) bool {
	ca := encodeTable[a]
	return ca != N && ca == encodeTable[b]
}
