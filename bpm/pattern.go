// Package bpm implements Myers' bit-parallel edit distance ("BPM") for
// filtering approximate-match candidates.
//
// A pattern is compiled once into per-block, per-symbol equality masks (PEQ)
// and then scored against any number of candidate texts. Two modes exist:
//
//   - Distance: exact semi-global edit distance. The pattern must be fully
//     aligned, the text ends are free (the best alignment may end at any text
//     position and start anywhere before it).
//   - DistanceCutoff: same result when it is <= maxDistance, NoMatch otherwise.
//     Only the blocks that can still reach the bound are computed (adaptive
//     band), and the scan can abandon early once the bound is out of reach.
//
// Example:
//
//	p := bpm.Compile([]byte("ACGTACGT"), nil)
//	defer p.Release()
//	d := p.Distance([]byte("TTACGAACGTTT")) // 1
//	if p.DistanceCutoff(text, 2, true) == bpm.NoMatch {
//	    // reject candidate
//	}
//
// A Pattern owns mutable scratch vectors reused by every computation. It is
// NOT safe for concurrent use: serialize access or compile one Pattern per
// goroutine.
package bpm

import (
	"math"

	"github.com/coregx/seqfilter/alphabet"
	"github.com/coregx/seqfilter/internal/arena"
	"github.com/coregx/seqfilter/internal/conv"
	"github.com/dustin/go-humanize"
	"github.com/npillmayer/schuko/tracing"
)

// NoMatch is returned by DistanceCutoff when no text position scores within
// the requested bound. Callers compare results with `d <= maxDistance`, which
// NoMatch never satisfies.
const NoMatch = math.MaxInt

const (
	wordLength = 64
	wordOnes   = ^uint64(0)
	wordTopBit = uint64(1) << 63
)

// tracer writes to trace with key 'seqfilter.bpm'
func tracer() tracing.Trace {
	return tracing.Select("seqfilter.bpm")
}

// Pattern is a compiled BPM pattern.
type Pattern struct {
	pattern   []byte
	length    int
	numBlocks int

	// peq[block*alphabet.Size+symbol]: bit i set iff row 64*block+i is symbol.
	peq []uint64
	// levelMask[block]: bit of the block's last meaningful row.
	levelMask []uint64
	// initScore[block]: number of rows in the block.
	initScore []int64
	// patternLeft[block]: pattern rows from block onward, numBlocks+1 entries.
	patternLeft []int64

	// Scratch, rewritten by every computation.
	p     []uint64
	m     []uint64
	score []int64

	arena     *arena.Arena
	ownsArena bool
}

// Compile builds the bit-vector representation of pattern.
//
// Working memory is carved from a. When a is nil the pattern allocates a
// private arena and releases it in Release; a shared arena stays owned by the
// caller.
//
// Ambiguous bases (anything outside ACGT) set no PEQ bit, so they mismatch
// every text character. Rows past the end of the pattern, up to the next
// 64-row boundary, match every symbol and never add distance.
func Compile(pattern []byte, a *arena.Arena) *Pattern {
	length := len(pattern)
	numBlocks := conv.DivCeil(length, wordLength)
	if numBlocks == 0 {
		// Degenerate empty pattern: one block made of padding rows.
		numBlocks = 1
	}

	owns := a == nil
	if owns {
		a = arena.New((alphabet.Size + 3) * numBlocks)
	}

	p := &Pattern{
		pattern:   append([]byte(nil), pattern...),
		length:    length,
		numBlocks: numBlocks,
		arena:     a,
		ownsArena: owns,
	}
	p.peq = a.Uint64s(alphabet.Size * numBlocks)
	p.p = a.Uint64s(numBlocks)
	p.m = a.Uint64s(numBlocks)
	p.levelMask = a.Uint64s(numBlocks)
	p.score = a.Int64s(numBlocks)
	p.initScore = a.Int64s(numBlocks)
	p.patternLeft = a.Int64s(numBlocks + 1)

	p.buildPEQ()
	p.buildLevels()

	tracer().Debugf("bpm: compiled pattern length=%d blocks=%d memory=%s",
		length, numBlocks, humanize.IBytes(uint64(p.HeapBytes())))
	return p
}

func (p *Pattern) buildPEQ() {
	for i, c := range p.pattern {
		code := alphabet.Encode(c)
		if code == alphabet.N {
			continue
		}
		block := i / wordLength
		p.peq[block*alphabet.Size+int(code)] |= 1 << (i % wordLength)
	}

	// Padding rows match everything.
	for i := p.length; i < p.numBlocks*wordLength; i++ {
		block := i / wordLength
		mask := uint64(1) << (i % wordLength)
		for s := 0; s < alphabet.Size; s++ {
			p.peq[block*alphabet.Size+s] |= mask
		}
	}
}

func (p *Pattern) buildLevels() {
	left := int64(p.length)
	next := func() {
		if left > wordLength {
			left -= wordLength
		} else {
			left = 0
		}
	}

	top := p.numBlocks - 1
	for i := 0; i < top; i++ {
		p.levelMask[i] = wordTopBit
		p.initScore[i] = wordLength
		p.patternLeft[i] = left
		next()
	}
	for i := top; i <= p.numBlocks; i++ {
		p.patternLeft[i] = left
		next()
	}

	if mod := p.length % wordLength; mod > 0 {
		p.levelMask[top] = uint64(1) << (mod - 1)
		p.initScore[top] = int64(mod)
	} else {
		p.levelMask[top] = wordTopBit
		p.initScore[top] = wordLength
	}
}

// Len returns the pattern length.
func (p *Pattern) Len() int {
	return p.length
}

// NumBlocks returns the number of 64-row blocks, ceil(Len()/64), at least 1.
func (p *Pattern) NumBlocks() int {
	return p.numBlocks
}

// Bytes returns the raw pattern. The returned slice must not be modified.
func (p *Pattern) Bytes() []byte {
	return p.pattern
}

// HeapBytes returns the number of bytes of working memory held by the pattern.
func (p *Pattern) HeapBytes() int {
	n := 8 * (len(p.peq) + len(p.p) + len(p.m) + len(p.levelMask) +
		len(p.score) + len(p.initScore) + len(p.patternLeft))
	return n + len(p.pattern)
}

// Release frees the pattern's working memory. The pattern must not be used
// afterwards. Calling Release twice is a no-op.
func (p *Pattern) Release() {
	if p.peq == nil {
		return
	}
	if p.ownsArena {
		p.arena.Release()
	}
	p.arena = nil
	p.peq, p.p, p.m, p.levelMask = nil, nil, nil, nil
	p.score, p.initScore, p.patternLeft = nil, nil, nil
}
