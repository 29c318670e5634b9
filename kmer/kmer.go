// Package kmer implements the q-gram counting lower bound on edit distance.
//
// A Profile holds two histograms indexed by the 2-bit rolling code of every
// length-k window: one for the pattern, built once, and one for the current
// candidate text, rebuilt on every query. Each edit operation can destroy at
// most k pattern windows, so
//
//	bound = ceil((numKeyKmers - matched) / k)
//
// never exceeds the true edit distance, where matched counts text windows
// that are still "owed" to the pattern histogram.
//
// Ambiguous bases are handled asymmetrically: in the pattern they break the
// window (no k-mer spanning them is counted), in the text they are folded onto
// a valid base. The asymmetry can only reduce matched, which keeps the bound
// sound.
//
// A Profile is NOT safe for concurrent use.
package kmer

import (
	"github.com/coregx/seqfilter/alphabet"
	"github.com/coregx/seqfilter/internal/arena"
	"github.com/coregx/seqfilter/internal/conv"
	"github.com/coregx/seqfilter/simd"
	"github.com/dustin/go-humanize"
	"github.com/npillmayer/schuko/tracing"
)

// Accepted k range. The upper limit keeps the two histograms within
// 2 * 4^13 uint16 counters.
const (
	MinK = 3
	MaxK = 13
)

// touchedRatio selects the touched-index reset: when the histogram has more
// than touchedRatio entries per text window, only the entries written by the
// previous query are cleared.
const touchedRatio = 16

// tracer writes to trace with key 'seqfilter.kmer'
func tracer() tracing.Trace {
	return tracing.Select("seqfilter.kmer")
}

// Profile is a k-mer histogram pair for one pattern.
type Profile struct {
	k        int
	mask     uint32
	numKmers int

	patternHist []uint16
	textHist    []uint16

	// touched lists textHist indices written by the last query, valid only
	// when textDirty is false.
	touched   []uint32
	textDirty bool

	numKeyKmers int
	lastMatched int

	arena     *arena.Arena
	ownsArena bool
}

// New allocates a profile for k-mers of length k.
//
// Histograms are carved from a; a nil arena gives the profile a private one,
// released by Release.
func New(k int, a *arena.Arena) (*Profile, error) {
	if k < MinK || k > MaxK {
		err := &ConfigError{Field: "KmerLength", Value: k, Err: ErrInvalidKmerLength}
		tracer().Errorf("kmer: %v", err)
		return nil, err
	}

	numKmers := 1 << (2 * k)
	owns := a == nil
	if owns {
		a = arena.New(2 * numKmers)
	}
	hist := a.Uint16s(2 * numKmers)

	p := &Profile{
		k:           k,
		mask:        uint32(numKmers - 1),
		numKmers:    numKmers,
		patternHist: hist[:numKmers:numKmers],
		textHist:    hist[numKmers:],
		arena:       a,
		ownsArena:   owns,
	}
	tracer().Infof("kmer: profile k=%d entries=%d memory=%s",
		k, numKmers, humanize.IBytes(uint64(p.HeapBytes())))
	return p, nil
}

// BuildPatternHistogram replaces the pattern histogram with the k-mers of
// pattern. A window is counted once k consecutive unambiguous bases have been
// seen; an ambiguous base restarts the window.
func (p *Profile) BuildPatternHistogram(pattern []byte) {
	clear(p.patternHist)
	p.numKeyKmers = 0
	p.lastMatched = 0

	if len(pattern) < p.k {
		return
	}

	var idx uint32
	if simd.IsACGT(pattern) {
		for i := 0; i < p.k-1; i++ {
			idx = idx<<2 | uint32(alphabet.Encode(pattern[i]))
		}
		for _, c := range pattern[p.k-1:] {
			idx = (idx<<2 | uint32(alphabet.Encode(c))) & p.mask
			p.patternHist[idx] = conv.SatInc16(p.patternHist[idx])
		}
		p.numKeyKmers = len(pattern) - p.k + 1
		return
	}

	acc := 0
	for _, c := range pattern {
		code := alphabet.Encode(c)
		if code == alphabet.N {
			acc = 0
			continue
		}
		idx = (idx<<2 | uint32(code)) & p.mask
		if acc < p.k-1 {
			acc++
			continue
		}
		p.patternHist[idx] = conv.SatInc16(p.patternHist[idx])
		p.numKeyKmers++
	}
}

// MinErrorBound returns a lower bound on the edit distance between the
// pattern and text, counting every window of text.
//
// A text shorter than k has no windows and gets the weakest bound,
// ceil(numKeyKmers/k).
func (p *Profile) MinErrorBound(text []byte) int {
	p.scan(text, p.numKeyKmers+1)
	return p.LastBound()
}

// Accept reports whether text may lie within maxError edits of the pattern.
// A false result is definitive.
//
// Accept stops scanning as soon as the bound is known to be <= maxError, so
// after a true result LastMatched may be a partial count. After a false
// result the whole text was scanned and LastBound equals MinErrorBound(text).
func (p *Profile) Accept(text []byte, maxError int) bool {
	if maxError < 0 {
		return false
	}
	// Reaching target matched windows means the bound is <= maxError.
	target := p.numKeyKmers - p.k*maxError
	if target <= 0 {
		p.lastMatched = 0
		return true
	}
	return p.scan(text, target) >= target
}

// scan fills the text histogram and returns the running maximum of matched
// windows, stopping once it reaches target.
func (p *Profile) scan(text []byte, target int) int {
	p.resetText()
	p.lastMatched = 0

	windows := len(text) - p.k + 1
	if windows <= 0 {
		return 0
	}
	track := windows*touchedRatio < p.numKmers
	p.textDirty = !track

	var idx uint32
	for i := 0; i < p.k-1; i++ {
		idx = idx<<2 | uint32(alphabet.Encode2Bit(text[i]))
	}

	matched, maxMatched := 0, 0
	for _, c := range text[p.k-1:] {
		idx = (idx<<2 | uint32(alphabet.Encode2Bit(c))) & p.mask
		tc := p.textHist[idx]
		if pc := p.patternHist[idx]; pc > 0 && tc < pc {
			matched++
			if matched > maxMatched {
				maxMatched = matched
			}
		}
		if track && tc == 0 {
			p.touched = append(p.touched, idx)
		}
		p.textHist[idx] = conv.SatInc16(tc)
		if maxMatched >= target {
			break
		}
	}

	p.lastMatched = maxMatched
	return maxMatched
}

func (p *Profile) resetText() {
	if p.textDirty {
		clear(p.textHist)
		p.textDirty = false
	} else {
		for _, idx := range p.touched {
			p.textHist[idx] = 0
		}
	}
	p.touched = p.touched[:0]
}

// K returns the k-mer length.
func (p *Profile) K() int {
	return p.k
}

// NumKeyKmers returns the number of counted pattern windows.
func (p *Profile) NumKeyKmers() int {
	return p.numKeyKmers
}

// LastMatched returns the matched count of the last MinErrorBound or Accept
// call.
func (p *Profile) LastMatched() int {
	return p.lastMatched
}

// LastBound returns the bound implied by LastMatched.
func (p *Profile) LastBound() int {
	return conv.DivCeil(p.numKeyKmers-p.lastMatched, p.k)
}

// HeapBytes returns the memory held by the histograms.
func (p *Profile) HeapBytes() int {
	return 2*len(p.patternHist)*2 + 4*cap(p.touched)
}

// Release returns the histograms to the arena. Calling it more than once is
// a no-op.
func (p *Profile) Release() {
	if p.patternHist == nil {
		return
	}
	p.patternHist, p.textHist, p.touched = nil, nil, nil
	if p.ownsArena {
		p.arena.Release()
	}
}
