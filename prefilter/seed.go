package prefilter

import (
	"github.com/coregx/ahocorasick"
	"github.com/coregx/seqfilter/alphabet"
	"github.com/coregx/seqfilter/simd"
)

// SeedFilter is the pigeonhole filter: a pattern cut into maxError+1
// disjoint pieces keeps at least one piece intact under maxError edits, so a
// text containing none of the pieces verbatim is rejected.
//
// Pieces containing an ambiguous base can never occur verbatim and are not
// searched. Ambiguous pattern bases match nothing, so each one costs an edit
// in any alignment and their count is itself a lower bound.
//
// The seed automaton depends on maxError and is rebuilt only when a query
// uses a different maxError than the previous one.
type SeedFilter struct {
	pattern   []byte
	ambiguous int

	maxError  int
	pieceLen  int
	seeds     [][]byte
	automaton *ahocorasick.Automaton

	// normalized is the scratch buffer for texts that are not pure ACGT.
	normalized []byte
}

// NewSeed creates a seed filter for pattern. The pattern is copied.
func NewSeed(pattern []byte) *SeedFilter {
	normalized := alphabet.Normalize(nil, pattern)
	return &SeedFilter{
		pattern:   normalized,
		ambiguous: simd.CountNonACGT(normalized),
		maxError:  -1,
	}
}

// Bound implements Filter.Bound. It returns the number of ambiguous pattern
// bases when that exceeds maxError, otherwise 0 when some seed occurs in text
// and maxError+1 when none does.
func (f *SeedFilter) Bound(text []byte, maxError int) int {
	if maxError < 0 {
		return NoMatch
	}
	if maxError != f.maxError {
		f.rebuild(maxError)
	}
	if f.ambiguous > maxError {
		return f.ambiguous
	}
	if f.pieceLen == 0 {
		// More pieces than pattern bases: nothing to anchor on.
		return 0
	}
	if f.automaton == nil {
		return maxError + 1
	}

	if !simd.IsACGT(text) {
		f.normalized = alphabet.Normalize(f.normalized, text)
		text = f.normalized
	}
	if f.automaton.IsMatch(text) {
		return 0
	}
	return maxError + 1
}

// Locate returns the half-open range of the leftmost seed occurrence in
// text for the given maxError, or (-1, -1) when there is none.
func (f *SeedFilter) Locate(text []byte, maxError int) (start, end int) {
	if maxError < 0 {
		return -1, -1
	}
	if maxError != f.maxError {
		f.rebuild(maxError)
	}
	if f.automaton == nil {
		return -1, -1
	}
	if !simd.IsACGT(text) {
		f.normalized = alphabet.Normalize(f.normalized, text)
		text = f.normalized
	}
	m := f.automaton.Find(text, 0)
	if m == nil {
		return -1, -1
	}
	return m.Start, m.End
}

// Seeds returns the searched pieces for the current maxError.
func (f *SeedFilter) Seeds() [][]byte {
	return f.seeds
}

func (f *SeedFilter) rebuild(maxError int) {
	f.maxError = maxError
	f.seeds = f.seeds[:0]
	f.automaton = nil

	pieces := maxError + 1
	f.pieceLen = len(f.pattern) / pieces
	if f.pieceLen == 0 {
		return
	}

	seen := make(map[string]struct{}, pieces)
	for i := 0; i < pieces; i++ {
		begin := i * f.pieceLen
		end := begin + f.pieceLen
		if i == pieces-1 {
			end = len(f.pattern)
		}
		piece := f.pattern[begin:end]
		if !simd.IsACGT(piece) {
			continue
		}
		if _, dup := seen[string(piece)]; dup {
			continue
		}
		seen[string(piece)] = struct{}{}
		f.seeds = append(f.seeds, piece)
	}
	if len(f.seeds) == 0 {
		tracer().Debugf("seed: all %d pieces ambiguous, rejecting every text", pieces)
		return
	}

	builder := ahocorasick.NewBuilder()
	for _, seed := range f.seeds {
		builder.AddPattern(seed)
	}
	auto, err := builder.Build()
	if err != nil {
		// Without an automaton the filter cannot reject soundly.
		tracer().Errorf("seed: automaton build failed: %v", err)
		f.pieceLen = 0
		return
	}
	f.automaton = auto
	tracer().Debugf("seed: maxError=%d pieces=%d seeds=%d pieceLen=%d",
		maxError, pieces, len(f.seeds), f.pieceLen)
}

// Name implements Filter.Name.
func (f *SeedFilter) Name() string {
	return "seed"
}

// HeapBytes implements Filter.HeapBytes. The automaton's own tables are not
// accounted.
func (f *SeedFilter) HeapBytes() int {
	return len(f.pattern) + cap(f.normalized)
}

// Exact implements Filter.Exact.
func (f *SeedFilter) Exact() bool {
	return false
}
