package prefilter

import "github.com/coregx/seqfilter/bpm"

// bpmFilter adapts a compiled bpm.Pattern to Filter.
type bpmFilter struct {
	pattern      *bpm.Pattern
	quickAbandon bool
}

// NewBPM wraps p as an exact Filter. quickAbandon enables the early exit of
// bpm.Pattern.DistanceCutoff. The filter does not own p.
func NewBPM(p *bpm.Pattern, quickAbandon bool) Filter {
	return &bpmFilter{pattern: p, quickAbandon: quickAbandon}
}

// Bound implements Filter.Bound.
func (f *bpmFilter) Bound(text []byte, maxError int) int {
	if maxError < 0 {
		return NoMatch
	}
	if maxError >= f.pattern.Len() {
		// The cutoff band would cover every block.
		return f.pattern.Distance(text)
	}
	return f.pattern.DistanceCutoff(text, maxError, f.quickAbandon)
}

// Name implements Filter.Name.
func (f *bpmFilter) Name() string {
	return "bpm"
}

// HeapBytes implements Filter.HeapBytes.
func (f *bpmFilter) HeapBytes() int {
	return f.pattern.HeapBytes()
}

// Exact implements Filter.Exact.
func (f *bpmFilter) Exact() bool {
	return true
}
