package prefilter

import "github.com/coregx/seqfilter/kmer"

// kmerFilter adapts a kmer.Profile with a built pattern histogram to Filter.
type kmerFilter struct {
	profile *kmer.Profile
}

// NewKmer wraps prof as a Filter. The pattern histogram must already be
// built. The filter does not own prof.
func NewKmer(prof *kmer.Profile) Filter {
	return &kmerFilter{profile: prof}
}

// Bound implements Filter.Bound. The scan stops once the text is known to be
// accepted, so an accepted text gets the trivial bound 0; a rejected text
// gets the full k-mer bound.
func (f *kmerFilter) Bound(text []byte, maxError int) int {
	if maxError < 0 {
		return NoMatch
	}
	if f.profile.Accept(text, maxError) {
		return 0
	}
	return f.profile.LastBound()
}

// Name implements Filter.Name.
func (f *kmerFilter) Name() string {
	return "kmer"
}

// HeapBytes implements Filter.HeapBytes.
func (f *kmerFilter) HeapBytes() int {
	return f.profile.HeapBytes()
}

// Exact implements Filter.Exact.
func (f *kmerFilter) Exact() bool {
	return false
}
