// Package prefilter combines the distance filters into a cascade that
// decides, for one pattern, which candidate texts can lie within a given
// number of edits.
//
// Every stage implements Filter. Cheap stages (k-mer counting, pigeonhole
// seeds) return lower bounds on the edit distance and reject most random
// candidates; the final stage is the bit-parallel distance itself, which is
// exact. The cascade stops at the first stage whose bound exceeds the error
// budget.
//
// The package automatically selects stages from Options:
//   - Pattern shorter than k, or k-mer stage disabled → no k-mer stage
//   - Seed stage enabled → pigeonhole seeds searched with Aho-Corasick
//   - Always → BPM (exact, never retired)
//
// Example usage:
//
//	c, err := prefilter.NewBuilder(pattern, prefilter.DefaultOptions()).Build()
//	if err != nil {
//	    return err
//	}
//	defer c.Release()
//
//	for _, text := range candidates {
//	    if c.Accept(text, 3) {
//	        // text is within 3 edits of pattern
//	    }
//	}
package prefilter

import (
	"github.com/coregx/seqfilter/bpm"
	"github.com/npillmayer/schuko/tracing"
)

// NoMatch is the bound of a rejected candidate. It compares greater than any
// error budget.
const NoMatch = bpm.NoMatch

// tracer writes to trace with key 'seqfilter.prefilter'
func tracer() tracing.Trace {
	return tracing.Select("seqfilter.prefilter")
}

// Filter bounds the edit distance between a fixed pattern and candidate
// texts.
//
// Result contract of Bound:
//   - result <= maxError: the candidate may be within maxError edits (accept)
//   - result > maxError, including NoMatch: it is certainly not (reject)
//
// Filters are not safe for concurrent use.
type Filter interface {
	// Bound returns a lower bound on the edit distance between the pattern
	// and text, or NoMatch. When Exact reports true, a result <= maxError is
	// the edit distance itself.
	//
	// maxError lets a filter stop early; a negative maxError rejects.
	Bound(text []byte, maxError int) int

	// Name identifies the filter in statistics and trace output.
	Name() string

	// HeapBytes returns the number of bytes of heap memory used by the
	// filter's tables.
	HeapBytes() int

	// Exact reports whether accepted bounds are true edit distances.
	Exact() bool
}

// Accept applies the result contract of Filter.
func Accept(f Filter, text []byte, maxError int) bool {
	if maxError < 0 {
		return false
	}
	return f.Bound(text, maxError) <= maxError
}

// releaser is implemented by filters that own arena memory.
type releaser interface {
	Release()
}
