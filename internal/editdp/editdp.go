// Package editdp computes ends-free edit distances with the textbook O(n*m)
// dynamic program. It is the reference the bit-parallel and k-mer filters are
// checked against, and the verifier used to classify filter decisions.
//
// Semantics match the filters: the whole pattern must be aligned, the text
// ends are free, and characters are compared through the 5-symbol alphabet
// code (case-insensitive, ambiguous bases never match).
package editdp

import (
	"math"

	"github.com/coregx/seqfilter/alphabet"
)

// Infinite marks an unreachable score.
const Infinite = math.MaxInt

// Columns holds the two DP columns reused across computations.
type Columns struct {
	curr []int
	prev []int
}

// NewColumns allocates columns for patterns up to patternLength.
func NewColumns(patternLength int) *Columns {
	return &Columns{
		curr: make([]int, patternLength+1),
		prev: make([]int, patternLength+1),
	}
}

func (c *Columns) fit(patternLength int) {
	if len(c.curr) < patternLength+1 {
		c.curr = make([]int, patternLength+1)
		c.prev = make([]int, patternLength+1)
	}
}

// Distance returns the ends-free edit distance of pattern against text.
//
// Degenerate inputs: an empty text yields len(pattern), an empty pattern
// yields len(text).
func Distance(pattern, text []byte) int {
	return NewColumns(len(pattern)).Distance(pattern, text)
}

// Distance is like the package-level Distance but reuses c's columns.
func (c *Columns) Distance(pattern, text []byte) int {
	m, n := len(pattern), len(text)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}
	c.fit(m)
	curr, prev := c.curr, c.prev

	curr[0] = 0 // text ends-free
	for v := 0; v <= m; v++ {
		prev[v] = v
	}

	minDistance := Infinite
	for h := 1; h <= n; h++ {
		tc := text[h-1]
		for v := 1; v <= m; v++ {
			best := prev[v-1] + cost(pattern[v-1], tc)
			best = min(best, prev[v]+1)   // insertion
			best = min(best, curr[v-1]+1) // deletion
			curr[v] = best
		}
		minDistance = min(minDistance, curr[m])
		curr, prev = prev, curr
	}
	return minDistance
}

func cost(p, t byte) int {
	if alphabet.Equal(p, t) {
		return 0
	}
	return 1
}
