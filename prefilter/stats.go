package prefilter

import (
	"fmt"

	"github.com/coregx/seqfilter/internal/editdp"
)

// Stats is the confusion matrix of filter decisions against true edit
// distances.
type Stats struct {
	TruePositives  uint64 // accepted, within budget
	FalsePositives uint64 // accepted, over budget
	TrueNegatives  uint64 // rejected, over budget
	FalseNegatives uint64 // rejected, within budget
}

// Record adds one decision.
func (s *Stats) Record(accepted, within bool) {
	switch {
	case accepted && within:
		s.TruePositives++
	case accepted:
		s.FalsePositives++
	case within:
		s.FalseNegatives++
	default:
		s.TrueNegatives++
	}
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.TruePositives += o.TruePositives
	s.FalsePositives += o.FalsePositives
	s.TrueNegatives += o.TrueNegatives
	s.FalseNegatives += o.FalseNegatives
}

// Total returns the number of recorded decisions.
func (s Stats) Total() uint64 {
	return s.TruePositives + s.FalsePositives + s.TrueNegatives + s.FalseNegatives
}

// Accuracy returns the share of correct decisions, or 0 with no decisions.
func (s Stats) Accuracy() float64 {
	return ratio(s.TruePositives+s.TrueNegatives, s.Total())
}

// FalsePositiveRate returns FP / (FP + TN).
func (s Stats) FalsePositiveRate() float64 {
	return ratio(s.FalsePositives, s.FalsePositives+s.TrueNegatives)
}

// FalseNegativeRate returns FN / (FN + TP).
func (s Stats) FalseNegativeRate() float64 {
	return ratio(s.FalseNegatives, s.FalseNegatives+s.TruePositives)
}

// Sound reports whether no candidate within budget was rejected.
func (s Stats) Sound() bool {
	return s.FalseNegatives == 0
}

// String formats the matrix with percentages of the total.
func (s Stats) String() string {
	total := s.Total()
	pct := func(n uint64) float64 { return 100 * ratio(n, total) }
	return fmt.Sprintf("total=%d hit=%d (%.3f%%) tp=%d (%.3f%%) tn=%d (%.3f%%) fp=%d (%.3f%%) fn=%d (%.3f%%)",
		total,
		s.TruePositives+s.TrueNegatives, pct(s.TruePositives+s.TrueNegatives),
		s.TruePositives, pct(s.TruePositives),
		s.TrueNegatives, pct(s.TrueNegatives),
		s.FalsePositives, pct(s.FalsePositives),
		s.FalseNegatives, pct(s.FalseNegatives))
}

func ratio(n, d uint64) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Checker verifies the decisions of a filter for one pattern with the
// dynamic-programming distance.
type Checker struct {
	pattern []byte
	columns *editdp.Columns
	stats   Stats
}

// NewChecker creates a checker for pattern. The pattern is not copied.
func NewChecker(pattern []byte) *Checker {
	return &Checker{
		pattern: pattern,
		columns: editdp.NewColumns(len(pattern)),
	}
}

// Check runs f on text, records the decision and returns it.
func (c *Checker) Check(f Filter, text []byte, maxError int) (accepted bool) {
	accepted = Accept(f, text, maxError)
	c.Record(accepted, text, maxError)
	return accepted
}

// Record classifies an externally made decision on text.
func (c *Checker) Record(accepted bool, text []byte, maxError int) {
	within := maxError >= 0 && c.columns.Distance(c.pattern, text) <= maxError
	c.stats.Record(accepted, within)
}

// Stats returns the accumulated matrix.
func (c *Checker) Stats() Stats {
	return c.stats
}

// Reset clears the accumulated matrix.
func (c *Checker) Reset() {
	c.stats = Stats{}
}

// Evaluate runs f over texts and returns the confusion matrix of its
// decisions.
func Evaluate(f Filter, pattern []byte, texts [][]byte, maxError int) Stats {
	c := NewChecker(pattern)
	for _, text := range texts {
		c.Check(f, text, maxError)
	}
	return c.Stats()
}
