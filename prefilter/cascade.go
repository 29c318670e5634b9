package prefilter

import (
	"github.com/coregx/seqfilter/bpm"
	"github.com/coregx/seqfilter/internal/arena"
)

// Cascade runs a sequence of filters; the first stage whose bound exceeds
// the error budget rejects the text. The last stage is normally exact, so an
// accepted text's bound is its edit distance.
//
// A Cascade is itself a Filter and is not safe for concurrent use.
type Cascade struct {
	stages []*stage

	// Set by Builder: the compiled pattern of the exact stage, the tables
	// the cascade owns and the arena backing them.
	pattern *bpm.Pattern
	owned   []releaser
	arena   *arena.Arena
}

type stage struct {
	filter   Filter
	tracker  *Tracker // nil when tracking is disabled
	rejected uint64
	scored   uint64
}

// StageStats describes one stage of a cascade.
type StageStats struct {
	Name       string
	Exact      bool
	Evaluated  uint64
	Rejected   uint64
	Active     bool
	HeapBytes  int
	Efficiency float64
}

// NewCascade creates a cascade running filters in order. Tracking is off.
func NewCascade(filters ...Filter) *Cascade {
	c := &Cascade{stages: make([]*stage, 0, len(filters))}
	for _, f := range filters {
		c.stages = append(c.stages, &stage{filter: f})
	}
	return c
}

// EnableTracking attaches a Tracker with config to every stage except the
// last one, which always runs.
func (c *Cascade) EnableTracking(config TrackerConfig) {
	for i, s := range c.stages {
		if i == len(c.stages)-1 {
			s.tracker = nil
			continue
		}
		s.tracker = NewTrackerWithConfig(config)
	}
}

// Bound implements Filter.Bound. It returns the bound of the first
// rejecting stage, or the bound of the last stage when all accept.
func (c *Cascade) Bound(text []byte, maxError int) int {
	if maxError < 0 || len(c.stages) == 0 {
		return NoMatch
	}
	last := len(c.stages) - 1
	for i, s := range c.stages {
		if i < last && s.tracker != nil && !s.tracker.IsActive() {
			continue
		}
		b := s.filter.Bound(text, maxError)
		rejected := b > maxError
		s.scored++
		if rejected {
			s.rejected++
		}
		if s.tracker != nil {
			s.tracker.Observe(rejected)
			if !s.tracker.IsActive() {
				tracer().Infof("cascade: retired stage %q after %d texts", s.filter.Name(), s.scored)
			}
		}
		if rejected || i == last {
			return b
		}
	}
	return NoMatch
}

// Accept reports whether text is within maxError edits of the pattern.
func (c *Cascade) Accept(text []byte, maxError int) bool {
	return Accept(c, text, maxError)
}

// Name implements Filter.Name.
func (c *Cascade) Name() string {
	name := "cascade("
	for i, s := range c.stages {
		if i > 0 {
			name += ","
		}
		name += s.filter.Name()
	}
	return name + ")"
}

// HeapBytes implements Filter.HeapBytes.
func (c *Cascade) HeapBytes() int {
	total := 0
	for _, s := range c.stages {
		total += s.filter.HeapBytes()
	}
	return total
}

// Exact implements Filter.Exact.
func (c *Cascade) Exact() bool {
	return len(c.stages) > 0 && c.stages[len(c.stages)-1].filter.Exact()
}

// Pattern returns the compiled pattern of the exact stage, or nil when the
// cascade was not built by Builder.
func (c *Cascade) Pattern() *bpm.Pattern {
	return c.pattern
}

// Stages returns per-stage statistics.
func (c *Cascade) Stages() []StageStats {
	out := make([]StageStats, 0, len(c.stages))
	for _, s := range c.stages {
		st := StageStats{
			Name:      s.filter.Name(),
			Exact:     s.filter.Exact(),
			Evaluated: s.scored,
			Rejected:  s.rejected,
			Active:    s.tracker == nil || s.tracker.IsActive(),
			HeapBytes: s.filter.HeapBytes(),
		}
		if s.scored > 0 {
			st.Efficiency = float64(s.rejected) / float64(s.scored)
		}
		out = append(out, st)
	}
	return out
}

// ResetStats clears the counters and re-enables retired stages.
func (c *Cascade) ResetStats() {
	for _, s := range c.stages {
		s.scored, s.rejected = 0, 0
		if s.tracker != nil {
			s.tracker.Reset()
		}
	}
}

// Release releases the memory of every stage that owns any. Calling it more
// than once is a no-op.
func (c *Cascade) Release() {
	for _, s := range c.stages {
		if r, ok := s.filter.(releaser); ok {
			r.Release()
		}
	}
	for _, r := range c.owned {
		r.Release()
	}
	if c.arena != nil {
		c.arena.Release()
	}
}
