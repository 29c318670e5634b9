package prefilter

// Tracker monitors how often a non-exact cascade stage rejects candidates.
//
// A stage that almost never rejects costs a full scan of every text for no
// benefit. The tracker counts evaluations and rejections; when the
// rejection ratio drops below a threshold after a warmup period, the stage
// is retired and the cascade skips it from then on.
//
// Algorithm:
//  1. Track evaluations (texts scored) and rejections (bound > maxError)
//  2. Every N evaluations, check the rejection ratio
//  3. If ratio < threshold, retire the stage
//  4. Once retired, never re-enable (until Reset)
//
// Example usage:
//
//	tracker := prefilter.NewTracker()
//	if tracker.IsActive() {
//	    rejected := f.Bound(text, maxError) > maxError
//	    tracker.Observe(rejected)
//	}
type Tracker struct {
	// Statistics
	evaluations uint64 // Texts scored by the stage
	rejections  uint64 // Texts the stage rejected

	// Configuration
	checkInterval  uint64  // Check effectiveness every N evaluations
	minEfficiency  float64 // Minimum required rejection ratio (0.0 to 1.0)
	warmupPeriod   uint64  // Don't retire until this many evaluations
	lastCheckpoint uint64  // Evaluations at last checkpoint

	// State
	active bool // Whether the stage is still run
}

// TrackerConfig holds configuration for the stage tracker.
type TrackerConfig struct {
	// CheckInterval is how often to check effectiveness (in evaluations).
	// Default: 64
	CheckInterval uint64

	// MinEfficiency is the minimum acceptable ratio of rejections to
	// evaluations. If the ratio drops below this, the stage is retired.
	// Default: 0.1 (10%)
	MinEfficiency float64

	// WarmupPeriod is the minimum number of evaluations before checking
	// effectiveness. This prevents premature retirement on small samples.
	// Default: 128
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns the default tracker configuration.
//
//   - CheckInterval: 64 (check frequently but not every text)
//   - MinEfficiency: 0.1 (retire if the stage passes >90% of texts)
//   - WarmupPeriod: 128 (need enough samples for statistical significance)
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CheckInterval: 64,
		MinEfficiency: 0.1,
		WarmupPeriod:  128,
	}
}

// NewTracker creates a tracker with the default config.
func NewTracker() *Tracker {
	return NewTrackerWithConfig(DefaultTrackerConfig())
}

// NewTrackerWithConfig creates a tracker with custom configuration. A zero
// CheckInterval checks on every evaluation after warmup.
func NewTrackerWithConfig(config TrackerConfig) *Tracker {
	return &Tracker{
		checkInterval: max(config.CheckInterval, 1),
		minEfficiency: config.MinEfficiency,
		warmupPeriod:  config.WarmupPeriod,
		active:        true,
	}
}

// Observe records one evaluation of the stage and whether it rejected the
// text. Observations on a retired tracker are ignored.
func (t *Tracker) Observe(rejected bool) {
	if !t.active {
		return
	}
	t.evaluations++
	if rejected {
		t.rejections++
	}
	t.checkEffectiveness()
}

// IsActive returns true if the stage is still being run.
func (t *Tracker) IsActive() bool {
	return t.active
}

// Stats returns the current tracking statistics.
//
// Returns (evaluations, rejections, efficiency, active).
func (t *Tracker) Stats() (evaluations, rejections uint64, efficiency float64, active bool) {
	evaluations = t.evaluations
	rejections = t.rejections
	if evaluations > 0 {
		efficiency = float64(rejections) / float64(evaluations)
	}
	active = t.active
	return
}

// Reset clears statistics and re-enables the stage.
//
// Useful when the same cascade moves on to a different candidate source.
func (t *Tracker) Reset() {
	t.evaluations = 0
	t.rejections = 0
	t.lastCheckpoint = 0
	t.active = true
}

// checkEffectiveness evaluates whether to retire the stage.
//
// Called after each evaluation. Only performs the actual check at
// configured intervals to minimize overhead.
func (t *Tracker) checkEffectiveness() {
	// Still in warmup period
	if t.evaluations < t.warmupPeriod {
		return
	}

	// Check at intervals
	if t.evaluations-t.lastCheckpoint < t.checkInterval {
		return
	}
	t.lastCheckpoint = t.evaluations

	efficiency := float64(t.rejections) / float64(t.evaluations)
	if efficiency < t.minEfficiency {
		t.active = false
	}
}
