package seqfilter

import (
	"errors"
	"math"

	"github.com/coregx/seqfilter/kmer"
	"github.com/coregx/seqfilter/prefilter"
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid config")

// Config controls filter construction and the acceptance budget.
//
// Configuration options affect:
//   - The error budget used by Accept and AcceptAll
//   - Which cascade stages run before the exact distance
//   - Stage retirement
//
// Example:
//
//	config := seqfilter.DefaultConfig()
//	config.MaxError = 3        // absolute budget
//	config.EnableSeed = false  // k-mer and BPM only
//	f, err := seqfilter.CompileWithConfig(pattern, config)
type Config struct {
	// MaxError is the error budget. Values >= 1 are an absolute number of
	// edits (truncated); values below 1 are a fraction of the pattern length,
	// rounded up.
	// Default: 0.05
	MaxError float64

	// EnableKmer enables the k-mer counting stage.
	// Default: true
	EnableKmer bool

	// KmerLength is the k-mer length of the k-mer stage.
	// Default: 5
	KmerLength int

	// EnableSeed enables the pigeonhole seed stage.
	// Default: true
	EnableSeed bool

	// QuickAbandon lets the exact stage stop scanning once the budget is out
	// of reach.
	// Default: true
	QuickAbandon bool

	// EnableTracker retires cheap stages that reject too few candidates.
	// Default: true
	EnableTracker bool

	// Tracker configures stage retirement.
	// Default: prefilter.DefaultTrackerConfig()
	Tracker prefilter.TrackerConfig
}

// DefaultConfig returns a configuration with sensible defaults.
//
//   - 5% error budget
//   - k-mer (k=5) and seed stages ahead of the exact distance
//   - Quick abandon and stage retirement enabled
func DefaultConfig() Config {
	return Config{
		MaxError:      0.05,
		EnableKmer:    true,
		KmerLength:    5,
		EnableSeed:    true,
		QuickAbandon:  true,
		EnableTracker: true,
		Tracker:       prefilter.DefaultTrackerConfig(),
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MaxError: finite, >= 0
//   - KmerLength: kmer.MinK to kmer.MaxK (when EnableKmer)
//   - Tracker.MinEfficiency: 0 to 1 (when EnableTracker)
func (c Config) Validate() error {
	if math.IsNaN(c.MaxError) || math.IsInf(c.MaxError, 0) || c.MaxError < 0 {
		return &ConfigError{
			Field:   "MaxError",
			Message: "must be a finite non-negative number",
		}
	}

	if c.EnableKmer {
		if c.KmerLength < kmer.MinK || c.KmerLength > kmer.MaxK {
			return &ConfigError{
				Field:   "KmerLength",
				Message: "must be between 3 and 13",
			}
		}
	}

	if c.EnableTracker {
		if c.Tracker.MinEfficiency < 0 || c.Tracker.MinEfficiency > 1 {
			return &ConfigError{
				Field:   "Tracker.MinEfficiency",
				Message: "must be between 0 and 1",
			}
		}
	}

	return nil
}

// options maps the configuration onto the cascade builder.
func (c Config) options() prefilter.Options {
	return prefilter.Options{
		EnableKmer:    c.EnableKmer,
		KmerLength:    c.KmerLength,
		EnableSeed:    c.EnableSeed,
		QuickAbandon:  c.QuickAbandon,
		EnableTracker: c.EnableTracker,
		Tracker:       c.Tracker,
	}
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "seqfilter: invalid config: " + e.Field + ": " + e.Message
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// MaxErrorFor converts an error rate into an absolute budget for a pattern
// of patternLength bases. A rate >= 1 is already absolute and is truncated;
// a smaller rate is scaled by the length and rounded up. Negative and NaN
// rates give a zero budget.
//
// Example:
//
//	seqfilter.MaxErrorFor(100, 0.05) // 5
//	seqfilter.MaxErrorFor(101, 0.05) // 6
//	seqfilter.MaxErrorFor(100, 3)    // 3
func MaxErrorFor(patternLength int, rate float64) int {
	switch {
	case rate >= math.MaxInt:
		return math.MaxInt
	case rate >= 1:
		return int(rate)
	case rate <= 0 || math.IsNaN(rate):
		return 0
	default:
		return int(math.Ceil(rate * float64(patternLength)))
	}
}
