package prefilter

import (
	"github.com/coregx/seqfilter/bpm"
	"github.com/coregx/seqfilter/internal/arena"
	"github.com/coregx/seqfilter/kmer"
	"github.com/dustin/go-humanize"
)

// Options selects the stages of a cascade.
type Options struct {
	// EnableKmer adds the k-mer counting stage.
	EnableKmer bool

	// KmerLength is k for the k-mer stage, in [kmer.MinK, kmer.MaxK].
	// Default: 5
	KmerLength int

	// EnableSeed adds the pigeonhole seed stage.
	EnableSeed bool

	// QuickAbandon lets the BPM stage stop once the budget is out of reach.
	// Default: true
	QuickAbandon bool

	// EnableTracker retires cheap stages that reject too rarely.
	EnableTracker bool

	// Tracker configures stage retirement.
	Tracker TrackerConfig
}

// DefaultOptions returns the default cascade: k-mer (k=5), seeds and BPM
// with quick abandon, tracking enabled.
func DefaultOptions() Options {
	return Options{
		EnableKmer:    true,
		KmerLength:    5,
		EnableSeed:    true,
		QuickAbandon:  true,
		EnableTracker: true,
		Tracker:       DefaultTrackerConfig(),
	}
}

// Builder constructs the cascade for one pattern.
//
// Selection strategy (stages run in this order):
//  1. EnableKmer and len(pattern) >= k → k-mer stage
//  2. EnableSeed → seed stage
//  3. Always → BPM stage (exact)
//
// Example:
//
//	c, err := prefilter.NewBuilder([]byte("ACGTACGTAC"), prefilter.DefaultOptions()).Build()
//	if err != nil {
//	    return err
//	}
//	defer c.Release()
type Builder struct {
	pattern []byte
	options Options
}

// NewBuilder creates a builder for pattern.
func NewBuilder(pattern []byte, options Options) *Builder {
	return &Builder{pattern: pattern, options: options}
}

// Build constructs the cascade. It fails only on an invalid KmerLength
// while the k-mer stage is enabled.
func (b *Builder) Build() (*Cascade, error) {
	opts := b.options
	if opts.EnableKmer && (opts.KmerLength < kmer.MinK || opts.KmerLength > kmer.MaxK) {
		return nil, &kmer.ConfigError{
			Field: "KmerLength",
			Value: opts.KmerLength,
			Err:   kmer.ErrInvalidKmerLength,
		}
	}
	a := arena.New(0)

	var filters []Filter
	var owned []releaser
	if opts.EnableKmer && len(b.pattern) >= opts.KmerLength {
		prof, err := kmer.New(opts.KmerLength, a)
		if err != nil {
			a.Release()
			return nil, err
		}
		prof.BuildPatternHistogram(b.pattern)
		filters = append(filters, NewKmer(prof))
		owned = append(owned, prof)
	}
	if opts.EnableSeed {
		filters = append(filters, NewSeed(b.pattern))
	}
	exact := bpm.Compile(b.pattern, a)
	filters = append(filters, NewBPM(exact, opts.QuickAbandon))

	c := NewCascade(filters...)
	c.pattern = exact
	c.owned = append(owned, exact)
	c.arena = a
	if opts.EnableTracker {
		c.EnableTracking(opts.Tracker)
	}
	tracer().Debugf("prefilter: built %s for pattern length=%d memory=%s",
		c.Name(), len(b.pattern), humanize.IBytes(uint64(a.HeapBytes())))
	return c, nil
}
