// Package seqfilter decides quickly whether candidate DNA sequences can lie
// within a few edits of a pattern.
//
// seqfilter is built for read-mapping style verification, where a pattern
// (a read) is checked against many candidate regions and most candidates
// are far away:
//   - Bit-parallel edit distance (Myers' BPM) with an adaptive band
//   - k-mer counting and pigeonhole-seed lower bounds that reject most
//     candidates before any alignment is attempted
//   - Automatic retirement of lower-bound stages that stop paying off
//
// Distances are semi-global: the whole pattern is aligned, the candidate's
// ends are free. Bases are compared case-insensitively and anything outside
// ACGT is ambiguous and matches nothing.
//
// Basic usage:
//
//	f, err := seqfilter.Compile([]byte("ACGTTGCAACGT"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Release()
//
//	if f.Accept(candidate) {
//	    fmt.Println("within", f.MaxError(), "edits")
//	}
//	d := f.Distance(candidate) // exact distance
//
// Advanced usage:
//
//	config := seqfilter.DefaultConfig()
//	config.MaxError = 3
//	config.KmerLength = 8
//	f, err := seqfilter.CompileWithConfig(pattern, config)
//
// A Filter is NOT safe for concurrent use. Compile one Filter per goroutine.
package seqfilter

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/coregx/seqfilter/bpm"
	"github.com/coregx/seqfilter/prefilter"
	"github.com/coregx/seqfilter/tiling"
	"github.com/dustin/go-humanize"
	"github.com/npillmayer/schuko/tracing"
)

// Infeasible is returned by DistanceCutoff when the candidate is not within
// the requested number of edits.
const Infeasible = bpm.NoMatch

// tracer writes to trace with key 'seqfilter'
func tracer() tracing.Trace {
	return tracing.Select("seqfilter")
}

// Filter is a compiled pattern together with its filter cascade.
//
// Example:
//
//	f := seqfilter.MustCompile([]byte("GATTACA"))
//	defer f.Release()
//	f.Accept([]byte("TTGATTTACATT")) // true, one insertion
type Filter struct {
	pattern  []byte
	config   Config
	maxError int
	cascade  *prefilter.Cascade
	checker  *prefilter.Checker
}

// Compile compiles pattern with DefaultConfig.
//
// Example:
//
//	f, err := seqfilter.Compile([]byte("ACGTACGT"))
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern []byte) (*Filter, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles pattern and panics if it fails.
func MustCompile(pattern []byte) *Filter {
	f, err := Compile(pattern)
	if err != nil {
		panic("seqfilter: Compile(" + string(pattern) + "): " + err.Error())
	}
	return f
}

// CompileWithConfig compiles pattern with a custom configuration. The
// pattern is copied.
//
// Example:
//
//	config := seqfilter.DefaultConfig()
//	config.EnableKmer = false
//	f, err := seqfilter.CompileWithConfig(pattern, config)
func CompileWithConfig(pattern []byte, config Config) (*Filter, error) {
	if err := config.Validate(); err != nil {
		tracer().Errorf("compile: %v", err)
		return nil, err
	}

	pattern = append([]byte(nil), pattern...)
	cascade, err := prefilter.NewBuilder(pattern, config.options()).Build()
	if err != nil {
		tracer().Errorf("compile: %v", err)
		return nil, err
	}

	f := &Filter{
		pattern:  pattern,
		config:   config,
		maxError: MaxErrorFor(len(pattern), config.MaxError),
		cascade:  cascade,
	}
	tracer().Infof("compiled pattern length=%d maxError=%d stages=%s memory=%s",
		len(pattern), f.maxError, cascade.Name(), humanize.IBytes(uint64(cascade.HeapBytes())))
	return f, nil
}

// Pattern returns the compiled pattern. The slice must not be modified.
func (f *Filter) Pattern() []byte {
	return f.pattern
}

// Config returns the configuration the filter was compiled with.
func (f *Filter) Config() Config {
	return f.config
}

// MaxError returns the absolute error budget used by Accept and AcceptAll.
func (f *Filter) MaxError() int {
	return f.maxError
}

// Distance returns the semi-global edit distance between the pattern and
// text: the fewest edits aligning the whole pattern to any substring of
// text.
func (f *Filter) Distance(text []byte) int {
	return f.cascade.Pattern().Distance(text)
}

// DistanceCutoff returns Distance(text) when it is at most maxError, and
// Infeasible otherwise. It only runs the exact stage, so it costs no more
// than Distance and usually much less.
func (f *Filter) DistanceCutoff(text []byte, maxError int) int {
	if maxError < 0 {
		return Infeasible
	}
	if maxError >= len(f.pattern) {
		if d := f.Distance(text); d <= maxError {
			return d
		}
		return Infeasible
	}
	return f.cascade.Pattern().DistanceCutoff(text, maxError, f.config.QuickAbandon)
}

// Bound runs the cascade with an explicit budget. The result follows the
// prefilter.Filter contract: <= maxError accepts (and is then the exact
// distance), anything larger rejects.
func (f *Filter) Bound(text []byte, maxError int) int {
	return f.cascade.Bound(text, maxError)
}

// Accept reports whether text is within MaxError() edits of the pattern.
func (f *Filter) Accept(text []byte) bool {
	return f.cascade.Accept(text, f.maxError)
}

// AcceptAll runs Accept on every candidate and returns the indices of the
// accepted ones.
func (f *Filter) AcceptAll(texts [][]byte) *roaring.Bitmap {
	return prefilter.Batch(f.cascade, texts, f.maxError)
}

// Check runs Accept on text and records the decision against the dynamic
// programming distance. See Evaluation.
func (f *Filter) Check(text []byte) bool {
	if f.checker == nil {
		f.checker = prefilter.NewChecker(f.pattern)
	}
	return f.checker.Check(f.cascade, text, f.maxError)
}

// Evaluation returns the confusion matrix of the decisions recorded by
// Check.
func (f *Filter) Evaluation() prefilter.Stats {
	if f.checker == nil {
		return prefilter.Stats{}
	}
	return f.checker.Stats()
}

// Stats returns per-stage statistics of the cascade.
func (f *Filter) Stats() []prefilter.StageStats {
	return f.cascade.Stages()
}

// ResetStats clears the stage statistics and the Check matrix, and
// re-enables retired stages.
func (f *Filter) ResetStats() {
	f.cascade.ResetStats()
	if f.checker != nil {
		f.checker.Reset()
	}
}

// Tiles plans the pattern tiles of height tileHeight against a candidate of
// sequenceLength bases under the filter's error budget.
func (f *Filter) Tiles(tileHeight, sequenceLength int) ([]tiling.Tile, error) {
	plan, err := tiling.New(len(f.pattern), tileHeight, sequenceLength, f.maxError)
	if err != nil {
		return nil, err
	}
	return plan.All(), nil
}

// HeapBytes returns the memory held by the cascade.
func (f *Filter) HeapBytes() int {
	return f.cascade.HeapBytes()
}

// Release frees the filter's working memory. The filter must not be used
// afterwards. Calling Release more than once is a no-op.
func (f *Filter) Release() {
	f.cascade.Release()
}

// String returns the pattern.
func (f *Filter) String() string {
	return string(f.pattern)
}
