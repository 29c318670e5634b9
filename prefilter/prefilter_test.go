package prefilter

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/coregx/seqfilter/bpm"
	"github.com/coregx/seqfilter/internal/editdp"
	"github.com/coregx/seqfilter/kmer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPattern = "ACGTACGTAC"

func TestBPMFilter(t *testing.T) {
	p := bpm.Compile([]byte("ACGT"), nil)
	defer p.Release()
	f := NewBPM(p, true)

	assert.Equal(t, "bpm", f.Name())
	assert.True(t, f.Exact())
	assert.Positive(t, f.HeapBytes())

	assert.Equal(t, 0, f.Bound([]byte("GGACGTGG"), 1))
	assert.Equal(t, 1, f.Bound([]byte("AGT"), 1))
	assert.Equal(t, NoMatch, f.Bound([]byte("TTTT"), 1))
	assert.Equal(t, NoMatch, f.Bound([]byte("ACGT"), -1))

	// A budget covering the whole pattern returns the plain distance.
	assert.Equal(t, 3, f.Bound([]byte("TTTT"), 4))
	assert.True(t, Accept(f, []byte("TTTT"), 4))
}

func TestKmerFilter(t *testing.T) {
	prof, err := kmer.New(3, nil)
	require.NoError(t, err)
	defer prof.Release()
	prof.BuildPatternHistogram([]byte("ACGTACGT"))

	f := NewKmer(prof)
	assert.Equal(t, "kmer", f.Name())
	assert.False(t, f.Exact())
	assert.Equal(t, 1, f.Bound([]byte("ACGTTCGT"), 0))
	assert.Equal(t, NoMatch, f.Bound([]byte("ACGTTCGT"), -1))
}

// An accepted text may stop the k-mer scan early; its bound must still not
// exceed the true distance.
func TestKmerFilter_AcceptedBoundIsLowerBound(t *testing.T) {
	pattern := []byte("ACGTTGCAAGCTTACGGATC")
	prof, err := kmer.New(3, nil)
	require.NoError(t, err)
	defer prof.Release()
	prof.BuildPatternHistogram(pattern)

	f := NewKmer(prof)
	for maxError := 0; maxError <= 6; maxError++ {
		assert.Equal(t, 0, f.Bound(pattern, maxError), "maxError=%d", maxError)
	}

	text := []byte("ACGTTGCAAGATTACGGATC")
	d := editdp.Distance(pattern, text)
	for maxError := 0; maxError <= 6; maxError++ {
		b := f.Bound(text, maxError)
		assert.LessOrEqual(t, b, d, "maxError=%d", maxError)
		assert.Equal(t, prof.MinErrorBound(text) <= maxError, b <= maxError, "maxError=%d", maxError)
	}
}

func TestSeedFilter(t *testing.T) {
	f := NewSeed([]byte(testPattern))
	assert.Equal(t, "seed", f.Name())
	assert.False(t, f.Exact())

	tests := []struct {
		text     string
		maxError int
		want     int
	}{
		{"GGACGTAGG", 1, 0},  // contains ACGTA
		{"ggacgtagg", 1, 0},  // lowercase text
		{"TTTTTTTTTT", 1, 2}, // no seed
		{"GGACNTAGG", 1, 2},  // ambiguous base breaks the seed
		{"ACGTACGTAC", 0, 0},
		{"ACGTACGTAA", 0, 1},
		{"ACGTACGTAA", -1, NoMatch},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Bound([]byte(tt.text), tt.maxError),
			"Bound(%q, %d)", tt.text, tt.maxError)
	}
}

func TestSeedFilter_Seeds(t *testing.T) {
	f := NewSeed([]byte(testPattern))

	f.Bound(nil, 1)
	assert.Equal(t, [][]byte{[]byte("ACGTA"), []byte("CGTAC")}, f.Seeds())

	f.Bound(nil, 2)
	assert.Equal(t, [][]byte{[]byte("ACG"), []byte("TAC"), []byte("GTAC")}, f.Seeds())

	start, end := f.Locate([]byte("TTTTTACTTT"), 2)
	assert.Equal(t, 4, start)
	assert.Equal(t, 7, end)

	start, end = f.Locate([]byte("TTTTTTTTTT"), 2)
	assert.Equal(t, -1, start)
	assert.Equal(t, -1, end)
}

func TestSeedFilter_Degenerate(t *testing.T) {
	// Identical pieces are searched once.
	dup := NewSeed([]byte("ACGACG"))
	assert.Equal(t, 0, dup.Bound([]byte("TTACGTT"), 1))
	assert.Len(t, dup.Seeds(), 1)

	// Every piece holds an N: no piece can survive intact.
	ambiguous := NewSeed([]byte("ANGTNC"))
	assert.Equal(t, 2, ambiguous.Bound([]byte("ANGTNC"), 1))
	assert.Empty(t, ambiguous.Seeds())

	// More pieces than bases: accept everything.
	short := NewSeed([]byte("ACG"))
	assert.Equal(t, 0, short.Bound([]byte("TTTT"), 5))

	empty := NewSeed(nil)
	assert.Equal(t, 0, empty.Bound([]byte("TTTT"), 0))
}

// Each ambiguous pattern base costs one edit whatever the text holds.
func TestSeedFilter_AmbiguousCount(t *testing.T) {
	pattern := []byte("ACNNNGTACGT")
	f := NewSeed(pattern)

	assert.Equal(t, 3, f.Bound([]byte("ACGTACGTACGT"), 2))
	assert.LessOrEqual(t, 3, editdp.Distance(pattern, []byte("ACGTACGTACGT")))

	assert.Equal(t, [][]byte{[]byte("TACGT")}, f.Seeds())

	// With enough budget the pieces decide: AC and TACGT are searched.
	assert.Equal(t, 0, f.Bound([]byte("TTAC"), 3))
	assert.Equal(t, [][]byte{[]byte("AC"), []byte("TACGT")}, f.Seeds())
	assert.Equal(t, 4, f.Bound([]byte("GGGG"), 3))
}

func TestBuilder(t *testing.T) {
	c, err := NewBuilder([]byte(testPattern), DefaultOptions()).Build()
	require.NoError(t, err)
	defer c.Release()

	assert.Equal(t, "cascade(kmer,seed,bpm)", c.Name())
	assert.True(t, c.Exact())
	assert.Positive(t, c.HeapBytes())
	require.NotNil(t, c.Pattern())
	assert.Equal(t, len(testPattern), c.Pattern().Len())

	opts := DefaultOptions()
	short, err := NewBuilder([]byte("ACG"), opts).Build()
	require.NoError(t, err)
	assert.Equal(t, "cascade(seed,bpm)", short.Name())
	short.Release()
	short.Release()

	opts.EnableSeed = false
	opts.EnableKmer = false
	bare, err := NewBuilder([]byte(testPattern), opts).Build()
	require.NoError(t, err)
	assert.Equal(t, "cascade(bpm)", bare.Name())
	bare.Release()
}

func TestBuilder_InvalidKmerLength(t *testing.T) {
	opts := DefaultOptions()
	opts.KmerLength = 20
	c, err := NewBuilder([]byte(testPattern), opts).Build()
	assert.Nil(t, c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kmer.ErrInvalidKmerLength))

	// Irrelevant when the stage is disabled.
	opts.EnableKmer = false
	c, err = NewBuilder([]byte(testPattern), opts).Build()
	require.NoError(t, err)
	c.Release()
}

func TestCascade_Concrete(t *testing.T) {
	c, err := NewBuilder([]byte(testPattern), DefaultOptions()).Build()
	require.NoError(t, err)
	defer c.Release()

	assert.Equal(t, 0, c.Bound([]byte("GGACGTACGTACGG"), 1))
	assert.Equal(t, 1, c.Bound([]byte("GGACGTTCGTACGG"), 1))
	assert.Greater(t, c.Bound([]byte("TTTTTTTTTT"), 1), 1)
	assert.False(t, c.Accept([]byte("ACGTAAAAAA"), 1))
	assert.True(t, c.Accept([]byte("ACGTAAAAAA"), 4))
	assert.Equal(t, NoMatch, c.Bound([]byte(testPattern), -1))

	stages := c.Stages()
	require.Len(t, stages, 3)
	assert.Equal(t, "kmer", stages[0].Name)
	assert.Equal(t, uint64(5), stages[0].Evaluated)
	assert.True(t, stages[2].Exact)
}

// The cascade must decide exactly like the exact stage alone, and report the
// true distance for every accepted text.
func TestCascade_MatchesBPM(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	opts := DefaultOptions()
	opts.KmerLength = 4

	for i := 0; i < 200; i++ {
		pattern := randomSeq(rng, 1+rng.Intn(90), "ACGTN")
		c, err := NewBuilder(pattern, opts).Build()
		require.NoError(t, err)
		exact := bpm.Compile(pattern, nil)
		ref := NewBPM(exact, false)

		for j := 0; j < 10; j++ {
			text := randomSeq(rng, rng.Intn(120), "ACGT")
			if rng.Intn(2) == 0 {
				text = mutate(rng, embed(text, pattern), rng.Intn(8))
			}
			maxError := rng.Intn(len(pattern)/3 + 2)

			got := c.Bound(text, maxError)
			want := ref.Bound(text, maxError)
			require.Equal(t, want <= maxError, got <= maxError,
				"pattern=%q text=%q maxError=%d", pattern, text, maxError)
			if got <= maxError {
				require.Equal(t, editdp.Distance(pattern, text), got)
			}
		}
		exact.Release()
		c.Release()
	}
}

func TestCascade_TrackerRetiresStage(t *testing.T) {
	prof, err := kmer.New(3, nil)
	require.NoError(t, err)
	defer prof.Release()
	prof.BuildPatternHistogram([]byte(testPattern))
	p := bpm.Compile([]byte(testPattern), nil)
	defer p.Release()

	c := NewCascade(NewKmer(prof), NewBPM(p, true))
	c.EnableTracking(TrackerConfig{CheckInterval: 1, MinEfficiency: 0.5, WarmupPeriod: 4})

	for i := 0; i < 10; i++ {
		require.True(t, c.Accept([]byte(testPattern), 0))
	}

	stages := c.Stages()
	assert.False(t, stages[0].Active, "k-mer stage never rejects and must retire")
	assert.Equal(t, uint64(4), stages[0].Evaluated)
	assert.True(t, stages[1].Active, "the final stage always runs")
	assert.Equal(t, uint64(10), stages[1].Evaluated)

	// Retired stages no longer reject, the exact stage still does.
	assert.False(t, c.Accept([]byte("TTTTTTTTTT"), 1))

	c.ResetStats()
	stages = c.Stages()
	assert.True(t, stages[0].Active)
	assert.Zero(t, stages[0].Evaluated)
}

func TestCascade_Empty(t *testing.T) {
	c := NewCascade()
	assert.Equal(t, NoMatch, c.Bound([]byte("ACGT"), 3))
	assert.False(t, c.Exact())
	assert.Equal(t, "cascade()", c.Name())
}

func TestStats(t *testing.T) {
	var s Stats
	s.Record(true, true)
	s.Record(true, false)
	s.Record(false, false)
	s.Record(false, false)

	assert.Equal(t, uint64(4), s.Total())
	assert.InDelta(t, 0.75, s.Accuracy(), 1e-9)
	assert.InDelta(t, 1.0/3.0, s.FalsePositiveRate(), 1e-9)
	assert.Zero(t, s.FalseNegativeRate())
	assert.True(t, s.Sound())
	assert.True(t, strings.Contains(s.String(), "tp=1 (25.000%)"), s.String())

	s.Record(false, true)
	assert.False(t, s.Sound())

	var sum Stats
	sum.Add(s)
	sum.Add(s)
	assert.Equal(t, uint64(10), sum.Total())

	var empty Stats
	assert.Zero(t, empty.Accuracy())
}

func TestEvaluate_FiltersAreSound(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	pattern := randomSeq(rng, 60, "ACGT")

	texts := make([][]byte, 300)
	for i := range texts {
		if i%2 == 0 {
			texts[i] = mutate(rng, embed(randomSeq(rng, 40, "ACGT"), pattern), rng.Intn(10))
		} else {
			texts[i] = randomSeq(rng, 100, "ACGTN")
		}
	}

	prof, err := kmer.New(5, nil)
	require.NoError(t, err)
	defer prof.Release()
	prof.BuildPatternHistogram(pattern)

	c, err := NewBuilder(pattern, DefaultOptions()).Build()
	require.NoError(t, err)
	defer c.Release()

	for _, f := range []Filter{NewKmer(prof), NewSeed(pattern), c} {
		stats := Evaluate(f, pattern, texts, 4)
		assert.Equal(t, uint64(len(texts)), stats.Total(), f.Name())
		assert.True(t, stats.Sound(), "%s: %s", f.Name(), stats)
	}

	// The exact cascade never accepts a text over budget either.
	stats := Evaluate(c, pattern, texts, 4)
	assert.Zero(t, stats.FalsePositives)
	assert.Positive(t, stats.TruePositives)
}

func TestChecker_Record(t *testing.T) {
	c := NewChecker([]byte("ACGT"))
	c.Record(true, []byte("ACGT"), 0)
	c.Record(true, []byte("TTTT"), 0)
	c.Record(false, []byte("ACCT"), 1)
	assert.Equal(t, Stats{TruePositives: 1, FalsePositives: 1, FalseNegatives: 1}, c.Stats())

	c.Reset()
	assert.Zero(t, c.Stats().Total())
}

func TestBatch(t *testing.T) {
	c, err := NewBuilder([]byte(testPattern), DefaultOptions()).Build()
	require.NoError(t, err)
	defer c.Release()

	texts := [][]byte{
		[]byte("GGACGTACGTACGG"), // 0 edits
		[]byte("TTTTTTTTTT"),     // 8
		[]byte("GGACGTTCGTACGG"), // 1
		[]byte("ACGTAAAAAA"),     // 4
	}

	accepted := Batch(c, texts, 1)
	assert.Equal(t, []uint32{0, 2}, accepted.ToArray())

	rejected := Rejected(accepted, len(texts))
	assert.Equal(t, []uint32{1, 3}, rejected.ToArray())

	assert.True(t, Batch(c, texts, -1).IsEmpty())
	assert.Equal(t, uint64(4), Batch(c, texts, 8).GetCardinality())
}

func randomSeq(rng *rand.Rand, n int, alphabet string) []byte {
	s := make([]byte, n)
	for i := range s {
		s[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return s
}

func embed(text, pattern []byte) []byte {
	at := len(text) / 2
	out := append([]byte(nil), text[:at]...)
	out = append(out, pattern...)
	return append(out, text[at:]...)
}

func mutate(rng *rand.Rand, s []byte, edits int) []byte {
	out := append([]byte(nil), s...)
	for i := 0; i < edits && len(out) > 0; i++ {
		j := rng.Intn(len(out))
		switch rng.Intn(3) {
		case 0:
			out[j] = "ACGT"[rng.Intn(4)]
		case 1:
			out = append(out[:j], out[j+1:]...)
		default:
			out = append(out[:j], append([]byte{"ACGT"[rng.Intn(4)]}, out[j:]...)...)
		}
	}
	return out
}

func BenchmarkCascade(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	pattern := randomSeq(rng, 100, "ACGT")
	texts := make([][]byte, 256)
	for i := range texts {
		texts[i] = randomSeq(rng, 150, "ACGT")
	}

	c, err := NewBuilder(pattern, DefaultOptions()).Build()
	if err != nil {
		b.Fatal(err)
	}
	defer c.Release()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Accept(texts[i%len(texts)], 5)
	}
}
