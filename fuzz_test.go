// Fuzz tests comparing filter decisions against the dynamic-programming
// distance.
//
// Run fuzz tests with:
//
//	go test -fuzz=FuzzAccept -fuzztime=30s
//	go test -fuzz=FuzzDistanceCutoff -fuzztime=30s
package seqfilter

import (
	"testing"

	"github.com/coregx/seqfilter/internal/editdp"
)

var seedPairs = []struct {
	pattern, text string
}{
	{"ACGT", "ACGT"},
	{"ACGT", "AGT"},
	{"GATTACA", "TTGATTTACATT"},
	{"ACGTACGT", "ACGAACGA"},
	{"ACGNACGT", "ACGTACGT"},
	{"acgtacgtacgt", "ACGTACGTACGT"},
	{"ACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGTACGT", "TTACGTACGTACGTACGTACGTACGTACGTACGTTCGTACGTACGTACGTACGTACGTACGTACGTACGTAA"},
	{"ACGT", ""},
}

func FuzzAccept(f *testing.F) {
	for _, s := range seedPairs {
		f.Add([]byte(s.pattern), []byte(s.text), uint8(1))
	}

	f.Fuzz(func(t *testing.T, pattern, text []byte, budget uint8) {
		if len(pattern) == 0 || len(pattern) > 300 || len(text) > 600 {
			t.Skip()
		}
		config := DefaultConfig()
		config.MaxError = float64(budget%16) + 1
		fl, err := CompileWithConfig(pattern, config)
		if err != nil {
			t.Fatal(err)
		}
		defer fl.Release()

		d := editdp.Distance(pattern, text)
		if got, want := fl.Accept(text), d <= fl.MaxError(); got != want {
			t.Fatalf("Accept(%q, %q) = %v, distance %d, maxError %d", pattern, text, got, d, fl.MaxError())
		}
		if got := fl.Distance(text); got != d {
			t.Fatalf("Distance(%q, %q) = %d, want %d", pattern, text, got, d)
		}
	})
}

func FuzzDistanceCutoff(f *testing.F) {
	for _, s := range seedPairs {
		f.Add([]byte(s.pattern), []byte(s.text), 2)
	}

	f.Fuzz(func(t *testing.T, pattern, text []byte, maxError int) {
		if len(pattern) > 300 || len(text) > 600 || maxError > 1000 {
			t.Skip()
		}
		fl := MustCompile(pattern)
		defer fl.Release()

		d := editdp.Distance(pattern, text)
		got := fl.DistanceCutoff(text, maxError)
		switch {
		case maxError < 0:
			if got != Infeasible {
				t.Fatalf("negative budget: got %d", got)
			}
		case d <= maxError:
			if got != d {
				t.Fatalf("DistanceCutoff(%q, %q, %d) = %d, want %d", pattern, text, maxError, got, d)
			}
		default:
			if got != Infeasible {
				t.Fatalf("DistanceCutoff(%q, %q, %d) = %d, want Infeasible (distance %d)", pattern, text, maxError, got, d)
			}
		}
	})
}
