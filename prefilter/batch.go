package prefilter

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/coregx/seqfilter/internal/conv"
)

// Batch runs f on every candidate and returns the indices of the accepted
// ones.
//
// Example:
//
//	accepted := prefilter.Batch(c, candidates, 2)
//	it := accepted.Iterator()
//	for it.HasNext() {
//	    verify(candidates[it.Next()])
//	}
func Batch(f Filter, texts [][]byte, maxError int) *roaring.Bitmap {
	accepted := roaring.New()
	if maxError < 0 {
		return accepted
	}
	for i, text := range texts {
		if f.Bound(text, maxError) <= maxError {
			accepted.Add(conv.IntToUint32(i))
		}
	}
	accepted.RunOptimize()
	return accepted
}

// Rejected returns the complement of accepted over n candidates.
func Rejected(accepted *roaring.Bitmap, n int) *roaring.Bitmap {
	all := roaring.New()
	all.AddRange(0, uint64(conv.IntToUint32(n)))
	all.AndNot(accepted)
	return all
}
