package bpm

import "github.com/coregx/seqfilter/alphabet"

// reset initializes the first levels blocks to the ends-free initial column,
// where row v has distance v.
func (p *Pattern) reset(levels int) {
	p.p[0] = wordOnes
	p.m[0] = 0
	p.score[0] = p.initScore[0]
	for i := 1; i < levels; i++ {
		p.p[i] = wordOnes
		p.m[i] = 0
		p.score[i] = p.score[i-1] + p.initScore[i]
	}
}

// Distance returns the semi-global edit distance between the pattern and text:
// the minimum, over all text end positions, of the cost of aligning the whole
// pattern against a text substring ending there.
//
// Degenerate inputs: an empty text yields Len(); an empty pattern yields
// len(text).
func (p *Pattern) Distance(text []byte) int {
	if p.length == 0 {
		return len(text)
	}
	if len(text) == 0 {
		return p.length
	}

	numBlocks := p.numBlocks
	last := numBlocks - 1
	p.reset(numBlocks)

	minScore := NoMatch
	for _, c := range text {
		code := int(alphabet.Encode(c))
		carry := 0
		for i := 0; i < numBlocks; i++ {
			var hout int
			p.p[i], p.m[i], hout = advanceBlock(
				p.peq[i*alphabet.Size+code], p.levelMask[i], p.p[i], p.m[i], carry)
			p.score[i] += int64(hout)
			carry = hout
		}
		if s := int(p.score[last]); s < minScore {
			minScore = s
		}
	}
	return minScore
}

// DistanceCutoff returns Distance(text) if it is <= maxDistance and NoMatch
// otherwise.
//
// Only the lowest blocks whose scores can still reach maxDistance are
// advanced; the band grows by one block when the top active block gets
// within reach and shrinks while the top block cannot recover. maxDistance is
// clamped to Len()-1.
//
// With quickAbandon set, the scan stops as soon as the remaining text is too
// short for any alignment to come back within the bound. This only affects
// running time, never the accept/reject outcome.
func (p *Pattern) DistanceCutoff(text []byte, maxDistance int, quickAbandon bool) int {
	if maxDistance < 0 {
		return NoMatch
	}
	if p.length == 0 {
		if len(text) <= maxDistance {
			return len(text)
		}
		return NoMatch
	}
	if maxDistance >= p.length {
		maxDistance = p.length - 1
	}

	maxD := int64(maxDistance)
	numBlocks := p.numBlocks
	top := numBlocks - 1
	topLevel := p.resetCutoff(maxDistance)

	minScore := NoMatch
	textLeft := int64(len(text))
	for _, c := range text {
		code := int(alphabet.Encode(c))

		// Advance active blocks
		carry := 0
		for i := 0; i < topLevel; i++ {
			var hout int
			p.p[i], p.m[i], hout = advanceBlock(
				p.peq[i*alphabet.Size+code], p.levelMask[i], p.p[i], p.m[i], carry)
			p.score[i] += int64(hout)
			carry = hout
		}

		// Adjust the band
		last := topLevel - 1
		grown := false
		if p.score[last] <= maxD+1 && last < top {
			// Score of the last active row in the previous column.
			lastScore := p.score[last] - int64(carry)
			eq := p.peq[topLevel*alphabet.Size+code]
			if lastScore <= maxD && (carry < 0 || eq&1 != 0) {
				var hout int
				p.p[topLevel], p.m[topLevel], hout = advanceBlock(
					eq, p.levelMask[topLevel], wordOnes, 0, carry)
				p.score[topLevel] = lastScore + p.initScore[topLevel] + int64(hout)
				topLevel++
				grown = true
			}
		}
		if !grown {
			for topLevel > 1 && p.score[topLevel-1] > maxD+p.initScore[topLevel-1] {
				topLevel--
			}
		}

		// Check match
		current := p.score[topLevel-1]
		if topLevel == numBlocks && current <= maxD {
			if int(current) < minScore {
				minScore = int(current)
			}
		} else if quickAbandon && minScore == NoMatch &&
			current+p.patternLeft[topLevel] > textLeft+maxD {
			return NoMatch
		}
		textLeft--
	}
	return minScore
}

// resetCutoff resets the initial band, max(1, ceil(maxDistance/64)) blocks,
// and returns its height in blocks.
func (p *Pattern) resetCutoff(maxDistance int) int {
	topLevel := 1
	if maxDistance > 0 {
		topLevel = (maxDistance + wordLength - 1) / wordLength
	}
	if topLevel > p.numBlocks {
		topLevel = p.numBlocks
	}
	p.reset(topLevel)
	return topLevel
}
