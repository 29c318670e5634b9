package bpm

// Horizontal carry handling. Carries are encoded as hin+1 in {0,1,2} when
// indexing the tables.
var (
	// houtTable[PHbit][MHbit] is the carry out of a block's last row.
	houtTable = [2][2]int{{0, -1}, {1, 1}}
	// pHinTable/nHinTable: bit injected into row 0 for a +1/-1 carry in.
	pHinTable = [3]uint64{0, 0, 1}
	nHinTable = [3]uint64{1, 0, 0}
)

// advanceBlock advances one 64-row block by one text column.
//
// eq is the block's PEQ row for the current text symbol, mask selects the
// block's last meaningful row, (pv, mv) encode the vertical deltas of the
// previous column and hin in {-1,0,+1} is the horizontal delta entering the
// block's first row. It returns the new vertical deltas and the horizontal
// delta leaving the block's last row.
//
//go:inline
func advanceBlock(eq, mask, pv, mv uint64, hin int) (pvOut, mvOut uint64, hout int) {
	xv := eq | mv
	eq |= nHinTable[hin+1]
	xh := (((eq & pv) + pv) ^ pv) | eq

	ph := mv | ^(xh | pv)
	mh := pv & xh

	hout = houtTable[bit(ph&mask)][bit(mh&mask)]

	ph = ph<<1 | pHinTable[hin+1]
	mh = mh<<1 | nHinTable[hin+1]

	pvOut = mh | ^(xv | ph)
	mvOut = ph & xv
	return pvOut, mvOut, hout
}

//go:inline
func bit(x uint64) int {
	if x != 0 {
		return 1
	}
	return 0
}
