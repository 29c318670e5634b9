// Package tiling splits a pattern into horizontal tiles and gives each tile
// the window of the candidate sequence it has to be aligned against.
//
// With a pattern of length m, a sequence of length n and an error budget e,
// every alignment stays inside a band of width n - m + 2e. Tile i covers
// pattern rows [sum of previous heights, + Height) and sequence columns
// [Offset, Offset+Width). Consecutive windows overlap so that an alignment
// crossing a tile boundary is fully contained in both neighbours.
//
// Example:
//
//	plan, err := tiling.New(10, 4, 10, 1)
//	if err != nil {
//	    return err
//	}
//	for _, t := range plan.All() {
//	    fmt.Println(t.Offset, t.Width, t.Height) // 0 5 4, 3 6 4, 7 3 2
//	}
package tiling

import (
	"errors"
	"fmt"
)

// ErrInvalidDimensions is the error class of every rejected tiling request.
var ErrInvalidDimensions = errors.New("invalid tiling dimensions")

// DimensionError describes the rejected dimensions.
type DimensionError struct {
	PatternLength  int
	TileHeight     int
	SequenceLength int
	MaxError       int
	Reason         string
}

// Error implements the error interface.
func (e *DimensionError) Error() string {
	return fmt.Sprintf("tiling: pattern=%d tile=%d sequence=%d maxError=%d: %s",
		e.PatternLength, e.TileHeight, e.SequenceLength, e.MaxError, e.Reason)
}

// Unwrap returns ErrInvalidDimensions.
func (e *DimensionError) Unwrap() error {
	return ErrInvalidDimensions
}

// Tile is one pattern slice and its sequence window.
type Tile struct {
	Offset int // first sequence column
	Width  int // sequence columns
	Height int // pattern rows
}

// End returns the first sequence column past the tile window.
func (t Tile) End() int {
	return t.Offset + t.Width
}

// Plan is a forward-only generator of tiles.
type Plan struct {
	tileHeight     int
	sequenceLength int
	bandWidth      int

	remaining int
	nextInc   int
	current   Tile
	done      bool
}

// New plans the tiles of a patternLength-row pattern cut into tileHeight rows
// against a sequenceLength-column candidate with at most maxError edits.
//
// The sequence must be long enough to hold the pattern within the error
// budget (sequenceLength - patternLength + 2*maxError >= 0).
func New(patternLength, tileHeight, sequenceLength, maxError int) (*Plan, error) {
	dimErr := func(reason string) error {
		return &DimensionError{
			PatternLength:  patternLength,
			TileHeight:     tileHeight,
			SequenceLength: sequenceLength,
			MaxError:       maxError,
			Reason:         reason,
		}
	}
	switch {
	case patternLength < 0 || sequenceLength < 0 || maxError < 0:
		return nil, dimErr("negative dimension")
	case tileHeight <= 0:
		return nil, dimErr("tile height must be positive")
	}
	bandWidth := sequenceLength - patternLength + 2*maxError
	if bandWidth < 0 {
		return nil, dimErr("sequence too short for the pattern and error budget")
	}

	p := &Plan{
		tileHeight:     tileHeight,
		sequenceLength: sequenceLength,
		bandWidth:      bandWidth,
		remaining:      patternLength,
		nextInc:        max(tileHeight-maxError, 0),
	}
	p.current = Tile{Height: min(tileHeight, patternLength)}
	p.current.Width = p.clipWidth(0, bandWidth+p.nextInc)
	p.done = patternLength == 0
	return p, nil
}

func (p *Plan) clipWidth(offset, width int) int {
	if offset+width > p.sequenceLength {
		width = p.sequenceLength - offset
	}
	return max(width, 0)
}

// Tile returns the current tile.
func (p *Plan) Tile() Tile {
	return p.current
}

// Done reports whether every pattern row has been handed out.
func (p *Plan) Done() bool {
	return p.done
}

// BandWidth returns sequenceLength - patternLength + 2*maxError.
func (p *Plan) BandWidth() int {
	return p.bandWidth
}

// Next advances to the following tile and reports whether one exists.
func (p *Plan) Next() bool {
	if p.done {
		return false
	}
	p.remaining -= p.current.Height
	if p.remaining <= 0 {
		p.done = true
		return false
	}

	offset := p.current.Offset + p.nextInc
	p.nextInc = p.current.Height
	height := min(p.current.Height, p.remaining)
	p.current = Tile{
		Offset: offset,
		Width:  p.clipWidth(offset, p.bandWidth+p.nextInc),
		Height: height,
	}
	return true
}

// All drains the plan, starting with the current tile.
func (p *Plan) All() []Tile {
	if p.done {
		return nil
	}
	tiles := []Tile{p.current}
	for p.Next() {
		tiles = append(tiles, p.current)
	}
	return tiles
}
