// Package board models a battleships grid as a closed set of cell symbols.
//
// The wire representation is one character per cell with rows joined by
// '|'. Everything inside the service works on the symbolic type; the
// character codec lives here so projections and encoders share one
// translation.
package board

import "strings"

// Cell is one grid position's visible state.
type Cell uint8

const (
	// CellEmpty is an untouched cell.
	CellEmpty Cell = iota
	// CellHit is a struck ship segment whose ship is still afloat.
	CellHit
	// CellSunk is a segment of a fully sunk ship.
	CellSunk
	// CellMiss is a shot that struck water.
	CellMiss
)

// String returns the symbolic name used in live views.
func (c Cell) String() string {
	switch c {
	case CellHit:
		return "Hit"
	case CellSunk:
		return "Sunk"
	case CellMiss:
		return "Miss"
	default:
		return "Empty"
	}
}

// Grid is a row-major board.
type Grid [][]Cell

// Decode parses a wire-encoded board. Both sunk ('x'/'X') and miss
// ('o'/'O') casings are accepted; unknown characters decode as empty,
// matching the tolerant decoding of the reference clients.
func Decode(encoded string) Grid {
	rows := strings.Split(encoded, "|")
	grid := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, c := range row {
			cells[j] = decodeCell(c)
		}
		grid[i] = cells
	}
	return grid
}

func decodeCell(c rune) Cell {
	switch c {
	case '.':
		return CellHit
	case 'x', 'X':
		return CellSunk
	case 'o', 'O':
		return CellMiss
	default:
		return CellEmpty
	}
}

// Encode renders the grid in wire form.
func (g Grid) Encode() string {
	var b strings.Builder
	for i, row := range g {
		if i != 0 {
			b.WriteByte('|')
		}
		for _, c := range row {
			b.WriteByte(encodeCell(c))
		}
	}
	return b.String()
}

func encodeCell(c Cell) byte {
	switch c {
	case CellHit:
		return '.'
	case CellSunk:
		return 'x'
	case CellMiss:
		return 'o'
	default:
		return '?'
	}
}

// Symbols renders the grid as the symbolic strings live subscribers see.
func (g Grid) Symbols() [][]string {
	out := make([][]string, len(g))
	for i, row := range g {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = c.String()
		}
	}
	return out
}

// At returns the cell at (x, y), treating out-of-range positions as empty.
func (g Grid) At(x, y int) Cell {
	if x < 0 || x >= len(g) {
		return CellEmpty
	}
	row := g[x]
	if y < 0 || y >= len(row) {
		return CellEmpty
	}
	return row[y]
}
