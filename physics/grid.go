package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgeclimb/common"
)

// Grid is a dense row-major solidity map.
type Grid struct {
	cols, rows   int
	tileW, tileH int
	solid        []bool
}

func NewGrid(cols, rows, tileW, tileH int) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Grid{
		cols:  cols,
		rows:  rows,
		tileW: tileW,
		tileH: tileH,
		solid: make([]bool, cols*rows),
	}
}

func (g *Grid) Cols() int       { return g.cols }
func (g *Grid) Rows() int       { return g.rows }
func (g *Grid) TileWidth() int  { return g.tileW }
func (g *Grid) TileHeight() int { return g.tileH }

// Set marks one cell. Out of range cells are ignored.
func (g *Grid) Set(col, row int, solid bool) {
	if !g.inside(col, row) {
		return
	}
	g.solid[row*g.cols+col] = solid
}

// FillRow marks every cell of a row solid.
func (g *Grid) FillRow(row int) {
	for col := 0; col < g.cols; col++ {
		g.Set(col, row, true)
	}
}

// FillCol marks cells [fromRow, toRow) of a column solid.
func (g *Grid) FillCol(col, fromRow, toRow int) {
	for row := fromRow; row < toRow; row++ {
		g.Set(col, row, true)
	}
}

func (g *Grid) Solid(col, row int) bool {
	if !g.inside(col, row) {
		return false
	}
	return g.solid[row*g.cols+col]
}

// Cell returns the grid coordinates containing p.
func (g *Grid) Cell(p cp.Vector) (col, row int) {
	if g.tileW <= 0 || g.tileH <= 0 {
		return -1, -1
	}
	return int(math.Floor(p.X / float64(g.tileW))), int(math.Floor(p.Y / float64(g.tileH)))
}

// CellRect returns the world-space bounds of a cell.
func (g *Grid) CellRect(col, row int) common.Rect {
	return common.Rect{
		X:      float64(col * g.tileW),
		Y:      float64(row * g.tileH),
		Width:  float64(g.tileW),
		Height: float64(g.tileH),
	}
}

func (g *Grid) HasSolidTileAt(p cp.Vector) bool {
	return g.Solid(g.Cell(p))
}

func (g *Grid) IntersectSolidTile(p cp.Vector, r common.Rect) (Penetration, bool) {
	col, row := g.Cell(p)
	if !g.Solid(col, row) {
		return Penetration{}, false
	}
	w, h := g.CellRect(col, row).Overlap(r)
	if w == 0 || h == 0 {
		// an empty intersection has no extent on either axis
		return Penetration{}, true
	}
	return Penetration{Width: w, Height: h}, true
}

func (g *Grid) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.cols && row < g.rows
}
