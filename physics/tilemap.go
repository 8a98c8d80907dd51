package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgeclimb/common"
)

// TileMap is the read-only view of the level the resolver probes against.
// It must stay stable for the duration of one tick.
type TileMap interface {
	// HasSolidTileAt reports whether the cell containing p is solid.
	HasSolidTileAt(p cp.Vector) bool
	// IntersectSolidTile returns the overlap between the solid cell
	// containing p and r. ok is false when that cell is empty or outside
	// the map. A cell that only touches r reports a zero penetration.
	IntersectSolidTile(p cp.Vector, r common.Rect) (pen Penetration, ok bool)
	TileWidth() int
	TileHeight() int
}

// Penetration is the minimal translation needed on each axis to separate a
// moving rect from one tile.
type Penetration struct {
	Width  float64
	Height float64
}

// Side names the horizontal side a wall was met on.
type Side int8

const (
	SideNone  Side = 0
	SideLeft  Side = -1
	SideRight Side = 1
)

// Away returns the horizontal unit direction pointing away from a wall on
// this side.
func (s Side) Away() float64 {
	return -float64(s)
}

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return "none"
}
