package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgeclimb/common"
)

// Config holds the probe geometry used by the Resolver.
type Config struct {
	// CornerMargin is skipped at each end of the top and bottom edge scans.
	CornerMargin float64
	// HorizontalSkin is added to a wall penetration so the corrected edge
	// no longer samples the wall tile.
	HorizontalSkin float64
	// HeadroomSteps is the number of 1px upward ceiling probes used to decide
	// whether a crouch may be released.
	HeadroomSteps int
	// GrabClearance is the hand/head window that must be free above a ledge.
	GrabClearance float64
	// GrabOffsetLeft and GrabOffsetRight are added to the snapped cell
	// origin of a wall met on that side.
	GrabOffsetLeft  cp.Vector
	GrabOffsetRight cp.Vector
}

func DefaultConfig() Config {
	return Config{
		CornerMargin:    5,
		HorizontalSkin:  1,
		HeadroomSteps:   14,
		GrabClearance:   50,
		GrabOffsetLeft:  cp.Vector{X: 50, Y: 150},
		GrabOffsetRight: cp.Vector{X: 0, Y: 150},
	}
}

// Body is the mutable input of one resolution pass.
type Body struct {
	Position cp.Vector
	Velocity cp.Vector
	Rect     common.Rect

	// Airborne is true while jumping or falling.
	Airborne bool
	Falling  bool
	// Ungrabbed is set while the drop-from-ledge guard is active; UngrabWall
	// is the side of the wall that was let go of.
	Ungrabbed  bool
	UngrabWall Side
}

// Grab describes a confirmed ledge grab.
type Grab struct {
	Anchor cp.Vector
	Wall   Side
}

// Report lists what a pass found, in the order the probes ran.
type Report struct {
	// Grab is set when a ledge grab was confirmed. No other probe runs then.
	Grab *Grab
	// Grounded is true when the bottom edge sampled a solid tile.
	Grounded bool
	// Landed is true when a falling body was snapped onto the ground.
	Landed bool
	// Ceiling is true when an upward-moving body hit its head.
	Ceiling bool
	// Wall is the side a horizontal probe was blocked on.
	Wall Side
	// Headroom is true when none of the upward headroom probes hit a tile.
	Headroom bool
}

// Resolver corrects a body against a tile map one axis at a time.
type Resolver struct {
	Map TileMap
	Cfg Config
}

func NewResolver(m TileMap, cfg Config) *Resolver {
	return &Resolver{Map: m, Cfg: cfg}
}

// Resolve runs the probes in their fixed order and applies every correction
// to b. Ties between probes are broken by that order, never by depth.
func (r *Resolver) Resolve(b *Body) Report {
	var rep Report
	if r == nil || r.Map == nil || b == nil {
		return rep
	}

	if b.Airborne && !b.Ungrabbed {
		if g, ok := r.probeLedge(b); ok {
			b.Velocity = cp.Vector{}
			rep.Grab = &g
			return rep
		}
	}

	if pen, ok := r.ProbeBottom(b.Rect); ok {
		rep.Grounded = true
		if b.Falling {
			b.Velocity.Y = 0
			b.Position.Y -= pen.Height
			b.Rect = b.Rect.Offset(0, -pen.Height)
			b.Falling = false
			b.Ungrabbed = false
			rep.Landed = true
		}
	}

	if b.Velocity.Y < 0 {
		if pen, ok := r.ProbeTop(b.Rect); ok {
			b.Velocity.Y = 0
			b.Position.Y += pen.Height
			dx := 0.0
			if b.Ungrabbed {
				dx = float64(r.Map.TileWidth()) * b.UngrabWall.Away()
				b.Position.X += dx
			}
			b.Rect = b.Rect.Offset(dx, pen.Height)
			rep.Ceiling = true
		}
	}

	if b.Velocity.X > 0 {
		if pen, ok := r.ProbeRight(b.Rect); ok {
			b.Velocity.X = 0
			push := pen.Width + r.Cfg.HorizontalSkin
			b.Position.X -= push
			b.Rect = b.Rect.Offset(-push, 0)
			rep.Wall = SideRight
		}
	}
	if b.Velocity.X < 0 {
		if pen, ok := r.ProbeLeft(b.Rect); ok {
			b.Velocity.X = 0
			push := pen.Width + r.Cfg.HorizontalSkin
			b.Position.X += push
			b.Rect = b.Rect.Offset(push, 0)
			rep.Wall = SideLeft
		}
	}

	rep.Headroom = r.ScanHeadroom(b.Rect)
	return rep
}

// probeLedge checks the leading top corner in the direction of travel and
// confirms a grab when the clearance window above and inward is free.
func (r *Resolver) probeLedge(b *Body) (Grab, bool) {
	var (
		wall   Side
		corner cp.Vector
		offset cp.Vector
	)
	switch {
	case b.Velocity.X < 0:
		wall = SideLeft
		corner = cp.Vector{X: b.Rect.Left(), Y: b.Rect.Top()}
		offset = r.Cfg.GrabOffsetLeft
	case b.Velocity.X > 0:
		wall = SideRight
		corner = cp.Vector{X: b.Rect.Right(), Y: b.Rect.Top()}
		offset = r.Cfg.GrabOffsetRight
	default:
		return Grab{}, false
	}

	if !r.Map.HasSolidTileAt(corner) {
		return Grab{}, false
	}

	inward := wall.Away() * r.Cfg.GrabClearance
	up := -r.Cfg.GrabClearance
	clearance := [...]cp.Vector{
		corner.Add(cp.Vector{X: 0, Y: up}),
		corner.Add(cp.Vector{X: inward, Y: up}),
		corner.Add(cp.Vector{X: inward, Y: 0}),
	}
	for _, p := range clearance {
		if r.Map.HasSolidTileAt(p) {
			return Grab{}, false
		}
	}

	return Grab{Anchor: r.snap(corner).Add(offset), Wall: wall}, true
}

// snap aligns p to the origin of the grid cell containing it.
func (r *Resolver) snap(p cp.Vector) cp.Vector {
	tw := float64(r.Map.TileWidth())
	th := float64(r.Map.TileHeight())
	if tw <= 0 || th <= 0 {
		return p
	}
	return cp.Vector{
		X: math.Floor(p.X/tw) * tw,
		Y: math.Floor(p.Y/th) * th,
	}
}

// ProbeBottom samples the bottom edge left to right at 1px steps, skipping
// the corner margin, and returns the first solid hit.
func (r *Resolver) ProbeBottom(rect common.Rect) (Penetration, bool) {
	return r.scanRow(rect, rect.Bottom())
}

// ProbeTop samples the top edge the same way as ProbeBottom.
func (r *Resolver) ProbeTop(rect common.Rect) (Penetration, bool) {
	return r.scanRow(rect, rect.Top())
}

// ProbeRight samples the right edge top to bottom at 1px steps.
func (r *Resolver) ProbeRight(rect common.Rect) (Penetration, bool) {
	return r.scanCol(rect, rect.Right())
}

// ProbeLeft samples the left edge top to bottom at 1px steps.
func (r *Resolver) ProbeLeft(rect common.Rect) (Penetration, bool) {
	return r.scanCol(rect, rect.Left())
}

// ScanHeadroom raises rect one pixel at a time and probes the top edge at
// each step. It reports true when no step touched a tile.
func (r *Resolver) ScanHeadroom(rect common.Rect) bool {
	clear := true
	for i := 0; i < r.Cfg.HeadroomSteps; i++ {
		rect = rect.Offset(0, -1)
		if _, ok := r.ProbeTop(rect); ok {
			clear = false
		}
	}
	return clear
}

func (r *Resolver) scanRow(rect common.Rect, y float64) (Penetration, bool) {
	m := r.Cfg.CornerMargin
	for x := rect.Left() + m; x < rect.Right()-m; x++ {
		if pen, ok := r.Map.IntersectSolidTile(cp.Vector{X: x, Y: y}, rect); ok {
			return pen, true
		}
	}
	return Penetration{}, false
}

func (r *Resolver) scanCol(rect common.Rect, x float64) (Penetration, bool) {
	for y := rect.Top(); y < rect.Bottom(); y++ {
		if pen, ok := r.Map.IntersectSolidTile(cp.Vector{X: x, Y: y}, rect); ok {
			return pen, true
		}
	}
	return Penetration{}, false
}
