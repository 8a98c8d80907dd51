package common

// Rect is an axis-aligned box. Right and Bottom are exclusive edges, so a
// point sampled at Right lies in the first column past the box.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Offset returns the rect moved by dx, dy.
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Intersects reports whether the two rects share a region of positive area.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Overlap returns the width and height of the region shared by both rects.
// Touching or disjoint rects report zero on the separated axis.
func (r Rect) Overlap(other Rect) (w, h float64) {
	w = min(r.Right(), other.Right()) - max(r.Left(), other.Left())
	h = min(r.Bottom(), other.Bottom()) - max(r.Top(), other.Top())
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

// FeetRect builds a box of the given integer size whose bottom-center sits at
// (x, y). The anchor is truncated to whole pixels before placement.
func FeetRect(x, y float64, width, height int) Rect {
	return Rect{
		X:      float64(int(x) - width/2),
		Y:      float64(int(y) - height),
		Width:  float64(width),
		Height: float64(height),
	}
}
