package obj

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgeclimb/common"
	"github.com/milk9111/ledgeclimb/prefabs"
)

// Camera follows a world point and renders the world through an offscreen
// image. PosX/PosY is the centre of the view in world coordinates.
type Camera struct {
	PosX float64
	PosY float64

	screenW int
	screenH int
	zoom    float64
	off     *ebiten.Image

	// smoothing factor (0..1). higher -> faster follow
	smooth float64
	// frameY is where the target sits vertically on screen, 0 top to 1 bottom
	frameY float64
	// bounds in pixels; zero size means unbounded
	bounds common.Rect
}

func NewCamera(screenW, screenH int, zoom float64) *Camera {
	c := &Camera{screenW: screenW, screenH: screenH, zoom: zoom, smooth: 0.1, frameY: 2.0 / 3.0}
	c.off = ebiten.NewImage(screenW, screenH)
	c.PosX = float64(screenW) / 2.0
	c.PosY = float64(screenH) / 2.0
	return c
}

// Configure applies a camera spec. Zero fields keep the current values.
func (c *Camera) Configure(spec *prefabs.CameraSpec) {
	if spec == nil {
		return
	}
	if spec.Zoom > 0 {
		c.zoom = spec.Zoom
	}
	if spec.Smoothness > 0 {
		c.smooth = math.Min(spec.Smoothness, 1)
	}
	if spec.FrameY > 0 && spec.FrameY < 1 {
		c.frameY = spec.FrameY
	}
}

func (c *Camera) SetBounds(r common.Rect) {
	c.bounds = r
}

// ViewTopLeft returns the world-space top-left of the current view.
func (c *Camera) ViewTopLeft() (float64, float64) {
	w, h := c.viewSize()
	return c.PosX - w/2.0, c.PosY - h/2.0
}

func (c *Camera) Zoom() float64 {
	return c.zoom
}

// ToScreen converts a world point to screen pixels.
func (c *Camera) ToScreen(p cp.Vector) (float32, float32) {
	x, y := c.ViewTopLeft()
	return float32((p.X - x) * c.zoom), float32((p.Y - y) * c.zoom)
}

// Follow moves the view toward target so that it sits at frameY of the
// screen height, then clamps to the bounds.
func (c *Camera) Follow(target cp.Vector) {
	x, y := c.centreFor(target)
	c.PosX = common.Lerp(c.PosX, x, c.smooth)
	c.PosY = common.Lerp(c.PosY, y, c.smooth)
	c.clamp()
}

// SnapTo centres on target immediately, e.g. after a respawn.
func (c *Camera) SnapTo(target cp.Vector) {
	c.PosX, c.PosY = c.centreFor(target)
	c.clamp()
}

func (c *Camera) centreFor(target cp.Vector) (float64, float64) {
	_, h := c.viewSize()
	return target.X, target.Y - (c.frameY-0.5)*h
}

func (c *Camera) viewSize() (float64, float64) {
	if c.zoom == 0 {
		return float64(c.screenW), float64(c.screenH)
	}
	return float64(c.screenW) / c.zoom, float64(c.screenH) / c.zoom
}

func (c *Camera) clamp() {
	// snap position to 1/zoom grid to align source texels to integer screen pixels
	if c.zoom != 0 {
		c.PosX = math.Round(c.PosX*c.zoom) / c.zoom
		c.PosY = math.Round(c.PosY*c.zoom) / c.zoom
	}

	w, h := c.viewSize()
	b := c.bounds
	if b.Width > 0 {
		if b.Width < w {
			c.PosX = b.X + b.Width/2
		} else {
			c.PosX = common.Clamp(c.PosX, b.Left()+w/2, b.Right()-w/2)
		}
	}
	if b.Height > 0 {
		if b.Height < h {
			c.PosY = b.Y + b.Height/2
		} else {
			c.PosY = common.Clamp(c.PosY, b.Top()+h/2, b.Bottom()-h/2)
		}
	}
}

// Render lets drawWorld paint into the offscreen image, then copies it to
// screen.
func (c *Camera) Render(screen *ebiten.Image, drawWorld func(world *ebiten.Image)) {
	if c.off == nil {
		c.off = ebiten.NewImage(c.screenW, c.screenH)
	}

	c.off.Clear()
	if drawWorld != nil {
		drawWorld(c.off)
	}

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(c.off, op)
}
