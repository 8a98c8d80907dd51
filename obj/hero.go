package obj

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgeclimb/component"
	"github.com/milk9111/ledgeclimb/hero"
	"golang.org/x/image/colornames"
)

// HeroView draws the rig of a controlled hero as stroked bones. The rig is
// also the controller's Poser, so drawing never touches the simulation.
type HeroView struct {
	Hero *hero.Controller
	Rig  *component.Rig

	Color     color.Color
	Thickness float32
	// Debug draws the collision rect, the feet anchor and any grab anchor.
	Debug bool
}

func NewHeroView(c *hero.Controller, rig *component.Rig, clr color.Color, thickness float64) *HeroView {
	if clr == nil {
		clr = colornames.Lightgrey
	}
	if thickness <= 0 {
		thickness = 6
	}
	return &HeroView{Hero: c, Rig: rig, Color: clr, Thickness: float32(thickness)}
}

func (h *HeroView) Draw(screen *ebiten.Image, cam *Camera) {
	if h.Rig != nil {
		zoom := float32(cam.Zoom())
		for _, seg := range h.Rig.Segments() {
			x0, y0 := cam.ToScreen(seg.From)
			x1, y1 := cam.ToScreen(seg.To)
			vector.StrokeLine(screen, x0, y0, x1, y1, h.Thickness*zoom, h.Color, true)
		}
	}

	if !h.Debug || h.Hero == nil {
		return
	}

	r := h.Hero.Rect()
	x, y := cam.ToScreen(cp.Vector{X: r.X, Y: r.Y})
	zoom := float32(cam.Zoom())
	vector.StrokeRect(screen, x, y, float32(r.Width)*zoom, float32(r.Height)*zoom, 1.0, colornames.Crimson, false)

	fx, fy := cam.ToScreen(h.Hero.Position())
	vector.FillRect(screen, fx-2, fy-2, 4, 4, colornames.Yellow, false)

	if anchor, ok := h.Hero.GrabAnchor(); ok {
		ax, ay := cam.ToScreen(anchor)
		vector.StrokeLine(screen, fx, fy, ax, ay, 1, colornames.Red, true)
		vector.StrokeCircle(screen, ax, ay, 4, 1, colornames.Red, true)
	}
}
