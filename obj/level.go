package obj

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/ledgeclimb/levels"
)

const defaultLayerColor = "#3c78ff"

// LevelView draws the tile layers of a level. Each layer gets one solid
// color tile image built from its metadata.
type LevelView struct {
	Level *levels.Level

	layerTileImgs []*ebiten.Image
}

func NewLevelView(lvl *levels.Level) *LevelView {
	v := &LevelView{}
	v.SetLevel(lvl)
	return v
}

// SetLevel swaps the drawn level and rebuilds the layer images.
func (v *LevelView) SetLevel(lvl *levels.Level) {
	v.Level = lvl
	v.layerTileImgs = v.layerTileImgs[:0]
	if lvl == nil {
		return
	}
	for _, meta := range lvl.LayerMeta {
		hex := meta.Color
		if hex == "" {
			hex = defaultLayerColor
		}
		v.layerTileImgs = append(v.layerTileImgs, layerImageFromHex(lvl.TileWidth, lvl.TileHeight, hex))
	}
}

// Draw renders the tiles inside the view. camX/camY are the view's top-left
// in world coords.
func (v *LevelView) Draw(screen *ebiten.Image, camX, camY, zoom float64) {
	l := v.Level
	if l == nil {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}
	tw, th := float64(l.TileWidth), float64(l.TileHeight)
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()

	minCol := max(0, int(math.Floor(camX/tw)))
	minRow := max(0, int(math.Floor(camY/th)))
	maxCol := min(l.Width-1, int(math.Floor((camX+float64(sw)/zoom)/tw)))
	maxRow := min(l.Height-1, int(math.Floor((camY+float64(sh)/zoom)/th)))

	for layer, tiles := range l.Layers {
		if layer >= len(v.layerTileImgs) {
			break
		}
		img := v.layerTileImgs[layer]
		decor := !l.LayerMeta[layer].HasPhysics
		for y := minRow; y <= maxRow; y++ {
			for x := minCol; x <= maxCol; x++ {
				if tiles[y*l.Width+x] == 0 {
					continue
				}
				op := &ebiten.DrawImageOptions{}
				if decor {
					// decorative tiles sit on the floor as a low strip
					op.GeoM.Scale(1, 0.25)
					op.GeoM.Translate(0, th*0.75)
				}
				op.GeoM.Translate(float64(x)*tw-camX, float64(y)*th-camY)
				op.GeoM.Scale(zoom, zoom)
				screen.DrawImage(img, op)
			}
		}
	}
}

// DrawGrid outlines every tile in the view. Used by the debug overlay.
func (v *LevelView) DrawGrid(screen *ebiten.Image, camX, camY, zoom float64) {
	l := v.Level
	if l == nil {
		return
	}
	w, h := l.PixelSize()
	lineColor := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x20}
	for x := 0; x <= w; x += l.TileWidth {
		sx := float32((float64(x) - camX) * zoom)
		vector.StrokeLine(screen, sx, float32(-camY*zoom), sx, float32((float64(h)-camY)*zoom), 1, lineColor, false)
	}
	for y := 0; y <= h; y += l.TileHeight {
		sy := float32((float64(y) - camY) * zoom)
		vector.StrokeLine(screen, float32(-camX*zoom), sy, float32((float64(w)-camX)*zoom), sy, 1, lineColor, false)
	}
}

// layerImageFromHex creates an image filled with the provided hex color ("#rrggbb").
func layerImageFromHex(w, h int, hex string) *ebiten.Image {
	c := parseHexColor(hex)
	img := ebiten.NewImage(w, h)
	img.Fill(c)
	return img
}

// parseHexColor parses a color in the form #rrggbb. Returns opaque blue if parse fails.
func parseHexColor(s string) color.RGBA {
	var r, g, b uint8 = 0x00, 0x00, 0xff
	if len(s) == 7 && s[0] == '#' {
		var ri, gi, bi uint32
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &ri, &gi, &bi); err == nil {
			r = uint8(ri)
			g = uint8(gi)
			b = uint8(bi)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
