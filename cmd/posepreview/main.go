// Command posepreview shows the hero rig cycling through its clips.
//
// Left/Right switch clips, Space pauses, F flips, L toggles looping.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgeclimb/component"
	"github.com/milk9111/ledgeclimb/prefabs"
	"golang.org/x/image/colornames"
)

const size = 512

type previewGame struct {
	rig       *component.Rig
	clips     []string
	current   int
	t         float64
	speed     float64
	paused    bool
	flip      bool
	loop      bool
	thickness float32
	clr       color.Color
}

func (g *previewGame) Update() error {
	if len(g.clips) == 0 {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.current = (g.current + 1) % len(g.clips)
		g.t = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.current = (g.current + len(g.clips) - 1) % len(g.clips)
		g.t = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.flip = !g.flip
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.loop = !g.loop
	}
	if !g.paused {
		g.t += g.speed / float64(ebiten.TPS())
	}

	g.rig.Rest()
	g.rig.Apply(g.clips[g.current], g.t, g.loop)
	g.rig.Sync(cp.Vector{X: size / 2, Y: size * 3 / 4}, g.flip)
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x1d, 0x23, 0x30, 0xff})
	ground := float32(size * 3 / 4)
	vector.StrokeLine(screen, 0, ground, size, ground, 1, colornames.Dimgray, false)

	for _, seg := range g.rig.Segments() {
		vector.StrokeLine(screen, float32(seg.From.X), float32(seg.From.Y), float32(seg.To.X), float32(seg.To.Y), g.thickness, g.clr, true)
	}
	root := g.rig.Root()
	vector.FillRect(screen, float32(root.X)-2, float32(root.Y)-2, 4, 4, colornames.Crimson, false)

	if len(g.clips) == 0 {
		ebitenutil.DebugPrint(screen, "rig has no clips")
		return
	}
	name := g.clips[g.current]
	ebitenutil.DebugPrint(screen, fmt.Sprintf("clip %d/%d: %s  t=%.2f/%.2f  loop=%t flip=%t paused=%t",
		g.current+1, len(g.clips), name, g.t, g.rig.Duration(name), g.loop, g.flip, g.paused))
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return size, size
}

func main() {
	clip := flag.String("clip", "", "clip to start on")
	speed := flag.Float64("speed", 1, "playback speed")
	flag.Parse()

	spec, err := prefabs.LoadRigSpec()
	if err != nil {
		log.Fatalf("rig: %v", err)
	}
	rig, err := spec.Build()
	if err != nil {
		log.Fatalf("rig: %v", err)
	}

	g := &previewGame{
		rig:       rig,
		clips:     rig.Clips(),
		speed:     *speed,
		loop:      true,
		thickness: float32(spec.Thickness),
		clr:       colornames.Lightgrey,
	}
	if g.thickness <= 0 {
		g.thickness = 6
	}
	if hs, err := prefabs.LoadHeroSpec(); err == nil {
		g.clr = hs.Color.Or(g.clr)
	}
	for i, name := range g.clips {
		if name == *clip {
			g.current = i
		}
	}

	ebiten.SetWindowSize(size, size)
	ebiten.SetWindowTitle("Pose Preview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
