package obj

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

type fadePhase int

const (
	fadeIdle fadePhase = iota
	fadeOut
	fadeIn
)

// Transition fades to black, runs a callback at full black, then fades
// back. The game uses it for respawns and level reloads.
type Transition struct {
	Duration int

	phase   fadePhase
	frames  int
	reason  string
	onBlack func()
	overlay *ebiten.Image
}

func NewTransition() *Transition {
	overlay := ebiten.NewImage(1, 1)
	overlay.Fill(color.Black)
	return &Transition{Duration: 15, overlay: overlay}
}

func (t *Transition) Active() bool { return t.phase != fadeIdle }

// Reason is the label passed to Start, shown while the fade runs.
func (t *Transition) Reason() string { return t.reason }

// Start begins a fade. It is ignored while another fade is running.
func (t *Transition) Start(reason string, onBlack func()) {
	if t.Active() {
		return
	}
	t.phase = fadeOut
	t.frames = 0
	t.reason = reason
	t.onBlack = onBlack
}

// Update advances the fade and reports whether the world should stay
// frozen this frame.
func (t *Transition) Update() bool {
	if !t.Active() {
		return false
	}
	t.frames++
	if t.frames < t.Duration {
		return true
	}
	t.frames = 0
	switch t.phase {
	case fadeOut:
		if t.onBlack != nil {
			t.onBlack()
		}
		t.phase = fadeIn
	case fadeIn:
		t.phase = fadeIdle
		t.reason = ""
		t.onBlack = nil
	}
	return true
}

func (t *Transition) alpha() float64 {
	if t.Duration <= 0 {
		return 0
	}
	p := float64(t.frames) / float64(t.Duration)
	switch t.phase {
	case fadeOut:
		return min(p, 1)
	case fadeIn:
		return max(1-p, 0)
	}
	return 0
}

// Draw draws the fade overlay onto the provided screen.
func (t *Transition) Draw(screen *ebiten.Image) {
	alpha := t.alpha()
	if alpha <= 0 {
		return
	}
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(h))
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(t.overlay, op)
}
