package obj

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/ledgeclimb/hero"
)

// Input polls the keyboard and the first gamepad into one tick of hero
// intent.
type Input struct {
	hero.Input

	// PausePressed is true on the frame Escape or Start was pressed.
	PausePressed bool
	// DebugPressed toggles the debug overlay (F1).
	DebugPressed bool
	// CopyPressed copies the hero dump to the clipboard (F9).
	CopyPressed bool
	// RespawnPressed resets the hero to the level spawn (R).
	RespawnPressed bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls devices. Jump fires on the press edge; crouch is held.
func (i *Input) Update() {
	var move float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		move -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		move += 1
	}
	jump := inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsKeyJustPressed(ebiten.KeyUp)
	crouch := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown)
	pause := inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]

		leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if leftX < -0.3 || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftLeft) {
			move = -1
		} else if leftX > 0.3 || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftRight) {
			move = 1
		}
		leftY := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)

		jump = jump || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		crouch = crouch || leftY > 0.5 || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftBottom)
		pause = pause || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
	}

	i.Input = hero.Input{Move: move, Jump: jump, Crouch: crouch}
	i.PausePressed = pause
	i.DebugPressed = inpututil.IsKeyJustPressed(ebiten.KeyF1)
	i.CopyPressed = inpututil.IsKeyJustPressed(ebiten.KeyF9)
	i.RespawnPressed = inpututil.IsKeyJustPressed(ebiten.KeyR)
}
