package hero

// Input is one tick of player intent.
type Input struct {
	// Move is -1 for left, 0 for none, +1 for right.
	Move   float64 `csv:"move"`
	Jump   bool    `csv:"jump"`
	Crouch bool    `csv:"crouch"`
}

// Facing is the horizontal direction the hero is drawn looking at.
type Facing int8

const (
	FacingLeft  Facing = -1
	FacingRight Facing = 1
)

func (f Facing) String() string {
	if f == FacingLeft {
		return "left"
	}
	return "right"
}
