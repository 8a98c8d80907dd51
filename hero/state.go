package hero

import "github.com/milk9111/ledgeclimb/physics"

// Phase is the exclusive part of the movement state.
type Phase uint8

const (
	Grounded Phase = iota
	Airborne
	Grabbed
	Climbing
)

func (p Phase) String() string {
	switch p {
	case Grounded:
		return "grounded"
	case Airborne:
		return "airborne"
	case Grabbed:
		return "grabbed"
	case Climbing:
		return "climbing"
	}
	return "unknown"
}

// State is the movement state of the hero. Phase is exclusive; jumping and
// falling only qualify Airborne, crouching is a posture that is dropped on
// any grab.
type State struct {
	phase Phase

	jumping   bool
	falling   bool
	crouching bool
	walking   bool
}

func (s State) Phase() Phase     { return s.phase }
func (s State) Jumping() bool    { return s.phase == Airborne && s.jumping }
func (s State) Falling() bool    { return s.phase == Airborne && s.falling }
func (s State) Crouching() bool  { return s.crouching }
func (s State) Walking() bool    { return s.walking }
func (s State) Grabbed() bool    { return s.phase == Grabbed }
func (s State) Climbing() bool   { return s.phase == Climbing }
func (s State) Attached() bool   { return s.phase == Grabbed || s.phase == Climbing }
func (s State) Airborne() bool   { return s.phase == Airborne }
func (s State) CrouchPose() bool { return s.crouching && !s.Jumping() }

func (s *State) jump() {
	s.phase = Airborne
	s.jumping = true
	s.falling = false
}

func (s *State) grab() {
	s.phase = Grabbed
	s.jumping = false
	s.falling = false
	s.crouching = false
}

func (s *State) climb() {
	s.phase = Climbing
}

func (s *State) finishClimb() {
	s.phase = Grounded
}

// drop lets go of a ledge and starts falling straight away.
func (s *State) drop() {
	s.phase = Airborne
	s.jumping = false
	s.falling = true
}

func (s *State) loseGround() {
	if s.phase != Grounded && s.phase != Airborne {
		return
	}
	s.phase = Airborne
	s.falling = true
}

func (s *State) land() {
	s.phase = Grounded
	s.jumping = false
	s.falling = false
}

// bump handles a ceiling hit: the jump is over and the hero falls.
func (s *State) bump() {
	s.phase = Airborne
	s.jumping = false
	s.falling = true
}

// ungrabGuard blocks regrabs and crouching after letting go of a ledge. It
// is armed once and consumed by the next landing.
type ungrabGuard struct {
	armed bool
	wall  physics.Side
}

func (g *ungrabGuard) arm(wall physics.Side) {
	g.armed = true
	g.wall = wall
}

func (g *ungrabGuard) clear() {
	*g = ungrabGuard{}
}

// Flags is a flat snapshot of the movement state for collaborators that want
// plain booleans.
type Flags struct {
	Walking       bool `csv:"walking"`
	Jumping       bool `csv:"jumping"`
	Crouching     bool `csv:"crouching"`
	Falling       bool `csv:"falling"`
	Grabbed       bool `csv:"grabbed"`
	Climbing      bool `csv:"climbing"`
	JustUngrabbed bool `csv:"just_ungrabbed"`
}
