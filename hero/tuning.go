package hero

import (
	"errors"
	"fmt"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgeclimb/physics"
)

var (
	ErrInvalidProfile = errors.New("hero: invalid collision profile")
	ErrInvalidTuning  = errors.New("hero: invalid tuning")
)

// Profile is the size of the collision box for one posture.
type Profile struct {
	Width  int
	Height int
}

// Tuning holds every constant the controller reads.
type Tuning struct {
	Gravity     float64
	JumpImpulse float64
	WalkSpeed   float64

	// GrabLerp is the fraction of the remaining distance to the grab anchor
	// covered each tick while hanging.
	GrabLerp float64
	// SnapRadius is how close to the anchor (or climb target) counts as
	// arrived.
	SnapRadius float64
	// UngrabKick is the lateral distance moved away from the wall when
	// letting go of a ledge.
	UngrabKick float64
	// ClimbOffset moves the climb target onto the ledge: X toward the wall,
	// Y upward.
	ClimbOffset cp.Vector
	// ClimbRate is divided by the grab clip duration to get the climb lerp
	// factor per second of climb clock.
	ClimbRate float64
	// FallPoseSpeed is the downward speed above which the fall pose plays.
	FallPoseSpeed float64

	Stand  Profile
	Crouch Profile

	Collision physics.Config

	// FrameIndependent scales integration, gravity and the grab lerp by
	// elapsed/ReferenceStep. Off keeps the per-tick legacy feel.
	FrameIndependent bool
	ReferenceStep    time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		Gravity:       0.25,
		JumpImpulse:   9,
		WalkSpeed:     4,
		GrabLerp:      0.1,
		SnapRadius:    5,
		UngrabKick:    40,
		ClimbOffset:   cp.Vector{X: 20, Y: 155},
		ClimbRate:     0.07,
		FallPoseSpeed: 1,
		Stand:         Profile{Width: 75, Height: 130},
		Crouch:        Profile{Width: 100, Height: 96},
		Collision:     physics.DefaultConfig(),
		ReferenceStep: time.Second / 60,
	}
}

// Validate reports tuning the controller cannot run with.
func (t Tuning) Validate() error {
	profiles := []struct {
		name string
		p    Profile
	}{{"stand", t.Stand}, {"crouch", t.Crouch}}
	for _, pr := range profiles {
		if pr.p.Width <= 0 || pr.p.Height <= 0 {
			return fmt.Errorf("%w: %s profile %dx%d", ErrInvalidProfile, pr.name, pr.p.Width, pr.p.Height)
		}
	}
	if t.Crouch.Height >= t.Stand.Height {
		return fmt.Errorf("%w: crouch height %d must be below stand height %d", ErrInvalidProfile, t.Crouch.Height, t.Stand.Height)
	}
	if t.GrabLerp <= 0 || t.GrabLerp > 1 {
		return fmt.Errorf("%w: grab lerp %v outside (0,1]", ErrInvalidTuning, t.GrabLerp)
	}
	if t.FrameIndependent && t.ReferenceStep <= 0 {
		return fmt.Errorf("%w: frame independent motion needs a reference step", ErrInvalidTuning)
	}
	if t.Collision.HeadroomSteps < 0 {
		return fmt.Errorf("%w: negative headroom steps", ErrInvalidTuning)
	}
	return nil
}

func (t Tuning) profile(crouched bool) Profile {
	if crouched {
		return t.Crouch
	}
	return t.Stand
}
