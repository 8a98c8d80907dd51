package hero

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgeclimb/common"
	"github.com/milk9111/ledgeclimb/physics"
)

// Controller turns per-tick input into a resolved position, velocity and
// movement state for a single hero.
type Controller struct {
	// Log receives phase transitions when set.
	Log *log.Logger

	tuning   Tuning
	resolver *physics.Resolver
	pose     Poser

	spawn    cp.Vector
	pos      cp.Vector
	vel      cp.Vector
	facing   Facing
	rect     common.Rect
	state    State
	guard    ungrabGuard
	animTime float64

	// anchor and wall are only meaningful while grabbed or climbing.
	anchor cp.Vector
	wall   physics.Side

	// blocked is the side a wall stopped horizontal motion on last tick.
	blocked physics.Side

	ticks uint64
}

// New creates a hero at rest at spawn. A nil pose discards pose requests.
func New(tiles physics.TileMap, spawn cp.Vector, tuning Tuning, pose Poser) *Controller {
	if pose == nil {
		pose = nopPoser{}
	}
	c := &Controller{
		tuning:   tuning,
		resolver: physics.NewResolver(tiles, tuning.Collision),
		pose:     pose,
		spawn:    spawn,
	}
	c.Respawn()
	return c
}

// Respawn puts the hero back at the spawn point with zero velocity and no
// flags set.
func (c *Controller) Respawn() {
	c.pos = c.spawn
	c.vel = cp.Vector{}
	c.facing = FacingRight
	c.state = State{}
	c.guard.clear()
	c.animTime = 0
	c.anchor = cp.Vector{}
	c.wall = physics.SideNone
	c.blocked = physics.SideNone
	c.rect = common.FeetRect(c.pos.X, c.pos.Y, c.tuning.Stand.Width, c.tuning.Stand.Height)
	c.pose.Rest()
	c.pose.Sync(c.pos, false)
}

// SetTuning swaps the tuning in place, keeping position and state.
func (c *Controller) SetTuning(t Tuning) {
	c.tuning = t
	c.resolver.Cfg = t.Collision
}

func (c *Controller) Tuning() Tuning { return c.tuning }

// SetPoser swaps the rig and syncs it to the current position.
func (c *Controller) SetPoser(pose Poser) {
	if pose == nil {
		pose = nopPoser{}
	}
	c.pose = pose
	c.pose.Rest()
	c.pose.Sync(c.pos, c.facing == FacingLeft)
}

// SetSpawn changes where Respawn puts the hero.
func (c *Controller) SetSpawn(spawn cp.Vector) { c.spawn = spawn }

// SetTileMap points collision at a different map.
func (c *Controller) SetTileMap(tiles physics.TileMap) {
	c.resolver.Map = tiles
}

func (c *Controller) Position() cp.Vector   { return c.pos }
func (c *Controller) Velocity() cp.Vector   { return c.vel }
func (c *Controller) Facing() Facing        { return c.facing }
func (c *Controller) State() State          { return c.state }
func (c *Controller) Rect() common.Rect     { return c.rect }
func (c *Controller) AnimTime() float64     { return c.animTime }
func (c *Controller) Ticks() uint64         { return c.ticks }
func (c *Controller) JustUngrabbed() bool   { return c.guard.armed }
func (c *Controller) Blocked() physics.Side { return c.blocked }

// GrabAnchor returns the ledge anchor while grabbed or climbing.
func (c *Controller) GrabAnchor() (cp.Vector, bool) {
	if !c.state.Attached() {
		return cp.Vector{}, false
	}
	return c.anchor, true
}

// Flags returns the movement state as plain booleans.
func (c *Controller) Flags() Flags {
	return Flags{
		Walking:       c.state.Walking(),
		Jumping:       c.state.Jumping(),
		Crouching:     c.state.Crouching(),
		Falling:       c.state.Falling(),
		Grabbed:       c.state.Grabbed(),
		Climbing:      c.state.Climbing(),
		JustUngrabbed: c.guard.armed,
	}
}

// Activity names the clip matching the dominant movement flag.
func (c *Controller) Activity() string {
	s := c.state
	switch {
	case s.Climbing():
		return ClipClimb
	case s.Grabbed():
		return ClipGrab
	case s.Jumping():
		return ClipJump
	case s.Falling():
		return ClipFall
	case s.Crouching():
		return ClipCrawl
	case s.Walking():
		return ClipWalk
	}
	return ClipIdle
}

// Tick feeds one frame of input and advances the simulation. Move, Jump and
// Crouch are evaluated in that order before the update pipeline runs.
func (c *Controller) Tick(in Input, elapsed time.Duration) {
	if in.Move != 0 {
		c.Move(in.Move)
	}
	if in.Jump {
		c.Jump()
	}
	if in.Crouch {
		c.Crouch()
	}
	c.Update(elapsed)
}

// Move sets this tick's horizontal speed and facing. Ignored while hanging
// or climbing.
func (c *Controller) Move(dir float64) {
	if c.state.Attached() {
		return
	}
	if dir > 0 {
		c.facing = FacingRight
	} else {
		c.facing = FacingLeft
	}
	c.vel.X = common.Sign(dir) * c.tuning.WalkSpeed
	c.state.walking = true
}

// Jump starts a climb when hanging close to the anchor, otherwise launches a
// jump from a free, standing state.
func (c *Controller) Jump() {
	prev := c.state.phase
	defer c.note(prev)

	if c.state.Grabbed() && c.pos.Distance(c.anchor) < c.tuning.SnapRadius {
		c.state.climb()
		c.animTime = 0
		return
	}

	s := c.state
	if !s.Jumping() && !s.Crouching() && !s.Falling() && !s.Attached() {
		c.state.jump()
		c.animTime = 0
		c.vel.Y = -c.tuning.JumpImpulse
	}
}

// Crouch drops from a ledge when hanging, otherwise crouches when standing.
func (c *Controller) Crouch() {
	prev := c.state.phase
	defer c.note(prev)

	if c.state.Grabbed() {
		c.state.drop()
		c.guard.arm(c.wall)
		c.pos.X += c.wall.Away() * c.tuning.UngrabKick
		return
	}
	if !c.state.Falling() && !c.state.Climbing() && !c.guard.armed {
		c.state.crouching = true
	}
}

// Update runs the per-tick pipeline: poses, gravity, integration, collision,
// anchor sync, then transient reset.
func (c *Controller) Update(elapsed time.Duration) {
	prev := c.state.phase
	c.ticks++
	dt := float64(elapsed.Milliseconds()) / 1000
	scale := c.stepScale(elapsed)

	c.requestPoses(dt)
	c.applyGravity(dt, scale)

	switch {
	case c.state.Grabbed():
		c.hang(dt, scale)
	case c.state.Climbing():
		c.climb(elapsed)
	default:
		c.pos = c.pos.Add(c.vel.Mult(scale))
	}

	p := c.tuning.profile(c.state.CrouchPose())
	c.rect = common.FeetRect(c.pos.X, c.pos.Y, p.Width, p.Height)

	c.blocked = physics.SideNone
	if !c.state.Attached() {
		c.resolve()
	}

	c.pose.Sync(c.pos, c.facing == FacingLeft)

	c.state.walking = false
	c.vel.X = 0
	c.note(prev)
}

func (c *Controller) stepScale(elapsed time.Duration) float64 {
	if !c.tuning.FrameIndependent || c.tuning.ReferenceStep <= 0 {
		return 1
	}
	return float64(elapsed) / float64(c.tuning.ReferenceStep)
}

func (c *Controller) requestPoses(dt float64) {
	s := c.state
	if !s.Walking() && !s.Jumping() && !s.Crouching() && !s.Grabbed() {
		c.pose.Rest()
	}

	if s.Walking() && !s.Jumping() && !s.Grabbed() {
		c.animTime += dt
		if !s.Crouching() {
			c.pose.Mix(ClipWalk, c.animTime, true, 0.3)
		} else {
			c.pose.Mix(ClipCrawl, c.animTime, true, 0.5)
		}
	}

	if s.Jumping() {
		c.animTime += dt
		c.pose.Mix(ClipJump, c.animTime, false, 0.5)
	}

	if s.CrouchPose() && !s.Walking() {
		c.animTime = 0
		c.pose.Mix(ClipCrawl, c.animTime, false, 0.5)
	}
}

// applyGravity only runs when the previous collision pass (or a ledge drop
// this tick) left the hero falling, so a jump's first tick is undamped.
func (c *Controller) applyGravity(dt, scale float64) {
	if !c.state.Falling() {
		return
	}
	c.vel.Y += c.tuning.Gravity * scale
	if c.vel.Y > c.tuning.FallPoseSpeed {
		c.animTime += dt
		c.pose.Mix(ClipFall, c.animTime, true, 0.75)
	}
}

func (c *Controller) hang(dt, scale float64) {
	t := c.tuning.GrabLerp
	if scale != 1 {
		t = 1 - math.Pow(1-t, scale)
	}
	c.pos = c.pos.Lerp(c.anchor, t)
	c.animTime += dt
	c.pose.Mix(ClipGrab, c.animTime, true, 0.3)
}

func (c *Controller) climb(elapsed time.Duration) {
	c.animTime += float64(elapsed.Milliseconds()) / 500
	c.pose.Apply(ClipClimb, c.animTime, false)

	duration := c.pose.Duration(ClipGrab)
	if duration <= 0 {
		duration = 1
	}
	target := c.climbTarget()
	t := common.Clamp(c.tuning.ClimbRate/duration*c.animTime, 0, 1)
	c.pos = c.pos.Lerp(target, t)

	if c.pos.Distance(target) < c.tuning.SnapRadius {
		c.state.finishClimb()
	}
}

// climbTarget is the standing spot on top of the ledge.
func (c *Controller) climbTarget() cp.Vector {
	off := c.tuning.ClimbOffset
	return c.anchor.Add(cp.Vector{X: float64(c.wall) * off.X, Y: -off.Y})
}

func (c *Controller) resolve() {
	body := physics.Body{
		Position:   c.pos,
		Velocity:   c.vel,
		Rect:       c.rect,
		Airborne:   c.state.Jumping() || c.state.Falling(),
		Falling:    c.state.Falling(),
		Ungrabbed:  c.guard.armed,
		UngrabWall: c.guard.wall,
	}
	rep := c.resolver.Resolve(&body)
	c.pos, c.vel, c.rect = body.Position, body.Velocity, body.Rect
	c.blocked = rep.Wall

	if rep.Grab != nil {
		c.state.grab()
		c.anchor = rep.Grab.Anchor
		c.wall = rep.Grab.Wall
		c.facing = Facing(rep.Grab.Wall.Away())
		return
	}

	if !rep.Grounded {
		c.state.loseGround()
	}
	if rep.Landed {
		c.state.land()
		c.guard.clear()
	}
	if rep.Ceiling {
		c.state.bump()
	}
	if rep.Headroom {
		c.state.crouching = false
	}
}

func (c *Controller) note(prev Phase) {
	if c.Log == nil || prev == c.state.phase {
		return
	}
	c.Log.Printf("hero: %s -> %s", prev, c.state.phase)
}

// String dumps the hero state on one line for debugging.
func (c *Controller) String() string {
	f := c.Flags()
	return fmt.Sprintf(
		"tick=%d pos=(%.2f,%.2f) vel=(%.2f,%.2f) facing=%s phase=%s walk=%t jump=%t crouch=%t fall=%t grab=%t climb=%t ungrabbed=%t anim=%.3f rect=(%.0f,%.0f %.0fx%.0f)",
		c.ticks, c.pos.X, c.pos.Y, c.vel.X, c.vel.Y, c.facing, c.state.phase,
		f.Walking, f.Jumping, f.Crouching, f.Falling, f.Grabbed, f.Climbing, f.JustUngrabbed,
		c.animTime, c.rect.X, c.rect.Y, c.rect.Width, c.rect.Height,
	)
}
