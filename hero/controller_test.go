package hero

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgeclimb/physics"
)

const frame = time.Second / 60

// floorGrid is a 20x20 map of 50px tiles whose floor surface is at y=300.
func floorGrid() *physics.Grid {
	g := physics.NewGrid(20, 20, 50, 50)
	g.FillRow(6)
	return g
}

// ledgeGrid has a wall in column 4 whose top edge is at y=300 and a floor
// at y=600.
func ledgeGrid() *physics.Grid {
	g := physics.NewGrid(20, 20, 50, 50)
	g.FillCol(4, 6, 12)
	g.FillRow(12)
	return g
}

type recordingPoser struct {
	calls []string
	flip  bool
}

func (r *recordingPoser) Rest() { r.calls = append(r.calls, "rest") }
func (r *recordingPoser) Mix(clip string, _ float64, _ bool, _ float64) {
	r.calls = append(r.calls, "mix "+clip)
}
func (r *recordingPoser) Apply(clip string, _ float64, _ bool) {
	r.calls = append(r.calls, "apply "+clip)
}
func (r *recordingPoser) Duration(string) float64 { return 0 }
func (r *recordingPoser) Sync(_ cp.Vector, flipX bool) {
	r.calls = append(r.calls, "sync")
	r.flip = flipX
}

func TestJumpScenario(t *testing.T) {
	c := New(floorGrid(), cp.Vector{X: 500, Y: 300}, DefaultTuning(), nil)

	c.Tick(Input{Jump: true}, frame)
	if got := c.Velocity().Y; got != -9 {
		t.Fatalf("first jump tick vy = %v, want -9 (no gravity yet)", got)
	}
	if !c.State().Jumping() || !c.State().Falling() {
		t.Fatalf("expected jumping and falling after launch, got %+v", c.Flags())
	}

	wantY := []float64{291, 282.25, 273.75, 265.5}
	if c.Position().Y != wantY[0] {
		t.Fatalf("tick 1 y = %v, want %v", c.Position().Y, wantY[0])
	}
	for i := 1; i < len(wantY); i++ {
		c.Tick(Input{}, frame)
		if c.Position().Y != wantY[i] {
			t.Fatalf("tick %d y = %v, want %v", i+1, c.Position().Y, wantY[i])
		}
	}
	if got := c.Velocity().Y; got != -8.25 {
		t.Fatalf("vy after four ticks = %v, want -8.25", got)
	}

	for i := 0; i < 200 && c.State().Phase() != Grounded; i++ {
		c.Tick(Input{}, frame)
	}
	if c.State().Phase() != Grounded || c.State().Jumping() {
		t.Fatalf("expected to land, got %s", c)
	}
	if y := c.Position().Y; y < 300 || y >= 301 {
		t.Fatalf("landed at y=%v, want within the top pixel of the floor", y)
	}
}

func TestHorizontalVelocityResetsEachTick(t *testing.T) {
	cases := []struct {
		name       string
		move       float64
		wantX      float64
		wantFacing Facing
	}{
		{"right", 1, 504, FacingRight},
		{"left", -1, 496, FacingLeft},
		{"analog_right", 0.3, 504, FacingRight},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := New(floorGrid(), cp.Vector{X: 500, Y: 300}, DefaultTuning(), nil)
			h.Tick(Input{Move: c.move}, frame)
			if h.Position().X != c.wantX {
				t.Fatalf("x = %v, want %v", h.Position().X, c.wantX)
			}
			if h.Velocity().X != 0 {
				t.Fatalf("vx = %v, want 0 after the tick", h.Velocity().X)
			}
			if h.Facing() != c.wantFacing {
				t.Fatalf("facing = %s, want %s", h.Facing(), c.wantFacing)
			}
			if h.State().Walking() {
				t.Fatalf("walking should be cleared after the tick")
			}
		})
	}
}

// grabLeftLedge drops a hero beside the wall of ledgeGrid and steers it
// left until it hangs.
func grabLeftLedge(t *testing.T, pose Poser) *Controller {
	t.Helper()
	c := New(ledgeGrid(), cp.Vector{X: 289, Y: 440}, DefaultTuning(), pose)
	c.Tick(Input{Move: -1}, frame)
	if !c.State().Falling() {
		t.Fatalf("expected to start falling with no ground, got %s", c)
	}
	c.Tick(Input{Move: -1}, frame)
	if !c.State().Grabbed() {
		t.Fatalf("expected a ledge grab, got %s", c)
	}
	return c
}

// grabRightLedge mirrors grabLeftLedge: the hero starts left of the wall and
// steers right until it hangs from the wall's left face.
func grabRightLedge(t *testing.T, pose Poser) *Controller {
	t.Helper()
	c := New(ledgeGrid(), cp.Vector{X: 160, Y: 440}, DefaultTuning(), pose)
	for i := 0; i < 10 && !c.State().Grabbed(); i++ {
		c.Tick(Input{Move: 1}, frame)
	}
	if !c.State().Grabbed() {
		t.Fatalf("expected a ledge grab, got %s", c)
	}
	return c
}

func TestLedgeGrabIsDeterministic(t *testing.T) {
	c := grabLeftLedge(t, nil)

	anchor, ok := c.GrabAnchor()
	if !ok || anchor != (cp.Vector{X: 250, Y: 450}) {
		t.Fatalf("anchor = %v (%t), want (250,450)", anchor, ok)
	}
	if c.Facing() != FacingRight {
		t.Fatalf("facing = %s, want right", c.Facing())
	}
	if c.Velocity() != (cp.Vector{}) {
		t.Fatalf("velocity = %v, want zero", c.Velocity())
	}
	f := c.Flags()
	if f.Jumping || f.Falling || f.Crouching {
		t.Fatalf("grab should clear jumping, falling and crouching: %+v", f)
	}

	// Moving while hanging is ignored.
	before := c.Position()
	c.Tick(Input{Move: 1}, frame)
	if x := c.Position().X; c.Facing() != FacingRight || x > before.X || x < anchor.X {
		t.Fatalf("hanging hero should only drift toward the anchor, got %s", c)
	}
}

func TestHangThenClimb(t *testing.T) {
	c := grabLeftLedge(t, nil)
	anchor, _ := c.GrabAnchor()

	// Jump is ignored until the hero has settled onto the anchor.
	c.Tick(Input{Jump: true}, frame)
	if !c.State().Grabbed() {
		t.Fatalf("climb should wait for the anchor, got %s", c)
	}

	for i := 0; i < 100 && c.Position().Distance(anchor) >= 5; i++ {
		c.Tick(Input{}, frame)
	}
	if d := c.Position().Distance(anchor); d >= 5 {
		t.Fatalf("never settled on the anchor, distance %v", d)
	}

	c.Tick(Input{Jump: true}, frame)
	if !c.State().Climbing() {
		t.Fatalf("expected to climb, got %s", c)
	}

	for i := 0; i < 600 && c.State().Climbing(); i++ {
		c.Tick(Input{}, frame)
	}
	if c.State().Climbing() {
		t.Fatalf("climb never finished, got %s", c)
	}
	for i := 0; i < 100 && (c.State().Phase() != Grounded || c.State().Falling()); i++ {
		c.Tick(Input{}, frame)
	}
	if c.State().Phase() != Grounded {
		t.Fatalf("expected to stand on the ledge, got %s", c)
	}
	pos := c.Position()
	if pos.Y < 300 || pos.Y >= 301 || pos.X >= 250 {
		t.Fatalf("expected to stand on top of the wall, got %v", pos)
	}
}

func TestUngrabKicksAwayAndGuardsUntilLanding(t *testing.T) {
	c := grabLeftLedge(t, nil)
	x := c.Position().X

	c.Tick(Input{Crouch: true}, frame)
	if c.State().Grabbed() || !c.State().Falling() {
		t.Fatalf("expected to drop, got %s", c)
	}
	if !c.JustUngrabbed() {
		t.Fatalf("ungrab guard should be armed")
	}
	if got := c.Position().X; got != x+40 {
		t.Fatalf("x after ungrab = %v, want %v", got, x+40)
	}

	for i := 0; i < 300 && c.State().Phase() != Grounded; i++ {
		c.Tick(Input{Move: -1}, frame)
		if c.State().Grabbed() {
			t.Fatalf("regrabbed on tick %d while the guard was armed", i)
		}
	}
	if c.State().Phase() != Grounded {
		t.Fatalf("never landed, got %s", c)
	}
	if c.JustUngrabbed() {
		t.Fatalf("landing should clear the ungrab guard")
	}
}

func TestCrouchHeadroom(t *testing.T) {
	cases := []struct {
		name       string
		ceilingRow int
		wantCrouch bool
	}{
		{"low_ceiling_holds_crouch", 22, true},
		{"open_space_releases_crouch", 19, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := physics.NewGrid(100, 40, 10, 10)
			g.FillRow(33)
			g.FillRow(c.ceilingRow)
			h := New(g, cp.Vector{X: 500, Y: 330}, DefaultTuning(), nil)

			h.Tick(Input{Crouch: true}, frame)
			if h.Rect().Height != 96 || h.Rect().Width != 100 {
				t.Fatalf("crouch rect = %+v, want 100x96", h.Rect())
			}
			if got := h.State().Crouching(); got != c.wantCrouch {
				t.Fatalf("crouching = %t, want %t", got, c.wantCrouch)
			}

			h.Tick(Input{}, frame)
			if got := h.State().Crouching(); got != c.wantCrouch {
				t.Fatalf("crouching after release tick = %t, want %t", got, c.wantCrouch)
			}
		})
	}
}

func TestCrouchBlocksJump(t *testing.T) {
	g := physics.NewGrid(100, 40, 10, 10)
	g.FillRow(33)
	g.FillRow(22)
	h := New(g, cp.Vector{X: 500, Y: 330}, DefaultTuning(), nil)

	h.Tick(Input{Crouch: true}, frame)
	h.Tick(Input{Jump: true}, frame)
	if h.State().Jumping() || h.Velocity().Y != 0 {
		t.Fatalf("jump should be refused while crouched, got %s", h)
	}
}

func TestPoseRequests(t *testing.T) {
	cases := []struct {
		name string
		in   []Input
		want []string
		flip bool
	}{
		{"idle", []Input{{}}, []string{"rest", "sync"}, false},
		{"walk_right", []Input{{Move: 1}}, []string{"mix walk", "sync"}, false},
		{"walk_left", []Input{{Move: -1}}, []string{"mix walk", "sync"}, true},
		{"crouch", []Input{{Crouch: true}}, []string{"mix crawl", "sync"}, false},
		{"jump", []Input{{Jump: true}, {}}, []string{"mix jump", "sync", "mix jump", "sync"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := &recordingPoser{}
			h := New(floorGrid(), cp.Vector{X: 500, Y: 300}, DefaultTuning(), p)
			p.calls = nil
			for _, in := range c.in {
				h.Tick(in, frame)
			}
			if fmt.Sprint(p.calls) != fmt.Sprint(c.want) {
				t.Fatalf("calls = %v, want %v", p.calls, c.want)
			}
			if p.flip != c.flip {
				t.Fatalf("flip = %t, want %t", p.flip, c.flip)
			}
		})
	}
}

func TestFallPoseAfterApex(t *testing.T) {
	p := &recordingPoser{}
	g := physics.NewGrid(20, 40, 50, 50)
	g.FillRow(39)
	h := New(g, cp.Vector{X: 500, Y: 300}, DefaultTuning(), p)
	for i := 0; i < 10; i++ {
		h.Tick(Input{}, frame)
	}
	if !strings.Contains(fmt.Sprint(p.calls), "mix fall") {
		t.Fatalf("expected a fall pose once falling fast, got %v", p.calls)
	}
}

func TestFrameIndependentScaling(t *testing.T) {
	tuning := DefaultTuning()
	tuning.FrameIndependent = true
	tuning.ReferenceStep = 10 * time.Millisecond

	h := New(floorGrid(), cp.Vector{X: 500, Y: 300}, tuning, nil)
	h.Tick(Input{Jump: true, Move: 1}, 20*time.Millisecond)
	if got := h.Position(); got != (cp.Vector{X: 508, Y: 282}) {
		t.Fatalf("position = %v, want (508,282)", got)
	}
}

func TestPhaseTransitionsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	h := New(floorGrid(), cp.Vector{X: 500, Y: 300}, DefaultTuning(), nil)
	h.Log = log.New(&buf, "", 0)

	h.Tick(Input{Jump: true}, frame)
	if got := buf.String(); got != "hero: grounded -> airborne\n" {
		t.Fatalf("log = %q", got)
	}
}

func TestRespawn(t *testing.T) {
	h := grabLeftLedge(t, nil)
	h.Respawn()
	if h.Position() != (cp.Vector{X: 289, Y: 440}) || h.State() != (State{}) {
		t.Fatalf("respawn did not reset the hero: %s", h)
	}
	if _, ok := h.GrabAnchor(); ok {
		t.Fatalf("anchor should be cleared")
	}
}

func TestTuningValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Tuning)
		want   error
	}{
		{"defaults", func(*Tuning) {}, nil},
		{"zero_width", func(t *Tuning) { t.Stand.Width = 0 }, ErrInvalidProfile},
		{"crouch_taller_than_stand", func(t *Tuning) { t.Crouch.Height = 140 }, ErrInvalidProfile},
		{"zero_grab_lerp", func(t *Tuning) { t.GrabLerp = 0 }, ErrInvalidTuning},
		{"missing_reference_step", func(t *Tuning) {
			t.FrameIndependent = true
			t.ReferenceStep = 0
		}, ErrInvalidTuning},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tuning := DefaultTuning()
			c.mutate(&tuning)
			err := tuning.Validate()
			if c.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
}

func TestTuningValidateReportsStandFirst(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Stand = Profile{}
	tuning.Crouch = Profile{}
	for i := 0; i < 20; i++ {
		err := tuning.Validate()
		if !errors.Is(err, ErrInvalidProfile) || !strings.Contains(err.Error(), "stand profile") {
			t.Fatalf("err = %v, want the stand profile reported", err)
		}
	}
}

func TestRightLedgeGrabFacesAwayFromWall(t *testing.T) {
	c := grabRightLedge(t, nil)

	anchor, ok := c.GrabAnchor()
	if !ok || anchor != (cp.Vector{X: 200, Y: 450}) {
		t.Fatalf("anchor = %v (%t), want (200,450)", anchor, ok)
	}
	if c.Facing() != FacingLeft {
		t.Fatalf("facing = %s, want left", c.Facing())
	}
	if c.Velocity() != (cp.Vector{}) {
		t.Fatalf("velocity = %v, want zero", c.Velocity())
	}

	// The hang drifts right toward the anchor and ignores move input.
	before := c.Position()
	c.Tick(Input{Move: -1}, frame)
	if x := c.Position().X; c.Facing() != FacingLeft || x < before.X || x > anchor.X {
		t.Fatalf("hanging hero should only drift toward the anchor, got %s", c)
	}
}

func TestRightLedgeHangThenClimb(t *testing.T) {
	c := grabRightLedge(t, nil)
	anchor, _ := c.GrabAnchor()

	for i := 0; i < 100 && c.Position().Distance(anchor) >= 5; i++ {
		c.Tick(Input{}, frame)
	}
	if d := c.Position().Distance(anchor); d >= 5 {
		t.Fatalf("never settled on the anchor, distance %v", d)
	}

	c.Tick(Input{Jump: true}, frame)
	if !c.State().Climbing() {
		t.Fatalf("expected to climb, got %s", c)
	}
	for i := 0; i < 600 && c.State().Climbing(); i++ {
		c.Tick(Input{}, frame)
	}
	for i := 0; i < 100 && (c.State().Phase() != Grounded || c.State().Falling()); i++ {
		c.Tick(Input{}, frame)
	}
	if c.State().Phase() != Grounded {
		t.Fatalf("expected to stand on the ledge, got %s", c)
	}
	pos := c.Position()
	if pos.Y < 300 || pos.Y >= 301 || pos.X <= 200 {
		t.Fatalf("expected to stand on top of the wall, got %v", pos)
	}
}

func TestRightLedgeUngrabKicksLeft(t *testing.T) {
	c := grabRightLedge(t, nil)
	x := c.Position().X

	c.Tick(Input{Crouch: true}, frame)
	if c.State().Grabbed() || !c.JustUngrabbed() {
		t.Fatalf("expected to drop with the guard armed, got %s", c)
	}
	if got := c.Position().X; got != x-40 {
		t.Fatalf("x after ungrab = %v, want %v", got, x-40)
	}

	for i := 0; i < 300 && c.State().Phase() != Grounded; i++ {
		c.Tick(Input{Move: 1}, frame)
		if c.State().Grabbed() {
			t.Fatalf("regrabbed on tick %d while the guard was armed", i)
		}
	}
	if c.State().Phase() != Grounded || c.JustUngrabbed() {
		t.Fatalf("expected to land with the guard cleared, got %s", c)
	}
}
