package component

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func testRig() *Rig {
	bones := []Bone{
		{Name: "hip", Parent: -1, Length: 10},
		{Name: "arm", Parent: 0, Length: 5, Rotation: math.Pi / 2},
	}
	clips := []Clip{{
		Name:     "wave",
		Duration: 1,
		Timelines: []Timeline{{
			Bone: 1,
			Keys: []Keyframe{{Time: 1, Rotation: 1}, {Time: 0, Rotation: 0}},
		}},
	}}
	return NewRig(bones, clips)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRigSampling(t *testing.T) {
	cases := []struct {
		name string
		t    float64
		loop bool
		want float64
	}{
		{"start", 0, false, 0},
		{"middle", 0.25, false, 0.25},
		{"clamped_one_shot", 3, false, 1},
		{"wrapped_loop", 1.5, true, 0.5},
		{"negative_loop", -0.25, true, 0.75},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := testRig()
			r.Apply("wave", c.t, c.loop)
			if got := r.Rotation(1); !near(got, math.Pi/2+c.want) {
				t.Fatalf("rotation = %v, want %v", got, math.Pi/2+c.want)
			}
		})
	}
}

func TestRigMixAndRest(t *testing.T) {
	r := testRig()
	r.Mix("wave", 1, false, 0.5)
	if got := r.Rotation(1); !near(got, math.Pi/2+0.5) {
		t.Fatalf("half mix rotation = %v", got)
	}
	r.Mix("missing", 1, false, 1)
	if got := r.Rotation(1); !near(got, math.Pi/2+0.5) {
		t.Fatalf("unknown clip changed the pose: %v", got)
	}
	r.Rest()
	if got := r.Rotation(1); !near(got, math.Pi/2) {
		t.Fatalf("rest rotation = %v", got)
	}
	if r.Duration("wave") != 1 || r.Duration("missing") != 0 {
		t.Fatalf("unexpected durations")
	}
}

func TestRigSegments(t *testing.T) {
	r := testRig()
	r.Sync(cp.Vector{X: 100, Y: 200}, false)
	segs := r.Segments()
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	hip, arm := segs[0], segs[1]
	if hip.From != (cp.Vector{X: 100, Y: 200}) || !near(hip.To.Y, 190) || !near(hip.To.X, 100) {
		t.Fatalf("hip = %+v", hip)
	}
	// A quarter turn from the hip tip points the arm to the right.
	if !near(arm.To.X, 105) || !near(arm.To.Y, 190) {
		t.Fatalf("arm = %+v", arm)
	}

	r.Sync(cp.Vector{X: 100, Y: 200}, true)
	if got := r.Segments()[1].To.X; !near(got, 95) {
		t.Fatalf("mirrored arm tip x = %v, want 95", got)
	}
}
