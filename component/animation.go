package component

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
)

// Bone is one segment of a skeleton. Parent is an index into the rig's bone
// list, or -1 for the root. Offset is measured in the parent's frame from the
// parent's tip (or from the rig root for root bones).
type Bone struct {
	Name     string
	Parent   int
	Length   float64
	Offset   cp.Vector
	Rotation float64 // bind rotation, radians, relative to the parent
}

// Keyframe is a bone rotation relative to the bind pose at a clip time.
type Keyframe struct {
	Time     float64
	Rotation float64
}

// Timeline animates a single bone.
type Timeline struct {
	Bone int
	Keys []Keyframe
}

// Clip is a named set of bone timelines.
type Clip struct {
	Name      string
	Duration  float64
	Timelines []Timeline
}

// Segment is a bone resolved into world space.
type Segment struct {
	Name     string
	From, To cp.Vector
}

// Rig is a 2D skeleton posed by blending keyframed clips. It satisfies the
// hero's pose interface and knows nothing about rendering.
type Rig struct {
	Bones []Bone

	clips map[string]*Clip
	pose  []float64

	root  cp.Vector
	flipX bool
}

// NewRig creates a rig in its bind pose. Bones must be ordered so that every
// parent precedes its children.
func NewRig(bones []Bone, clips []Clip) *Rig {
	r := &Rig{
		Bones: bones,
		clips: make(map[string]*Clip, len(clips)),
		pose:  make([]float64, len(bones)),
	}
	for i := range clips {
		c := clips[i]
		for j := range c.Timelines {
			keys := c.Timelines[j].Keys
			sort.SliceStable(keys, func(a, b int) bool { return keys[a].Time < keys[b].Time })
		}
		r.clips[c.Name] = &c
	}
	r.Rest()
	return r
}

// BoneIndex returns the index of the named bone or -1.
func (r *Rig) BoneIndex(name string) int {
	for i, b := range r.Bones {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// Clips returns the clip names sorted.
func (r *Rig) Clips() []string {
	names := make([]string, 0, len(r.clips))
	for n := range r.clips {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Rest puts every bone back to its bind rotation.
func (r *Rig) Rest() {
	for i, b := range r.Bones {
		r.pose[i] = b.Rotation
	}
}

// Apply poses every bone keyed by clip at time t with full weight.
func (r *Rig) Apply(clip string, t float64, loop bool) {
	r.Mix(clip, t, loop, 1)
}

// Mix moves every bone keyed by clip toward its sampled rotation by alpha.
// Unknown clips are ignored.
func (r *Rig) Mix(clip string, t float64, loop bool, alpha float64) {
	c, ok := r.clips[clip]
	if !ok {
		return
	}
	t = clipTime(t, c.Duration, loop)
	for _, tl := range c.Timelines {
		if tl.Bone < 0 || tl.Bone >= len(r.pose) || len(tl.Keys) == 0 {
			continue
		}
		target := r.Bones[tl.Bone].Rotation + sample(tl.Keys, t)
		r.pose[tl.Bone] += (target - r.pose[tl.Bone]) * alpha
	}
}

// Duration returns the clip length in seconds, or 0 for unknown clips.
func (r *Rig) Duration(clip string) float64 {
	if c, ok := r.clips[clip]; ok {
		return c.Duration
	}
	return 0
}

// Sync places the rig root and sets horizontal mirroring.
func (r *Rig) Sync(root cp.Vector, flipX bool) {
	r.root = root
	r.flipX = flipX
}

func (r *Rig) Root() cp.Vector { return r.root }
func (r *Rig) FlipX() bool     { return r.flipX }

// Rotation returns the current local rotation of bone i.
func (r *Rig) Rotation(i int) float64 {
	if i < 0 || i >= len(r.pose) {
		return 0
	}
	return r.pose[i]
}

// Segments resolves the current pose into world-space line segments, one per
// bone, in bone order. Y grows downward and a zero rotation points up.
func (r *Rig) Segments() []Segment {
	out := make([]Segment, len(r.Bones))
	angle := make([]float64, len(r.Bones))
	tip := make([]cp.Vector, len(r.Bones))
	sx := 1.0
	if r.flipX {
		sx = -1
	}

	for i, b := range r.Bones {
		base, parentAngle := cp.Vector{}, 0.0
		if b.Parent >= 0 && b.Parent < i {
			base, parentAngle = tip[b.Parent], angle[b.Parent]
		}
		a := parentAngle + r.pose[i]
		from := base.Add(rotate(b.Offset, parentAngle))
		to := from.Add(rotate(cp.Vector{Y: -b.Length}, a))
		angle[i], tip[i] = a, to

		out[i] = Segment{
			Name: b.Name,
			From: r.root.Add(cp.Vector{X: from.X * sx, Y: from.Y}),
			To:   r.root.Add(cp.Vector{X: to.X * sx, Y: to.Y}),
		}
	}
	return out
}

func rotate(v cp.Vector, a float64) cp.Vector {
	s, c := math.Sincos(a)
	return cp.Vector{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// clipTime wraps looping clips and clamps one-shots to their last frame.
func clipTime(t, duration float64, loop bool) float64 {
	if duration <= 0 {
		return 0
	}
	if loop {
		t = math.Mod(t, duration)
		if t < 0 {
			t += duration
		}
		return t
	}
	return math.Max(0, math.Min(t, duration))
}

// sample linearly interpolates sorted keys at t, holding the end values.
func sample(keys []Keyframe, t float64) float64 {
	if t <= keys[0].Time {
		return keys[0].Rotation
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Rotation
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time > t })
	a, b := keys[i-1], keys[i]
	f := (t - a.Time) / (b.Time - a.Time)
	return a.Rotation + (b.Rotation-a.Rotation)*f
}
