package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgeclimb/component"
	"github.com/milk9111/ledgeclimb/hero"
	"github.com/milk9111/ledgeclimb/physics"
	"gopkg.in/yaml.v3"
)

var ErrUnknownBone = errors.New("prefabs: unknown bone")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VectorSpec) vector() cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

type ProfileSpec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type CollisionSpec struct {
	CornerMargin    *float64    `yaml:"corner_margin"`
	HorizontalSkin  *float64    `yaml:"horizontal_skin"`
	HeadroomSteps   *int        `yaml:"headroom_steps"`
	GrabClearance   float64     `yaml:"grab_clearance"`
	GrabOffsetLeft  *VectorSpec `yaml:"grab_offset_left"`
	GrabOffsetRight *VectorSpec `yaml:"grab_offset_right"`
}

// HeroSpec is the YAML form of hero.Tuning. Zero values keep the defaults.
type HeroSpec struct {
	Name             string        `yaml:"name"`
	Gravity          float64       `yaml:"gravity"`
	JumpImpulse      float64       `yaml:"jump_impulse"`
	WalkSpeed        float64       `yaml:"walk_speed"`
	GrabLerp         float64       `yaml:"grab_lerp"`
	SnapRadius       float64       `yaml:"snap_radius"`
	UngrabKick       *float64      `yaml:"ungrab_kick"`
	ClimbOffset      *VectorSpec   `yaml:"climb_offset"`
	ClimbRate        float64       `yaml:"climb_rate"`
	FallPoseSpeed    *float64      `yaml:"fall_pose_speed"`
	Stand            ProfileSpec   `yaml:"stand"`
	Crouch           ProfileSpec   `yaml:"crouch"`
	Collision        CollisionSpec `yaml:"collision"`
	FrameIndependent bool          `yaml:"frame_independent"`
	ReferenceFPS     float64       `yaml:"reference_fps"`
	Color            *YAMLColor    `yaml:"color"`
}

func LoadHeroSpec() (*HeroSpec, error) {
	spec, err := LoadSpec[HeroSpec]("hero.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Tuning overlays the spec on hero.DefaultTuning and validates the result.
func (s *HeroSpec) Tuning() (hero.Tuning, error) {
	t := hero.DefaultTuning()
	if s == nil {
		return t, nil
	}
	setFloat(&t.Gravity, s.Gravity)
	setFloat(&t.JumpImpulse, s.JumpImpulse)
	setFloat(&t.WalkSpeed, s.WalkSpeed)
	setFloat(&t.GrabLerp, s.GrabLerp)
	setFloat(&t.SnapRadius, s.SnapRadius)
	setPtr(&t.UngrabKick, s.UngrabKick)
	setFloat(&t.ClimbRate, s.ClimbRate)
	setPtr(&t.FallPoseSpeed, s.FallPoseSpeed)
	if s.ClimbOffset != nil {
		t.ClimbOffset = s.ClimbOffset.vector()
	}
	setProfile(&t.Stand, s.Stand)
	setProfile(&t.Crouch, s.Crouch)
	s.Collision.apply(&t.Collision)

	t.FrameIndependent = s.FrameIndependent
	if s.ReferenceFPS > 0 {
		t.ReferenceStep = time.Duration(float64(time.Second) / s.ReferenceFPS)
	}

	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("prefabs: hero spec %q: %w", s.Name, err)
	}
	return t, nil
}

func (c CollisionSpec) apply(cfg *physics.Config) {
	setPtr(&cfg.CornerMargin, c.CornerMargin)
	setPtr(&cfg.HorizontalSkin, c.HorizontalSkin)
	setFloat(&cfg.GrabClearance, c.GrabClearance)
	setPtr(&cfg.HeadroomSteps, c.HeadroomSteps)
	if c.GrabOffsetLeft != nil {
		cfg.GrabOffsetLeft = c.GrabOffsetLeft.vector()
	}
	if c.GrabOffsetRight != nil {
		cfg.GrabOffsetRight = c.GrabOffsetRight.vector()
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

// setPtr overrides dst when the key was present, so an explicit zero counts.
func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setProfile(dst *hero.Profile, p ProfileSpec) {
	if p.Width != 0 {
		dst.Width = p.Width
	}
	if p.Height != 0 {
		dst.Height = p.Height
	}
}

type CameraSpec struct {
	Name string  `yaml:"name"`
	Zoom float64 `yaml:"zoom"`
	// Smoothness is the fraction of the distance to the target covered each
	// update.
	Smoothness float64 `yaml:"smoothness"`
	// FrameY places the target this far down the screen, 0 top to 1 bottom.
	FrameY     float64    `yaml:"frame_y"`
	Background *YAMLColor `yaml:"background"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	data, err := Load("camera.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load camera.yaml: %w", err)
	}
	var spec CameraSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal camera.yaml: %w", err)
	}
	return &spec, nil
}

type BoneSpec struct {
	Name     string     `yaml:"name"`
	Parent   string     `yaml:"parent"`
	Length   float64    `yaml:"length"`
	Offset   VectorSpec `yaml:"offset"`
	Rotation float64    `yaml:"rotation"` // degrees
}

type KeySpec struct {
	T   float64 `yaml:"t"`
	Deg float64 `yaml:"deg"`
}

type ClipSpec struct {
	Duration float64              `yaml:"duration"`
	Tracks   map[string][]KeySpec `yaml:"tracks"`
}

// RigSpec describes a skeleton and its clips. Angles are in degrees.
type RigSpec struct {
	Name      string              `yaml:"name"`
	Thickness float64             `yaml:"thickness"`
	Bones     []BoneSpec          `yaml:"bones"`
	Clips     map[string]ClipSpec `yaml:"clips"`
}

func LoadRigSpec() (*RigSpec, error) {
	spec, err := LoadSpec[RigSpec]("rig.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Build resolves bone names and converts the spec into a rig. Parents must
// be listed before their children.
func (s *RigSpec) Build() (*component.Rig, error) {
	index := make(map[string]int, len(s.Bones))
	bones := make([]component.Bone, 0, len(s.Bones))
	for i, b := range s.Bones {
		parent := -1
		if b.Parent != "" {
			p, ok := index[b.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: %q is the parent of %q", ErrUnknownBone, b.Parent, b.Name)
			}
			parent = p
		}
		index[b.Name] = i
		bones = append(bones, component.Bone{
			Name:     b.Name,
			Parent:   parent,
			Length:   b.Length,
			Offset:   b.Offset.vector(),
			Rotation: radians(b.Rotation),
		})
	}

	clips := make([]component.Clip, 0, len(s.Clips))
	for name, c := range s.Clips {
		clip := component.Clip{Name: name, Duration: c.Duration}
		for bone, keys := range c.Tracks {
			bi, ok := index[bone]
			if !ok {
				return nil, fmt.Errorf("%w: %q in clip %q", ErrUnknownBone, bone, name)
			}
			tl := component.Timeline{Bone: bi, Keys: make([]component.Keyframe, len(keys))}
			for k, key := range keys {
				tl.Keys[k] = component.Keyframe{Time: key.T, Rotation: radians(key.Deg)}
			}
			clip.Timelines = append(clip.Timelines, tl)
		}
		clips = append(clips, clip)
	}
	return component.NewRig(bones, clips), nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the parsed color, or fallback when unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
