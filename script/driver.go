// Package script drives a hero from a tengo script instead of a keyboard.
//
// A script defines a global function input(tick, hero) that returns a map
// with optional keys move (number), jump (bool) and crouch (bool). The hero
// argument is a read-only snapshot of the controller taken before the tick.
package script

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/ledgeclimb/hero"
	"github.com/milk9111/ledgeclimb/prefabs"
)

var ErrNoInputFunc = errors.New("script: no input function")

const dispatch = `
__out := input(__tick, __hero)
`

// Driver is not safe for concurrent use.
type Driver struct {
	name     string
	compiled *tengo.Compiled
}

// Load compiles a script from the prefabs scripts directory.
func Load(name string) (*Driver, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return New(name, src)
}

// New compiles src. It fails with ErrNoInputFunc when the script does not
// define a callable input.
func New(name string, src []byte) (*Driver, error) {
	if err := checkInputFunc(name, src); err != nil {
		return nil, err
	}

	s := tengo.NewScript([]byte(string(src) + "\n" + dispatch))
	_ = s.Add("__tick", 0)
	_ = s.Add("__hero", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Driver{name: name, compiled: compiled}, nil
}

func checkInputFunc(name string, src []byte) error {
	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	compiled, err := s.Compile()
	if err != nil {
		return fmt.Errorf("script: compile %s: %w", name, err)
	}
	if err := compiled.Run(); err != nil {
		return fmt.Errorf("script: run %s: %w", name, err)
	}
	if !compiled.IsDefined("input") || !compiled.Get("input").Object().CanCall() {
		return fmt.Errorf("%w: %s", ErrNoInputFunc, name)
	}
	return nil
}

func (d *Driver) Name() string { return d.name }

// Next runs input for one tick.
func (d *Driver) Next(tick int, snap Snapshot) (hero.Input, error) {
	if err := d.compiled.Set("__tick", tick); err != nil {
		return hero.Input{}, err
	}
	if err := d.compiled.Set("__hero", snap.values()); err != nil {
		return hero.Input{}, err
	}
	if err := d.compiled.Run(); err != nil {
		return hero.Input{}, fmt.Errorf("script: %s tick %d: %w", d.name, tick, err)
	}
	return inputFrom(d.compiled.Get("__out").Object()), nil
}

// Snapshot is what a script can see of the hero.
type Snapshot struct {
	X, Y       float64
	VX, VY     float64
	Facing     hero.Facing
	Phase      hero.Phase
	Flags      hero.Flags
	AnchorDist float64
	Blocked    string
}

// SnapshotOf captures the controller state. AnchorDist is infinite when the
// hero is not attached to a ledge.
func SnapshotOf(c *hero.Controller) Snapshot {
	pos, vel := c.Position(), c.Velocity()
	dist := math.Inf(1)
	if a, ok := c.GrabAnchor(); ok {
		dist = pos.Distance(a)
	}
	return Snapshot{
		X: pos.X, Y: pos.Y,
		VX: vel.X, VY: vel.Y,
		Facing:     c.Facing(),
		Phase:      c.State().Phase(),
		Flags:      c.Flags(),
		AnchorDist: dist,
		Blocked:    c.Blocked().String(),
	}
}

func (s Snapshot) values() map[string]any {
	dist := s.AnchorDist
	if math.IsInf(dist, 0) {
		dist = math.MaxFloat64
	}
	return map[string]any{
		"x":           s.X,
		"y":           s.Y,
		"vx":          s.VX,
		"vy":          s.VY,
		"facing":      s.Facing.String(),
		"phase":       s.Phase.String(),
		"grounded":    s.Phase == hero.Grounded,
		"walking":     s.Flags.Walking,
		"jumping":     s.Flags.Jumping,
		"crouching":   s.Flags.Crouching,
		"falling":     s.Flags.Falling,
		"grabbed":     s.Flags.Grabbed,
		"climbing":    s.Flags.Climbing,
		"ungrabbed":   s.Flags.JustUngrabbed,
		"anchor_dist": dist,
		"blocked":     s.Blocked,
	}
}

func inputFrom(obj tengo.Object) hero.Input {
	var fields map[string]tengo.Object
	switch v := obj.(type) {
	case *tengo.Map:
		fields = v.Value
	case *tengo.ImmutableMap:
		fields = v.Value
	default:
		return hero.Input{}
	}
	return hero.Input{
		Move:   objectAsFloat(fields["move"]),
		Jump:   objectAsBool(fields["jump"]),
		Crouch: objectAsBool(fields["crouch"]),
	}
}

func objectAsFloat(obj tengo.Object) float64 {
	switch v := obj.(type) {
	case *tengo.Int:
		return float64(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.String:
		switch strings.TrimSpace(v.Value) {
		case "left":
			return -1
		case "right":
			return 1
		}
	}
	return 0
}

func objectAsBool(obj tengo.Object) bool {
	if obj == nil {
		return false
	}
	return !obj.IsFalsy()
}
