package script

import (
	"errors"
	"testing"
	"time"

	"github.com/milk9111/ledgeclimb/hero"
	"github.com/milk9111/ledgeclimb/levels"
	"github.com/milk9111/ledgeclimb/prefabs"
)

func TestDriverNext(t *testing.T) {
	src := []byte(`
input := func(tick, hero) {
	if tick == 0 { return {move: 1} }
	if tick == 1 { return {move: -0.5, jump: true} }
	if tick == 2 { return {crouch: hero.grounded} }
	if tick == 3 { return {move: "left"} }
}
`)
	d, err := New("inline", src)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	cases := []struct {
		tick int
		snap Snapshot
		want hero.Input
	}{
		{0, Snapshot{}, hero.Input{Move: 1}},
		{1, Snapshot{}, hero.Input{Move: -0.5, Jump: true}},
		{2, Snapshot{Phase: hero.Grounded}, hero.Input{Crouch: true}},
		{2, Snapshot{Phase: hero.Airborne}, hero.Input{}},
		{3, Snapshot{}, hero.Input{Move: -1}},
		{4, Snapshot{}, hero.Input{}},
	}
	for _, c := range cases {
		got, err := d.Next(c.tick, c.snap)
		if err != nil {
			t.Fatalf("tick %d: %v", c.tick, err)
		}
		if got != c.want {
			t.Fatalf("tick %d: got %+v, want %+v", c.tick, got, c.want)
		}
	}
}

func TestNewErrors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"missing_input", `x := 1`, ErrNoInputFunc},
		{"input_not_callable", `input := 3`, ErrNoInputFunc},
		{"syntax", `input := func( {`, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.name, []byte(c.src))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if c.wantErr != nil && !errors.Is(err, c.wantErr) {
				t.Fatalf("err = %v, want %v", err, c.wantErr)
			}
		})
	}
}

func TestRuntimeErrorIsReported(t *testing.T) {
	d, err := New("boom", []byte(`input := func(tick, hero) { f := hero.x; return f() }`))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := d.Next(0, Snapshot{X: 1}); err == nil {
		t.Fatalf("expected a runtime error")
	}
}

func TestEmbeddedScriptsCompile(t *testing.T) {
	for _, name := range prefabs.Scripts() {
		if _, err := Load(name); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestWalkAndClimbReachesThePillarTop(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS(levels.Default)
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	d, err := Load("walk_and_climb")
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	c := hero.New(lvl.Grid(), lvl.Spawn(), hero.DefaultTuning(), nil)

	climbed := 0
	wasClimbing := false
	for tick := 0; tick < 3000; tick++ {
		in, err := d.Next(tick, SnapshotOf(c))
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		c.Tick(in, time.Second/60)
		if wasClimbing && !c.State().Climbing() {
			climbed++
		}
		wasClimbing = c.State().Climbing()
	}
	if climbed < 2 {
		t.Fatalf("expected to climb the block and the pillar, climbed %d times; %s", climbed, c)
	}
	if c.Position().X < 1100 {
		t.Fatalf("expected to end past the pillar, got %v", c.Position())
	}
}
