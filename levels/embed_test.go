package levels

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgeclimb/common"
)

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
		want error
	}{
		{"zero_width", `{"width":0,"height":2,"tile_width":10,"tile_height":10}`, ErrInvalidDimensions},
		{"zero_tile", `{"width":2,"height":2,"tile_width":0,"tile_height":10}`, ErrInvalidDimensions},
		{"short_layer", `{"width":2,"height":2,"tile_width":10,"tile_height":10,"layers":[[1,1,1]]}`, ErrLayerSize},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.data))
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}

	if _, err := Parse([]byte("{")); err == nil {
		t.Fatalf("expected an unmarshal error")
	}
}

func TestLevelGridUsesPhysicsLayersOnly(t *testing.T) {
	data := `{
		"width": 3, "height": 2, "tile_width": 10, "tile_height": 20,
		"layers": [[5,0,0, 0,0,0], [0,0,1, 0,1,0]],
		"layer_meta": [{"has_physics": false}, {"has_physics": true}],
		"spawn_x": 1, "spawn_y": 0
	}`
	lvl, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	g := lvl.Grid()

	cases := []struct {
		col, row int
		want     bool
	}{
		{0, 0, false},
		{2, 0, true},
		{1, 1, true},
		{1, 0, false},
		{5, 5, false},
	}
	for _, c := range cases {
		if got := g.Solid(c.col, c.row); got != c.want {
			t.Fatalf("solid(%d,%d) = %t, want %t", c.col, c.row, got, c.want)
		}
	}

	if got := lvl.Spawn(); got != (cp.Vector{X: 15, Y: 20}) {
		t.Fatalf("spawn = %v, want (15,20)", got)
	}
	if got := lvl.Bounds(); got != (common.Rect{Width: 30, Height: 40}) {
		t.Fatalf("default bounds = %+v", got)
	}
}

func TestMissingLayerMetaIsDecorative(t *testing.T) {
	lvl, err := Parse([]byte(`{"width":1,"height":1,"tile_width":8,"tile_height":8,"layers":[[1]]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if lvl.Solid(0, 0) {
		t.Fatalf("a layer without metadata should not collide")
	}
}

func TestEmbeddedDefaultLevel(t *testing.T) {
	lvl, err := LoadLevelFromFS(Default)
	if err != nil {
		t.Fatalf("load %s: %v", Default, err)
	}
	spawn := lvl.Spawn()
	g := lvl.Grid()
	if g.HasSolidTileAt(cp.Vector{X: spawn.X, Y: spawn.Y - 1}) {
		t.Fatalf("spawn point %v is inside a wall", spawn)
	}
	if !g.HasSolidTileAt(spawn) {
		t.Fatalf("spawn point %v is not on the ground", spawn)
	}
	if b := lvl.Bounds(); b.Width <= 0 || b.Height <= 0 {
		t.Fatalf("bad camera bounds %+v", b)
	}
}
