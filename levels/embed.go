package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgeclimb/common"
	"github.com/milk9111/ledgeclimb/physics"
)

//go:embed *.json
var LevelsFS embed.FS

// Default is the level the game and the simulator load when none is named.
const Default = "ledges.json"

var (
	ErrInvalidDimensions = errors.New("levels: invalid dimensions")
	ErrLayerSize         = errors.New("levels: layer size mismatch")
)

type Level struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	TileWidth  int `json:"tile_width"`
	TileHeight int `json:"tile_height"`
	// Layers is a slice of row-major layers, each Width*Height long. Layer 0
	// is drawn first.
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`

	// hero spawn in tile coordinates
	SpawnX int `json:"spawn_x"`
	SpawnY int `json:"spawn_y"`

	// CameraBounds limits the camera in pixels. Empty means the whole level.
	CameraBounds Bounds `json:"camera_bounds"`
}

type LayerMeta struct {
	HasPhysics bool   `json:"has_physics"`
	Color      string `json:"color,omitempty"`
}

type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LoadLevelFromFS loads an embedded level by file name.
func LoadLevelFromFS(name string) (*Level, error) {
	clean := strings.TrimPrefix(filepath.ToSlash(name), "levels/")
	data, err := fs.ReadFile(LevelsFS, clean)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	return Parse(data)
}

// Load reads a level from disk when the path exists and falls back to the
// embedded copy otherwise.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadLevelFromFS(filepath.Base(path))
		}
		return nil, fmt.Errorf("levels: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates level JSON. Missing layer metadata defaults to
// a non-physics layer.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	if lvl.Width <= 0 || lvl.Height <= 0 || lvl.TileWidth <= 0 || lvl.TileHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d tiles of %dx%d", ErrInvalidDimensions, lvl.Width, lvl.Height, lvl.TileWidth, lvl.TileHeight)
	}
	for i, layer := range lvl.Layers {
		if len(layer) != lvl.Width*lvl.Height {
			return nil, fmt.Errorf("%w: layer %d has %d cells, want %d", ErrLayerSize, i, len(layer), lvl.Width*lvl.Height)
		}
	}
	if len(lvl.LayerMeta) < len(lvl.Layers) {
		meta := make([]LayerMeta, len(lvl.Layers))
		copy(meta, lvl.LayerMeta)
		lvl.LayerMeta = meta
	}
	return &lvl, nil
}

// Solid reports whether any physics layer has a tile in the cell.
func (l *Level) Solid(col, row int) bool {
	if col < 0 || row < 0 || col >= l.Width || row >= l.Height {
		return false
	}
	idx := row*l.Width + col
	for i, layer := range l.Layers {
		if l.LayerMeta[i].HasPhysics && layer[idx] != 0 {
			return true
		}
	}
	return false
}

// Grid builds the collision map from the physics layers.
func (l *Level) Grid() *physics.Grid {
	g := physics.NewGrid(l.Width, l.Height, l.TileWidth, l.TileHeight)
	for row := 0; row < l.Height; row++ {
		for col := 0; col < l.Width; col++ {
			if l.Solid(col, row) {
				g.Set(col, row, true)
			}
		}
	}
	return g
}

// Spawn returns the feet anchor of the spawn tile: its bottom-centre.
func (l *Level) Spawn() cp.Vector {
	return cp.Vector{
		X: float64(l.SpawnX*l.TileWidth) + float64(l.TileWidth)/2,
		Y: float64((l.SpawnY + 1) * l.TileHeight),
	}
}

// PixelSize returns the level extent in pixels.
func (l *Level) PixelSize() (w, h int) {
	return l.Width * l.TileWidth, l.Height * l.TileHeight
}

// Bounds returns the camera bounds, defaulting to the whole level.
func (l *Level) Bounds() common.Rect {
	b := l.CameraBounds
	if b.Width <= 0 || b.Height <= 0 {
		w, h := l.PixelSize()
		return common.Rect{Width: float64(w), Height: float64(h)}
	}
	return common.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}
