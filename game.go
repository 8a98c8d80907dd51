package main

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/ledgeclimb/common"
	"github.com/milk9111/ledgeclimb/component"
	"github.com/milk9111/ledgeclimb/hero"
	"github.com/milk9111/ledgeclimb/levels"
	"github.com/milk9111/ledgeclimb/obj"
	"github.com/milk9111/ledgeclimb/prefabs"
	"github.com/milk9111/ledgeclimb/script"
	"golang.design/x/clipboard"
)

// maxElapsed caps the frame time fed to the hero after a stall or a pause.
const maxElapsed = 250 * time.Millisecond

type Game struct {
	frames int
	debug  bool
	paused bool

	levelPath  string
	scriptName string

	level  *levels.Level
	hero   *hero.Controller
	rig    *component.Rig
	input  *obj.Input
	driver *script.Driver
	tick   int

	camera    *obj.Camera
	levelView *obj.LevelView
	heroView  *obj.HeroView
	fade      *obj.Transition
	bg        color.Color

	watcher *prefabs.Watcher
	pauseUI *ebitenui.UI

	last        time.Time
	clipboardOK bool
	status      string
	statusUntil int
}

func NewGame(levelPath, scriptName string, debug bool) *Game {
	g := &Game{
		debug:      debug,
		levelPath:  levelPathFor(levelPath),
		scriptName: scriptName,
		input:      obj.NewInput(),
		camera:     obj.NewCamera(common.BaseWidth, common.BaseHeight, 1),
		fade:       obj.NewTransition(),
	}

	lvl, err := levels.Load(g.levelPath)
	if err != nil {
		log.Fatalf("level: %v", err)
	}
	g.level = lvl

	tuning, clr := loadTuning()
	g.rig, _ = loadRig()

	g.hero = hero.New(lvl.Grid(), lvl.Spawn(), tuning, poser(g.rig))
	g.hero.Log = log.Default()

	thickness := 0.0
	if spec, err := prefabs.LoadRigSpec(); err == nil {
		thickness = spec.Thickness
	}
	g.heroView = obj.NewHeroView(g.hero, g.rig, clr, thickness)
	g.heroView.Debug = debug
	g.levelView = obj.NewLevelView(lvl)

	g.bg = color.NRGBA{R: 0x1d, G: 0x23, B: 0x30, A: 0xff}
	if spec, err := prefabs.LoadCameraSpec(); err != nil {
		log.Printf("camera: %v", err)
	} else {
		g.camera.Configure(spec)
		g.bg = spec.Background.Or(g.bg)
	}
	g.camera.SetBounds(lvl.Bounds())
	g.camera.SnapTo(g.hero.Position())

	if scriptName != "" {
		d, err := script.Load(scriptName)
		if err != nil {
			log.Printf("script: %v; using the keyboard", err)
		} else {
			g.driver = d
		}
	}

	if w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"), "levels"); err != nil {
		log.Printf("hot reload disabled: %v", err)
	} else {
		g.watcher = w
	}

	g.pauseUI = NewPauseUI(g)
	return g
}

// levelPathFor turns a -level flag into a path under levels/. Disk copies
// win over the embedded ones so edits are picked up.
func levelPathFor(name string) string {
	if name == "" {
		name = levels.Default
	}
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	if filepath.Dir(name) == "." {
		name = filepath.Join("levels", name)
	}
	return name
}

// loadTuning falls back to the built-in tuning when hero.yaml is broken so a
// bad edit never stops the game.
func loadTuning() (hero.Tuning, color.Color) {
	spec, err := prefabs.LoadHeroSpec()
	if err != nil {
		log.Printf("hero spec: %v", err)
		return hero.DefaultTuning(), nil
	}
	t, err := spec.Tuning()
	if err != nil {
		log.Printf("hero spec: %v", err)
		return hero.DefaultTuning(), spec.Color.Or(nil)
	}
	return t, spec.Color.Or(nil)
}

func loadRig() (*component.Rig, error) {
	spec, err := prefabs.LoadRigSpec()
	if err != nil {
		log.Printf("rig: %v", err)
		return nil, err
	}
	rig, err := spec.Build()
	if err != nil {
		log.Printf("rig: %v", err)
		return nil, err
	}
	return rig, nil
}

// poser keeps a nil rig from becoming a non-nil interface.
func poser(rig *component.Rig) hero.Poser {
	if rig == nil {
		return nil
	}
	return rig
}

func (g *Game) Update() error {
	g.frames++
	now := time.Now()
	elapsed := time.Second / 60
	if !g.last.IsZero() {
		elapsed = min(now.Sub(g.last), maxElapsed)
	}
	g.last = now

	g.reload()
	g.input.Update()

	if g.input.PausePressed {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	if g.fade.Update() {
		return nil
	}

	if g.input.DebugPressed {
		g.debug = !g.debug
		g.heroView.Debug = g.debug
	}
	if g.input.CopyPressed {
		g.copyState()
	}
	if g.input.RespawnPressed {
		g.fade.Start("respawn", g.respawn)
	}

	in := g.input.Input
	if g.driver != nil {
		scripted, err := g.driver.Next(g.tick, script.SnapshotOf(g.hero))
		if err != nil {
			log.Printf("%v; handing control to the keyboard", err)
			g.driver = nil
		} else {
			in = scripted
		}
	}
	g.tick++

	g.hero.Tick(in, elapsed)
	g.camera.Follow(g.hero.Position())
	return nil
}

func (g *Game) respawn() {
	g.hero.Respawn()
	g.tick = 0
	g.camera.SnapTo(g.hero.Position())
}

func (g *Game) copyState() {
	if !g.clipboardOK {
		if err := clipboard.Init(); err != nil {
			log.Printf("clipboard: %v", err)
			g.flash("clipboard unavailable")
			return
		}
		g.clipboardOK = true
	}
	clipboard.Write(clipboard.FmtText, []byte(g.hero.String()))
	g.flash("hero state copied")
}

func (g *Game) flash(msg string) {
	g.status = msg
	g.statusUntil = g.frames + 120
}

// reload applies file changes picked up by the watcher.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	select {
	case err := <-g.watcher.Errors:
		log.Printf("watch: %v", err)
	default:
	}
	for _, c := range g.watcher.Drain() {
		log.Printf("reload %s: %s", c.Kind, c.Path)
		switch c.Kind {
		case prefabs.ChangeSpec:
			g.reloadSpecs()
		case prefabs.ChangeScript:
			if g.scriptName == "" {
				continue
			}
			if d, err := script.Load(g.scriptName); err != nil {
				log.Printf("script: %v", err)
			} else {
				g.driver = d
				g.respawn()
			}
		case prefabs.ChangeLevel:
			if filepath.Base(c.Path) != filepath.Base(g.levelPath) {
				continue
			}
			g.reloadLevel()
		}
	}
}

func (g *Game) reloadSpecs() {
	if spec, err := prefabs.LoadHeroSpec(); err != nil {
		log.Printf("hero spec: %v", err)
	} else if t, err := spec.Tuning(); err != nil {
		log.Printf("hero spec: %v", err)
	} else {
		g.hero.SetTuning(t)
		g.heroView.Color = spec.Color.Or(g.heroView.Color)
	}

	if rig, err := loadRig(); err == nil {
		g.rig = rig
		g.heroView.Rig = rig
		g.hero.SetPoser(rig)
	}

	if spec, err := prefabs.LoadCameraSpec(); err == nil {
		g.camera.Configure(spec)
		g.bg = spec.Background.Or(g.bg)
	}
}

func (g *Game) reloadTuning() {
	g.reloadSpecs()
	g.flash("tuning reloaded")
}

func (g *Game) toggleFrameIndependent() {
	t := g.hero.Tuning()
	t.FrameIndependent = !t.FrameIndependent
	g.hero.SetTuning(t)
	g.flash(fmt.Sprintf("frame independent: %t", t.FrameIndependent))
}

func (g *Game) reloadLevel() {
	lvl, err := levels.Load(g.levelPath)
	if err != nil {
		log.Printf("level: %v", err)
		return
	}
	g.fade.Start("level reload", func() { g.swapLevel(lvl) })
}

func (g *Game) swapLevel(lvl *levels.Level) {
	g.level = lvl
	g.levelView.SetLevel(lvl)
	g.hero.SetTileMap(lvl.Grid())
	g.hero.SetSpawn(lvl.Spawn())
	g.camera.SetBounds(lvl.Bounds())
	g.respawn()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.bg)

	g.camera.Render(screen, func(world *ebiten.Image) {
		camX, camY := g.camera.ViewTopLeft()
		zoom := g.camera.Zoom()
		g.levelView.Draw(world, camX, camY, zoom)
		if g.debug {
			g.levelView.DrawGrid(world, camX, camY, zoom)
		}
		g.heroView.Draw(world, g.camera)
	})

	if g.debug {
		mode := "keyboard"
		if g.driver != nil {
			mode = "script " + g.driver.Name()
		}
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f  input: %s  activity: %s\n%s",
			ebiten.ActualFPS(), mode, g.hero.Activity(), g.hero))
	}
	g.fade.Draw(screen)
	if g.fade.Active() {
		ebitenutil.DebugPrintAt(screen, g.fade.Reason(), 10, common.BaseHeight-36)
	}
	if g.frames < g.statusUntil {
		ebitenutil.DebugPrintAt(screen, g.status, 10, common.BaseHeight-20)
	}

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
