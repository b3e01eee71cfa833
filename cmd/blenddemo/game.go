package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/blendmachine/animation"
	"github.com/milk9111/blendmachine/defs"
	"github.com/milk9111/blendmachine/machine"
	"github.com/milk9111/blendmachine/pool"
)

const (
	screenWidth  = 960
	screenHeight = 540
	tickDT       = 1.0 / 60.0
)

type Game struct {
	frames  int
	elapsed float64
	debug   bool

	anims   *animation.Container[string]
	machine *machine.Machine[string]
	rig     *Rig

	defPath   string
	watcher   *defs.Watcher
	auto      *controller
	autopilot bool

	moving bool
	gait   int32
	wave   bool
}

func NewGame(defPath, scriptPath string, debug bool) *Game {
	g := &Game{
		debug:   debug,
		anims:   buildClips(),
		rig:     NewRig(),
		defPath: defPath,
	}

	m, err := g.loadMachine()
	if err != nil {
		log.Fatalf("blenddemo: %v", err)
	}
	g.machine = m

	if scriptPath != "" {
		auto, err := newController(scriptPath)
		if err != nil {
			log.Printf("blenddemo: %v", err)
		} else {
			g.auto = auto
			g.autopilot = true
		}
	}

	g.watchDirs(defPath, scriptPath)
	return g
}

// loadMachine instantiates the machine from the definition file, or from
// the embedded default when no file was given.
func (g *Game) loadMachine() (*machine.Machine[string], error) {
	var spec *defs.MachineSpec
	var err error
	if g.defPath != "" {
		spec, err = defs.Load(g.defPath)
	} else {
		spec, err = defs.Parse(defaultMachineDef)
	}
	if err != nil {
		return nil, err
	}

	m, err := defs.Instantiate(spec, g.anims, func(name string) (string, bool) {
		return name, g.rig.Has(name)
	})
	if err != nil {
		return nil, err
	}
	if g.debug {
		for _, l := range m.Layers() {
			l.SetDebug(true)
		}
	}
	return m, nil
}

func (g *Game) watchDirs(paths ...string) {
	seen := map[string]bool{}
	var dirs []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		dir := filepath.Dir(p)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return
	}

	w, err := defs.NewWatcher(dirs...)
	if err != nil {
		log.Printf("blenddemo: watch: %v", err)
		return
	}
	g.watcher = w
}

// reload rebuilds the machine or controller after a watched file changed.
// A broken file logs and keeps the previous build running.
func (g *Game) reload(path string) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		m, err := g.loadMachine()
		if err != nil {
			log.Printf("blenddemo: reload %s: %v", path, err)
			return
		}
		g.machine = m
		log.Printf("blenddemo: reloaded machine from %s", path)
	case ".tengo":
		auto, err := newController(path)
		if err != nil {
			log.Printf("blenddemo: reload %s: %v", path, err)
			return
		}
		g.auto = auto
		log.Printf("blenddemo: reloaded controller from %s", path)
	}
}

func (g *Game) Update() error {
	g.frames++
	g.elapsed += tickDT

	if g.watcher != nil {
		select {
		case path := <-g.watcher.Events:
			g.reload(path)
		case err := <-g.watcher.Errors:
			log.Printf("blenddemo: watch: %v", err)
		default:
		}
	}

	g.handleInput()

	if g.autopilot && g.auto != nil {
		out, err := g.auto.update(g.elapsed)
		if err != nil {
			log.Printf("blenddemo: %v", err)
			g.autopilot = false
		} else {
			g.applyScriptParameters(out)
		}
	} else {
		g.machine.SetParameter("moving", machine.Rule(g.moving))
		g.machine.SetParameter("gait", machine.Index(g.gait))
		g.machine.SetParameter("wave", machine.Rule(g.wave))
	}

	pose := g.machine.EvaluatePose(g.anims, tickDT)
	g.rig.ApplyPose(pose, screenWidth/2, screenHeight/2-40)

	g.drainEvents()
	return nil
}

func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.moving = !g.moving
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.gait = (g.gait + 1) % 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.wave = !g.wave
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) && g.auto != nil {
		g.autopilot = !g.autopilot
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.machine.Reset()
	}
}

func (g *Game) applyScriptParameters(out map[string]any) {
	if v, ok := out["moving"].(bool); ok {
		g.moving = v
	}
	if v, ok := out["gait"].(int64); ok {
		g.gait = int32(v)
	}
	if v, ok := out["wave"].(bool); ok {
		g.wave = v
	}
	g.machine.SetParameter("moving", machine.Rule(g.moving))
	g.machine.SetParameter("gait", machine.Index(g.gait))
	g.machine.SetParameter("wave", machine.Rule(g.wave))
}

// drainEvents empties the per-layer and per-clip event queues, logging them
// in debug mode so queues never back up.
func (g *Game) drainEvents() {
	for _, l := range g.machine.Layers() {
		for {
			e, ok := l.PopEvent()
			if !ok {
				break
			}
			if g.debug {
				if st := l.State(e.State); st != nil {
					log.Printf("blenddemo: layer %q: %s (%s)", l.Name(), e.Kind, st.Name)
				} else {
					log.Printf("blenddemo: layer %q: %s", l.Name(), e.Kind)
				}
			}
		}
	}
	g.anims.Each(func(_ pool.Handle[animation.Animation[string]], a *animation.Animation[string]) bool {
		for _, e := range a.TakeEvents() {
			if g.debug {
				log.Printf("blenddemo: clip %q: signal %q at %v", a.Name(), e.Signal, e.Time)
			}
		}
		return true
	})
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.rig.Draw(screen)

	mode := "manual"
	if g.autopilot {
		mode = "autopilot"
	}
	state := "?"
	if l, ok := g.machine.LayerByName("locomotion"); ok {
		if st := l.State(l.ActiveState()); st != nil {
			state = st.Name
		} else if !l.ActiveTransition().IsNone() {
			state = "(transitioning)"
		}
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %.1f  mode: %s  state: %s\nmoving: %v  gait: %d  wave: %v\n[space] move  [g] gait  [v] wave  [tab] autopilot  [r] reset",
		ebiten.ActualFPS(), mode, state, g.moving, g.gait, g.wave))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
