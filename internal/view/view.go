// Package view is the interactive ebiten window over a game.World.
package view

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
	"github.com/Garsondee/Dungeon-Sense/internal/logger"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/basicfont"
)

const (
	defaultWidth  = 1280
	defaultHeight = 800
	statusTTL     = 3 * time.Second
	reportEntries = 60 // log lines included in a copied debug report
)

// Options configures the window.
type Options struct {
	Config game.Config
	Seed   int64
	Saved  *game.SavedState // restored on the first level only

	// Save persists the current level when F5 is pressed. Nil disables it.
	Save func(game.SavedState) error

	Width, Height int
}

// Game implements ebiten.Game.
type Game struct {
	opts   Options
	width  int
	height int

	world  *game.World
	seed   int64
	clock  *game.Clock
	simLog *game.SimLog
	events *EventLog
	cam    camera
	shade  shadeMap
	face   text.Face

	showHUD     bool
	status      string
	statusUntil time.Time

	log *logrus.Entry
}

// New builds the window state and the first level.
func New(opts Options) *Game {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	g := &Game{
		opts:    opts,
		width:   opts.Width,
		height:  opts.Height,
		events:  NewEventLog(),
		face:    text.NewGoXFace(basicfont.Face7x13),
		showHUD: true,
		log:     logger.Component("view"),
	}
	g.load(opts.Seed, opts.Saved)
	return g
}

// load replaces the world. saved may be nil.
func (g *Game) load(seed int64, saved *game.SavedState) {
	g.seed = seed
	g.world = game.NewWorld(g.opts.Config, rand.New(rand.NewSource(seed)), saved) // #nosec G404 -- game only
	g.world.Seed = seed
	g.clock = game.NewClock(g.world.Config().Sim.MaxDelta)
	g.simLog = game.NewSimLog(false)
	g.shade = newShadeMap(g.world.Grid(), seed)
	g.cam = camera{viewW: float64(g.width - logPanelWidth), viewH: float64(g.height)}
	p := g.world.Player()
	ww, wh := g.worldSize()
	g.cam.snap(p.X, p.Y, ww, wh)

	msg := fmt.Sprintf("level %d ready", seed)
	if g.world.Restored() {
		msg = "saved level restored"
	}
	g.events.Add(0, "--", msg, colLogSystem)
	g.log.WithFields(logrus.Fields{"seed": seed, "restored": g.world.Restored()}).Info("level loaded")
}

func (g *Game) worldSize() (float64, float64) {
	gr := g.world.Grid()
	return float64(gr.Cols) * gr.TileSize, float64(gr.Rows) * gr.TileSize
}

// Update advances one frame.
func (g *Game) Update() error {
	now := time.Now()
	g.handleKeys(now)

	if dt := g.clock.Tick(now); dt > 0 {
		g.world.Step(dt, g.readInput())
		evs := g.world.Events().Drain()
		g.simLog.RecordFiltered(g.world, evs)
		g.events.AddEvents(g.world, evs)

		p := g.world.Player()
		ww, wh := g.worldSize()
		g.cam.follow(p.X, p.Y, dt, ww, wh)
	}
	return nil
}

// handleKeys processes edge-triggered commands.
func (g *Game) handleKeys(now time.Time) {
	// P: pause/resume.
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.clock.Paused() {
			g.clock.Resume(now)
			g.setStatus(now, "resumed")
		} else {
			g.clock.Pause()
			g.setStatus(now, "paused")
		}
	}

	// C: copy a debug report.
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		report := game.DebugReport(g.world, g.simLog, reportEntries)
		if err := clipboard.WriteAll(report); err != nil {
			g.log.WithError(err).Warn("clipboard write failed")
			g.setStatus(now, "clipboard unavailable")
		} else {
			g.setStatus(now, "debug report copied")
		}
	}

	// F5: save the level.
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.saveLevel(now)
	}

	// R: new level.
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.load(g.seed+1, nil)
		g.setStatus(now, "new level")
	}

	// H: toggle HUD.
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
}

func (g *Game) saveLevel(now time.Time) {
	if g.opts.Save == nil {
		g.setStatus(now, "no level store configured")
		return
	}
	if err := g.opts.Save(g.world.Save()); err != nil {
		g.log.WithError(err).Error("save level")
		g.setStatus(now, "save failed")
		return
	}
	g.events.Add(g.world.Tick(), "--", "level saved", colLogSystem)
	g.setStatus(now, "level saved")
}

func (g *Game) setStatus(now time.Time, s string) {
	g.status = s
	g.statusUntil = now.Add(statusTTL)
}

// readInput samples the keyboard and mouse into a world Input.
func (g *Game) readInput() game.Input {
	var in game.Input
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.MoveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.MoveX++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.MoveY--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.MoveY++
	}
	mx, my := ebiten.CursorPosition()
	in.AimX, in.AimY = g.cam.toWorld(mx, my)
	in.Attack = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || ebiten.IsKeyPressed(ebiten.KeySpace)
	return in
}

// Layout reports a fixed logical screen.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
