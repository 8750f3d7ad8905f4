package game

import (
	"math"
	"math/rand"

	"github.com/Garsondee/Dungeon-Sense/internal/logger"
	"github.com/sirupsen/logrus"
)

// World owns one level: the grid, the visibility field, every agent and
// the pending event queue. Step is the only mutator and must not be
// called concurrently.
type World struct {
	// Seed is informational; it is reported by DebugReport.
	Seed int64

	cfg  Config
	rng  *rand.Rand
	grid *TileGrid
	fog  *VisibilityField

	// agents is an arena indexed by agent ID. Slot 0 is the player.
	agents []*Agent
	player *Agent

	// hostileAlpha is the render alpha of each agent slot.
	hostileAlpha []float64

	floors     [][2]int
	exitCol    int
	exitRow    int
	fogEnabled bool

	aimX, aimY  float64
	tick        int
	gameOver    bool
	exitReached bool
	restored    bool

	events EventQueue
	log    *logrus.Entry
}

// NewWorld builds a world. When saved carries a usable grid it is used
// and its agent snapshots are restored; otherwise a fresh level is
// generated from rng and populated. A nil rng is replaced by a fixed seed.
func NewWorld(cfg Config, rng *rand.Rand, saved *SavedState) *World {
	cfg.Clamp()
	if rng == nil {
		rng = rand.New(rand.NewSource(1)) // #nosec G404 -- game only
	}
	w := &World{
		cfg:        cfg,
		rng:        rng,
		fogEnabled: cfg.Fog.Enabled,
		log:        logger.Component("world"),
	}

	if g, ok := saved.usableGrid(cfg.Level.TileSize); ok {
		w.grid = g
		w.restored = true
	} else {
		if saved != nil {
			w.log.Warn("saved level unusable, generating a fresh one")
		}
		w.grid = GenerateDungeon(cfg.Level.CellsWide, cfg.Level.CellsHigh, rng, cfg.Level)
	}
	w.fog = NewVisibilityField(w.grid, cfg.Fog)
	w.indexFloors()

	w.spawnPlayer()
	if w.restored && len(saved.Agents) > 0 {
		w.restoreAgents(saved.Agents)
	} else {
		w.spawnHostiles(cfg.Hostiles.Count)
	}
	w.hostileAlpha = make([]float64, len(w.agents))

	if c, r, ok := w.grid.NearestFloor(w.grid.Cols-2, w.grid.Rows-2); ok {
		w.exitCol, w.exitRow = c, r
	}
	w.fog.Explore(w.grid.WorldToTile(w.player.X, w.player.Y))
	w.aimX, w.aimY = w.player.X+1, w.player.Y

	w.log.WithFields(logrus.Fields{
		"cols":     w.grid.Cols,
		"rows":     w.grid.Rows,
		"floor":    len(w.floors),
		"hostiles": len(w.agents) - 1,
		"restored": w.restored,
	}).Info("world ready")
	return w
}

func (w *World) indexFloors() {
	w.floors = w.floors[:0]
	for r := 0; r < w.grid.Rows; r++ {
		for c := 0; c < w.grid.Cols; c++ {
			if w.grid.IsFloor(c, r) {
				w.floors = append(w.floors, [2]int{c, r})
			}
		}
	}
}

// defaultSpawn is the centre of the floor tile nearest the map centre.
func (w *World) defaultSpawn() (float64, float64) {
	c, r, ok := w.grid.NearestFloor(w.grid.Cols/2, w.grid.Rows/2)
	if !ok {
		return w.grid.TileCenter(w.grid.Cols/2, w.grid.Rows/2)
	}
	return w.grid.TileCenter(c, r)
}

func (w *World) spawnPlayer() {
	x, y := w.defaultSpawn()
	w.player = newPlayer(0, x, y, w.cfg.Player)
	w.agents = append(w.agents[:0], w.player)
}

// randomFloorFarFrom picks a random floor tile centre at least minDist
// from (x,y). After the configured number of attempts it gives up and
// returns (x+minDist, y).
func (w *World) randomFloorFarFrom(x, y, minDist float64) (float64, float64) {
	if len(w.floors) > 0 {
		for i := 0; i < w.cfg.Sim.SpawnAttempts; i++ {
			t := w.floors[w.rng.Intn(len(w.floors))]
			cx, cy := w.grid.TileCenter(t[0], t[1])
			if math.Hypot(cx-x, cy-y) >= minDist {
				return cx, cy
			}
		}
	}
	return x + minDist, y
}

func (w *World) spawnHostiles(n int) {
	hc := w.cfg.Hostiles
	for i := 0; i < n; i++ {
		x, y := w.randomFloorFarFrom(w.player.X, w.player.Y, hc.SpawnMinDist)
		t := PickHostileType(hc.Types, w.rng)
		w.agents = append(w.agents, newHostile(len(w.agents), x, y, t, hc, w.rng))
	}
}

// addHostile places one hostile of the named type at (x,y), growing the
// alpha slots to match.
func (w *World) addHostile(typeName string, x, y float64) *Agent {
	t, _ := HostileTypeByName(w.cfg.Hostiles.Types, typeName)
	h := newHostile(len(w.agents), x, y, t, w.cfg.Hostiles, w.rng)
	w.agents = append(w.agents, h)
	w.hostileAlpha = append(w.hostileAlpha, 0)
	return h
}

// restoreAgents applies snapshots onto a restored grid. A player snapshot
// moves the player; hostile snapshots recreate hostiles by type name.
// Positions off the walkable map fall back to default placement.
func (w *World) restoreAgents(snaps []AgentSnapshot) {
	hc := w.cfg.Hostiles
	for _, s := range snaps {
		placed := w.placeable(s.X, s.Y)
		switch s.Kind {
		case AgentPlayer:
			if placed {
				w.player.X, w.player.Y = s.X, s.Y
			}
			if s.HP > 0 && !math.IsNaN(s.HP) {
				w.player.HP = math.Min(s.HP, w.player.HPMax)
			}
		case AgentHostile:
			t, known := HostileTypeByName(hc.Types, s.Type)
			if !known {
				w.log.WithField("type", s.Type).Warn("unknown hostile type, using default")
			}
			x, y := s.X, s.Y
			if !placed {
				x, y = w.randomFloorFarFrom(w.player.X, w.player.Y, hc.SpawnMinDist)
				if !w.placeable(x, y) {
					t := w.floors[w.rng.Intn(len(w.floors))]
					x, y = w.grid.TileCenter(t[0], t[1])
				}
			}
			h := newHostile(len(w.agents), x, y, t, hc, w.rng)
			h.HP = clampFloat(s.HP, 0, t.HP)
			if h.HP <= 0 {
				h.State = StateDead
			}
			w.agents = append(w.agents, h)
		}
	}
}

func (w *World) placeable(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}
	return w.grid.Walkable(w.grid.WorldToTile(x, y))
}

// --- Tick ---

// Step advances the world by dt seconds. dt is clamped to
// [0, Sim.MaxDelta]. Order per tick:
//  1. player integrates and resolves against walls
//  2. hostiles integrate, resolve against walls and each other, and strike
//  3. player and hostiles push apart
//  4. visibility recompute (while fog is on)
//  5. player swing resolution
//  6. exit check
//  7. fog fade and hostile render alpha
//
// After the player dies Step does nothing.
func (w *World) Step(dt float64, in Input) {
	if w.gameOver {
		return
	}
	dt = clampFloat(dt, 0, w.cfg.Sim.MaxDelta)
	w.tick++
	w.aimX, w.aimY = in.AimX, in.AimY

	updatePlayer(w.player, in, w, dt)
	for _, a := range w.agents {
		if a.Kind == AgentHostile {
			updateHostile(a, w, dt)
		}
	}
	for _, a := range w.agents {
		if a.Kind == AgentHostile && a.Alive() {
			ResolveCircleVsCircle(&w.player.Body, &a.Body)
		}
	}

	if w.fogEnabled {
		w.fog.Compute(w.player.X, w.player.Y)
		for _, t := range w.fog.Revealed() {
			w.events.Push(Event{Kind: EventTileRevealed, Tick: w.tick, TX: t[0], TY: t[1]})
		}
	}

	resolvePlayerAttack(w)
	w.checkExit()

	w.fog.UpdateFade(dt)
	w.updateHostileAlpha(dt)
}

func (w *World) checkExit() {
	if !w.fogEnabled {
		return
	}
	ex, ey := w.grid.TileCenter(w.exitCol, w.exitRow)
	if math.Hypot(w.player.X-ex, w.player.Y-ey) >= w.cfg.Sim.ExitRadius {
		return
	}
	w.fogEnabled = false
	w.exitReached = true
	w.fog.RevealAll()
	w.events.Push(Event{Kind: EventMapRevealed, Tick: w.tick})
	w.log.WithField("tick", w.tick).Info("exit reached, map revealed")
}

// updateHostileAlpha keeps hostiles on visible tiles fully opaque and
// fades the rest linearly toward zero.
func (w *World) updateHostileAlpha(dt float64) {
	fc := w.cfg.Fog
	step := dt * 1000 / math.Max(1, fc.FadeMs)
	for i, a := range w.agents {
		if a.Kind != AgentHostile {
			continue
		}
		if !w.fogEnabled || !fc.HideHostiles || w.fog.IsVisibleAt(a.X, a.Y) {
			w.hostileAlpha[i] = 1
			continue
		}
		if !fc.FadeEnabled {
			w.hostileAlpha[i] = 0
			continue
		}
		w.hostileAlpha[i] = math.Max(0, w.hostileAlpha[i]-step)
	}
}

// setState changes an agent's state and reports the change.
func (w *World) setState(a *Agent, s AgentState) {
	if a.State == s {
		return
	}
	w.events.Push(Event{Kind: EventStateChanged, Tick: w.tick, AgentID: a.ID, From: a.State, To: s})
	a.State = s
}

// damage applies amount to target on behalf of source and emits the
// matching events.
func (w *World) damage(target, source *Agent, amount float64) {
	before := target.State
	applied := target.TakeDamage(amount)
	if applied <= 0 {
		return
	}
	e := Event{Tick: w.tick, AgentID: target.ID, SourceID: source.ID, Amount: applied}
	if target.Kind == AgentPlayer {
		e.Kind = EventPlayerDamaged
		w.events.Push(e)
		if !target.Alive() {
			w.gameOver = true
			w.events.Push(Event{Kind: EventPlayerDied, Tick: w.tick, AgentID: target.ID, SourceID: source.ID})
			w.log.WithFields(logrus.Fields{"tick": w.tick, "by": source.Label()}).Info("player died")
		}
		return
	}
	e.Kind = EventHostileDamaged
	w.events.Push(e)
	if !target.Alive() {
		w.events.Push(Event{Kind: EventHostileKilled, Tick: w.tick, AgentID: target.ID, SourceID: source.ID, Amount: applied})
		w.events.Push(Event{Kind: EventStateChanged, Tick: w.tick, AgentID: target.ID, From: before, To: StateDead})
		w.log.WithFields(logrus.Fields{"tick": w.tick, "hostile": target.Label(), "type": target.Type.Name}).Debug("hostile killed")
	}
}

// --- Accessors ---

// Grid returns the level grid. Callers must not modify it.
func (w *World) Grid() *TileGrid { return w.grid }

// Fog returns the visibility field.
func (w *World) Fog() *VisibilityField { return w.fog }

// Config returns the clamped configuration the world runs with.
func (w *World) Config() Config { return w.cfg }

// Player returns the player agent.
func (w *World) Player() *Agent { return w.player }

// Agents returns every agent, indexed by ID.
func (w *World) Agents() []*Agent { return w.agents }

// Agent returns the agent with the given ID, or nil.
func (w *World) Agent(id int) *Agent {
	if id < 0 || id >= len(w.agents) {
		return nil
	}
	return w.agents[id]
}

// HostileAlpha returns the render alpha of agent id, or 1 for the player
// and unknown ids.
func (w *World) HostileAlpha(id int) float64 {
	if id <= 0 || id >= len(w.hostileAlpha) {
		return 1
	}
	return w.hostileAlpha[id]
}

// Tick returns the number of steps taken.
func (w *World) Tick() int { return w.tick }

// GameOver reports whether the player has died.
func (w *World) GameOver() bool { return w.gameOver }

// ExitReached reports whether the player has reached the exit.
func (w *World) ExitReached() bool { return w.exitReached }

// FogEnabled reports whether visibility is still being recomputed.
func (w *World) FogEnabled() bool { return w.fogEnabled }

// Restored reports whether the level came from a saved state.
func (w *World) Restored() bool { return w.restored }

// Exit returns the exit tile.
func (w *World) Exit() (int, int) { return w.exitCol, w.exitRow }

// Aim returns the latest aim point.
func (w *World) Aim() (float64, float64) { return w.aimX, w.aimY }

// Events returns the pending event queue. Collaborators drain it.
func (w *World) Events() *EventQueue { return &w.events }

// LiveHostiles counts hostiles with hp above zero.
func (w *World) LiveHostiles() int {
	n := 0
	for _, a := range w.agents {
		if a.Kind == AgentHostile && a.Alive() {
			n++
		}
	}
	return n
}
