package game

import (
	"math/rand"
)

// SimDT is the fixed tick length TestSim steps with.
const SimDT = 1.0 / 60

// TestSim is a headless harness over a World for tests and reports. It
// drives Step with a fixed dt and mirrors drained events into SimLog.
type TestSim struct {
	World  *World
	SimLog *SimLog
	Tick   int

	cfg      Config
	seed     int64
	rows     []string
	playerAt *[2]float64
	hostiles []hostileSpec
}

type hostileSpec struct {
	typeName string
	x, y     float64
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // config, seed, grid, verbose: applied before the world exists
	simOptAgent                      // player placement and extra hostiles: applied after
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.seed = seed
	}}
}

// WithCells sets the maze size in cells.
func WithCells(w, h int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Level.CellsWide = w
		ts.cfg.Level.CellsHigh = h
	}}
}

// WithGridRows uses a fixed map instead of generating one. Rows use '#'
// for wall and '.' for floor.
func WithGridRows(rows ...string) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rows = rows
	}}
}

// WithHostileCount sets how many hostiles the world populates itself with.
func WithHostileCount(n int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Hostiles.Count = n
	}}
}

// WithConfig edits the config before the world is built.
func WithConfig(fn func(*Config)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		fn(&ts.cfg)
	}}
}

// WithVerbose keeps tile reveals and state flips in SimLog.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithPlayerAt moves the player after construction.
func WithPlayerAt(x, y float64) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		ts.playerAt = &[2]float64{x, y}
	}}
}

// WithHostile adds a hostile of the named type at (x,y).
func WithHostile(typeName string, x, y float64) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		ts.hostiles = append(ts.hostiles, hostileSpec{typeName: typeName, x: x, y: y})
	}}
}

// NewTestSim constructs a TestSim in two passes: infrastructure options,
// then the world, then agent options. Self-population defaults to zero
// hostiles so scenarios only contain what they add.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		cfg:    DefaultConfig(),
		seed:   1,
		SimLog: NewSimLog(false),
	}
	ts.cfg.Level.CellsWide = 20
	ts.cfg.Level.CellsHigh = 16
	ts.cfg.Hostiles.Count = 0

	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}

	var saved *SavedState
	if len(ts.rows) > 0 {
		saved = &SavedState{TileSize: ts.cfg.Level.TileSize, Rows: ts.rows}
	}
	ts.World = NewWorld(ts.cfg, rand.New(rand.NewSource(ts.seed)), saved) // #nosec G404 -- test harness
	ts.World.Seed = ts.seed

	for _, o := range opts {
		if o.kind == simOptAgent {
			o.fn(ts)
		}
	}
	if ts.playerAt != nil {
		p := ts.World.Player()
		p.X, p.Y = ts.playerAt[0], ts.playerAt[1]
	}
	for _, h := range ts.hostiles {
		ts.World.addHostile(h.typeName, h.x, h.y)
	}
	ts.drain()
	return ts
}

// Player returns the player agent.
func (ts *TestSim) Player() *Agent { return ts.World.Player() }

// Hostile returns the nth hostile added (0-based), or nil.
func (ts *TestSim) Hostile(n int) *Agent {
	for _, a := range ts.World.Agents() {
		if a.Kind != AgentHostile {
			continue
		}
		if n == 0 {
			return a
		}
		n--
	}
	return nil
}

func (ts *TestSim) drain() {
	ts.SimLog.RecordFiltered(ts.World, ts.World.Events().Drain())
}

// Step advances one tick with the given input.
func (ts *TestSim) Step(in Input) {
	ts.World.Step(SimDT, in)
	ts.Tick = ts.World.Tick()
	ts.drain()
}

// RunTicks advances n ticks holding the same input.
func (ts *TestSim) RunTicks(n int, in Input) {
	for i := 0; i < n; i++ {
		ts.Step(in)
	}
}

// RunTicksWith advances n ticks asking input for each tick's input.
func (ts *TestSim) RunTicksWith(n int, input func(ts *TestSim) Input) {
	for i := 0; i < n; i++ {
		ts.Step(input(ts))
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int, in Input) int {
	for i := 0; i < maxTicks; i++ {
		ts.Step(in)
		if predicate(ts) {
			return ts.Tick
		}
	}
	return -1
}
