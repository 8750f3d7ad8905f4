package game

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Level.CellsWide = 12
	cfg.Level.CellsHigh = 10
	cfg.Hostiles.Count = 15
	cfg.Hostiles.SpawnMinDist = 100
	return cfg
}

func TestWorld_NewWorldPopulates(t *testing.T) {
	w := NewWorld(smallConfig(), rand.New(rand.NewSource(3)), nil)
	if w.Restored() {
		t.Fatal("fresh world reported as restored")
	}
	if g := w.Grid(); g.Cols != 25 || g.Rows != 21 {
		t.Fatalf("grid=%dx%d, want 25x21", g.Cols, g.Rows)
	}
	if n := len(w.Agents()); n != 16 {
		t.Fatalf("agents=%d, want player plus 15", n)
	}
	if w.Agents()[0] != w.Player() {
		t.Fatal("slot 0 must be the player")
	}
	for _, a := range w.Agents() {
		if !w.placeable(a.X, a.Y) {
			t.Fatalf("agent %s spawned off the floor at (%.0f,%.0f)", a.Label(), a.X, a.Y)
		}
	}
	ec, er := w.Exit()
	if !w.Grid().IsFloor(ec, er) {
		t.Fatalf("exit (%d,%d) is not floor", ec, er)
	}
	pc, pr := w.Grid().WorldToTile(w.Player().X, w.Player().Y)
	if !w.Fog().IsExplored(pc, pr) {
		t.Fatal("the spawn tile should start explored")
	}
}

func TestWorld_DeltaClamped(t *testing.T) {
	move := Input{MoveX: 1, AimX: 1000, AimY: 320}
	a := openRoom()
	b := openRoom()
	a.World.Step(5, move)
	b.World.Step(0.033, move)
	if a.Player().X != b.Player().X || a.Player().VX != b.Player().VX {
		t.Fatalf("dt=5 gave x=%.4f vx=%.4f, dt=0.033 gave x=%.4f vx=%.4f",
			a.Player().X, a.Player().VX, b.Player().X, b.Player().VX)
	}

	c := openRoom()
	c.World.Step(-1, move)
	if c.Player().X != 480 || c.Player().VX != 0 {
		t.Fatalf("negative dt moved the player to x=%.4f vx=%.4f", c.Player().X, c.Player().VX)
	}
}

func TestWorld_Deterministic(t *testing.T) {
	run := func() (Frame, string) {
		w := NewWorld(smallConfig(), rand.New(rand.NewSource(7)), nil)
		for i := 0; i < 300; i++ {
			a := float64(i) * 0.05
			p := w.Player()
			w.Step(SimDT, Input{
				MoveX:  math.Cos(a),
				MoveY:  math.Sin(a),
				AimX:   p.X + math.Cos(a),
				AimY:   p.Y + math.Sin(a),
				Attack: i%20 < 3,
			})
			w.Events().Drain()
		}
		return w.Frame(), w.Grid().String()
	}
	f1, g1 := run()
	f2, g2 := run()
	if g1 != g2 {
		t.Fatal("same seed produced different grids")
	}
	if !reflect.DeepEqual(f1, f2) {
		t.Fatal("same seed and inputs produced different frames")
	}
}

func TestWorld_GameOverFreezes(t *testing.T) {
	ts := NewTestSim(
		WithGridRows(roomRows(12, 6)...),
		WithPlayerAt(100, 96),
		WithHostile("red", 125, 96),
	)
	ts.Player().HP = 10
	ts.Step(Input{})
	if !ts.World.GameOver() {
		t.Fatalf("player hp=%.0f, expected game over", ts.Player().HP)
	}
	if ts.Player().HP != 0 {
		t.Fatalf("player hp=%.0f, want 0", ts.Player().HP)
	}
	if !ts.SimLog.HasEntry("combat", "player_died", "by H1") {
		t.Fatalf("missing death entry:\n%s", ts.SimLog.Format())
	}

	tick := ts.World.Tick()
	h := ts.Hostile(0)
	hx := h.X
	ts.RunTicks(30, Input{MoveX: 1})
	if ts.World.Tick() != tick || h.X != hx {
		t.Fatal("world kept simulating after game over")
	}
}

func TestWorld_ExitRevealsMap(t *testing.T) {
	rows := roomRows(10, 6)
	ts := NewTestSim(WithGridRows(rows...), WithHostile("green", 60, 60))
	ec, er := ts.World.Exit()
	if ec != 8 || er != 4 {
		t.Fatalf("exit=(%d,%d), want (8,4)", ec, er)
	}
	x, y := ts.World.Grid().TileCenter(ec, er)
	p := ts.Player()
	p.X, p.Y = x, y

	ts.Step(Input{})
	if !ts.World.ExitReached() || ts.World.FogEnabled() {
		t.Fatal("standing on the exit should reveal the map")
	}
	if got := ts.World.Fog().ExploredCount(); got != 60 {
		t.Fatalf("explored=%d, want every tile", got)
	}
	if a := ts.World.OverlayAlpha(0, 0); a != 0 {
		t.Fatalf("overlay alpha=%.2f after reveal, want 0", a)
	}
	if !ts.SimLog.HasEntry("world", "map_revealed", "") {
		t.Fatalf("missing reveal entry:\n%s", ts.SimLog.Format())
	}
	if a := ts.World.HostileAlpha(1); a != 1 {
		t.Fatalf("hostile alpha=%.2f after reveal, want 1", a)
	}
	for _, b := range ts.World.OverlayBytes(nil) {
		if b != 0 {
			t.Fatal("overlay bytes should all be zero after reveal")
		}
	}
}

func TestWorld_NoExitWithFogOff(t *testing.T) {
	ts := NewTestSim(
		WithGridRows(roomRows(10, 6)...),
		WithConfig(func(c *Config) { c.Fog.Enabled = false }),
	)
	x, y := ts.World.Grid().TileCenter(ts.World.Exit())
	ts.Player().X, ts.Player().Y = x, y
	ts.Step(Input{})
	if ts.World.ExitReached() {
		t.Fatal("exit check should only run while fog is on")
	}
}

func TestWorld_HostileAlphaFades(t *testing.T) {
	ts := NewTestSim(
		WithGridRows(roomRows(40, 6)...),
		WithPlayerAt(48, 96),
		WithHostile("green", 200, 96),
	)
	h := ts.Hostile(0)
	if a := ts.World.HostileAlpha(h.ID); a != 0 {
		t.Fatalf("initial alpha=%.2f, want 0", a)
	}
	ts.Step(Input{})
	if a := ts.World.HostileAlpha(h.ID); a != 1 {
		t.Fatalf("visible hostile alpha=%.2f, want 1", a)
	}

	h.X = 1200
	ts.Step(Input{})
	want := 1 - (1000.0/60)/350
	if a := ts.World.HostileAlpha(h.ID); !approx(a, want, 1e-9) {
		t.Fatalf("alpha after one hidden tick=%.6f, want %.6f", a, want)
	}
	ts.RunTicks(30, Input{})
	if a := ts.World.HostileAlpha(h.ID); a != 0 {
		t.Fatalf("alpha=%.4f after fading out, want 0", a)
	}
}

func TestWorld_HostileAlphaWithoutHiding(t *testing.T) {
	ts := NewTestSim(
		WithGridRows(roomRows(40, 6)...),
		WithConfig(func(c *Config) { c.Fog.HideHostiles = false }),
		WithPlayerAt(48, 96),
		WithHostile("green", 1200, 96),
	)
	ts.Step(Input{})
	if a := ts.World.HostileAlpha(1); a != 1 {
		t.Fatalf("alpha=%.2f with hiding off, want 1", a)
	}
}

func TestWorld_RevealEventsOnlyForNewTiles(t *testing.T) {
	ts := NewTestSim(WithGridRows(roomRows(12, 8)...))
	ts.World.Step(SimDT, Input{})
	first := 0
	for _, e := range ts.World.Events().Drain() {
		if e.Kind == EventTileRevealed {
			first++
		}
	}
	if first == 0 {
		t.Fatal("first step should reveal tiles")
	}
	ts.World.Step(SimDT, Input{})
	for _, e := range ts.World.Events().Drain() {
		if e.Kind == EventTileRevealed {
			t.Fatalf("standing still revealed %v again", e)
		}
	}
}

func TestWorld_FrameMirrorsAgents(t *testing.T) {
	ts := swingRoom()
	ts.Step(swingEast)
	f := ts.World.Frame()
	if f.Tick != 1 || len(f.Agents) != 2 {
		t.Fatalf("frame tick=%d agents=%d", f.Tick, len(f.Agents))
	}
	if f.PlayerX != ts.Player().X || f.AimX != 300 {
		t.Fatalf("frame player=(%.1f) aim=(%.1f)", f.PlayerX, f.AimX)
	}
	hv := f.Agents[1]
	if hv.Kind != AgentHostile || hv.Type != "green" || !approx(hv.HealthRatio, 102.0/120, 1e-9) {
		t.Fatalf("hostile view=%+v", hv)
	}
	if !f.Agents[0].AttackActive {
		t.Fatal("player view should show the open swing")
	}
}

// --- Persistence ---

func TestWorld_SaveRestoreRoundTrip(t *testing.T) {
	cfg := smallConfig()
	w := NewWorld(cfg, rand.New(rand.NewSource(3)), nil)
	w.Player().HP = 50
	w.Agent(1).HP = 5
	w.Agent(2).HP = 0
	s := w.Save()

	r := NewWorld(cfg, rand.New(rand.NewSource(99)), &s)
	if !r.Restored() {
		t.Fatal("restored world should report Restored")
	}
	if r.Grid().String() != w.Grid().String() {
		t.Fatal("grid did not survive the round trip")
	}
	if len(r.Agents()) != len(w.Agents()) {
		t.Fatalf("agents=%d, want %d", len(r.Agents()), len(w.Agents()))
	}
	for i, a := range w.Agents() {
		b := r.Agents()[i]
		if a.Kind != b.Kind || a.X != b.X || a.Y != b.Y || a.HP != b.HP || a.Type.Name != b.Type.Name {
			t.Fatalf("agent %d: saved %+v, restored %+v", i, a.View(), b.View())
		}
	}
	if r.Agent(2).State != StateDead {
		t.Fatalf("zero-hp hostile restored as %s", r.Agent(2).State)
	}
}

func TestWorld_RestoreRejectsBadGrids(t *testing.T) {
	cases := map[string][]string{
		"ragged":      {"###", "#.", "###"},
		"open border": {"#.#", "#.#", "###"},
		"no floor":    {"###", "###", "###"},
		"too small":   {"##", "##"},
		"bad glyph":   {"###", "#x#", "###"},
	}
	for name, rows := range cases {
		cfg := smallConfig()
		w := NewWorld(cfg, rand.New(rand.NewSource(1)), &SavedState{TileSize: 32, Rows: rows})
		if w.Restored() {
			t.Errorf("%s: grid should have been rejected", name)
			continue
		}
		if w.Grid().Cols != 25 {
			t.Errorf("%s: fallback grid cols=%d, want 25", name, w.Grid().Cols)
		}
	}
}

func TestWorld_RestoreSanitisesAgents(t *testing.T) {
	s := &SavedState{
		Rows: roomRows(10, 6),
		Agents: []AgentSnapshot{
			{Kind: AgentPlayer, X: -500, Y: -500, HP: 1e9},
			{Kind: AgentHostile, Type: "purple", X: 100, Y: 100, HP: 9999},
			{Kind: AgentHostile, Type: "red", X: 5, Y: 5, HP: 50},
		},
	}
	w := NewWorld(smallConfig(), rand.New(rand.NewSource(1)), s)
	if !w.Restored() || w.Grid().TileSize != 32 {
		t.Fatalf("restored=%v tile=%.0f", w.Restored(), w.Grid().TileSize)
	}
	p := w.Player()
	if !w.placeable(p.X, p.Y) || p.HP != p.HPMax {
		t.Fatalf("player pos=(%.0f,%.0f) hp=%.0f", p.X, p.Y, p.HP)
	}
	if len(w.Agents()) != 3 {
		t.Fatalf("agents=%d, want 3", len(w.Agents()))
	}
	unknown := w.Agent(1)
	if unknown.Type.Name != "green" || unknown.HP != 120 {
		t.Fatalf("unknown type restored as %s hp=%.0f", unknown.Type.Name, unknown.HP)
	}
	red := w.Agent(2)
	if red.Type.Name != "red" || red.HP != 50 || !w.placeable(red.X, red.Y) {
		t.Fatalf("red restored as hp=%.0f at (%.0f,%.0f)", red.HP, red.X, red.Y)
	}
}

func TestSavedState_NilIsUnusable(t *testing.T) {
	var s *SavedState
	if _, ok := s.usableGrid(32); ok {
		t.Fatal("nil saved state should be unusable")
	}
}
