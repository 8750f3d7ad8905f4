package game

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// --- Snapshot types ---

// TypeTally captures one hostile type's population at report time.
type TypeTally struct {
	Name   string
	Spawn  int
	Alive  int
	Dead   int
	Chase  int
	Wander int
}

// RunReport summarises one headless run.
type RunReport struct {
	Seed  int64
	Ticks int

	// Level shape.
	Cols, Rows int
	Floor      int
	DeadEnds   int

	// Outcome.
	Survived    bool
	DeathTick   int // -1 if alive
	ExitReached bool
	ExitTick    int // -1 if never
	PlayerHP    float64

	// Combat.
	Kills       int
	DamageDealt float64
	DamageTaken float64
	HitsTaken   int

	// Exploration.
	ExploredFloor int
	ExploredPct   float64

	Types []TypeTally
}

// RunAutopilot builds a TestSim with opts, drives it with an Autopilot for
// up to ticks steps, and reports. The run stops early when the player dies.
func RunAutopilot(seed int64, ticks int, opts ...SimOption) RunReport {
	return BuildRunReport(AutopilotSim(seed, ticks, opts...))
}

// AutopilotSim is RunAutopilot without the report: it returns the finished
// sim so callers can inspect the world or its log.
func AutopilotSim(seed int64, ticks int, opts ...SimOption) *TestSim {
	all := append([]SimOption{WithSeed(seed)}, opts...)
	ts := NewTestSim(all...)
	ap := NewAutopilot(rand.New(rand.NewSource(seed ^ 0x5eed))) // #nosec G404 -- game only
	for i := 0; i < ticks && !ts.World.GameOver(); i++ {
		ts.Step(ap.Next(ts.World, SimDT))
	}
	return ts
}

// BuildRunReport derives a RunReport from a finished TestSim.
func BuildRunReport(ts *TestSim) RunReport {
	w := ts.World
	g := w.Grid()
	r := RunReport{
		Seed:      w.Seed,
		Ticks:     w.Tick(),
		Cols:      g.Cols,
		Rows:      g.Rows,
		Floor:     g.FloorCount(),
		DeadEnds:  g.DeadEnds(),
		Survived:  !w.GameOver(),
		DeathTick: -1,
		ExitTick:  -1,
		PlayerHP:  w.Player().HP,

		ExitReached: w.ExitReached(),
		Kills:       ts.SimLog.CountCategory("combat", EventHostileKilled.String()),
		DamageDealt: ts.SimLog.SumNum("combat", EventHostileDamaged.String()),
		DamageTaken: ts.SimLog.SumNum("combat", EventPlayerDamaged.String()),
		HitsTaken:   ts.SimLog.CountCategory("combat", EventPlayerDamaged.String()),
	}
	if e, ok := ts.SimLog.LastOf("combat", EventPlayerDied.String()); ok {
		r.DeathTick = e.Tick
	}
	if e, ok := ts.SimLog.LastOf("world", EventMapRevealed.String()); ok {
		r.ExitTick = e.Tick
	}

	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if g.IsFloor(col, row) && w.Fog().IsExplored(col, row) {
				r.ExploredFloor++
			}
		}
	}
	if r.Floor > 0 {
		r.ExploredPct = 100 * float64(r.ExploredFloor) / float64(r.Floor)
	}

	byName := map[string]*TypeTally{}
	for _, a := range w.Agents() {
		if a.Kind != AgentHostile {
			continue
		}
		t, ok := byName[a.Type.Name]
		if !ok {
			t = &TypeTally{Name: a.Type.Name}
			byName[a.Type.Name] = t
		}
		t.Spawn++
		switch a.State {
		case StateDead:
			t.Dead++
		case StateChase:
			t.Chase++
			t.Alive++
		default:
			t.Wander++
			t.Alive++
		}
	}
	for _, t := range byName {
		r.Types = append(r.Types, *t)
	}
	sort.Slice(r.Types, func(i, j int) bool { return r.Types[i].Name < r.Types[j].Name })
	return r
}

// Format renders the report as a short block of text.
func (r RunReport) Format() string {
	var sb strings.Builder
	outcome := "alive"
	if !r.Survived {
		outcome = fmt.Sprintf("died@%d", r.DeathTick)
	}
	exit := "no"
	if r.ExitReached {
		exit = fmt.Sprintf("yes@%d", r.ExitTick)
	}
	fmt.Fprintf(&sb, "seed=%d ticks=%d grid=%dx%d floor=%d dead_ends=%d\n", r.Seed, r.Ticks, r.Cols, r.Rows, r.Floor, r.DeadEnds)
	fmt.Fprintf(&sb, "  outcome=%s hp=%.0f exit=%s explored=%.1f%%\n", outcome, r.PlayerHP, exit, r.ExploredPct)
	fmt.Fprintf(&sb, "  kills=%d dealt=%.0f taken=%.0f hits_taken=%d\n", r.Kills, r.DamageDealt, r.DamageTaken, r.HitsTaken)
	for _, t := range r.Types {
		fmt.Fprintf(&sb, "  %-7s spawn=%-3d alive=%-3d dead=%-3d chase=%-3d wander=%-3d\n", t.Name, t.Spawn, t.Alive, t.Dead, t.Chase, t.Wander)
	}
	return sb.String()
}
