package game

import (
	"math"
	"math/rand"
)

const (
	autopilotEngageDist = 200 // px; hostiles beyond this are ignored
	autopilotExitBias   = 0.35
)

// Autopilot turns a Frame into an Input by direct steering: close on the
// nearest visible live hostile and swing, otherwise wander with a pull
// toward the exit. It never plans paths.
type Autopilot struct {
	rng     *rand.Rand
	heading float64
	timer   float64
	swung   bool
}

// NewAutopilot creates an autopilot drawing from rng.
func NewAutopilot(rng *rand.Rand) *Autopilot {
	return &Autopilot{rng: rng, heading: rng.Float64() * 2 * math.Pi}
}

// Next returns the input for the next tick of w.
func (ap *Autopilot) Next(w *World, dt float64) Input {
	p := w.Player()
	if target := ap.nearestVisibleHostile(w); target != nil {
		dx, dy := target.X-p.X, target.Y-p.Y
		in := Input{MoveX: dx, MoveY: dy, AimX: target.X, AimY: target.Y}
		if math.Hypot(dx, dy) <= w.cfg.Combat.Range+target.Radius {
			// Release every other tick so each swing is a fresh press.
			ap.swung = !ap.swung
			in.Attack = ap.swung
		}
		return in
	}

	ap.timer -= dt
	if ap.timer <= 0 {
		ap.timer = 0.8 + ap.rng.Float64()*1.6
		ex, ey := w.grid.TileCenter(w.Exit())
		toExit := HeadingTo(p.X, p.Y, ex, ey)
		random := ap.rng.Float64() * 2 * math.Pi
		ap.heading = random + autopilotExitBias*normalizeAngle(toExit-random)
	}
	mx, my := math.Cos(ap.heading), math.Sin(ap.heading)
	return Input{MoveX: mx, MoveY: my, AimX: p.X + mx, AimY: p.Y + my}
}

func (ap *Autopilot) nearestVisibleHostile(w *World) *Agent {
	p := w.Player()
	var best *Agent
	bestD := autopilotEngageDist * 1.0
	for _, a := range w.Agents() {
		if a.Kind != AgentHostile || !a.Alive() {
			continue
		}
		if w.FogEnabled() && !w.Fog().IsVisibleAt(a.X, a.Y) {
			continue
		}
		if d := math.Hypot(a.X-p.X, a.Y-p.Y); d < bestD {
			best, bestD = a, d
		}
	}
	return best
}
