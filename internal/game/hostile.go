package game

import (
	"math"
	"math/rand"
)

// HostileType is one hostile archetype.
type HostileType struct {
	Name   string  `json:"name"`
	HP     float64 `json:"hp"`
	Damage float64 `json:"damage"`
	Speed  float64 `json:"speed"`
	Aggro  float64 `json:"aggro"`  // chase radius
	Weight float64 `json:"weight"` // relative spawn frequency
}

// DefaultHostileTypes returns the stock table. The first entry is the
// fallback for unknown names.
func DefaultHostileTypes() []HostileType {
	return []HostileType{
		{Name: "green", HP: 120, Damage: 10, Speed: 34, Aggro: 210, Weight: 0.55},
		{Name: "yellow", HP: 240, Damage: 20, Speed: 40, Aggro: 270, Weight: 0.30},
		{Name: "red", HP: 480, Damage: 25, Speed: 46, Aggro: 400, Weight: 0.15},
	}
}

// PickHostileType draws a type by weight.
func PickHostileType(types []HostileType, rng *rand.Rand) HostileType {
	if len(types) == 0 {
		return DefaultHostileTypes()[0]
	}
	total := 0.0
	for _, t := range types {
		total += t.Weight
	}
	if total <= 0 {
		return types[rng.Intn(len(types))]
	}
	r := rng.Float64() * total
	acc := 0.0
	for _, t := range types {
		acc += t.Weight
		if r < acc {
			return t
		}
	}
	return types[len(types)-1]
}

// HostileTypeByName looks a type up by name. Unknown names return the
// first type (or the stock default) and false.
func HostileTypeByName(types []HostileType, name string) (HostileType, bool) {
	for _, t := range types {
		if t.Name == name {
			return t, true
		}
	}
	if len(types) == 0 {
		return DefaultHostileTypes()[0], false
	}
	return types[0], false
}

// newHostile creates a live hostile at (x,y) in the wander state.
func newHostile(id int, x, y float64, t HostileType, cfg HostileConfig, rng *rand.Rand) *Agent {
	return &Agent{
		ID:            id,
		Kind:          AgentHostile,
		Body:          Body{X: x, Y: y, Radius: cfg.Radius},
		HP:            t.HP,
		HPMax:         t.HP,
		State:         StateWander,
		Type:          t,
		wanderTimer:   rng.Float64() * 2,
		wanderHeading: rng.Float64() * 2 * math.Pi,
	}
}

// velocityBlend is the frame-rate normalised smoothing factor used to ease
// velocity toward a target: 1 - 0.03^(dt*60).
func velocityBlend(dt float64) float64 {
	return 1 - math.Pow(0.03, dt*60)
}

// updateHostile advances one hostile by dt. Dead hostiles are skipped.
// Distance to the player is measured before moving and is reused for the
// melee check after collision.
func updateHostile(h *Agent, w *World, dt float64) {
	if !h.Alive() {
		return
	}
	cfg := w.cfg.Hostiles
	h.attackCooldown = math.Max(0, h.attackCooldown-dt)
	h.attackWindow = math.Max(0, h.attackWindow-dt)

	p := w.player
	dx, dy := p.X-h.X, p.Y-h.Y
	dist := math.Hypot(dx, dy)

	var tx, ty, spd float64
	if dist < h.Type.Aggro {
		w.setState(h, StateChase)
		if dist > 1e-6 {
			tx, ty = dx/dist, dy/dist
			h.Facing = math.Atan2(dy, dx)
		}
		spd = h.Type.Speed
	} else {
		w.setState(h, StateWander)
		h.wanderTimer -= dt
		if h.wanderTimer <= 0 {
			h.wanderTimer = cfg.WanderMin + w.rng.Float64()*(cfg.WanderMax-cfg.WanderMin)
			h.wanderHeading = w.rng.Float64() * 2 * math.Pi
		}
		tx, ty = math.Cos(h.wanderHeading), math.Sin(h.wanderHeading)
		h.Facing = h.wanderHeading
		spd = h.Type.Speed * cfg.WanderSpeedMul
	}

	k := velocityBlend(dt)
	h.VX += (tx*spd - h.VX) * k
	h.VY += (ty*spd - h.VY) * k
	h.X += h.VX * dt
	h.Y += h.VY * dt

	ResolveBodyVsWalls(&h.Body, w.grid)
	for _, o := range w.agents {
		if o == h || o.Kind != AgentHostile || !o.Alive() {
			continue
		}
		ResolveCircleVsCircle(&h.Body, &o.Body)
	}

	if dist <= cfg.AttackRange+p.Radius && h.attackCooldown <= 0 {
		resolveHostileMelee(h, p, w)
	}
}
