package game

import "math"

// AttackIntent is the transient description of one swing, built from the
// player each tick the window is open and discarded after resolution.
type AttackIntent struct {
	OriginX, OriginY float64
	Facing           float64
	Range            float64
	HalfAngle        float64
	Damage           float64
}

// attackIntent returns the player's swing for this tick. ok is false when
// no window is open or the swing already connected.
func attackIntent(p *Agent, cc CombatConfig) (AttackIntent, bool) {
	if p.attackWindow <= 0 || p.hitLatched {
		return AttackIntent{}, false
	}
	return AttackIntent{
		OriginX:   p.X,
		OriginY:   p.Y,
		Facing:    p.Facing,
		Range:     cc.Range,
		HalfAngle: cc.Cone,
		Damage:    cc.Damage,
	}, true
}

// inArc reports whether target lies within the intent's reach and cone.
func (ai AttackIntent) inArc(tx, ty, targetRadius float64) bool {
	dx := tx - ai.OriginX
	dy := ty - ai.OriginY
	if math.Hypot(dx, dy) > ai.Range+targetRadius {
		return false
	}
	return math.Abs(normalizeAngle(math.Atan2(dy, dx)-ai.Facing)) <= ai.HalfAngle
}

// resolvePlayerAttack damages every live hostile the open swing reaches.
// The hit latch is set once anything connects, so one press damages each
// target at most once however long the window stays open.
func resolvePlayerAttack(w *World) {
	p := w.player
	cc := w.cfg.Combat
	ai, ok := attackIntent(p, cc)
	if !ok {
		return
	}
	step := w.grid.TileSize / cc.LOSStepDiv

	hit := false
	for _, h := range w.agents {
		if h.Kind != AgentHostile || !h.Alive() {
			continue
		}
		if !ai.inArc(h.X, h.Y, h.Radius) {
			continue
		}
		if cc.RequireLOS && !HasLineOfSight(w.grid, ai.OriginX, ai.OriginY, h.X, h.Y, step) {
			continue
		}
		w.damage(h, p, ai.Damage)
		hit = true
	}
	p.hitLatched = hit
}

// resolveHostileMelee lands a hostile's hit on the player and restarts
// the hostile's cooldown. There is no miss chance.
func resolveHostileMelee(h, p *Agent, w *World) {
	if !p.Alive() {
		return
	}
	cfg := w.cfg.Hostiles
	h.attackCooldown = cfg.AttackCooldown
	h.attackWindow = cfg.AttackWindow
	w.damage(p, h, h.Type.Damage)
}
