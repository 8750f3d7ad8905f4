package game

import "math"

// Input is what the input collaborator hands the world each tick.
type Input struct {
	MoveX, MoveY float64 // movement intent; normalised when non-zero
	AimX, AimY   float64 // world-space aim point
	AimAngle     float64 // used instead of the aim point when UseAimAngle is set
	UseAimAngle  bool
	Attack       bool // attack held this tick
}

func newPlayer(id int, x, y float64, cfg PlayerConfig) *Agent {
	return &Agent{
		ID:    id,
		Kind:  AgentPlayer,
		Body:  Body{X: x, Y: y, Radius: cfg.Radius},
		HP:    cfg.HP,
		HPMax: cfg.HP,
		State: StateIdle,
	}
}

// updatePlayer applies input, integrates and resolves against walls.
func updatePlayer(p *Agent, in Input, w *World, dt float64) {
	pc := w.cfg.Player

	if in.UseAimAngle {
		p.Facing = in.AimAngle
	} else {
		p.Facing = HeadingTo(p.X, p.Y, in.AimX, in.AimY)
	}

	ax, ay := in.MoveX, in.MoveY
	moving := false
	if l := math.Hypot(ax, ay); l > 0 {
		ax, ay = ax/l, ay/l
		moving = true
	}
	p.VX += ax * pc.Accel * dt
	p.VY += ay * pc.Accel * dt

	damp := pc.DampIdle
	if moving {
		damp = pc.DampMoving
	}
	f := math.Pow(damp, dt*60)
	p.VX *= f
	p.VY *= f
	if sp := math.Hypot(p.VX, p.VY); sp > pc.MaxSpeed && sp > 0 {
		s := pc.MaxSpeed / sp
		p.VX *= s
		p.VY *= s
	}

	updateSwing(p, in.Attack, w.cfg.Combat, dt)
	if p.AttackActive() {
		w.setState(p, StateAttacking)
	} else {
		w.setState(p, StateIdle)
	}

	p.X += p.VX * dt
	p.Y += p.VY * dt
	ResolveBodyVsWalls(&p.Body, w.grid)
}

// updateSwing advances the player's attack timers and latches.
//
// A press opens at most one swing. A press made during cooldown is held
// over and swings as soon as the cooldown runs out. Releasing outside an
// open window clears the hit latch for the next press.
func updateSwing(p *Agent, attack bool, cc CombatConfig, dt float64) {
	p.attackCooldown = math.Max(0, p.attackCooldown-dt)
	p.attackWindow = math.Max(0, p.attackWindow-dt)

	if !attack {
		p.swingHeld = false
		if p.attackWindow <= 0 {
			p.hitLatched = false
		}
		return
	}
	if p.swingHeld || p.attackCooldown > 0 {
		return
	}
	p.swingHeld = true
	p.hitLatched = false
	p.attackCooldown = cc.Cooldown
	p.attackWindow = cc.Window
}
