package game

import (
	"math"
	"strconv"
)

// AgentKind tags which variant an Agent is.
type AgentKind uint8

const (
	AgentPlayer  AgentKind = iota // The controllable agent
	AgentHostile                  // An autonomous hostile
)

// String returns a short name for the kind.
func (k AgentKind) String() string {
	switch k {
	case AgentPlayer:
		return "player"
	case AgentHostile:
		return "hostile"
	default:
		return "unknown"
	}
}

// AgentState is the behaviour state of an agent. The player uses Idle and
// Attacking; hostiles use Wander, Chase and Dead.
type AgentState uint8

const (
	StateIdle      AgentState = iota // Player: no swing in progress
	StateAttacking                   // Player: attack window open
	StateWander                      // Hostile: roaming on a random heading
	StateChase                       // Hostile: pursuing the player
	StateDead                        // Hostile: terminal
)

// String returns a short name for the state.
func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAttacking:
		return "attacking"
	case StateWander:
		return "wander"
	case StateChase:
		return "chase"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// --- Capabilities ---

// Positioned is anything with a world-space centre.
type Positioned interface {
	Position() (x, y float64)
}

// Collidable exposes the circle used for push-out.
type Collidable interface {
	Positioned
	Collider() *Body
}

// Damageable has health and can be hurt.
type Damageable interface {
	Health() (hp, hpMax float64)
	Alive() bool
	TakeDamage(amount float64) float64
}

// Drawable produces the read-only view handed to renderers.
type Drawable interface {
	View() AgentView
}

// Agent is one player or hostile. Kind selects which fields and update
// rules apply; there is no per-kind type.
type Agent struct {
	ID   int
	Kind AgentKind
	Body

	HP     float64
	HPMax  float64
	Facing float64
	State  AgentState

	// Type is the hostile archetype. Zero for the player.
	Type HostileType

	attackCooldown float64
	attackWindow   float64

	// Player swing latches.
	swingHeld  bool // the current press already opened a swing
	hitLatched bool // the current swing already connected

	// Hostile wander state.
	wanderTimer   float64
	wanderHeading float64
}

var (
	_ Collidable = (*Agent)(nil)
	_ Damageable = (*Agent)(nil)
	_ Drawable   = (*Agent)(nil)
)

// Position returns the agent's centre.
func (a *Agent) Position() (float64, float64) { return a.X, a.Y }

// Collider returns the agent's body for collision resolution.
func (a *Agent) Collider() *Body { return &a.Body }

// Health returns current and maximum hit points.
func (a *Agent) Health() (float64, float64) { return a.HP, a.HPMax }

// Alive reports whether hp is above zero.
func (a *Agent) Alive() bool { return a.HP > 0 }

// HealthRatio returns hp/hpMax in [0,1].
func (a *Agent) HealthRatio() float64 {
	if a.HPMax <= 0 {
		return 0
	}
	return clampFloat(a.HP/a.HPMax, 0, 1)
}

// AttackActive reports whether the agent's attack window is open.
func (a *Agent) AttackActive() bool { return a.attackWindow > 0 }

// TakeDamage subtracts amount from hp, floored at zero, and returns the
// amount actually applied. A hostile brought to zero becomes Dead and
// stops in place.
func (a *Agent) TakeDamage(amount float64) float64 {
	if amount <= 0 || a.HP <= 0 {
		return 0
	}
	applied := math.Min(amount, a.HP)
	a.HP -= applied
	if a.HP <= 0 {
		a.HP = 0
		if a.Kind == AgentHostile {
			a.State = StateDead
			a.VX, a.VY = 0, 0
			a.attackWindow = 0
		}
	}
	return applied
}

// View returns the renderer-facing snapshot of the agent.
func (a *Agent) View() AgentView {
	v := AgentView{
		ID:           a.ID,
		Kind:         a.Kind,
		X:            a.X,
		Y:            a.Y,
		Radius:       a.Radius,
		Facing:       a.Facing,
		State:        a.State,
		HealthRatio:  a.HealthRatio(),
		AttackActive: a.AttackActive(),
		Alpha:        1,
	}
	if a.Kind == AgentHostile {
		v.Type = a.Type.Name
	}
	return v
}

// Label returns a short identifier for logs, e.g. "P" or "H12".
func (a *Agent) Label() string {
	if a.Kind == AgentPlayer {
		return "P"
	}
	return "H" + strconv.Itoa(a.ID)
}
