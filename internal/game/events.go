package game

import "fmt"

// EventKind identifies what happened.
type EventKind uint8

const (
	EventHostileDamaged EventKind = iota // a hostile lost hp
	EventHostileKilled                   // a hostile reached zero hp
	EventPlayerDamaged                   // the player lost hp
	EventPlayerDied                      // the player reached zero hp
	EventStateChanged                    // an agent changed behaviour state
	EventTileRevealed                    // a tile was explored for the first time
	EventMapRevealed                     // the exit was reached and the whole map revealed
)

// String returns the snake_case name used in logs.
func (k EventKind) String() string {
	switch k {
	case EventHostileDamaged:
		return "hostile_damaged"
	case EventHostileKilled:
		return "hostile_killed"
	case EventPlayerDamaged:
		return "player_damaged"
	case EventPlayerDied:
		return "player_died"
	case EventStateChanged:
		return "state_changed"
	case EventTileRevealed:
		return "tile_revealed"
	case EventMapRevealed:
		return "map_revealed"
	default:
		return "unknown"
	}
}

// Event is one thing the world reports to collaborators. Which fields are
// meaningful depends on Kind:
//
//	HostileDamaged, HostileKilled, PlayerDamaged: AgentID, SourceID, Amount
//	PlayerDied: AgentID, SourceID
//	StateChanged: AgentID, From, To
//	TileRevealed: TX, TY
//	MapRevealed: none
type Event struct {
	Kind     EventKind
	Tick     int
	AgentID  int
	SourceID int
	Amount   float64
	TX, TY   int
	From, To AgentState
}

// String formats the event for debugging.
func (e Event) String() string {
	switch e.Kind {
	case EventHostileDamaged, EventHostileKilled, EventPlayerDamaged:
		return fmt.Sprintf("%s agent=%d by=%d amount=%.1f", e.Kind, e.AgentID, e.SourceID, e.Amount)
	case EventPlayerDied:
		return fmt.Sprintf("%s by=%d", e.Kind, e.SourceID)
	case EventStateChanged:
		return fmt.Sprintf("%s agent=%d %s -> %s", e.Kind, e.AgentID, e.From, e.To)
	case EventTileRevealed:
		return fmt.Sprintf("%s (%d,%d)", e.Kind, e.TX, e.TY)
	default:
		return e.Kind.String()
	}
}

// EventQueue buffers events until a collaborator drains them.
type EventQueue struct {
	events []Event
}

// Push appends an event.
func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int { return len(q.events) }

// Pending returns the queued events without removing them.
func (q *EventQueue) Pending() []Event { return q.events }

// Drain returns all pending events and empties the queue.
func (q *EventQueue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}
