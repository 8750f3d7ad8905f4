package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a headless run.
type SimLogEntry struct {
	Tick     int
	Agent    string  // label e.g. "P", "H7", or "--" for world events
	Kind     string  // "player", "hostile", or "--"
	Category string  // combat, state, vision, world
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] H7   combat    hostile_damaged  18.0 by P
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Agent, e.Category, e.Key, e.Value)
}

// SimLog collects structured entries from drained world events.
// Unlike the on-screen event log it is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tile reveal and
// state-flip entries are kept as well.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, agent, kind, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Agent:    agent,
		Kind:     kind,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, agent, kind, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, agent, kind, category, key, value, numVal)
}

// Record converts drained world events into entries. Agent labels are
// resolved against w.
func (sl *SimLog) Record(w *World, events []Event) {
	for _, e := range events {
		sl.Add(entryFor(w, e))
	}
}

func agentLabels(w *World, id int) (label, kind string) {
	a := w.Agent(id)
	if a == nil {
		return "--", "--"
	}
	return a.Label(), a.Kind.String()
}

// entryFor maps one event onto SimLog.Add arguments. Noisy kinds are
// routed through the verbose gate by the caller.
func entryFor(w *World, e Event) (int, string, string, string, string, string, float64) {
	label, kind := agentLabels(w, e.AgentID)
	src, _ := agentLabels(w, e.SourceID)
	switch e.Kind {
	case EventHostileDamaged, EventPlayerDamaged, EventHostileKilled:
		return e.Tick, label, kind, "combat", e.Kind.String(), fmt.Sprintf("%.1f by %s", e.Amount, src), e.Amount
	case EventPlayerDied:
		return e.Tick, label, kind, "combat", e.Kind.String(), "by " + src, 0
	case EventStateChanged:
		return e.Tick, label, kind, "state", e.Kind.String(), fmt.Sprintf("%s → %s", e.From, e.To), float64(e.To)
	case EventTileRevealed:
		return e.Tick, "--", "--", "vision", e.Kind.String(), fmt.Sprintf("(%d,%d)", e.TX, e.TY), 0
	default:
		return e.Tick, "--", "--", "world", e.Kind.String(), "", 0
	}
}

// RecordFiltered is Record with tile reveals and non-terminal state flips
// kept only in verbose mode.
func (sl *SimLog) RecordFiltered(w *World, events []Event) {
	for _, e := range events {
		noisy := e.Kind == EventTileRevealed || (e.Kind == EventStateChanged && e.To != StateDead)
		if noisy {
			sl.AddVerbose(entryFor(w, e))
			continue
		}
		sl.Add(entryFor(w, e))
	}
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterAgent returns entries for a specific agent label.
func (sl *SimLog) FilterAgent(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Agent == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// SumNum totals NumVal over entries matching category and key.
func (sl *SimLog) SumNum(category, key string) float64 {
	total := 0.0
	for _, e := range sl.Filter(category, key) {
		total += e.NumVal
	}
	return total
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the world state.
func (sl *SimLog) Summary(w *World) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", w.Tick())

	counts := map[string]map[AgentState]int{}
	var order []string
	for _, a := range w.Agents() {
		if a.Kind != AgentHostile {
			continue
		}
		if _, ok := counts[a.Type.Name]; !ok {
			counts[a.Type.Name] = map[AgentState]int{}
			order = append(order, a.Type.Name)
		}
		counts[a.Type.Name][a.State]++
	}
	for _, name := range order {
		c := counts[name]
		fmt.Fprintf(&sb, "%-7s wander=%d chase=%d dead=%d\n", name, c[StateWander], c[StateChase], c[StateDead])
	}

	p := w.Player()
	fmt.Fprintf(&sb, "player hp=%.0f/%.0f pos=(%.0f,%.0f)\n", p.HP, p.HPMax, p.X, p.Y)
	fmt.Fprintf(&sb, "kills=%d damage_dealt=%.0f damage_taken=%.0f\n",
		sl.CountCategory("combat", EventHostileKilled.String()),
		sl.SumNum("combat", EventHostileDamaged.String()),
		sl.SumNum("combat", EventPlayerDamaged.String()))
	return sb.String()
}
