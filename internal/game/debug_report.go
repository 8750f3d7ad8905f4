package game

import (
	"fmt"
	"sort"
	"strings"
)

// DebugReport renders a plain-text dump of the world for bug reports:
// seed, tick, player, hostile census, exploration, and the last
// lastEntries lines of sl (which may be nil).
func DebugReport(w *World, sl *SimLog, lastEntries int) string {
	if lastEntries <= 0 {
		lastEntries = 40
	}
	var b strings.Builder
	g := w.Grid()
	p := w.Player()

	fmt.Fprintf(&b, "--- Dungeon-Sense debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick=%d grid=%dx%d tile=%.0f restored=%v\n", w.Seed, w.Tick(), g.Cols, g.Rows, g.TileSize, w.Restored())
	fmt.Fprintf(&b, "player pos=(%.1f,%.1f) vel=(%.1f,%.1f) hp=%.0f/%.0f facing=%.2f state=%s\n",
		p.X, p.Y, p.VX, p.VY, p.HP, p.HPMax, p.Facing, p.State)
	ec, er := w.Exit()
	fmt.Fprintf(&b, "exit=(%d,%d) fog=%v exit_reached=%v game_over=%v\n", ec, er, w.FogEnabled(), w.ExitReached(), w.GameOver())

	floor := g.FloorCount()
	explored := 0
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.IsFloor(c, r) && w.Fog().IsExplored(c, r) {
				explored++
			}
		}
	}
	pct := 0.0
	if floor > 0 {
		pct = 100 * float64(explored) / float64(floor)
	}
	fmt.Fprintf(&b, "floor=%d dead_ends=%d explored_floor=%d (%.1f%%)\n\n", floor, g.DeadEnds(), explored, pct)

	census := map[string][3]int{}
	for _, a := range w.Agents() {
		if a.Kind != AgentHostile {
			continue
		}
		c := census[a.Type.Name]
		switch a.State {
		case StateWander:
			c[0]++
		case StateChase:
			c[1]++
		case StateDead:
			c[2]++
		}
		census[a.Type.Name] = c
	}
	names := make([]string, 0, len(census))
	for n := range census {
		names = append(names, n)
	}
	sort.Strings(names)
	b.WriteString("== hostiles ==\n")
	for _, n := range names {
		c := census[n]
		fmt.Fprintf(&b, "%-8s wander=%-3d chase=%-3d dead=%-3d\n", n, c[0], c[1], c[2])
	}

	if sl != nil {
		entries := sl.Entries()
		if len(entries) > lastEntries {
			entries = entries[len(entries)-lastEntries:]
		}
		fmt.Fprintf(&b, "\n== last %d log entries ==\n", len(entries))
		for _, e := range entries {
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
